package speech

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

// blockingSpeaker records what it was asked to say and blocks until
// released or cancelled.
type blockingSpeaker struct {
	started chan string
	release chan error
}

func newBlockingSpeaker() *blockingSpeaker {
	return &blockingSpeaker{
		started: make(chan string, 10),
		release: make(chan error),
	}
}

func (b *blockingSpeaker) Speak(ctx context.Context, text string) error {
	b.started <- text
	select {
	case err := <-b.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for speech result")
		return Result{}
	}
}

func TestPlayerNilSpeakerUnsupported(t *testing.T) {
	p := NewPlayer(nil, nil)
	assert.False(t, p.Supported())

	var none *Player
	assert.False(t, none.Supported())

	ch, err := p.Play("task-0", "Wake up")
	assert.Nil(t, ch)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Empty(t, p.Speaking())
}

func TestPlayerCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)

	sp := newBlockingSpeaker()
	p := NewPlayer(sp, zaptest.NewLogger(t))

	ch, err := p.Play("task-0", "Wake up")
	require.NoError(t, err)
	assert.Equal(t, "Wake up", <-sp.started)
	assert.Equal(t, "task-0", p.Speaking())

	sp.release <- nil
	r := receive(t, ch)
	assert.Equal(t, Result{ID: "task-0"}, r)
	assert.Empty(t, p.Speaking())

	p.Wait()
}

func TestPlayerCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	sp := newBlockingSpeaker()
	p := NewPlayer(sp, zaptest.NewLogger(t))

	first, err := p.Play("task-0", "Wake up")
	require.NoError(t, err)
	<-sp.started

	second, err := p.Play("task-1", "Breakfast")
	require.NoError(t, err)

	r := receive(t, first)
	assert.Equal(t, "task-0", r.ID)
	assert.True(t, r.Cancelled())

	<-sp.started
	// the cancelled playback must not clear the newer marker
	assert.Equal(t, "task-1", p.Speaking())

	sp.release <- nil
	r = receive(t, second)
	assert.NoError(t, r.Err)
	assert.Empty(t, p.Speaking())

	p.Wait()
}

func TestPlayerErrorClearsMarker(t *testing.T) {
	defer goleak.VerifyNone(t)

	sp := newBlockingSpeaker()
	p := NewPlayer(sp, zaptest.NewLogger(t))

	ch, err := p.Play("task-0", "Lunch")
	require.NoError(t, err)
	<-sp.started

	boom := errors.New("audio device busy")
	sp.release <- boom
	r := receive(t, ch)
	assert.ErrorIs(t, r.Err, boom)
	assert.False(t, r.Cancelled())
	assert.Empty(t, p.Speaking())

	p.Wait()
}

func TestPlayerStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	sp := newBlockingSpeaker()
	p := NewPlayer(sp, nil)

	ch, err := p.Play("task-0", "Dinner")
	require.NoError(t, err)
	<-sp.started

	p.Stop()
	assert.Empty(t, p.Speaking())
	assert.True(t, receive(t, ch).Cancelled())

	p.Wait()
}

func TestNewCommandSpeakerMissing(t *testing.T) {
	_, err := NewCommandSpeaker("")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewCommandSpeaker("calmday-no-such-tts-binary")
	assert.ErrorIs(t, err, ErrUnsupported)
}
