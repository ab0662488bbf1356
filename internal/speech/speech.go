package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupported is returned when no text-to-speech backend is available
var ErrUnsupported = errors.New("speech synthesis not supported")

// Speaker reads text aloud, blocking until playback ends or ctx is done
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// CommandSpeaker speaks by running an external TTS program such as espeak
// or say, with the text as the last argument.
type CommandSpeaker struct {
	path string
	args []string
}

// NewCommandSpeaker resolves command on PATH
func NewCommandSpeaker(command string, args ...string) (*CommandSpeaker, error) {
	if command == "" {
		return nil, ErrUnsupported
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrUnsupported, command)
	}
	return &CommandSpeaker{path: path, args: args}, nil
}

// Speak runs the TTS program
func (c *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, c.args...), text)
	if err := exec.CommandContext(ctx, c.path, args...).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run %s: %w", c.path, err)
	}
	return nil
}

// Result reports how a playback ended
type Result struct {
	ID  string
	Err error
}

// Cancelled reports whether the playback was interrupted by a newer one or Stop
func (r Result) Cancelled() bool {
	return errors.Is(r.Err, context.Canceled)
}

// Player plays at most one card at a time
type Player struct {
	speaker Speaker
	logger  *zap.Logger

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	seq     uint64

	wg sync.WaitGroup
}

// NewPlayer creates a Player. A nil speaker makes every Play return
// ErrUnsupported.
func NewPlayer(speaker Speaker, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{speaker: speaker, logger: logger}
}

// Supported reports whether a speaker is configured
func (p *Player) Supported() bool {
	return p != nil && p.speaker != nil
}

// Play cancels any in-flight playback and starts reading text for id.
// The returned channel receives exactly one Result.
func (p *Player) Play(id, text string) (<-chan Result, error) {
	if p.speaker == nil {
		return nil, ErrUnsupported
	}

	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.seq++
	seq := p.seq
	p.current = id
	p.cancel = cancel
	p.mu.Unlock()

	p.logger.Debug("speech started", zap.String("id", id))

	done := make(chan Result, 1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		err := p.speaker.Speak(ctx, text)

		p.mu.Lock()
		if p.seq == seq {
			p.current = ""
			p.cancel = nil
		}
		p.mu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Warn("speech failed", zap.String("id", id), zap.Error(err))
		}
		done <- Result{ID: id, Err: err}
	}()

	return done, nil
}

// Stop cancels the current playback, if any
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.current = ""
}

// Speaking returns the id currently being read, or ""
func (p *Player) Speaking() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Wait blocks until every started playback has returned
func (p *Player) Wait() {
	p.wg.Wait()
}
