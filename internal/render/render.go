// Package render turns a schedule and its derived summaries into text for
// the terminal: a Markdown report rendered with glamour, or plain cards.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/pbaille/calmday/internal/domain"
	"github.com/pbaille/calmday/internal/explain"
	"github.com/pbaille/calmday/internal/sensory"
)

// Report bundles everything shown for one schedule
type Report struct {
	Schedule     domain.Schedule       `json:"schedule"`
	Summary      sensory.Summary       `json:"summary"`
	Explanations []explain.Explanation `json:"explanations,omitempty"`
	Reflection   bool                  `json:"-"`
}

// Messages shown under the sensory meter
const (
	WarnMessage     = "⚠️ This schedule has high stimulation. Consider adding calming breaks between activities."
	BalancedMessage = "✅ Good balance! This schedule supports regulation."
)

// HelpMarkdown explains the meter and the reflection panel
const HelpMarkdown = `# How does this work?

## Sensory balance meter

The meter shows the overall stimulation level of the schedule:

- **Calming**: low stimulation activities
- **Neutral**: balanced activities
- **Stimulating**: high energy activities

It updates as you add or rearrange activities. If it shows high
stimulation, consider adding calming breaks.

## Reflection

Reflection shows how the schedule supports your child: the number of
regulation breaks, the overall balance and an encouraging note. You are not
"doing it wrong".
`

// Cards renders one line per entry: position, icon, label and band
func Cards(s domain.Schedule, loads func(domain.ActivityEntry) float64) string {
	var sb strings.Builder
	for i, e := range s {
		fmt.Fprintf(&sb, "%2d. %s %s [%s]\n", i+1, e.Icon, e.Label, sensory.BandFor(loads(e)))
	}
	return sb.String()
}

// Markdown builds the full report
func Markdown(r Report) string {
	var sb strings.Builder

	sb.WriteString("# Visual Schedule\n\n")
	if len(r.Schedule) == 0 {
		sb.WriteString("Choose a template or enter your daily plan to create visual cards.\n")
		return sb.String()
	}

	for i, e := range r.Schedule {
		fmt.Fprintf(&sb, "%d. %s **%s** (`%s`)\n", i+1, e.Icon, e.Label, e.ID)
	}

	m := r.Summary
	sb.WriteString("\n## 🎨 Sensory Balance\n\n")
	fmt.Fprintf(&sb, "**%s** · %d%%\n\n", m.Band, m.Percentage)
	fmt.Fprintf(&sb, "📊 %d calming activities • %d active activities\n\n", m.CalmingCount, m.ActiveCount)
	if m.Warn {
		sb.WriteString("> " + WarnMessage + "\n\n")
	}
	if m.Balanced {
		sb.WriteString("> " + BalancedMessage + "\n\n")
	}

	if len(r.Explanations) > 0 {
		sb.WriteString("## 🧠 Why This Order?\n\n")
		for _, e := range r.Explanations {
			fmt.Fprintf(&sb, "- %s %s\n", e.Icon, e.Text)
		}
		sb.WriteString("\n")
	}

	if r.Reflection {
		sb.WriteString(Reflection(m, len(r.Schedule)))
	}

	return sb.String()
}

// Reflection renders the end-of-day reflection block
func Reflection(m sensory.Summary, total int) string {
	var sb strings.Builder
	sb.WriteString("## 💭 End-of-Day Reflection\n\n")
	fmt.Fprintf(&sb, "- Regulation breaks: **%d**\n", m.CalmingCount)
	fmt.Fprintf(&sb, "- Total activities: **%d**\n\n", total)
	sb.WriteString("**Great job supporting your child! 🎉** This routine is designed to reduce transition stress and support regulation.\n\n")
	sb.WriteString("💙 Remember: you're not \"doing it wrong\". Every routine that supports your child is a win.\n")
	return sb.String()
}

// Terminal renders Markdown with glamour, wrapping at width. On renderer
// errors the Markdown source is returned.
func Terminal(md string, width int) string {
	return terminal(md, width, "dark")
}

func terminal(md string, width int, style string) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
