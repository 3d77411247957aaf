package orchestrator

import (
	"fmt"

	"github.com/corestream/termui/internal/tui/ansi"
	"github.com/corestream/termui/internal/tui/mdstream"
)

// SpinnerMode is the kind of activity the spinner row communicates.
type SpinnerMode int

const (
	SpinnerHidden SpinnerMode = iota
	SpinnerWorking
	SpinnerRateLimited
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerColor = ansi.NewColor("#83a598")

// Spinner tracks the status row's animation state: a plain working
// indicator, or a rate-limit countdown whose seconds tick down through
// TickSecond, once per wall-clock second.
type Spinner struct {
	Mode         SpinnerMode
	frame        int
	remainingSec int
}

// Tick advances the animation frame. It does not touch a rate-limit
// countdown's remaining seconds; TickSecond does that.
func (s *Spinner) Tick() {
	if s.Mode == SpinnerHidden {
		return
	}
	s.frame = (s.frame + 1) % len(spinnerFrames)
}

// TickSecond decrements a rate-limit countdown by one second, hiding the
// spinner when it expires. Called once per wall-clock second, distinct from
// the finer animation Tick.
func (s *Spinner) TickSecond() {
	if s.Mode != SpinnerRateLimited {
		return
	}
	s.remainingSec--
	if s.remainingSec <= 0 {
		s.Mode = SpinnerHidden
	}
}

// ShowWorking switches the spinner to a plain working indicator.
func (s *Spinner) ShowWorking() {
	s.Mode = SpinnerWorking
}

// ShowRateLimit switches the spinner to a rate-limit countdown.
func (s *Spinner) ShowRateLimit(seconds int) {
	s.Mode = SpinnerRateLimited
	s.remainingSec = seconds
}

// Hide dismisses the spinner entirely.
func (s *Spinner) Hide() {
	s.Mode = SpinnerHidden
}

// Render produces the spinner row's styled line, or nil when hidden.
func (s *Spinner) Render() *mdstream.Line {
	switch s.Mode {
	case SpinnerWorking:
		line := plainLine(spinnerFrames[s.frame]+" Working…", spinnerColor)
		return &line
	case SpinnerRateLimited:
		text := fmt.Sprintf("%s Rate limited — retrying in %ds", spinnerFrames[s.frame], s.remainingSec)
		line := plainLine(text, spinnerColor)
		return &line
	default:
		return nil
	}
}
