package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorCyan  = "\033[36m"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	loadingText   = output.LabelLoading
	savingText    = output.LabelSaving
	spinnerPeriod = 100 * time.Millisecond
)

// Terminal is the CLI presenter. Status lines and progress go to an error
// stream (stderr) so that results on stdout can be piped.
type Terminal struct {
	IsTerminal bool
	UseColor   bool
	Quiet      bool

	out          io.Writer
	mu           sync.Mutex
	spinnerIndex int
	stop         chan struct{}
	done         chan struct{}
	cards        []card.Card
}

// NewTerminal creates a Terminal writing to stderr
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal, // Only use color in terminal
		out:        os.Stderr,
	}
}

// NewTerminalTo creates a Terminal writing plain text to w
func NewTerminalTo(w io.Writer) *Terminal {
	return &Terminal{out: w}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Fprint(t.out, "\r\033[K")
	}
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

// SetBusy animates a progress line while a request runs (terminal only)
func (t *Terminal) SetBusy(control lookup.Control, busy bool) {
	if !t.IsTerminal || t.Quiet {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !busy {
		t.stopSpinner()
		return
	}
	if t.stop != nil {
		return
	}

	text := loadingText
	if control == lookup.ControlSave {
		text = savingText
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.spin(text, t.stop, t.done)
}

func (t *Terminal) spin(text string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerPeriod)
	defer ticker.Stop()

	for {
		t.mu.Lock()
		t.ClearLine()
		fmt.Fprintf(t.out, "%s %s", t.Color(ColorCyan, t.Spinner()), text)
		t.mu.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// stopSpinner ends the progress line; t.mu must be held
func (t *Terminal) stopSpinner() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	done := t.done
	t.stop, t.done = nil, nil

	t.mu.Unlock()
	<-done
	t.mu.Lock()
	t.ClearLine()
}

// ClearStatus has nothing to retract on a line-oriented stream
func (t *Terminal) ClearStatus() {}

// ShowStatus prints the status line, green for success and red for errors
func (t *Terminal) ShowStatus(status lookup.Status) {
	if t.Quiet && !status.IsError() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	color := ColorGreen
	if status.IsError() {
		color = ColorRed
	}
	fmt.Fprintln(t.out, t.Color(color, status.Message))
}

// Render keeps the cards; commands print them in the requested format
func (t *Terminal) Render(cards []card.Card) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cards = cards
}

// Cards returns the last rendered cards
func (t *Terminal) Cards() []card.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cards
}
