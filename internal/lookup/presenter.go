package lookup

import (
	"sync"

	"github.com/vijay-prabhu/gcgcards/internal/card"
)

// Control identifies a user control that is disabled while a request runs
type Control string

const (
	ControlSearch Control = "search"
	ControlSave   Control = "save"
)

// StatusKind classifies a status message
type StatusKind string

const (
	StatusOK    StatusKind = "ok"
	StatusError StatusKind = "error"
)

// Status is a user-visible status line
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// IsError reports whether the status describes a failure
func (s Status) IsError() bool {
	return s.Kind == StatusError
}

// Presenter receives every UI side effect of the controller.
// SetBusy(ControlSearch, true) is also the cue to show the loading placeholder.
// Render always replaces the whole result area; nil means "no results".
type Presenter interface {
	SetBusy(control Control, busy bool)
	ClearStatus()
	ShowStatus(status Status)
	Render(cards []card.Card)
}

// Capture is a Presenter that keeps what it was given. It is used where the
// display is built after the fact (web pages, MCP responses).
type Capture struct {
	mu       sync.Mutex
	cards    []card.Card
	rendered bool
	status   *Status
	history  []Status
	busy     map[Control]bool
}

// NewCapture creates an empty Capture
func NewCapture() *Capture {
	return &Capture{busy: make(map[Control]bool)}
}

func (c *Capture) SetBusy(control Control, busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy[control] = busy
}

func (c *Capture) ClearStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = nil
}

func (c *Capture) ShowStatus(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = &status
	c.history = append(c.history, status)
}

func (c *Capture) Render(cards []card.Card) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards = cards
	c.rendered = true
}

// Cards returns the last rendered cards and whether Render was called
func (c *Capture) Cards() ([]card.Card, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cards, c.rendered
}

// Status returns the status currently shown, if any
func (c *Capture) Status() (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		return Status{}, false
	}
	return *c.status, true
}

// History returns every status shown, oldest first
func (c *Capture) History() []Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Status(nil), c.history...)
}

// Busy reports whether control is currently marked busy
func (c *Capture) Busy(control Control) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[control]
}
