package board

import "github.com/starford/corkboard/internal/viewport"

// Mode is the placement controller state.
type Mode int

const (
	Idle Mode = iota
	Panning
	PendingNoteEntry
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case PendingNoteEntry:
		return "pending-note-entry"
	default:
		return "unknown"
	}
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a button press at a screen position.
type PointerEvent struct {
	X, Y   float64
	Button Button
	Shift  bool
}

// Outcome describes what a pointer-down did.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomePanStarted
	OutcomeEntryOpened
	OutcomeNeedAuth
	OutcomeQuotaExhausted
)

// Controller turns pointer input into pans and note placements.
type Controller struct {
	vp      *viewport.Viewport
	session *Session
	quota   *QuotaGuard

	mode    Mode
	last    viewport.Point
	pending viewport.Point
	hover   viewport.Point
}

// NewController wires a controller to the state it reads and mutates.
func NewController(vp *viewport.Viewport, session *Session, quota *QuotaGuard) *Controller {
	return &Controller{vp: vp, session: session, quota: quota}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Hover returns the world point last reported under the pointer.
func (c *Controller) Hover() viewport.Point { return c.hover }

// Pending returns the placement point while an entry is open.
func (c *Controller) Pending() (viewport.Point, bool) {
	return c.pending, c.mode == PendingNoteEntry
}

// PointerDown handles a button press. Only the primary button acts, and only
// from Idle. Shift starts a pan; otherwise a note entry opens at the world
// point under the cursor unless the user is signed out or out of quota, in
// which case the mode is left unchanged.
func (c *Controller) PointerDown(ev PointerEvent) Outcome {
	if ev.Button != ButtonPrimary || c.mode != Idle {
		return OutcomeIgnored
	}
	if ev.Shift {
		c.mode = Panning
		c.last = viewport.Point{X: ev.X, Y: ev.Y}
		return OutcomePanStarted
	}

	world := c.vp.ScreenToWorld(ev.X, ev.Y)
	if !c.session.Authenticated() {
		return OutcomeNeedAuth
	}
	if c.quota.Exhausted() {
		return OutcomeQuotaExhausted
	}
	c.pending = world
	c.mode = PendingNoteEntry
	return OutcomeEntryOpened
}

// PointerMove updates the hover readout and, while panning, pans by the
// delta since the previous move. It reports whether the view changed.
func (c *Controller) PointerMove(x, y float64) bool {
	c.hover = c.vp.ScreenToWorld(x, y)
	if c.mode != Panning {
		return false
	}
	c.vp.PanBy(x-c.last.X, y-c.last.Y)
	c.last = viewport.Point{X: x, Y: y}
	c.hover = c.vp.ScreenToWorld(x, y)
	return true
}

// PointerUp ends a pan.
func (c *Controller) PointerUp() bool { return c.endPan() }

// PointerLeave ends a pan when the pointer exits the canvas.
func (c *Controller) PointerLeave() bool { return c.endPan() }

// Cancel discards an open entry. It reports whether one was open.
func (c *Controller) Cancel() bool {
	if c.mode != PendingNoteEntry {
		return false
	}
	c.mode = Idle
	c.pending = viewport.Point{}
	return true
}

// Placed closes the entry after the note was created.
func (c *Controller) Placed() { c.Cancel() }

func (c *Controller) endPan() bool {
	if c.mode != Panning {
		return false
	}
	c.mode = Idle
	return true
}
