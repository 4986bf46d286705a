// Package evasion implements the geometry driving the pointer-avoiding
// "No" control on the recipient view. It is pure state plus a bound random
// source: pointer events come in, positions come out, nothing touches the
// network or the store.
package evasion

import (
	"errors"
	"math/rand"
)

const (
	// ControlWidth and ControlHeight are the fixed dimensions of the
	// evading control in viewport pixels.
	ControlWidth  = 120.0
	ControlHeight = 44.0

	// AvoidRadius is the proximity threshold around the control's center.
	// Any pointer inside it triggers a reposition before a click can land.
	AvoidRadius = 120.0

	// Padding insets the sampling region so the control is never clipped
	// at a viewport edge.
	Padding = 24.0
)

// ErrViewportTooSmall indicates the viewport cannot fit the control with
// its padding inset.
var ErrViewportTooSmall = errors.New("viewport too small for evading control")

// Position is the control's top-left corner in viewport coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the recipient viewport in pixels.
type Bounds struct {
	Width  float64
	Height float64
}

func (b Bounds) fits() bool {
	return b.Width >= ControlWidth+2*Padding && b.Height >= ControlHeight+2*Padding
}

// Controller holds the evading control's position and repositions it in
// response to pointer movement. It is single-actor state: one pointer
// drives one controller, so no locking is needed.
type Controller struct {
	rng    *rand.Rand
	bounds Bounds
	pos    Position
	frozen bool
}

// NewController samples the control's initial position and returns the
// ready controller. The caller owns the random source; tests seed it.
func NewController(bounds Bounds, rng *rand.Rand) (*Controller, error) {
	if !bounds.fits() {
		return nil, ErrViewportTooSmall
	}
	c := &Controller{rng: rng, bounds: bounds}
	c.pos = c.sample()
	return c, nil
}

// Position returns the control's current top-left corner.
func (c *Controller) Position() Position {
	return c.pos
}

// PointerMove feeds one pointer event to the controller and reports whether
// the control moved. The control evades whenever the pointer is strictly
// inside AvoidRadius of its center; a pointer exactly on the radius or
// beyond leaves it in place.
func (c *Controller) PointerMove(px, py float64) bool {
	if c.frozen {
		return false
	}

	cx := c.pos.X + ControlWidth/2
	cy := c.pos.Y + ControlHeight/2
	dx := px - cx
	dy := py - cy
	if dx*dx+dy*dy >= AvoidRadius*AvoidRadius {
		return false
	}

	c.pos = c.sample()
	return true
}

// Freeze stops the controller reacting to pointer events. Called when the
// recipient accepts and the control leaves the interactive surface.
func (c *Controller) Freeze() {
	c.frozen = true
}

// Frozen reports whether the controller has stopped reacting.
func (c *Controller) Frozen() bool {
	return c.frozen
}

// sample draws a position uniformly from the padded interior
// [Padding, W-ControlWidth-Padding] x [Padding, H-ControlHeight-Padding].
func (c *Controller) sample() Position {
	spanX := c.bounds.Width - ControlWidth - 2*Padding
	spanY := c.bounds.Height - ControlHeight - 2*Padding
	return Position{
		X: Padding + c.rng.Float64()*spanX,
		Y: Padding + c.rng.Float64()*spanY,
	}
}
