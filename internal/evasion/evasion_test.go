package evasion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBounds() Bounds {
	return Bounds{Width: 1280, Height: 800}
}

func newTestController(t *testing.T, seed int64) *Controller {
	t.Helper()
	c, err := NewController(testBounds(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return c
}

func inBounds(t *testing.T, b Bounds, pos Position) {
	t.Helper()
	assert.GreaterOrEqual(t, pos.X, Padding)
	assert.LessOrEqual(t, pos.X, b.Width-ControlWidth-Padding)
	assert.GreaterOrEqual(t, pos.Y, Padding)
	assert.LessOrEqual(t, pos.Y, b.Height-ControlHeight-Padding)
}

func TestNewController_InitialPositionInsideBounds(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		c := newTestController(t, seed)
		inBounds(t, testBounds(), c.Position())
	}
}

func TestNewController_ViewportTooSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewController(Bounds{Width: 100, Height: 800}, rng)
	assert.ErrorIs(t, err, ErrViewportTooSmall)

	_, err = NewController(Bounds{Width: 1280, Height: 60}, rng)
	assert.ErrorIs(t, err, ErrViewportTooSmall)
}

func TestPointerMove_ThreatenedRepositions(t *testing.T) {
	c := newTestController(t, 42)

	// Aim straight at the control's center.
	cx := c.Position().X + ControlWidth/2
	cy := c.Position().Y + ControlHeight/2

	moved := c.PointerMove(cx, cy)
	assert.True(t, moved)
	inBounds(t, testBounds(), c.Position())
}

func TestPointerMove_JustInsideRadiusRepositions(t *testing.T) {
	c := newTestController(t, 7)

	cx := c.Position().X + ControlWidth/2
	cy := c.Position().Y + ControlHeight/2

	moved := c.PointerMove(cx+AvoidRadius-1, cy)
	assert.True(t, moved)
	inBounds(t, testBounds(), c.Position())
}

func TestPointerMove_DistantPointerIgnored(t *testing.T) {
	c := newTestController(t, 7)
	before := c.Position()

	cx := before.X + ControlWidth/2
	cy := before.Y + ControlHeight/2

	// Exactly on the radius does not count as threatened.
	moved := c.PointerMove(cx+AvoidRadius, cy)
	assert.False(t, moved)
	assert.Equal(t, before, c.Position())

	moved = c.PointerMove(cx+AvoidRadius+500, cy)
	assert.False(t, moved)
	assert.Equal(t, before, c.Position())
}

func TestPointerMove_AlwaysStaysInsideBounds(t *testing.T) {
	c := newTestController(t, 99)
	pointer := rand.New(rand.NewSource(100))

	// Hammer the controller with random pointer traffic, including events
	// outside the viewport. The control must never leave the padded region.
	for i := 0; i < 5000; i++ {
		px := pointer.Float64()*1600 - 160
		py := pointer.Float64()*1000 - 100
		c.PointerMove(px, py)
		inBounds(t, testBounds(), c.Position())
	}
}

func TestFreeze_StopsEvasion(t *testing.T) {
	c := newTestController(t, 3)
	c.Freeze()
	assert.True(t, c.Frozen())

	before := c.Position()
	cx := before.X + ControlWidth/2
	cy := before.Y + ControlHeight/2

	moved := c.PointerMove(cx, cy)
	assert.False(t, moved)
	assert.Equal(t, before, c.Position())
}
