// Package placement computes where an anchored window opens relative to a UI
// element that lives in another window.
//
// Trigger rectangles are given in logical units relative to the owning
// window's client area. The owning window's origin and the returned position
// are physical screen units; the scale factor converts between the two.
package placement

import "math"

// DefaultGap is the physical distance kept between the trigger and the
// window placed above it.
const DefaultGap = 10

// Rect is a logical-unit rectangle relative to a window's client area.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point is a physical screen position.
type Point struct {
	X int
	Y int
}

// Size is a physical width/height pair.
type Size struct {
	Width  int
	Height int
}

// Engine places a target window centred above a trigger rectangle.
type Engine struct {
	Gap int
}

// Default uses DefaultGap.
var Default = Engine{Gap: DefaultGap}

// Compute places target with the default engine.
func Compute(trigger Rect, origin Point, scale float64, target Size) Point {
	return Default.Place(trigger, origin, scale, target)
}

// Place converts trigger to physical coordinates, centres target horizontally
// on it and puts it Gap units above. Negative coordinates clamp to zero; the
// bottom and right screen edges are not considered.
func (e Engine) Place(trigger Rect, origin Point, scale float64, target Size) Point {
	if scale <= 0 {
		scale = 1
	}
	left := float64(origin.X) + trigger.Left*scale
	top := float64(origin.Y) + trigger.Top*scale
	width := trigger.Width * scale

	x := left + width/2 - float64(target.Width)/2
	y := top - float64(target.Height) - float64(e.Gap)

	return Point{X: clamp(x), Y: clamp(y)}
}

func clamp(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	return r
}
