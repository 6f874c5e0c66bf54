package network

// Transform is the pan/zoom state of a view: screen = layout·K + (X, Y).
//
// The caller owns the transform and passes it into every run; the pipeline
// never keeps one of its own.
type Transform struct {
	K float64 `json:"k" toml:"k"`
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Identity returns the transform that maps layout coordinates onto the
// screen unchanged.
func Identity() Transform { return Transform{K: 1} }

// normalized maps a zero, negative or non-finite transform to the identity.
func (t Transform) normalized() Transform {
	if !(t.K > 0) || !isFinite(t.K) || !isFinite(t.X) || !isFinite(t.Y) {
		return Identity()
	}
	return t
}

// Apply maps a layout point to screen coordinates.
func (t Transform) Apply(p Point) Point {
	return Point{p.X*t.K + t.X, p.Y*t.K + t.Y}
}

// Zoom scales by factor around the screen point c.
func (t Transform) Zoom(factor float64, c Point) Transform {
	t = t.normalized()
	if !(factor > 0) || !isFinite(factor) {
		return t
	}
	return Transform{
		K: t.K * factor,
		X: c.X - (c.X-t.X)*factor,
		Y: c.Y - (c.Y-t.Y)*factor,
	}
}

// Pan translates by (dx, dy) screen pixels.
func (t Transform) Pan(dx, dy float64) Transform {
	t = t.normalized()
	t.X += dx
	t.Y += dy
	return t
}

// Viewport is the visible screen rectangle [0,Width]×[0,Height].
type Viewport struct {
	Width  float64
	Height float64
	// MinScale hides every edge while the zoom scale is below it.
	MinScale float64
}

// Cull returns one visibility flag per edge: an edge is visible when both
// endpoints, after t, fall inside the viewport. Edges with an unknown endpoint
// are hidden. It is a pure function of its arguments.
func Cull(edges []Edge, positions map[string]Point, t Transform, vp Viewport) []bool {
	vis := make([]bool, len(edges))
	t = t.normalized()
	if t.K < vp.MinScale {
		return vis
	}
	for i, e := range edges {
		a, okA := positions[e.Source]
		b, okB := positions[e.Target]
		if !okA || !okB {
			continue
		}
		vis[i] = t.Apply(a).within(vp.Width, vp.Height) && t.Apply(b).within(vp.Width, vp.Height)
	}
	return vis
}
