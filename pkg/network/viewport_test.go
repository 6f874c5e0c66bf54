package network

import (
	"math"
	"slices"
	"testing"
)

func TestCull(t *testing.T) {
	positions := map[string]Point{
		"a": {10, 10},
		"b": {90, 90},
		"c": {150, 50},
	}
	edges := []Edge{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "a", Target: "missing"},
	}
	vp := Viewport{Width: 100, Height: 100, MinScale: 0.5}

	tests := []struct {
		name string
		t    Transform
		want []bool
	}{
		{"Identity", Identity(), []bool{true, false, false}},
		{"PanLeft", Transform{K: 1, X: -60}, []bool{false, false, false}},
		{"PanDown", Transform{K: 1, Y: 5}, []bool{true, false, false}},
		{"ZoomOut", Transform{K: 0.6}, []bool{true, true, false}},
		{"BelowMinScale", Transform{K: 0.4}, []bool{false, false, false}},
		{"ZeroTransform", Transform{}, []bool{true, false, false}},
		{"NaNTransform", Transform{K: math.NaN()}, []bool{true, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cull(edges, positions, tt.t, vp); !slices.Equal(got, tt.want) {
				t.Errorf("Cull = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformZoomPan(t *testing.T) {
	tr := Identity().Zoom(2, Point{50, 50})
	if got := tr.Apply(Point{50, 50}); got != (Point{50, 50}) {
		t.Errorf("zoom centre moved to %v", got)
	}
	if got := tr.Apply(Point{60, 50}); got != (Point{70, 50}) {
		t.Errorf("Apply = %v, want (70, 50)", got)
	}

	tr = tr.Pan(5, -5)
	if got := tr.Apply(Point{50, 50}); got != (Point{55, 45}) {
		t.Errorf("Apply after pan = %v, want (55, 45)", got)
	}

	if got := tr.Zoom(0, Point{}); got != tr {
		t.Errorf("zero zoom factor changed the transform to %+v", got)
	}
}

func TestLayoutReframe(t *testing.T) {
	cfg := DefaultConfig()
	l := mustBuild(t, coreGroup("a", "A", 5), cfg)
	if l.Stats.VisibleEdges != 10 {
		t.Fatalf("VisibleEdges = %d, want 10", l.Stats.VisibleEdges)
	}
	before := append([]Node(nil), l.Nodes...)

	l.Reframe(Transform{K: 0.1}, cfg.MinEdgeScale)
	if l.Stats.VisibleEdges != 0 {
		t.Errorf("VisibleEdges at k=0.1 = %d, want 0", l.Stats.VisibleEdges)
	}
	if l.Transform != (Transform{K: 0.1}) {
		t.Errorf("Transform = %+v, want the applied one", l.Transform)
	}

	l.Reframe(Transform{K: 1, X: 5000}, cfg.MinEdgeScale)
	if l.Stats.VisibleEdges != 0 {
		t.Errorf("VisibleEdges panned away = %d, want 0", l.Stats.VisibleEdges)
	}

	l.Reframe(Identity(), cfg.MinEdgeScale)
	if l.Stats.VisibleEdges != 10 {
		t.Errorf("VisibleEdges back at identity = %d, want 10", l.Stats.VisibleEdges)
	}
	for i := range before {
		if before[i].Pos() != l.Nodes[i].Pos() {
			t.Errorf("Reframe moved %s", before[i].ID)
		}
	}
}
