package network

import (
	"math"
	"slices"
)

// =============================================================================
// Enumerations
// =============================================================================

// AggregationMode selects the default rendering of exhibition groups.
type AggregationMode string

const (
	// ModeFullDetail renders every group member individually unless the group
	// exceeds the density threshold.
	ModeFullDetail AggregationMode = "fullDetail"
	// ModeAggregateDisjoint collapses every group into a meta-node.
	ModeAggregateDisjoint AggregationMode = "aggregateDisjoint"
)

// CenterStrategy selects how exhibition anchors are planned.
type CenterStrategy string

const (
	CentersRadial     CenterStrategy = "radial"
	CentersRelaxation CenterStrategy = "relaxation"
)

// CrossLinkPolicy controls the cross-cluster fuzzy-linking pass.
type CrossLinkPolicy string

const (
	// CrossLinkAlways runs the pass regardless of aggregation mode.
	CrossLinkAlways CrossLinkPolicy = "always"
	// CrossLinkFullDetailOnly runs the pass only in [ModeFullDetail].
	CrossLinkFullDetailOnly CrossLinkPolicy = "fullDetailOnly"
	// CrossLinkNever skips the pass.
	CrossLinkNever CrossLinkPolicy = "never"
)

// Ambiguity is the explicit ambiguity marker carried by a membership record.
type Ambiguity int8

const (
	AmbiguityUnknown Ambiguity = iota
	AmbiguityCore
	AmbiguityFuzzy
)

// NodeKind distinguishes artists from synthetic nodes.
type NodeKind string

const (
	KindArtist NodeKind = "artist"
	KindMeta   NodeKind = "meta"
	KindAnchor NodeKind = "anchor"
)

// EdgeType tags how an edge was produced.
type EdgeType string

const (
	EdgeCoreCore    EdgeType = "core-core"
	EdgeFuzzyToCore EdgeType = "fuzzy-to-core"
	EdgeFuzzyToMeta EdgeType = "fuzzy-to-meta"
)

// Synthetic node id prefixes.
const (
	metaPrefix   = "meta:"
	anchorPrefix = "anchor:"
)

// MetaID returns the node id of the meta-node collapsing an exhibition.
func MetaID(title string) string { return metaPrefix + title }

// AnchorID returns the node id of the anchor node of an exhibition.
func AnchorID(title string) string { return anchorPrefix + title }

// =============================================================================
// Input
// =============================================================================

// Record is one membership row, already filtered to the selected year.
//
// Exhibitions holds the raw pipe-separated title field. Weights holds one
// entry per community; non-numeric entries are NaN and a nil slice means the
// artist has no weight vector at all.
type Record struct {
	Name        string    `json:"name"`
	Exhibitions string    `json:"exhibitions"`
	Year        int       `json:"year"`
	Weights     []float64 `json:"weights,omitempty"`
	Ambiguity   Ambiguity `json:"ambiguity,omitempty"`
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) dist(q Point) float64  { return p.sub(q).len() }
func (p Point) finite() bool          { return isFinite(p.X) && isFinite(p.Y) }

// within reports whether p lies in the closed rectangle [0,w]×[0,h].
func (p Point) within(w, h float64) bool {
	return p.X >= 0 && p.X <= w && p.Y >= 0 && p.Y <= h
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func polar(r, angle float64) Point { return Point{r * math.Cos(angle), r * math.Sin(angle)} }

func midpoint(w, h float64) Point { return Point{w / 2, h / 2} }

// =============================================================================
// Output
// =============================================================================

// Node is an artist or a synthetic meta/anchor node.
//
// Radius is zero for artists; renderers use their own default size.
type Node struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Kind        NodeKind  `json:"kind"`
	Exhibitions []string  `json:"exhibitions"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Community   int       `json:"community"`
	Fuzzy       bool      `json:"fuzzy"`
	Fuzziness   float64   `json:"fuzziness"`
	Invalid     bool      `json:"invalid,omitempty"`
	Weights     []float64 `json:"weights,omitempty"`
	Radius      float64   `json:"radius,omitempty"`
	Members     int       `json:"members,omitempty"`
}

// Pos returns the node position.
func (n *Node) Pos() Point { return Point{n.X, n.Y} }

func (n *Node) setPos(p Point) { n.X, n.Y = p.X, p.Y }

// InExhibition reports whether the node belongs to the exhibition.
func (n *Node) InExhibition(title string) bool {
	_, ok := slices.BinarySearch(n.Exhibitions, title)
	return ok
}

// IsSynthetic reports whether the node is a meta or anchor node.
func (n *Node) IsSynthetic() bool { return n.Kind == KindMeta || n.Kind == KindAnchor }

// addExhibition inserts title into the sorted exhibition set.
func (n *Node) addExhibition(title string) {
	i, ok := slices.BinarySearch(n.Exhibitions, title)
	if !ok {
		n.Exhibitions = slices.Insert(n.Exhibitions, i, title)
	}
}

// Group is one exhibition cluster.
type Group struct {
	Title      string   `json:"title"`
	Members    []string `json:"members"`
	Center     Point    `json:"center"`
	Radius     float64  `json:"radius"`
	Aggregated bool     `json:"aggregated"`
	Community  int      `json:"community"`
}

// Edge is an undirected link between two node ids.
//
// Ambiguous is true for every edge with a fuzzy endpoint. Degenerate marks an
// edge whose endpoints resolved to the same id; it is kept so renderers can
// draw it at reduced weight.
type Edge struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Type       EdgeType `json:"type"`
	Ambiguous  bool     `json:"ambiguous"`
	Degenerate bool     `json:"degenerate,omitempty"`
	Visible    bool     `json:"visible"`
}

// Key returns the unordered identity of the edge.
func (e Edge) Key() string { return edgeKey(e.Source, e.Target) }

func edgeKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Layout is the complete result of one pipeline run.
type Layout struct {
	RunID     string          `json:"run_id,omitempty"`
	Year      int             `json:"year,omitempty"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Mode      AggregationMode `json:"mode"`
	FuzzyOnly bool            `json:"fuzzy_only,omitempty"`
	Nodes     []Node          `json:"nodes"`
	Edges     []Edge          `json:"edges"`
	Groups    []Group         `json:"groups"`
	Stats     Stats           `json:"stats"`
	Transform Transform       `json:"transform"`
	NoData    bool            `json:"no_data,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// Positions returns node positions keyed by id.
func (l *Layout) Positions() map[string]Point {
	pos := make(map[string]Point, len(l.Nodes))
	for i := range l.Nodes {
		pos[l.Nodes[i].ID] = l.Nodes[i].Pos()
	}
	return pos
}

// Node returns the node with the given id.
func (l *Layout) Node(id string) (*Node, bool) {
	i, ok := slices.BinarySearchFunc(l.Nodes, id, func(n Node, id string) int {
		switch {
		case n.ID < id:
			return -1
		case n.ID > id:
			return 1
		}
		return 0
	})
	if !ok {
		return nil, false
	}
	return &l.Nodes[i], true
}

// Reframe applies a new view transform and recomputes edge visibility.
// Nodes and edges are otherwise untouched.
func (l *Layout) Reframe(t Transform, minScale float64) {
	l.Transform = t.normalized()
	vis := Cull(l.Edges, l.Positions(), l.Transform, Viewport{Width: l.Width, Height: l.Height, MinScale: minScale})
	l.Stats.VisibleEdges = 0
	for i := range l.Edges {
		l.Edges[i].Visible = vis[i]
		if vis[i] {
			l.Stats.VisibleEdges++
		}
	}
}
