package network

// Collapse reasons reported on a [Decision].
const (
	ReasonMode    = "mode"
	ReasonDensity = "density"
)

// Decision is the aggregation outcome for one exhibition.
type Decision struct {
	// Collapse replaces the group's core members by a single meta-node.
	Collapse bool
	// Reason is ReasonMode or ReasonDensity when Collapse is set. Density wins
	// when both apply.
	Reason string
	// Anchor requests a synthetic anchor node: the group is not collapsed, has
	// no core members and at least one fuzzy member.
	Anchor bool
	// Core and Fuzzy partition the sorted member ids.
	Core  []string
	Fuzzy []string
}

// Decide applies the aggregation policy to every exhibition. A group collapses
// when the mode is [ModeAggregateDisjoint] or, in any mode, when its member
// count exceeds the density threshold. The threshold is read once so it
// applies uniformly across the run.
func Decide(idx *Index, cfg Config) map[string]Decision {
	threshold := cfg.DensityThreshold
	out := make(map[string]Decision, len(idx.Groups))
	for title, members := range idx.Groups {
		var d Decision
		for _, id := range members {
			if idx.Nodes[id].Fuzzy {
				d.Fuzzy = append(d.Fuzzy, id)
			} else {
				d.Core = append(d.Core, id)
			}
		}
		switch {
		case len(members) > threshold:
			d.Collapse, d.Reason = true, ReasonDensity
		case cfg.Mode == ModeAggregateDisjoint:
			d.Collapse, d.Reason = true, ReasonMode
		}
		d.Anchor = !d.Collapse && len(d.Core) == 0 && len(d.Fuzzy) > 0
		out[title] = d
	}
	return out
}

// metaNode builds the synthetic node standing in for a collapsed group.
func metaNode(g Group) Node {
	return Node{
		ID:          MetaID(g.Title),
		Label:       g.Title,
		Kind:        KindMeta,
		Exhibitions: []string{g.Title},
		X:           g.Center.X,
		Y:           g.Center.Y,
		Community:   g.Community,
		Radius:      g.Radius,
		Members:     len(g.Members),
	}
}

// anchorNode builds the attachment point of a fuzzy-only group. Its radius is
// half the meta-node radius.
func anchorNode(g Group) Node {
	return Node{
		ID:          AnchorID(g.Title),
		Label:       g.Title,
		Kind:        KindAnchor,
		Exhibitions: []string{g.Title},
		X:           g.Center.X,
		Y:           g.Center.Y,
		Community:   g.Community,
		Radius:      g.Radius / 2,
		Members:     len(g.Members),
	}
}
