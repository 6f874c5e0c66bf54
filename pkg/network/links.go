package network

// edgeSet registers edges by unordered id pair. The first registered
// direction wins; later duplicates are counted and dropped.
type edgeSet struct {
	edges      []Edge
	seen       map[string]struct{}
	duplicates int
	degenerate int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: make(map[string]struct{})}
}

// add registers source→target and reports whether the edge is new.
func (s *edgeSet) add(source, target string, typ EdgeType) bool {
	key := edgeKey(source, target)
	if _, ok := s.seen[key]; ok {
		s.duplicates++
		return false
	}
	s.seen[key] = struct{}{}

	e := Edge{
		Source:     source,
		Target:     target,
		Type:       typ,
		Ambiguous:  typ != EdgeCoreCore,
		Degenerate: source == target,
	}
	if e.Degenerate {
		s.degenerate++
	}
	s.edges = append(s.edges, e)
	return true
}

// Links is the output of [BuildLinks].
type Links struct {
	Edges []Edge
	// Duplicates counts registrations absorbed by the identity key.
	Duplicates int
	// Degenerate counts kept edges whose endpoints are the same id.
	Degenerate int
}

// crossLinks reports whether the cross-cluster pass runs under cfg.
func crossLinks(cfg Config) bool {
	switch cfg.CrossLinks {
	case CrossLinkNever:
		return false
	case CrossLinkFullDetailOnly:
		return cfg.Mode == ModeFullDetail
	}
	return true
}

// BuildLinks constructs the deduplicated edge set. Precedence:
//
//  1. every fuzzy member of a collapsed group links to its meta-node
//  2. the core members of a non-collapsed group form a complete graph
//  3. the cross-cluster pass (subject to the CrossLinks policy) links each
//     fuzzy artist to the nearest core member of every non-collapsed
//     exhibition it belongs to, or to the exhibition's anchor when the group
//     has no core member
//
// In the cross pass, linking to a core artist also covers every other
// exhibition the two share, so those exhibitions are skipped for that artist.
// Positions must be final before this runs.
func BuildLinks(idx *Index, groups map[string]*Group, decisions map[string]Decision, cfg Config) Links {
	set := newEdgeSet()
	titles := idx.Titles()

	for _, t := range titles {
		d := decisions[t]
		if !groups[t].Aggregated {
			continue
		}
		for _, id := range d.Fuzzy {
			set.add(id, MetaID(t), EdgeFuzzyToMeta)
		}
	}

	for _, t := range titles {
		if groups[t].Aggregated {
			continue
		}
		core := decisions[t].Core
		for i, a := range core {
			for _, b := range core[i+1:] {
				set.add(a, b, EdgeCoreCore)
			}
		}
	}

	if crossLinks(cfg) {
		for _, id := range fuzzyIDs(idx) {
			n := idx.Nodes[id]
			linked := make(map[string]bool, len(n.Exhibitions))
			for _, t := range n.Exhibitions {
				g := groups[t]
				if g.Aggregated || linked[t] {
					continue
				}
				linked[t] = true

				d := decisions[t]
				if len(d.Core) == 0 {
					if d.Anchor {
						set.add(id, AnchorID(t), EdgeFuzzyToMeta)
					}
					continue
				}

				target := nearest(idx, n.Pos(), d.Core)
				set.add(id, target.ID, EdgeFuzzyToCore)
				for _, shared := range target.Exhibitions {
					if n.InExhibition(shared) {
						linked[shared] = true
					}
				}
			}
		}
	}

	return Links{Edges: set.edges, Duplicates: set.duplicates, Degenerate: set.degenerate}
}

// nearest returns the node among ids closest to p. Ties go to the first id.
func nearest(idx *Index, p Point, ids []string) *Node {
	var best *Node
	bestD := 0.0
	for _, id := range ids {
		n := idx.Nodes[id]
		if d := p.dist(n.Pos()); best == nil || d < bestD {
			best, bestD = n, d
		}
	}
	return best
}
