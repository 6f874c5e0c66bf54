package network

// No-data reasons reported on a [Layout].
const (
	ReasonNoRecords = "no records for the selected year"
	ReasonNoFuzzy   = "no exhibitions with fuzzy members"
)

// Build runs the whole pipeline on records of one year:
// index → plan → aggregate → place → link → cull.
//
// Everything is recomputed from scratch. The only state carried between runs
// is the transform t, which is applied to the new layout and returned on it.
// An empty selection yields a layout with NoData set, not an error; the only
// error is an invalid configuration.
func Build(records []Record, cfg Config, t Transform) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	l := Layout{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Mode:      cfg.Mode,
		FuzzyOnly: cfg.FuzzyOnly,
		Transform: t.normalized(),
		Nodes:     []Node{},
		Edges:     []Edge{},
		Groups:    []Group{},
	}

	idx := NewIndex(records, cfg)
	if cfg.FuzzyOnly {
		idx.RestrictToFuzzy()
	}
	if len(idx.Groups) == 0 {
		l.NoData = true
		l.Reason = ReasonNoRecords
		if cfg.FuzzyOnly && len(records) > 0 {
			l.Reason = ReasonNoFuzzy
		}
		l.Stats = collectStats(idx, nil, nil, cfg)
		return l, nil
	}

	titles := idx.Titles()
	centers := PlanCenters(idx, cfg)
	decisions := Decide(idx, cfg)
	maxSize := idx.MaxGroupSize()

	groups := make(map[string]*Group, len(titles))
	for _, title := range titles {
		members := idx.Groups[title]
		groups[title] = &Group{
			Title:      title,
			Members:    members,
			Center:     centers[title],
			Radius:     ClusterRadius(len(members), maxSize, cfg),
			Aggregated: decisions[title].Collapse,
			Community:  idx.Community(title),
		}
	}

	homes := PlaceCore(idx, groups, decisions, cfg)
	PlaceFuzzy(idx, groups, cfg)

	placed := make(map[string]bool)
	for _, ids := range homes {
		for _, id := range ids {
			placed[id] = true
		}
	}
	stats := collectStats(idx, decisions, placed, cfg)

	// clashed maps an artist id that shadows a synthetic id to that group.
	clashed := make(map[string]string)
	var synthetic []Node
	for _, title := range titles {
		var n Node
		switch d := decisions[title]; {
		case d.Collapse:
			n = metaNode(*groups[title])
		case d.Anchor:
			n = anchorNode(*groups[title])
		default:
			continue
		}
		if _, clash := idx.Nodes[n.ID]; clash {
			stats.addCollision(n.ID)
			clashed[n.ID] = title
			continue
		}
		if n.Kind == KindMeta {
			stats.MetaNodes++
		} else {
			stats.AnchorNodes++
		}
		synthetic = append(synthetic, n)
	}

	ResolveCollisions(idx, synthetic, groups, decisions, cfg)
	links := BuildLinks(idx, groups, decisions, cfg)

	canvas := midpoint(cfg.Width, cfg.Height)
	for _, id := range idx.SortedIDs() {
		n := idx.Nodes[id]
		if !n.Fuzzy && !placed[id] {
			// A shadowing artist stands in for the synthetic node that
			// edges of its group point at.
			title, ok := clashed[id]
			if !ok {
				continue
			}
			n.setPos(groups[title].Center)
		}
		if !n.Pos().finite() {
			n.setPos(canvas)
		}
		l.Nodes = append(l.Nodes, *n)
	}
	l.Nodes = append(l.Nodes, synthetic...)
	sortNodes(l.Nodes)

	l.Edges = append(l.Edges, links.Edges...)
	vis := Cull(l.Edges, l.Positions(), l.Transform, Viewport{Width: cfg.Width, Height: cfg.Height, MinScale: cfg.MinEdgeScale})
	for i := range l.Edges {
		l.Edges[i].Visible = vis[i]
	}

	for _, title := range titles {
		l.Groups = append(l.Groups, *groups[title])
	}

	stats.countEdges(l.Edges, links)
	l.Stats = stats
	return l, nil
}
