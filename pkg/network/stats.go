package network

import "slices"

// SizeBucket counts exhibitions whose member count falls in [Min, Max].
// Max is zero for the open-ended last bucket.
type SizeBucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max,omitempty"`
	Count int    `json:"count"`
}

// Stats summarizes one layout for display.
type Stats struct {
	Exhibitions    int `json:"exhibitions"`
	Artists        int `json:"artists"`
	CoreArtists    int `json:"core_artists"`
	FuzzyArtists   int `json:"fuzzy_artists"`
	InvalidVectors int `json:"invalid_vectors"`
	SkippedRecords int `json:"skipped_records"`

	// DenseClusters counts groups above the density threshold.
	DenseClusters int `json:"dense_clusters"`
	// AggregatedClusters counts every collapsed group, dense or not.
	AggregatedClusters int `json:"aggregated_clusters"`
	MetaNodes          int `json:"meta_nodes"`
	AnchorNodes        int `json:"anchor_nodes"`
	// HiddenCore counts core artists not placed because all their groups
	// collapsed.
	HiddenCore     int          `json:"hidden_core"`
	LargestCluster int          `json:"largest_cluster"`
	ClusterSizes   []SizeBucket `json:"cluster_sizes"`

	Edges           map[EdgeType]int `json:"edges"`
	DuplicateEdges  int              `json:"duplicate_edges"`
	DegenerateEdges int              `json:"degenerate_edges"`
	VisibleEdges    int              `json:"visible_edges"`

	// CollidingIDs lists synthetic ids that clashed with an artist id.
	CollidingIDs []string `json:"colliding_ids,omitempty"`
}

// sizeBuckets returns the empty cluster-size distribution.
func sizeBuckets() []SizeBucket {
	return []SizeBucket{
		{Label: "1", Min: 1, Max: 1},
		{Label: "2-5", Min: 2, Max: 5},
		{Label: "6-20", Min: 6, Max: 20},
		{Label: "21-50", Min: 21, Max: 50},
		{Label: ">50", Min: 51},
	}
}

func (s *Stats) countCluster(size int) {
	s.LargestCluster = max(s.LargestCluster, size)
	for i := range s.ClusterSizes {
		b := &s.ClusterSizes[i]
		if size >= b.Min && (b.Max == 0 || size <= b.Max) {
			b.Count++
			return
		}
	}
}

// collectStats derives the summary from the indexed input and the run's
// decisions. Edge and visibility counts are filled in by the caller.
func collectStats(idx *Index, decisions map[string]Decision, placed map[string]bool, cfg Config) Stats {
	s := Stats{
		Exhibitions:    len(idx.Groups),
		Artists:        len(idx.Nodes),
		InvalidVectors: idx.InvalidVectors,
		SkippedRecords: idx.SkippedRecords,
		ClusterSizes:   sizeBuckets(),
		Edges:          make(map[EdgeType]int),
	}
	for _, n := range idx.Nodes {
		switch {
		case n.Fuzzy:
			s.FuzzyArtists++
		case placed[n.ID]:
			s.CoreArtists++
		default:
			s.CoreArtists++
			s.HiddenCore++
		}
	}
	for title, members := range idx.Groups {
		s.countCluster(len(members))
		d := decisions[title]
		if len(members) > cfg.DensityThreshold {
			s.DenseClusters++
		}
		if d.Collapse {
			s.AggregatedClusters++
		}
	}
	return s
}

func (s *Stats) countEdges(edges []Edge, links Links) {
	for _, e := range edges {
		s.Edges[e.Type]++
		if e.Visible {
			s.VisibleEdges++
		}
	}
	s.DuplicateEdges = links.Duplicates
	s.DegenerateEdges = links.Degenerate
}

func (s *Stats) addCollision(id string) {
	s.CollidingIDs = append(s.CollidingIDs, id)
	slices.Sort(s.CollidingIDs)
}
