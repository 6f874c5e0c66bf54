package network

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Index is the output of the membership indexer: an arena of artist nodes and
// the exhibition → member id sets.
type Index struct {
	// Nodes holds every artist keyed by id.
	Nodes map[string]*Node

	// Groups maps an exhibition title to its sorted member ids.
	Groups map[string][]string

	// InvalidVectors counts artists whose weight vector was missing or
	// entirely non-numeric.
	InvalidVectors int

	// SkippedRecords counts records without a usable name or exhibition.
	SkippedRecords int
}

// NormalizeName returns the join key and node id for an artist name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SplitExhibitions splits a pipe-separated title field, trimming each title
// and dropping empty ones.
func SplitExhibitions(field string) []string {
	var titles []string
	for _, t := range strings.Split(field, "|") {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// NewIndex builds artist nodes and exhibition groups from records of one year.
//
// The first record of an artist creates its node; later records only add
// exhibition memberships.
func NewIndex(records []Record, cfg Config) *Index {
	idx := &Index{
		Nodes:  make(map[string]*Node),
		Groups: make(map[string][]string),
	}

	for _, r := range records {
		titles := SplitExhibitions(r.Exhibitions)
		id := NormalizeName(r.Name)
		if id == "" || len(titles) == 0 {
			idx.SkippedRecords++
			continue
		}

		n, ok := idx.Nodes[id]
		if !ok {
			n = newArtistNode(id, strings.TrimSpace(r.Name), r, cfg.FuzzyThreshold)
			if n.Invalid {
				idx.InvalidVectors++
			}
			idx.Nodes[id] = n
		}
		for _, t := range titles {
			n.addExhibition(t)
		}
	}

	for id, n := range idx.Nodes {
		for _, t := range n.Exhibitions {
			idx.Groups[t] = append(idx.Groups[t], id)
		}
	}
	for t := range idx.Groups {
		slices.Sort(idx.Groups[t])
	}
	return idx
}

func newArtistNode(id, label string, r Record, threshold float64) *Node {
	n := &Node{
		ID:        id,
		Label:     label,
		Kind:      KindArtist,
		Community: -1,
	}

	weights, ok := sanitizeWeights(r.Weights)
	if !ok {
		n.Invalid = true
		n.Fuzzy = true
		n.Fuzziness = 1
		return n
	}

	n.Weights = weights
	n.Community = argmax(weights)
	n.Fuzziness = 1 - weights[n.Community]

	switch r.Ambiguity {
	case AmbiguityFuzzy:
		n.Fuzzy = true
	case AmbiguityCore:
		n.Fuzzy = false
	default:
		n.Fuzzy = n.Fuzziness >= threshold
	}
	return n
}

// sanitizeWeights replaces non-finite entries with zero. It reports false
// when the vector is empty or has no finite entry at all.
func sanitizeWeights(w []float64) ([]float64, bool) {
	out := make([]float64, len(w))
	valid := false
	for i, v := range w {
		if isFinite(v) {
			out[i] = v
			valid = true
		}
	}
	return out, valid
}

// argmax returns the index of the largest weight; ties go to the lowest index.
func argmax(w []float64) int {
	best := 0
	for i, v := range w {
		if v > w[best] {
			best = i
		}
	}
	return best
}

// Titles returns the exhibition titles in sorted order.
func (idx *Index) Titles() []string {
	titles := make([]string, 0, len(idx.Groups))
	for t := range idx.Groups {
		titles = append(titles, t)
	}
	slices.Sort(titles)
	return titles
}

// SortedIDs returns all artist ids in sorted order.
func (idx *Index) SortedIDs() []string {
	ids := make([]string, 0, len(idx.Nodes))
	for id := range idx.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MaxGroupSize returns the member count of the largest group.
func (idx *Index) MaxGroupSize() int {
	largest := 0
	for _, m := range idx.Groups {
		largest = max(largest, len(m))
	}
	return largest
}

// Community returns the predominant community of an exhibition: the most
// frequent predominant community among its members, lowest label on ties, or
// -1 when no member has a valid weight vector.
func (idx *Index) Community(title string) int {
	counts := map[int]int{}
	for _, id := range idx.Groups[title] {
		if c := idx.Nodes[id].Community; c >= 0 {
			counts[c]++
		}
	}
	best, bestCount := -1, 0
	for c, k := range counts {
		if k > bestCount || (k == bestCount && c < best) {
			best, bestCount = c, k
		}
	}
	return best
}

// HasFuzzy reports whether any member of the exhibition is fuzzy.
func (idx *Index) HasFuzzy(title string) bool {
	for _, id := range idx.Groups[title] {
		if idx.Nodes[id].Fuzzy {
			return true
		}
	}
	return false
}

// RestrictToFuzzy keeps only exhibitions with at least one fuzzy member and
// drops artists left without any exhibition.
func (idx *Index) RestrictToFuzzy() {
	for _, t := range idx.Titles() {
		if !idx.HasFuzzy(t) {
			delete(idx.Groups, t)
		}
	}
	for id, n := range idx.Nodes {
		n.Exhibitions = slices.DeleteFunc(n.Exhibitions, func(t string) bool {
			_, ok := idx.Groups[t]
			return !ok
		})
		if len(n.Exhibitions) == 0 {
			if n.Invalid {
				idx.InvalidVectors--
			}
			delete(idx.Nodes, id)
		}
	}
}

// SharedFuzzy counts, for every pair of exhibitions, the fuzzy artists that
// belong to both. Keys are edge keys of the two titles.
func (idx *Index) SharedFuzzy() map[string]int {
	shared := make(map[string]int)
	for _, n := range idx.Nodes {
		if !n.Fuzzy {
			continue
		}
		for i, a := range n.Exhibitions {
			for _, b := range n.Exhibitions[i+1:] {
				shared[edgeKey(a, b)]++
			}
		}
	}
	return shared
}

// ClusterRadius maps a group size onto [MinClusterRadius, MaxClusterRadius]
// with a square-root scale, r = min + (max−min)·√(size/maxSize), so cluster
// area rather than radius tracks membership. It is non-decreasing in size.
func ClusterRadius(size, maxSize int, cfg Config) float64 {
	if size <= 0 {
		return cfg.MinClusterRadius
	}
	maxSize = max(maxSize, size, 1)
	frac := math.Sqrt(float64(size) / float64(maxSize))
	return cfg.MinClusterRadius + (cfg.MaxClusterRadius-cfg.MinClusterRadius)*frac
}

func sortNodes(nodes []Node) {
	slices.SortFunc(nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
}
