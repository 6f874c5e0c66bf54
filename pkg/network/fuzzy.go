package network

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

// newRand returns the jitter source for a run. The same seed reproduces the
// same positions.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// jitter draws a uniform offset in [−amp, amp]².
func jitter(rng *rand.Rand, amp float64) Point {
	if amp <= 0 {
		return Point{}
	}
	return Point{(rng.Float64()*2 - 1) * amp, (rng.Float64()*2 - 1) * amp}
}

// fuzzyIDs returns the sorted ids of every fuzzy artist.
func fuzzyIDs(idx *Index) []string {
	var ids []string
	for id, n := range idx.Nodes {
		if n.Fuzzy {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// PlaceFuzzy positions every fuzzy artist.
//
// The base position averages the centres of the artist's exhibitions, equally
// or, with WeightedFuzzy, weighted by the artist's weight for each
// exhibition's predominant community (weights below MinContribution are
// ignored; if none remain the average is equal). Jitter is added on top.
// Artists with an invalid weight vector are jittered around the canvas centre.
//
// With GroupFuzzy, artists sharing the exact same exhibition set share one
// jittered anchor and are laid out on a small grid around it; the anchor is
// computed from the first artist of the set in id order.
func PlaceFuzzy(idx *Index, groups map[string]*Group, cfg Config) {
	rng := newRand(cfg.Seed)
	canvas := midpoint(cfg.Width, cfg.Height)

	var invalid []*Node
	patterns := make(map[string][]*Node)
	var keys []string

	for _, id := range fuzzyIDs(idx) {
		n := idx.Nodes[id]
		switch {
		case n.Invalid:
			invalid = append(invalid, n)
		case cfg.GroupFuzzy:
			key := strings.Join(n.Exhibitions, "|")
			if _, ok := patterns[key]; !ok {
				keys = append(keys, key)
			}
			patterns[key] = append(patterns[key], n)
		default:
			n.setPos(fuzzyBase(n, groups, cfg).add(jitter(rng, cfg.Jitter)))
		}
	}

	slices.Sort(keys)
	for _, key := range keys {
		members := patterns[key]
		anchor := fuzzyBase(members[0], groups, cfg).add(jitter(rng, cfg.Jitter))
		for i, n := range members {
			n.setPos(anchor.add(gridOffset(i, len(members), cfg.GridSpacing)))
		}
	}

	for _, n := range invalid {
		n.setPos(canvas.add(jitter(rng, cfg.Jitter)))
	}
}

// fuzzyBase averages the centres of n's exhibitions.
func fuzzyBase(n *Node, groups map[string]*Group, cfg Config) Point {
	var sum Point
	var total float64
	if cfg.WeightedFuzzy {
		for _, t := range n.Exhibitions {
			g, ok := groups[t]
			if !ok || g.Community < 0 || g.Community >= len(n.Weights) {
				continue
			}
			if w := n.Weights[g.Community]; w >= cfg.MinContribution && w > 0 {
				sum = sum.add(g.Center.scale(w))
				total += w
			}
		}
	}
	if total == 0 {
		for _, t := range n.Exhibitions {
			if g, ok := groups[t]; ok {
				sum = sum.add(g.Center)
				total++
			}
		}
	}
	if total == 0 {
		return midpoint(cfg.Width, cfg.Height)
	}
	return sum.scale(1 / total)
}

// gridOffset centres k cells on a near-square grid and returns the offset of
// cell i.
func gridOffset(i, k int, spacing float64) Point {
	cols := int(math.Ceil(math.Sqrt(float64(k))))
	rows := (k + cols - 1) / cols
	col, row := i%cols, i/cols
	return Point{
		X: (float64(col) - float64(cols-1)/2) * spacing,
		Y: (float64(row) - float64(rows-1)/2) * spacing,
	}
}

// ResolveCollisions runs CollisionPasses rounds of local declutter on the
// fuzzy artists:
//
//   - push them outside meta and anchor nodes of exhibitions they do not
//     belong to
//   - push them outside the core artists of their own non-collapsed
//     exhibitions
//   - separate overlapping fuzzy pairs, each moving half the overlap
//
// It does not guarantee a non-overlapping result.
func ResolveCollisions(idx *Index, synthetic []Node, groups map[string]*Group, decisions map[string]Decision, cfg Config) {
	ids := fuzzyIDs(idx)
	if len(ids) == 0 || cfg.CollisionPasses == 0 {
		return
	}

	r, pad := cfg.NodeRadius, cfg.CollisionPadding
	fuzzy := make([]*Node, len(ids))
	cores := make([][]*Node, len(ids))
	for i, id := range ids {
		n := idx.Nodes[id]
		fuzzy[i] = n
		seen := make(map[string]bool)
		for _, t := range n.Exhibitions {
			if g, ok := groups[t]; !ok || g.Aggregated {
				continue
			}
			for _, c := range decisions[t].Core {
				if !seen[c] {
					seen[c] = true
					cores[i] = append(cores[i], idx.Nodes[c])
				}
			}
		}
	}

	for pass := 0; pass < cfg.CollisionPasses; pass++ {
		for i, n := range fuzzy {
			for _, s := range synthetic {
				if !n.InExhibition(s.Exhibitions[0]) {
					pushOut(n, s.Pos(), s.Radius+r+pad, i)
				}
			}
			for _, c := range cores[i] {
				pushOut(n, c.Pos(), 2*r+pad, i)
			}
		}

		for i := range fuzzy {
			for j := i + 1; j < len(fuzzy); j++ {
				a, b := fuzzy[i], fuzzy[j]
				dir, d := unitDir(a.Pos(), b.Pos(), i*31+j)
				if overlap := 2*r - d; overlap > 0 {
					shift := dir.scale(overlap / 2)
					a.setPos(a.Pos().sub(shift))
					b.setPos(b.Pos().add(shift))
				}
			}
		}
	}
}

// pushOut moves n radially away from p until it is at least minDist away.
func pushOut(n *Node, p Point, minDist float64, salt int) {
	dir, d := unitDir(p, n.Pos(), salt)
	if d >= minDist {
		return
	}
	n.setPos(p.add(dir.scale(minDist)))
}

// unitDir returns the unit vector from a to b and their distance. Coincident
// points get a deterministic direction derived from salt.
func unitDir(a, b Point, salt int) (Point, float64) {
	delta := b.sub(a)
	d := delta.len()
	if d < 1e-9 {
		return polar(1, float64(salt)*goldenAngle), 0
	}
	return delta.scale(1 / d), d
}
