package network

import (
	"math"
	"slices"
)

// goldenAngle is (3−√5)·π, about 2.39996 rad.
var goldenAngle = (3 - math.Sqrt(5)) * math.Pi

// SpiralOffset returns the offset of the i-th of n points on a golden-angle
// spiral filling a disc of the given radius: angle = i·goldenAngle,
// distance = radius·√(i/n)·damping.
func SpiralOffset(i, n int, radius, damping float64) Point {
	if n <= 0 {
		return Point{}
	}
	r := radius * math.Sqrt(float64(i)/float64(n)) * damping
	return polar(r, float64(i)*goldenAngle)
}

// PlaceCore positions the core artists of every non-collapsed group on a
// golden-angle spiral around the group centre.
//
// A core artist that belongs to several exhibitions is placed once, in its
// home group: the first of its exhibitions (in title order) that is not
// collapsed. Core artists whose exhibitions are all collapsed are not placed.
// The returned map lists placed ids by home exhibition.
func PlaceCore(idx *Index, groups map[string]*Group, decisions map[string]Decision, cfg Config) map[string][]string {
	homes := make(map[string][]string)
	for _, title := range idx.Titles() {
		if groups[title].Aggregated {
			continue
		}
		for _, id := range decisions[title].Core {
			if home, ok := homeGroup(idx.Nodes[id], groups); ok && home == title {
				homes[title] = append(homes[title], id)
			}
		}
	}

	for title, ids := range homes {
		g := groups[title]
		slices.Sort(ids)
		for i, id := range ids {
			idx.Nodes[id].setPos(g.Center.add(SpiralOffset(i, len(ids), g.Radius, cfg.SpiralDamping)))
		}
	}
	return homes
}

// homeGroup returns the first non-collapsed exhibition of n.
func homeGroup(n *Node, groups map[string]*Group) (string, bool) {
	for _, t := range n.Exhibitions {
		if g, ok := groups[t]; ok && !g.Aggregated {
			return t, true
		}
	}
	return "", false
}
