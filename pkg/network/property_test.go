package network

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyTitles = []string{"Bauhaus", "Sturm", "Dada", "Blaue Reiter", "Brücke", "secession"}

// recordsFromCodes decodes each generated integer into a record: the low bits
// pick the artist, the next six select exhibitions and the rest choose the
// weight vector shape.
func recordsFromCodes(codes []int) []Record {
	records := make([]Record, 0, len(codes))
	for _, c := range codes {
		r := Record{Name: fmt.Sprintf("artist%d", c%48)}
		// Two artists shadow the synthetic ids of the last exhibition.
		switch c % 48 {
		case 46:
			r.Name = "Anchor:" + propertyTitles[len(propertyTitles)-1]
		case 47:
			r.Name = "Meta:" + propertyTitles[len(propertyTitles)-1]
		}
		mask := (c >> 6) & 0x3f
		for i, t := range propertyTitles {
			if mask&(1<<i) != 0 {
				if r.Exhibitions != "" {
					r.Exhibitions += "|"
				}
				r.Exhibitions += t
			}
		}
		switch (c >> 12) % 5 {
		case 0:
			r.Weights = nil
		case 1:
			r.Weights = []float64{math.NaN(), math.NaN()}
		case 2:
			r.Weights = []float64{0.9, 0.05, 0.05}
		case 3:
			r.Weights = []float64{0.4, 0.35, 0.25}
		default:
			r.Weights = []float64{0.1, 0.2, 0.7}
		}
		records = append(records, r)
	}
	return records
}

func configFromFlags(flags uint8) Config {
	cfg := DefaultConfig()
	if flags&1 != 0 {
		cfg.Mode = ModeAggregateDisjoint
	}
	if flags&2 != 0 {
		cfg.Centers = CentersRelaxation
		cfg.Relaxation.Iterations = 50
	}
	if flags&4 != 0 {
		cfg.GroupFuzzy = true
	}
	if flags&8 != 0 {
		cfg.WeightedFuzzy = true
	}
	if flags&16 != 0 {
		cfg.DensityThreshold = 5
	}
	if flags&32 != 0 {
		cfg.FuzzyOnly = true
	}
	return cfg
}

func TestLayoutProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property tests in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	codes := gen.SliceOf(gen.IntRange(0, 1<<15))
	flags := gen.UInt8()

	properties.Property("node positions are finite", prop.ForAll(
		func(codes []int, flags uint8) bool {
			l, err := Build(recordsFromCodes(codes), configFromFlags(flags), Identity())
			if err != nil {
				return false
			}
			for _, n := range l.Nodes {
				if !n.Pos().finite() {
					return false
				}
			}
			return true
		},
		codes, flags,
	))

	properties.Property("node ids are unique", prop.ForAll(
		func(codes []int, flags uint8) bool {
			l, _ := Build(recordsFromCodes(codes), configFromFlags(flags), Identity())
			seen := make(map[string]bool, len(l.Nodes))
			for _, n := range l.Nodes {
				if seen[n.ID] {
					return false
				}
				seen[n.ID] = true
			}
			return true
		},
		codes, flags,
	))

	properties.Property("edge pairs are unique", prop.ForAll(
		func(codes []int, flags uint8) bool {
			l, _ := Build(recordsFromCodes(codes), configFromFlags(flags), Identity())
			seen := make(map[string]bool, len(l.Edges))
			for _, e := range l.Edges {
				if seen[e.Key()] {
					return false
				}
				seen[e.Key()] = true
			}
			return true
		},
		codes, flags,
	))

	properties.Property("every edge endpoint is an emitted node", prop.ForAll(
		func(codes []int, flags uint8) bool {
			l, _ := Build(recordsFromCodes(codes), configFromFlags(flags), Identity())
			ids := make(map[string]bool, len(l.Nodes))
			for _, n := range l.Nodes {
				ids[n.ID] = true
			}
			for _, e := range l.Edges {
				if !ids[e.Source] || !ids[e.Target] {
					return false
				}
			}
			return true
		},
		codes, flags,
	))

	properties.Property("dense groups are always a single meta-node", prop.ForAll(
		func(codes []int, flags uint8) bool {
			cfg := configFromFlags(flags)
			l, _ := Build(recordsFromCodes(codes), cfg, Identity())
			for _, g := range l.Groups {
				if len(g.Members) <= cfg.DensityThreshold {
					continue
				}
				if !g.Aggregated {
					return false
				}
				for _, n := range l.Nodes {
					if n.ID == MetaID(g.Title) {
						continue
					}
					if !n.Fuzzy && n.Kind == KindArtist && n.InExhibition(g.Title) && len(n.Exhibitions) == 1 {
						return false
					}
				}
			}
			return true
		},
		codes, flags,
	))

	properties.Property("every artist belongs to a group", prop.ForAll(
		func(codes []int, flags uint8) bool {
			l, _ := Build(recordsFromCodes(codes), configFromFlags(flags), Identity())
			titles := make(map[string]bool, len(l.Groups))
			for _, g := range l.Groups {
				titles[g.Title] = true
			}
			for _, n := range l.Nodes {
				if len(n.Exhibitions) == 0 {
					return false
				}
				for _, t := range n.Exhibitions {
					if !titles[t] {
						return false
					}
				}
			}
			return true
		},
		codes, flags,
	))

	properties.Property("radius is non-decreasing in group size", prop.ForAll(
		func(a, b, maxSize int) bool {
			if a > b {
				a, b = b, a
			}
			cfg := DefaultConfig()
			return ClusterRadius(a, maxSize, cfg) <= ClusterRadius(b, maxSize, cfg)
		},
		gen.IntRange(0, 500), gen.IntRange(0, 500), gen.IntRange(0, 500),
	))

	properties.TestingRun(t)
}
