package network

import (
	"fmt"
	"math"
	"testing"
)

// coreRec returns a record with a confident weight vector (fuzziness 0.1).
func coreRec(name, titles string) Record {
	return Record{Name: name, Exhibitions: titles, Weights: []float64{0.9, 0.1}}
}

// fuzzyRec returns a record with a split weight vector (fuzziness 0.5).
func fuzzyRec(name, titles string) Record {
	return Record{Name: name, Exhibitions: titles, Weights: []float64{0.5, 0.5}}
}

// coreGroup returns n core records in one exhibition named prefix0..prefixN.
func coreGroup(prefix, title string, n int) []Record {
	recs := make([]Record, n)
	for i := range recs {
		recs[i] = coreRec(fmt.Sprintf("%s%02d", prefix, i), title)
	}
	return recs
}

func mustBuild(t *testing.T, records []Record, cfg Config) Layout {
	t.Helper()
	l, err := Build(records, cfg, Identity())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}

func countEdges(l Layout, typ EdgeType) int {
	n := 0
	for _, e := range l.Edges {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
