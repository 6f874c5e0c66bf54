package network

import (
	"math"
	"slices"
	"testing"
)

func TestSplitExhibitions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"A", []string{"A"}},
		{" A | B ", []string{"A", "B"}},
		{"A||B|", []string{"A", "B"}},
		{"  ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := SplitExhibitions(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitExhibitions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Paul KLEE "); got != "paul klee" {
		t.Errorf("NormalizeName = %q, want %q", got, "paul klee")
	}
}

func TestNewIndex(t *testing.T) {
	records := []Record{
		coreRec("Klee", "Bauhaus|Sturm"),
		coreRec(" klee ", "Dada"),
		fuzzyRec("Arp", "Dada"),
		{Name: "", Exhibitions: "Dada"},
		{Name: "Nobody", Exhibitions: " | "},
	}
	idx := NewIndex(records, DefaultConfig())

	if len(idx.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(idx.Nodes))
	}
	if idx.SkippedRecords != 2 {
		t.Errorf("SkippedRecords = %d, want 2", idx.SkippedRecords)
	}

	klee := idx.Nodes["klee"]
	if klee.Label != "Klee" {
		t.Errorf("label = %q, want first-seen spelling %q", klee.Label, "Klee")
	}
	if want := []string{"Bauhaus", "Dada", "Sturm"}; !slices.Equal(klee.Exhibitions, want) {
		t.Errorf("exhibitions = %q, want %q", klee.Exhibitions, want)
	}
	if klee.Fuzzy {
		t.Error("klee should be core")
	}
	if !idx.Nodes["arp"].Fuzzy {
		t.Error("arp should be fuzzy")
	}

	if want := []string{"arp", "klee"}; !slices.Equal(idx.Groups["Dada"], want) {
		t.Errorf("Dada members = %q, want %q", idx.Groups["Dada"], want)
	}
	if want := []string{"Bauhaus", "Dada", "Sturm"}; !slices.Equal(idx.Titles(), want) {
		t.Errorf("Titles = %q, want %q", idx.Titles(), want)
	}
}

func TestNewIndexFuzziness(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name          string
		rec           Record
		wantFuzzy     bool
		wantInvalid   bool
		wantCommunity int
		wantScore     float64
	}{
		{"Confident", coreRec("a", "X"), false, false, 0, 0.1},
		{"Split", fuzzyRec("a", "X"), true, false, 0, 0.5},
		{"AtThreshold", Record{Name: "a", Exhibitions: "X", Weights: []float64{0.6, 0.4}}, true, false, 0, 0.4},
		{"SecondCommunity", Record{Name: "a", Exhibitions: "X", Weights: []float64{0.1, 0.2, 0.7}}, false, false, 2, 0.3},
		{"MarkerOverridesScore", Record{Name: "a", Exhibitions: "X", Weights: []float64{0.9, 0.1}, Ambiguity: AmbiguityFuzzy}, true, false, 0, 0.1},
		{"MarkerCore", Record{Name: "a", Exhibitions: "X", Weights: []float64{0.5, 0.5}, Ambiguity: AmbiguityCore}, false, false, 0, 0.5},
		{"PartlyNumeric", Record{Name: "a", Exhibitions: "X", Weights: []float64{nan, 0.8}}, false, false, 1, 0.2},
		{"Missing", Record{Name: "a", Exhibitions: "X"}, true, true, -1, 1},
		{"AllNaN", Record{Name: "a", Exhibitions: "X", Weights: []float64{nan, nan}}, true, true, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndex([]Record{tt.rec}, DefaultConfig())
			n := idx.Nodes["a"]
			if n.Fuzzy != tt.wantFuzzy {
				t.Errorf("Fuzzy = %v, want %v", n.Fuzzy, tt.wantFuzzy)
			}
			if n.Invalid != tt.wantInvalid {
				t.Errorf("Invalid = %v, want %v", n.Invalid, tt.wantInvalid)
			}
			if n.Community != tt.wantCommunity {
				t.Errorf("Community = %d, want %d", n.Community, tt.wantCommunity)
			}
			if math.Abs(n.Fuzziness-tt.wantScore) > 1e-9 {
				t.Errorf("Fuzziness = %v, want %v", n.Fuzziness, tt.wantScore)
			}
			if tt.wantInvalid && idx.InvalidVectors != 1 {
				t.Errorf("InvalidVectors = %d, want 1", idx.InvalidVectors)
			}
		})
	}
}

func TestIndexCommunity(t *testing.T) {
	records := []Record{
		{Name: "a", Exhibitions: "X", Weights: []float64{0.1, 0.9}},
		{Name: "b", Exhibitions: "X", Weights: []float64{0.9, 0.1}},
		{Name: "c", Exhibitions: "X|Y", Weights: []float64{0.2, 0.8}},
		{Name: "d", Exhibitions: "Z"},
	}
	idx := NewIndex(records, DefaultConfig())
	if got := idx.Community("X"); got != 1 {
		t.Errorf("Community(X) = %d, want 1", got)
	}
	if got := idx.Community("Y"); got != 1 {
		t.Errorf("Community(Y) = %d, want 1", got)
	}
	if got := idx.Community("Z"); got != -1 {
		t.Errorf("Community(Z) = %d, want -1", got)
	}

	tie := NewIndex([]Record{
		{Name: "a", Exhibitions: "X", Weights: []float64{0.1, 0.9}},
		{Name: "b", Exhibitions: "X", Weights: []float64{0.9, 0.1}},
	}, DefaultConfig())
	if got := tie.Community("X"); got != 0 {
		t.Errorf("tied Community = %d, want lowest label 0", got)
	}
}

func TestRestrictToFuzzy(t *testing.T) {
	idx := NewIndex([]Record{
		coreRec("a", "Core"),
		coreRec("b", "Core|Mixed"),
		fuzzyRec("c", "Mixed"),
		{Name: "d", Exhibitions: "Core"},
	}, DefaultConfig())
	idx.RestrictToFuzzy()

	// d has no weight vector, which makes it fuzzy and keeps Core.
	if want := []string{"Core", "Mixed"}; !slices.Equal(idx.Titles(), want) {
		t.Fatalf("Titles = %q, want %q", idx.Titles(), want)
	}

	idx = NewIndex([]Record{
		coreRec("a", "Core"),
		coreRec("b", "Core|Mixed"),
		fuzzyRec("c", "Mixed"),
	}, DefaultConfig())
	idx.RestrictToFuzzy()
	if want := []string{"Mixed"}; !slices.Equal(idx.Titles(), want) {
		t.Errorf("Titles = %q, want %q", idx.Titles(), want)
	}
	if _, ok := idx.Nodes["a"]; ok {
		t.Error("artist without remaining exhibitions should be dropped")
	}
	if want := []string{"Mixed"}; !slices.Equal(idx.Nodes["b"].Exhibitions, want) {
		t.Errorf("b exhibitions = %q, want %q", idx.Nodes["b"].Exhibitions, want)
	}
}

func TestSharedFuzzy(t *testing.T) {
	idx := NewIndex([]Record{
		fuzzyRec("a", "X|Y"),
		fuzzyRec("b", "X|Y|Z"),
		coreRec("c", "X|Z"),
	}, DefaultConfig())
	shared := idx.SharedFuzzy()
	if got := shared[edgeKey("X", "Y")]; got != 2 {
		t.Errorf("shared(X,Y) = %d, want 2", got)
	}
	if got := shared[edgeKey("Z", "X")]; got != 1 {
		t.Errorf("shared(X,Z) = %d, want 1", got)
	}
}

func TestClusterRadius(t *testing.T) {
	cfg := DefaultConfig()
	if got := ClusterRadius(0, 10, cfg); got != cfg.MinClusterRadius {
		t.Errorf("radius(0) = %v, want %v", got, cfg.MinClusterRadius)
	}
	if got := ClusterRadius(10, 10, cfg); !approx(got, cfg.MaxClusterRadius) {
		t.Errorf("radius(max) = %v, want %v", got, cfg.MaxClusterRadius)
	}
	prev := 0.0
	for s := 1; s <= 100; s++ {
		r := ClusterRadius(s, 100, cfg)
		if r < prev {
			t.Fatalf("radius(%d) = %v < radius(%d) = %v", s, r, s-1, prev)
		}
		prev = r
	}
}
