// Package membership loads the exhibition and fuzzy-membership tables and
// joins them into per-year [network.Record] slices.
//
// Two CSV tables are read:
//
//   - the artists table, one row per artist and exhibition, with
//     DisplayName, ExhibitionTitle and ExhibitionBeginDate (or Year)
//   - the memberships table, one row per artist and year, with DisplayName,
//     Year, community weights fik_C1..fik_Cn and an optional explicit
//     ambiguity marker
//
// Rows are joined on the normalized name and the year. An artist without a
// membership row gets no weight vector and is later placed as fuzzy.
package membership

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Dataset holds the joined records of every year.
type Dataset struct {
	years map[int][]network.Record
	Stats LoadStats
}

// LoadStats counts what happened while reading and joining the tables.
type LoadStats struct {
	ArtistRows     int `json:"artist_rows"`
	MembershipRows int `json:"membership_rows"`
	Communities    int `json:"communities"`

	// SkippedRows counts artist rows without a name, title or derivable year.
	SkippedRows int `json:"skipped_rows"`

	// UnmatchedMemberships counts membership rows with no exhibition in
	// their year; they cannot be placed and are dropped.
	UnmatchedMemberships int `json:"unmatched_memberships"`

	// DuplicateMemberships counts repeated name+year rows; the first wins.
	DuplicateMemberships int `json:"duplicate_memberships"`

	// MissingWeights counts joined artists with no membership row.
	MissingWeights int `json:"missing_weights"`
}

// YearSummary describes the data available for one year.
type YearSummary struct {
	Year        int `json:"year"`
	Artists     int `json:"artists"`
	Exhibitions int `json:"exhibitions"`
	Weighted    int `json:"weighted"`
}

type joinKey struct {
	name string
	year int
}

type artistAcc struct {
	display string
	titles  []string
}

type weightRow struct {
	weights   []float64
	ambiguity network.Ambiguity
}

// LoadTables fetches both tables concurrently through opener and joins them.
// A nil opener reads local files and S3 with default credentials. Any fetch
// or parse failure is returned as a DATA_LOAD_FAILURE error.
func LoadTables(ctx context.Context, artistsURI, membershipsURI string, opener Opener) (*Dataset, error) {
	if opener == nil {
		opener = NewSourceOpener(S3Options{})
	}
	var artistsRaw, membershipsRaw []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := opener.Open(gctx, artistsURI)
		if err != nil {
			return errs.Wrap(errs.ErrCodeDataLoad, err, "load artists table %s", artistsURI)
		}
		artistsRaw = data
		return nil
	})
	g.Go(func() error {
		data, err := opener.Open(gctx, membershipsURI)
		if err != nil {
			return errs.Wrap(errs.ErrCodeDataLoad, err, "load memberships table %s", membershipsURI)
		}
		membershipsRaw = data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Parse(artistsRaw, membershipsRaw)
}

// Parse joins already-fetched table contents.
func Parse(artistsCSV, membershipsCSV []byte) (*Dataset, error) {
	at, err := readTable(artistsCSV)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDataLoad, err, "parse artists table")
	}
	mt, err := readTable(membershipsCSV)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDataLoad, err, "parse memberships table")
	}

	var d Dataset
	artists, order, err := collectArtists(at, &d.Stats)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDataLoad, err, "artists table")
	}
	weights, err := collectWeights(mt, &d.Stats)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDataLoad, err, "memberships table")
	}

	d.years = make(map[int][]network.Record)
	for _, k := range order {
		acc := artists[k]
		rec := network.Record{
			Name:        acc.display,
			Exhibitions: strings.Join(acc.titles, "|"),
			Year:        k.year,
		}
		if w, ok := weights[k]; ok {
			rec.Weights = w.weights
			rec.Ambiguity = w.ambiguity
		} else {
			d.Stats.MissingWeights++
		}
		d.years[k.year] = append(d.years[k.year], rec)
	}
	for k := range weights {
		if _, ok := artists[k]; !ok {
			d.Stats.UnmatchedMemberships++
		}
	}
	for y := range d.years {
		slices.SortFunc(d.years[y], func(a, b network.Record) int {
			return cmp.Compare(network.NormalizeName(a.Name), network.NormalizeName(b.Name))
		})
	}
	return &d, nil
}

func collectArtists(t *table, stats *LoadStats) (map[joinKey]*artistAcc, []joinKey, error) {
	if err := t.require(ColDisplayName, ColExhibitionTitle); err != nil {
		return nil, nil, err
	}
	nameCol := t.col(ColDisplayName)
	titleCol := t.col(ColExhibitionTitle)
	dateCol := t.firstCol(ColBeginDate, ColYear)
	if dateCol < 0 {
		return nil, nil, fmt.Errorf("missing column %s or %s", ColBeginDate, ColYear)
	}

	acc := make(map[joinKey]*artistAcc)
	var order []joinKey
	for _, row := range t.rows {
		stats.ArtistRows++
		name := field(row, nameCol)
		// The title field is pipe-separated downstream.
		title := strings.ReplaceAll(field(row, titleCol), "|", "/")
		year, ok := ParseYear(field(row, dateCol))
		if network.NormalizeName(name) == "" || title == "" || !ok {
			stats.SkippedRows++
			continue
		}
		k := joinKey{network.NormalizeName(name), year}
		a, seen := acc[k]
		if !seen {
			a = &artistAcc{display: name}
			acc[k] = a
			order = append(order, k)
		}
		if !slices.Contains(a.titles, title) {
			a.titles = append(a.titles, title)
		}
	}
	return acc, order, nil
}

func collectWeights(t *table, stats *LoadStats) (map[joinKey]weightRow, error) {
	if err := t.require(ColDisplayName, ColYear); err != nil {
		return nil, err
	}
	wcols := t.weightCols()
	if len(wcols) == 0 {
		return nil, fmt.Errorf("no %s* weight columns", WeightPrefix)
	}
	stats.Communities = len(wcols)
	nameCol := t.col(ColDisplayName)
	yearCol := t.col(ColYear)
	ambCol := t.firstCol(AmbiguityColumns...)

	out := make(map[joinKey]weightRow)
	for _, row := range t.rows {
		stats.MembershipRows++
		name := network.NormalizeName(field(row, nameCol))
		year, ok := ParseYear(field(row, yearCol))
		if name == "" || !ok {
			continue
		}
		k := joinKey{name, year}
		if _, dup := out[k]; dup {
			stats.DuplicateMemberships++
			continue
		}
		w := make([]float64, len(wcols))
		for i, c := range wcols {
			w[i] = ParseWeight(field(row, c))
		}
		wr := weightRow{weights: w}
		if ambCol >= 0 {
			wr.ambiguity = ParseAmbiguity(field(row, ambCol))
		}
		out[k] = wr
	}
	return out, nil
}

// ForYear returns the joined records of year, ordered by normalized name.
// The returned slice is a copy.
func (d *Dataset) ForYear(year int) []network.Record {
	return slices.Clone(d.years[year])
}

// Years summarizes every year that has at least one record, in order.
func (d *Dataset) Years() []YearSummary {
	out := make([]YearSummary, 0, len(d.years))
	for y, recs := range d.years {
		s := YearSummary{Year: y, Artists: len(recs)}
		titles := make(map[string]struct{})
		for _, r := range recs {
			for _, t := range network.SplitExhibitions(r.Exhibitions) {
				titles[t] = struct{}{}
			}
			if r.Weights != nil {
				s.Weighted++
			}
		}
		s.Exhibitions = len(titles)
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b YearSummary) int { return a.Year - b.Year })
	return out
}

// HasYear reports whether year has any records.
func (d *Dataset) HasYear(year int) bool {
	return len(d.years[year]) > 0
}
