package membership

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Column names. Lookups are case-insensitive.
const (
	ColDisplayName     = "DisplayName"
	ColExhibitionTitle = "ExhibitionTitle"
	ColBeginDate       = "ExhibitionBeginDate"
	ColYear            = "Year"

	// WeightPrefix marks community weight columns (fik_C1, fik_C2, ...).
	WeightPrefix = "fik_C"
)

// AmbiguityColumns are the accepted names of the optional explicit marker.
var AmbiguityColumns = []string{"IsFuzzy", "fuzzy", "ambiguous"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// table is a parsed CSV file with a case-insensitive header.
type table struct {
	header map[string]int
	names  []string
	rows   [][]string
}

// decodeText returns data as UTF-8. Input that is not valid UTF-8 is
// assumed to be Latin-1, which is how the exhibition export is encoded.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode latin-1: %w", err)
	}
	return out, nil
}

func readTable(data []byte) (*table, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{header: make(map[string]int, len(head)), names: head}
	for i, name := range head {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := t.header[key]; !dup {
			t.header[key] = i
		}
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+2, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// col returns the index of the named column, or -1.
func (t *table) col(name string) int {
	if i, ok := t.header[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// firstCol returns the first present column among names, or -1.
func (t *table) firstCol(names ...string) int {
	for _, n := range names {
		if i := t.col(n); i >= 0 {
			return i
		}
	}
	return -1
}

func (t *table) require(names ...string) error {
	var missing []string
	for _, n := range names {
		if t.col(n) < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column(s) %s", strings.Join(missing, ", "))
	}
	return nil
}

// weightCols returns the weight column indexes ordered by community number.
func (t *table) weightCols() []int {
	type wc struct{ n, idx int }
	var cols []wc
	prefix := strings.ToLower(WeightPrefix)
	for i, name := range t.names {
		suffix, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(name)), prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		cols = append(cols, wc{n, i})
	}
	slices.SortFunc(cols, func(a, b wc) int { return a.n - b.n })
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.idx
	}
	return out
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var dateLayouts = []string{
	"1/2/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006-01",
	"2006",
}

// ParseYear derives a year from a begin date or year field. It accepts the
// common date layouts of the exhibition export as well as bare and
// float-formatted years ("1929", "1929.0"). The second result is false when
// no year can be derived.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Year(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && f > 0 && f < 10000 {
		return int(f), true
	}
	return 0, false
}

// ParseWeight parses one community weight. Non-numeric cells become NaN so
// that the vector keeps its length.
func ParseWeight(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseAmbiguity maps the explicit marker cell to an Ambiguity.
func ParseAmbiguity(s string) network.Ambiguity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "fuzzy", "ambiguous":
		return network.AmbiguityFuzzy
	case "0", "false", "no", "n", "core":
		return network.AmbiguityCore
	}
	return network.AmbiguityUnknown
}
