package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exhibitnet/pkg/cache"
	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
)

const artistsCSV = `ExhibitionTitle,DisplayName,ExhibitionBeginDate
Cézanne and Gauguin,Paul Cézanne,11/7/1929
Cézanne and Gauguin,Paul Gauguin,11/7/1929
Cézanne and Gauguin,Vincent van Gogh,11/7/1929
Paintings,Georgia O'Keeffe,12/13/1929
Paintings,Paul Gauguin,12/13/1929
Modern Works,Paul Gauguin,1/19/1930
`

const membershipsCSV = `DisplayName,Year,fik_C1,fik_C2
Paul Cézanne,1929,0.9,0.1
Paul Gauguin,1929,0.5,0.5
Vincent van Gogh,1929,0.8,0.2
Georgia O'Keeffe,1929,0.1,0.9
Paul Gauguin,1930,0.7,0.3
`

func writeTables(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	artists := filepath.Join(dir, "artists.csv")
	memberships := filepath.Join(dir, "memberships.csv")
	if err := os.WriteFile(artists, []byte(artistsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(memberships, []byte(membershipsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return artists, memberships
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, err)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"native", false},
		{"graphviz", false},
		{"d3", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Network != network.DefaultConfig() {
		t.Errorf("Network = %+v, want DefaultConfig", opts.Network)
	}
	if opts.Transform != network.Identity() {
		t.Errorf("Transform = %+v, want identity", opts.Transform)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Engine != EngineNative {
		t.Errorf("Engine = %q, want native", opts.Engine)
	}
	if opts.Logger != nil {
		t.Error("DefaultOptions should leave Logger unset for the runner to fill")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Options)
		code errs.Code
	}{
		{"ok", func(*Options) {}, ""},
		{"missing artists", func(o *Options) { o.Artists = "" }, errs.ErrCodeInvalidSource},
		{"missing memberships", func(o *Options) { o.Memberships = "" }, errs.ErrCodeInvalidSource},
		{"bad scheme", func(o *Options) { o.Artists = "http://example.com/a.csv" }, errs.ErrCodeInvalidSource},
		{"bad year", func(o *Options) { o.Year = 29 }, errs.ErrCodeInvalidYear},
		{"bad config", func(o *Options) { o.Network.DensityThreshold = -1 }, errs.ErrCodeInvalidConfig},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errs.ErrCodeInvalidFormat},
		{"bad engine", func(o *Options) { o.Engine = "d3" }, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Artists = "artists.csv"
			opts.Memberships = "s3://moma/memberships.csv"
			opts.Year = 1929
			tt.mod(&opts)

			err := opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if opts.Logger == nil {
					t.Error("Logger should default to a discard logger")
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Artists: "a.csv", Memberships: "m.csv", Year: 1929}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Network
	opts.Network.Width = -1 // ignored once validated
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
	if first.Width != network.DefaultWidth {
		t.Errorf("zero config should be replaced by defaults, got width %v", first.Width)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Engine: EngineGraphviz, Labels: true}
	if got := opts.ArtifactKeyOpts(FormatSVG); got.Engine != EngineGraphviz || !got.Labels {
		t.Errorf("svg key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatDOT); got.Engine != "" {
		t.Errorf("engine should not affect non-svg keys, got %+v", got)
	}
	if Cacheable(FormatJSON) {
		t.Error("json must not be cacheable")
	}
	if !Cacheable(FormatPNG) {
		t.Error("png should be cacheable")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exhibitnet.toml")
	content := `artists = "data/artists.csv"
memberships = "s3://moma/memberships.csv"
year = 1931
formats = ["svg", "json"]

[network]
mode = "aggregateDisjoint"
density_threshold = 40

[network.relaxation]
iterations = 500
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if opts.Year != 1931 || opts.Artists != "data/artists.csv" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Network.Mode != network.ModeAggregateDisjoint || opts.Network.DensityThreshold != 40 {
		t.Errorf("network = %+v", opts.Network)
	}
	if opts.Network.Relaxation.Iterations != 500 {
		t.Errorf("iterations = %d, want 500", opts.Network.Relaxation.Iterations)
	}
	// Unset keys keep their defaults.
	if opts.Network.Width != network.DefaultWidth || opts.Network.Relaxation.Charge != 400 {
		t.Errorf("defaults lost: %+v", opts.Network)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("yaer = 1929\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfigFile(path)
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "yaer") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestEncodeConfigRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	opts.Year = 1950
	text, err := EncodeConfig(opts)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "dump.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	back, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Year != 1950 || back.Network != opts.Network {
		t.Errorf("round trip changed options: %+v", back)
	}
}

func TestExecute(t *testing.T) {
	artists, memberships := writeTables(t)
	runner := NewRunner(nil, nil, quietLogger())

	opts := DefaultOptions()
	opts.Artists = artists
	opts.Memberships = memberships
	opts.Year = 1929
	opts.Formats = []string{FormatSVG, FormatJSON, FormatDOT}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.RunID == "" || result.RunID != result.Layout.RunID {
		t.Errorf("RunID = %q, layout RunID = %q", result.RunID, result.Layout.RunID)
	}
	if result.Layout.NoData {
		t.Fatalf("unexpected no-data layout: %s", result.Layout.Reason)
	}
	if result.Layout.Year != 1929 {
		t.Errorf("Year = %d", result.Layout.Year)
	}
	if result.Layout.Stats.Exhibitions != 2 {
		t.Errorf("exhibitions = %d, want 2", result.Layout.Stats.Exhibitions)
	}
	if result.Stats.NodeCount != len(result.Layout.Nodes) {
		t.Errorf("NodeCount = %d, nodes = %d", result.Stats.NodeCount, len(result.Layout.Nodes))
	}
	for _, f := range opts.Formats {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact does not look like svg")
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), result.RunID) {
		t.Error("json artifact should carry the run id")
	}
	if result.Load.ArtistRows != 6 {
		t.Errorf("ArtistRows = %d, want 6", result.Load.ArtistRows)
	}
	if result.CacheInfo.TablesHit {
		t.Error("local tables never come from cache")
	}
}

func TestExecuteNoData(t *testing.T) {
	artists, memberships := writeTables(t)
	runner := NewRunner(nil, nil, quietLogger())

	opts := DefaultOptions()
	opts.Artists = artists
	opts.Memberships = memberships
	opts.Year = 1975

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("empty selection should not be an error: %v", err)
	}
	if !result.Layout.NoData || result.Layout.Reason != network.ReasonNoRecords {
		t.Errorf("NoData = %v, Reason = %q", result.Layout.NoData, result.Layout.Reason)
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), network.ReasonNoRecords) {
		t.Error("no-data svg should show the reason")
	}
}

func TestExecuteMissingTable(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	opts := DefaultOptions()
	opts.Artists = filepath.Join(t.TempDir(), "missing.csv")
	opts.Memberships = opts.Artists
	opts.Year = 1929

	_, err := runner.Execute(context.Background(), opts)
	if !errs.Is(err, errs.ErrCodeDataLoad) {
		t.Fatalf("error = %v, want DATA_LOAD", err)
	}
}

func TestExecuteRenderCache(t *testing.T) {
	artists, memberships := writeTables(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, quietLogger())
	defer runner.Close()

	opts := DefaultOptions()
	opts.Artists = artists
	opts.Memberships = memberships
	opts.Year = 1929
	opts.Formats = []string{FormatSVG, FormatJSON}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the render cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if second.RunID == first.RunID {
		t.Error("every layout must get a fresh run id")
	}
	if first.LayoutHash != second.LayoutHash {
		t.Error("layout hash should ignore the run id")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
	if strings.Contains(string(second.Artifacts[FormatJSON]), first.RunID) {
		t.Error("json must be rendered fresh with the new run id")
	}
}

func TestLoadCachesRemoteTables(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	runner := NewRunner(fc, nil, quietLogger())
	runner.Opener = membership.OpenerFunc(func(_ context.Context, uri string) ([]byte, error) {
		calls.Add(1)
		if strings.HasSuffix(uri, "artists.csv") {
			return []byte(artistsCSV), nil
		}
		return []byte(membershipsCSV), nil
	})

	opts := DefaultOptions()
	opts.Artists = "s3://moma/artists.csv"
	opts.Memberships = "s3://moma/memberships.csv"

	ctx := context.Background()
	if _, hit, err := runner.LoadWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("first load: hit=%v err=%v", hit, err)
	}
	ds, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil || !hit {
		t.Fatalf("second load: hit=%v err=%v", hit, err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("opener called %d times, want 2", n)
	}
	if !ds.HasYear(1930) {
		t.Error("cached dataset lost 1930")
	}

	opts.Refresh = true
	if _, hit, err := runner.LoadWithCacheInfo(ctx, opts); err != nil || hit {
		t.Fatalf("refresh load: hit=%v err=%v", hit, err)
	}
	if n := calls.Load(); n != 4 {
		t.Errorf("refresh should bypass the cache, opener called %d times", n)
	}
}

func TestRebuildCarriesTransform(t *testing.T) {
	ds, err := membership.Parse([]byte(artistsCSV), []byte(membershipsCSV))
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(nil, nil, quietLogger())

	opts := DefaultOptions()
	opts.Year = 1929
	opts.Transform = network.Transform{K: 2, X: -100, Y: 40}

	a, err := runner.Rebuild(context.Background(), ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Year = 1930
	b, err := runner.Rebuild(context.Background(), ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if a.Transform != opts.Transform || b.Transform != opts.Transform {
		t.Errorf("transform not carried: %+v %+v", a.Transform, b.Transform)
	}
	if a.RunID == b.RunID {
		t.Error("rebuilds must get distinct run ids")
	}
	if b.Stats.Exhibitions != 1 {
		t.Errorf("1930 exhibitions = %d, want 1", b.Stats.Exhibitions)
	}
}

func TestRebuildCanceled(t *testing.T) {
	ds, err := membership.Parse([]byte(artistsCSV), []byte(membershipsCSV))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.Year = 1929
	if _, err := NewRunner(nil, nil, quietLogger()).Rebuild(ctx, ds, opts); err == nil {
		t.Error("canceled context should abort the build")
	}
}

func TestRenderFormatDOT(t *testing.T) {
	ds, err := membership.Parse([]byte(artistsCSV), []byte(membershipsCSV))
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Year = 1929
	l, err := NewRunner(nil, nil, quietLogger()).BuildLayout(context.Background(), ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	data, err := RenderFormat(context.Background(), l, FormatDOT, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("dot output = %.40q", data)
	}
	if _, err := RenderFormat(context.Background(), l, "gif", opts); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}
