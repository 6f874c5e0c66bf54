// Package pipeline provides the load → layout → render pipeline for exhibitnet.
//
// This package is shared by the CLI, the TUI and the HTTP server so that all
// entry points load, build and render the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch the artists and memberships tables (local or S3) and join
//     them by normalized name and year
//  2. Layout: run [network.Build] on one year's records
//  3. Render: produce artifacts (JSON, SVG, DOT, PNG)
//
// Fetched remote tables and rendered artifacts are cached. Layouts are
// always recomputed: the only state carried from one run to the next is the
// view transform, which the caller passes in explicitly.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Artists = "data/MoMAExhibitions1929to1989.csv"
//	opts.Memberships = "data/fuzzy_memberships_by_year.csv"
//	opts.Year = 1929
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exhibitnet/pkg/cache"
	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/network"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// Engine constants select the SVG renderer.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidEngines is the set of supported SVG renderers.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// It supports JSON (API requests) and TOML (config files).
type Options struct {
	// Load options
	Artists     string               `json:"artists" toml:"artists"`
	Memberships string               `json:"memberships" toml:"memberships"`
	S3          membership.S3Options `json:"s3,omitempty" toml:"s3"`
	Refresh     bool                 `json:"refresh,omitempty" toml:"-"`

	// Layout options
	Year      int               `json:"year" toml:"year"`
	Network   network.Config    `json:"network" toml:"network"`
	Transform network.Transform `json:"transform" toml:"transform"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	Engine   string   `json:"engine,omitempty" toml:"engine"`
	Labels   bool     `json:"labels,omitempty" toml:"labels"`
	AllEdges bool     `json:"all_edges,omitempty" toml:"all_edges"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every default applied except the
// table locations and the year.
func DefaultOptions() Options {
	o := Options{}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.Logger = nil
	return o
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the layout computation. Hosts that trigger several
	// runs keep only the result whose id they last requested.
	RunID string

	// Layout is the computed network layout.
	Layout network.Layout

	// LayoutHash is the content hash of the layout without its run id.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Load holds the table loading counters.
	Load membership.LoadStats

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int
	NodeCount    int
	EdgeCount    int
	VisibleEdges int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
// There is no layout entry: layouts are never cached.
type CacheInfo struct {
	TablesHit bool // Whether both remote tables came from cache
	RenderHit bool // Whether all cacheable artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errs.ValidateFormat(format, sortedKeys(ValidFormats))
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an SVG engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid engine: %q (must be one of: %s)", engine, strings.Join(sortedKeys(ValidEngines), ", "))
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the table locations.
func (o *Options) ValidateForLoad() error {
	if o.Artists == "" {
		return errs.New(errs.ErrCodeInvalidSource, "artists table is required")
	}
	if o.Memberships == "" {
		return errs.New(errs.ErrCodeInvalidSource, "memberships table is required")
	}
	if err := errs.ValidateSourceURI(o.Artists); err != nil {
		return err
	}
	if err := errs.ValidateSourceURI(o.Memberships); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
// A zero network config is replaced by [network.DefaultConfig].
func (o *Options) SetLayoutDefaults() {
	if o.Network == (network.Config{}) {
		o.Network = network.DefaultConfig()
	}
	if o.Transform.K == 0 {
		o.Transform = network.Identity()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
// A zero year is valid and selects nothing; the layout reports no data.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errs.ValidateYear(o.Year); err != nil {
		return err
	}
	if err := o.Network.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid network config")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Labels:   o.Labels,
		AllEdges: o.AllEdges,
	}
	if format == FormatSVG {
		opts.Engine = o.Engine
	}
	return opts
}

// Cacheable reports whether a rendered format may be cached. JSON carries
// the run id, so it is always rendered fresh.
func Cacheable(format string) bool {
	return format != FormatJSON
}
