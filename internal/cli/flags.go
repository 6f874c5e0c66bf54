package cli

import (
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/exhibitnet/pkg/errors"
	"github.com/matzehuels/exhibitnet/pkg/network"
	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// optionFlags binds the flags shared by every command that loads tables
// and builds a layout. Flags the user sets explicitly override the config
// file, which overrides the defaults.
type optionFlags struct {
	config      string
	artists     string
	memberships string
	s3Region    string
	s3Endpoint  string
	refresh     bool
	noCache     bool

	year             int
	mode             string
	fuzzyOnly        bool
	centers          string
	crossLinks       string
	densityThreshold int
	fuzzyThreshold   float64
	weightedFuzzy    bool
	groupFuzzy       bool
	jitter           float64
	seed             uint64
	width            float64
	height           float64

	zoom float64
	panX float64
	panY float64
}

// register adds the shared flags to cmd.
func (f *optionFlags) register(cmd *cobra.Command) {
	def := network.DefaultConfig()
	fs := cmd.Flags()

	fs.StringVarP(&f.config, "config", "c", "", "TOML config file")
	fs.StringVar(&f.artists, "artists", "", "artists table (path or s3://bucket/key)")
	fs.StringVar(&f.memberships, "memberships", "", "fuzzy memberships table (path or s3://bucket/key)")
	fs.StringVar(&f.s3Region, "s3-region", "", "S3 region")
	fs.StringVar(&f.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	fs.BoolVar(&f.refresh, "refresh", false, "refetch remote tables instead of using the cache")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	fs.IntVarP(&f.year, "year", "y", 0, "year to lay out")
	fs.StringVarP(&f.mode, "mode", "m", string(def.Mode), "aggregation mode: fullDetail, aggregateDisjoint")
	fs.BoolVar(&f.fuzzyOnly, "fuzzy-only", false, "keep only exhibitions with fuzzy members")
	fs.StringVar(&f.centers, "centers", string(def.Centers), "cluster centre planner: radial, relaxation")
	fs.StringVar(&f.crossLinks, "cross-links", string(def.CrossLinks), "cross-cluster fuzzy links: always, fullDetailOnly, never")
	fs.IntVar(&f.densityThreshold, "density-threshold", def.DensityThreshold, "collapse exhibitions with more members")
	fs.Float64Var(&f.fuzzyThreshold, "fuzzy-threshold", def.FuzzyThreshold, "fuzziness at or above which an artist is fuzzy")
	fs.BoolVar(&f.weightedFuzzy, "weighted-fuzzy", false, "weight fuzzy placement by community membership")
	fs.BoolVar(&f.groupFuzzy, "group-fuzzy", false, "place artists with identical memberships on a grid")
	fs.Float64Var(&f.jitter, "jitter", def.Jitter, "fuzzy position jitter half-width")
	fs.Uint64Var(&f.seed, "seed", def.Seed, "random seed")
	fs.Float64Var(&f.width, "width", def.Width, "canvas width")
	fs.Float64Var(&f.height, "height", def.Height, "canvas height")

	fs.Float64Var(&f.zoom, "zoom", 1, "view zoom scale")
	fs.Float64Var(&f.panX, "pan-x", 0, "view horizontal offset")
	fs.Float64Var(&f.panY, "pan-y", 0, "view vertical offset")
}

// resolve builds options from defaults, the config file and changed flags.
func (f *optionFlags) resolve(cmd *cobra.Command) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadConfigFile(f.config); err != nil {
			return opts, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("artists") {
		opts.Artists = f.artists
	}
	if changed("memberships") {
		opts.Memberships = f.memberships
	}
	if changed("s3-region") {
		opts.S3.Region = f.s3Region
	}
	if changed("s3-endpoint") {
		opts.S3.Endpoint = f.s3Endpoint
	}
	opts.Refresh = f.refresh

	if changed("year") {
		opts.Year = f.year
	}
	if changed("mode") {
		mode, err := network.ParseMode(f.mode)
		if err != nil {
			return opts, errs.Wrap(errs.ErrCodeInvalidMode, err, "invalid --mode")
		}
		opts.Network.Mode = mode
	}
	if changed("fuzzy-only") {
		opts.Network.FuzzyOnly = f.fuzzyOnly
	}
	if changed("centers") {
		opts.Network.Centers = network.CenterStrategy(f.centers)
	}
	if changed("cross-links") {
		opts.Network.CrossLinks = network.CrossLinkPolicy(f.crossLinks)
	}
	if changed("density-threshold") {
		opts.Network.DensityThreshold = f.densityThreshold
	}
	if changed("fuzzy-threshold") {
		opts.Network.FuzzyThreshold = f.fuzzyThreshold
	}
	if changed("weighted-fuzzy") {
		opts.Network.WeightedFuzzy = f.weightedFuzzy
	}
	if changed("group-fuzzy") {
		opts.Network.GroupFuzzy = f.groupFuzzy
	}
	if changed("jitter") {
		opts.Network.Jitter = f.jitter
	}
	if changed("seed") {
		opts.Network.Seed = f.seed
	}
	if changed("width") {
		opts.Network.Width = f.width
	}
	if changed("height") {
		opts.Network.Height = f.height
	}

	if changed("zoom") {
		opts.Transform.K = f.zoom
	}
	if changed("pan-x") {
		opts.Transform.X = f.panX
	}
	if changed("pan-y") {
		opts.Transform.Y = f.panY
	}
	return opts, nil
}
