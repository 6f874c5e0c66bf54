package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default values for [Config].
const (
	DefaultWidth            = 1000.0
	DefaultHeight           = 800.0
	DefaultDensityThreshold = 50
	DefaultFuzzyThreshold   = 0.4
	DefaultMinContribution  = 0.1
	DefaultJitter           = 15.0
	DefaultSeed             = uint64(42)
	DefaultIterations       = 300
	DefaultCollisionPasses  = 3
	DefaultMinEdgeScale     = 0.5
)

// validate is shared by all Config validations; validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = validator.New()

// RelaxationConfig holds the force constants of the relaxation planner.
type RelaxationConfig struct {
	// Iterations is the fixed step budget. There is no convergence test.
	Iterations int `json:"iterations" toml:"iterations" validate:"gte=1,lte=10000"`

	// CenterStrength pulls every body towards the canvas centre.
	CenterStrength float64 `json:"center_strength" toml:"center_strength" validate:"gte=0,lte=1"`

	// Charge is the inverse-square repulsion between every pair of bodies.
	Charge float64 `json:"charge" toml:"charge" validate:"gte=0"`

	// LinkStrength scales the attraction between exhibitions that share fuzzy
	// artists. Values above 0.5 would let a pair overshoot in one step.
	LinkStrength float64 `json:"link_strength" toml:"link_strength" validate:"gte=0,lte=0.5"`

	// Padding is the minimum gap between two cluster boundaries.
	Padding float64 `json:"padding" toml:"padding" validate:"gte=0"`

	// VelocityDecay damps velocity after each step (fraction kept).
	VelocityDecay float64 `json:"velocity_decay" toml:"velocity_decay" validate:"gte=0,lt=1"`

	// MaxStep bounds the displacement of a body per step.
	MaxStep float64 `json:"max_step" toml:"max_step" validate:"gt=0"`
}

// Config carries every tunable of one pipeline run. Use [DefaultConfig] and
// override fields; the zero value is not valid.
type Config struct {
	Width  float64 `json:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" toml:"height" validate:"gt=0"`

	Mode      AggregationMode `json:"mode" toml:"mode" validate:"oneof=fullDetail aggregateDisjoint"`
	FuzzyOnly bool            `json:"fuzzy_only" toml:"fuzzy_only"`

	// DensityThreshold collapses any group with more members, in every mode.
	DensityThreshold int `json:"density_threshold" toml:"density_threshold" validate:"gte=1"`

	// FuzzyThreshold classifies records without an explicit marker:
	// 1 − max(weights) >= FuzzyThreshold is fuzzy.
	FuzzyThreshold float64 `json:"fuzzy_threshold" toml:"fuzzy_threshold" validate:"gte=0,lte=1"`

	Centers    CenterStrategy   `json:"centers" toml:"centers" validate:"oneof=radial relaxation"`
	Relaxation RelaxationConfig `json:"relaxation" toml:"relaxation"`
	CrossLinks CrossLinkPolicy  `json:"cross_links" toml:"cross_links" validate:"oneof=always fullDetailOnly never"`

	// LayoutRadius is the radial planner's ring radius. Zero derives it from
	// the canvas size.
	LayoutRadius float64 `json:"layout_radius" toml:"layout_radius" validate:"gte=0"`

	// Cluster radii are scaled by √(size) between these bounds.
	MinClusterRadius float64 `json:"min_cluster_radius" toml:"min_cluster_radius" validate:"gt=0"`
	MaxClusterRadius float64 `json:"max_cluster_radius" toml:"max_cluster_radius" validate:"gtefield=MinClusterRadius"`

	// SpiralDamping keeps spiral points inside the cluster boundary.
	SpiralDamping float64 `json:"spiral_damping" toml:"spiral_damping" validate:"gt=0,lte=1"`

	// NodeRadius is the nominal artist radius used for collision handling.
	NodeRadius float64 `json:"node_radius" toml:"node_radius" validate:"gt=0"`

	// Jitter is the half-width of the uniform offset applied to fuzzy
	// positions. Zero disables jitter.
	Jitter float64 `json:"jitter" toml:"jitter" validate:"gte=0,lte=200"`
	Seed   uint64  `json:"seed" toml:"seed"`

	// WeightedFuzzy weights exhibition anchors by the artist's weight for the
	// exhibition's predominant community, ignoring weights below
	// MinContribution.
	WeightedFuzzy   bool    `json:"weighted_fuzzy" toml:"weighted_fuzzy"`
	MinContribution float64 `json:"min_contribution" toml:"min_contribution" validate:"gte=0,lte=1"`

	// GroupFuzzy places artists with identical membership sets on a shared grid.
	GroupFuzzy  bool    `json:"group_fuzzy" toml:"group_fuzzy"`
	GridSpacing float64 `json:"grid_spacing" toml:"grid_spacing" validate:"gt=0"`

	CollisionPasses  int     `json:"collision_passes" toml:"collision_passes" validate:"gte=0,lte=50"`
	CollisionPadding float64 `json:"collision_padding" toml:"collision_padding" validate:"gte=0"`

	// MinEdgeScale hides every edge while the zoom scale is below it.
	MinEdgeScale float64 `json:"min_edge_scale" toml:"min_edge_scale" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		Mode:             ModeFullDetail,
		DensityThreshold: DefaultDensityThreshold,
		FuzzyThreshold:   DefaultFuzzyThreshold,
		Centers:          CentersRadial,
		Relaxation: RelaxationConfig{
			Iterations:     DefaultIterations,
			CenterStrength: 0.02,
			Charge:         400,
			LinkStrength:   0.05,
			Padding:        12,
			VelocityDecay:  0.6,
			MaxStep:        20,
		},
		CrossLinks:       CrossLinkAlways,
		MinClusterRadius: 10,
		MaxClusterRadius: 70,
		SpiralDamping:    0.9,
		NodeRadius:       5,
		Jitter:           DefaultJitter,
		Seed:             DefaultSeed,
		MinContribution:  DefaultMinContribution,
		GridSpacing:      12,
		CollisionPasses:  DefaultCollisionPasses,
		CollisionPadding: 2,
		MinEdgeScale:     DefaultMinEdgeScale,
	}
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ParseMode converts a user-supplied aggregation mode.
func ParseMode(s string) (AggregationMode, error) {
	switch AggregationMode(s) {
	case ModeFullDetail, ModeAggregateDisjoint:
		return AggregationMode(s), nil
	}
	return "", fmt.Errorf("invalid mode: %q (must be one of: fullDetail, aggregateDisjoint)", s)
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
