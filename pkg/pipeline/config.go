package pipeline

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/exhibitnet/pkg/errors"
)

// LoadConfigFile reads TOML options from path on top of [DefaultOptions].
// Keys the file does not set keep their defaults; unknown keys are an
// error so typos do not silently fall back.
//
// Example file:
//
//	artists     = "s3://moma/MoMAExhibitions1929to1989.csv"
//	memberships = "s3://moma/fuzzy_memberships_by_year.csv"
//	year        = 1929
//	formats     = ["svg", "json"]
//
//	[network]
//	mode = "aggregateDisjoint"
//	density_threshold = 40
//
//	[network.relaxation]
//	iterations = 500
func LoadConfigFile(path string) (Options, error) {
	opts := DefaultOptions()
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// EncodeConfig writes opts as TOML, for `exhibitnet config` style dumps.
func EncodeConfig(opts Options) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(opts); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
