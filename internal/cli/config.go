package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// configCommand prints the effective configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

Defaults, the --config file and explicit flags are merged in that order.
The output is a valid config file:

  exhibitnet config --mode aggregateDisjoint > exhibitnet.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}
			text, err := pipeline.EncodeConfig(opts)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
