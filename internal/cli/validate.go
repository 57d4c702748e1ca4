package cli

import (
	"errors"

	"github.com/soypat/wardrobe/layout"
	"github.com/spf13/cobra"
)

func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check wardrobe parameters",
		Args:  cobra.NoArgs,
	}
	flags := addSpecFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		spec, err := flags.spec(cmd, c.cfg.Defaults)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		describeSpec(cmd, spec)
		if err := layout.Validate(spec); err != nil {
			var verr *layout.ValidationError
			if errors.As(err, &verr) {
				printError(w, "%s: %s", verr.Field, verr.Reason)
			}
			return err
		}
		if spec.Material != "" {
			mats, err := c.resolver()
			if err != nil {
				return err
			}
			if _, err := mats.Lookup(spec.Material); err != nil {
				printInfo(w, "%v, the wardrobe keeps its default appearance", err)
			}
		}
		printSuccess(w, "Parameters are valid")
		return nil
	}
	return cmd
}
