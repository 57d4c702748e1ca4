package cli

import (
	"encoding/json"
	"io"

	"github.com/soypat/wardrobe/layout"
	"github.com/spf13/cobra"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the structural sketch as JSON",
		Args:  cobra.NoArgs,
	}
	flags := addSpecFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		spec, err := flags.spec(cmd, c.cfg.Defaults)
		if err != nil {
			return err
		}
		res, err := layout.Generate(spec)
		if err != nil {
			return err
		}
		loggerFromContext(cmd.Context()).Debug("generated layout",
			"dividers", len(res.Inner)-res.Count(layout.Shelf),
			"shelves", res.Count(layout.Shelf))
		if output == "-" {
			return writeLayout(cmd.OutOrStdout(), res)
		}
		return writeTo(output, func(w io.Writer) error { return writeLayout(w, res) })
	}
	return cmd
}

func writeLayout(w io.Writer, res layout.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
