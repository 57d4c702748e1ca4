package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) materialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List the wood materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mats, err := c.resolver()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			names := mats.WoodNames()
			if len(names) == 0 {
				printInfo(w, "No wood materials found")
				return nil
			}
			t := newTable("Name", "Library", "Density", "Color")
			for _, name := range names {
				m, _ := mats.Resolve(name)
				t.Row(m.Name, m.Library, fmt.Sprintf("%g kg/m³", m.Density), m.Color)
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}
}
