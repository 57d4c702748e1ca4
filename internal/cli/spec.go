package cli

import (
	"fmt"

	"github.com/soypat/wardrobe/addin"
	"github.com/soypat/wardrobe/layout"
	"github.com/spf13/cobra"
)

// specFlags binds the wardrobe parameters to command flags. Lengths accept
// unit suffixes (mm, cm, m, in, ft) and default to centimetres.
type specFlags struct {
	width, height, depth, thickness, inner string
	combos, partitions                     int
	material                               string
}

func addSpecFlags(cmd *cobra.Command) *specFlags {
	f := &specFlags{}
	fl := cmd.Flags()
	fl.StringVar(&f.width, "width", "", "overall width (default 2m)")
	fl.StringVar(&f.height, "height", "", "overall height (default 2.4m)")
	fl.StringVar(&f.depth, "depth", "", "outer wall depth (default 600mm)")
	fl.StringVar(&f.thickness, "thickness", "", "panel thickness (default 18mm)")
	fl.StringVar(&f.inner, "shelf-depth", "", "divider and shelf depth (default 495mm)")
	fl.IntVar(&f.combos, "combos", 0, fmt.Sprintf("number of combo columns [%d,%d]", layout.MinComboCount, layout.MaxComboCount))
	fl.IntVar(&f.partitions, "partitions", 0, fmt.Sprintf("number of partition rows [%d,%d]", layout.MinPartitionCount, layout.MaxPartitionCount))
	fl.StringVarP(&f.material, "material", "m", "", "wood material name")
	return f
}

// spec applies the flags that were set over base.
func (f *specFlags) spec(cmd *cobra.Command, base layout.Spec) (layout.Spec, error) {
	spec := base
	lengths := []struct {
		flag string
		expr string
		dst  *float64
	}{
		{"width", f.width, &spec.Width},
		{"height", f.height, &spec.Height},
		{"depth", f.depth, &spec.OuterWallDepth},
		{"thickness", f.thickness, &spec.WallThickness},
		{"shelf-depth", f.inner, &spec.InnerWallDepth},
	}
	for _, l := range lengths {
		if !cmd.Flags().Changed(l.flag) {
			continue
		}
		v, err := addin.ParseLength(l.expr, "cm")
		if err != nil {
			return spec, fmt.Errorf("--%s: %w", l.flag, err)
		}
		*l.dst = v
	}
	if cmd.Flags().Changed("combos") {
		spec.ComboCount = f.combos
	}
	if cmd.Flags().Changed("partitions") {
		spec.PartitionCount = f.partitions
	}
	if cmd.Flags().Changed("material") {
		spec.Material = f.material
	}
	return spec, nil
}

// describeSpec prints spec the way the command dialog shows it.
func describeSpec(cmd *cobra.Command, spec layout.Spec) {
	w := cmd.OutOrStdout()
	printKeyValue(w, "Width", addin.FormatLength(spec.Width, "m"))
	printKeyValue(w, "Height", addin.FormatLength(spec.Height, "m"))
	printKeyValue(w, "Depth", addin.FormatLength(spec.OuterWallDepth, "mm"))
	printKeyValue(w, "Thickness", addin.FormatLength(spec.WallThickness, "mm"))
	printKeyValue(w, "Shelf depth", addin.FormatLength(spec.InnerWallDepth, "mm"))
	printKeyValue(w, "Combos", fmt.Sprint(spec.ComboCount))
	printKeyValue(w, "Partitions", fmt.Sprint(spec.PartitionCount))
	if spec.Material != "" {
		printKeyValue(w, "Material", spec.Material)
	}
}
