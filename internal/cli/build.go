package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/soypat/wardrobe/builder"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/preview"
	"github.com/soypat/wardrobe/render"
	"github.com/soypat/wardrobe/sketch"
	"github.com/spf13/cobra"
)

// buildOpts holds the output flags of the build command.
type buildOpts struct {
	stl     string // STL output path
	png     string // PNG preview path
	sketch  string // 2D sketch path; format from the extension
	cutList bool   // print the cut list
}

func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a wardrobe and export it",
		Example: `  wardrobe build --width 1.6m --combos 2 -o wardrobe.stl --png wardrobe.png
  wardrobe build --material Walnut --cut-list`,
		Args: cobra.NoArgs,
	}
	flags := addSpecFlags(cmd)
	cmd.Flags().StringVarP(&opts.stl, "output", "o", "", "STL output file")
	cmd.Flags().StringVar(&opts.png, "png", "", "PNG preview output file")
	cmd.Flags().StringVar(&opts.sketch, "sketch", "", "2D sketch output file (.png, .svg or .pdf)")
	cmd.Flags().BoolVar(&opts.cutList, "cut-list", false, "print the panel cut list")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		spec, err := flags.spec(cmd, c.cfg.Defaults)
		if err != nil {
			return err
		}
		if opts.sketch != "" {
			if err := validateSketchPath(opts.sketch); err != nil {
				return err
			}
		}
		return c.runBuild(cmd.Context(), cmd.OutOrStdout(), spec, opts)
	}
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, w io.Writer, spec layout.Spec, opts buildOpts) error {
	logger := loggerFromContext(ctx)
	mats, err := c.resolver()
	if err != nil {
		return err
	}
	prog := newProgress(logger)
	doc, report, err := builder.Wardrobe(ctx, spec, mats, builder.Options{Logger: logger})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d panels", report.Bodies))
	sess, err := doc.Session()
	if err != nil {
		return err
	}
	printReport(w, report)

	if opts.stl != "" || opts.png != "" {
		r, err := sess.Root.Renderer()
		if err != nil {
			return err
		}
		tris, err := render.RenderAll(r)
		if err != nil {
			return err
		}
		if opts.stl != "" {
			if err := writeSTL(opts.stl, render.NewMeshRenderer(tris)); err != nil {
				return err
			}
			printFile(w, opts.stl)
		}
		if opts.png != "" {
			popts := c.cfg.previewOptions()
			if m, ok := sess.Root.Material(); ok {
				if col, err := m.RGBA(); err == nil {
					popts.Color = col
				}
			}
			if err := writeTo(opts.png, func(fw io.Writer) error { return preview.Write(fw, tris, popts) }); err != nil {
				return err
			}
			printFile(w, opts.png)
		}
	}
	if opts.sketch != "" {
		res, err := layout.Generate(spec)
		if err != nil {
			return err
		}
		format := sketchFormat(opts.sketch)
		err = writeTo(opts.sketch, func(fw io.Writer) error {
			return sketch.Write(fw, res, format, sketch.Options{Title: "Wardrobe"})
		})
		if err != nil {
			return err
		}
		printFile(w, opts.sketch)
	}
	if opts.cutList {
		printCutList(w, report.Parts)
	}
	return nil
}

func writeSTL(path string, r render.Renderer) error {
	return writeTo(path, func(w io.Writer) error {
		_, err := render.WriteSTLFrom(w, r)
		return err
	})
}

func writeTo(path string, write func(io.Writer) error) error {
	fp, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fp.Close()
}

func sketchFormat(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func validateSketchPath(path string) error {
	format := sketchFormat(path)
	for _, f := range sketch.Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid sketch format: %q (must be one of %s)", format, strings.Join(sketch.Formats, ", "))
}

func printReport(w io.Writer, report *builder.Report) {
	printSuccess(w, "Built wardrobe")
	printKeyValue(w, "Panels", fmt.Sprint(report.Bodies))
	size := r3Size(report)
	printKeyValue(w, "Size", fmt.Sprintf("%.1f × %.1f × %.1f cm", size[0], size[1], size[2]))
	printKeyValue(w, "Volume", fmt.Sprintf("%.0f cm³", report.Volume))
	if report.Material != "" {
		printKeyValue(w, "Material", report.Material)
		printKeyValue(w, "Mass", fmt.Sprintf("%.2f kg", report.Mass))
	}
}

func r3Size(report *builder.Report) [3]float64 {
	b := report.Bounds
	return [3]float64{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

func printCutList(w io.Writer, cl builder.CutList) {
	t := newTable("Qty", "Length", "Width", "Thickness")
	for _, p := range cl.Parts {
		t.Row(fmt.Sprint(p.Quantity),
			fmt.Sprintf("%.2f cm", p.Length),
			fmt.Sprintf("%.2f cm", p.Width),
			fmt.Sprintf("%.2f cm", p.Thickness))
	}
	fmt.Fprintln(w, t.Render())
	printInfo(w, "%d panels, %.2f m² of board", cl.Count(), cl.Area*1e-4)
}
