package builder

import (
	"context"

	"github.com/soypat/wardrobe/cad"
	"github.com/soypat/wardrobe/layout"
)

// Wardrobe validates spec, generates its layout and builds it into the
// root component of a new document named after the wardrobe.
func Wardrobe(ctx context.Context, spec layout.Spec, mats Resolver, opts Options) (*cad.Document, *Report, error) {
	res, err := layout.Generate(spec)
	if err != nil {
		return nil, nil, err
	}
	doc := cad.NewDocument("wardrobe")
	sess, err := doc.Session()
	if err != nil {
		return nil, nil, err
	}
	report, err := Build(ctx, sess.Root, res, spec, mats, opts)
	if err != nil {
		return nil, nil, err
	}
	sess.Viewport.Fit(report.Bounds)
	return doc, report, nil
}
