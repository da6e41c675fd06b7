package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/render"
	"github.com/matzehuels/neuroscene/pkg/render/dot"
	"github.com/matzehuels/neuroscene/pkg/render/svg"
	"github.com/matzehuels/neuroscene/pkg/scene"
)

// Render generates output artifacts in the requested formats. PNG and PDF
// are converted from the projected SVG, so the frame is drawn at most once.
func Render(ctx context.Context, s *scene.Scene, opts Options) (map[string][]byte, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no scene to render")
	}

	var frame []byte
	projected := func() []byte {
		if frame == nil {
			frame = svg.Render(s, svg.WithSize(opts.Width, opts.Height), svg.WithTime(opts.Time))
		}
		return frame
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = projected()
		case FormatPNG:
			data, err = render.ToPNG(ctx, projected(), render.DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, projected())
		case FormatDOT:
			var src string
			if src, err = dot.ToDOT(s); err == nil {
				data = []byte(src)
			}
		case FormatGraph:
			var src string
			if src, err = dot.ToDOT(s); err == nil {
				data, err = dot.RenderSVG(ctx, src)
			}
		case FormatJSON:
			data, err = scene.Marshal(*s)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
