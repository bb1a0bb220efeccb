package trackconfig

import (
	"context"
	"encoding/json"

	"github.com/genvis/trackbuild/opacity"
	"github.com/genvis/trackbuild/score"
	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
)

// featureBuilder imports flat interval-feature files (gff/gff3/bed/
// genbank) in their native coordinate space.  Match mode layers
// score-driven opacity over the observed score range and switches to a
// segment-aware glyph.
type featureBuilder struct {
	d *Dispatcher
}

func (b featureBuilder) add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error {
	ff := workspace.FlatFile{
		FormatFlag: tracklist.FlatFileFlag(t.Format),
		Path:       file,
		Label:      base.Label,
		Key:        base.Key,
	}
	hints := Hints{Category: t.Category}

	if t.Options.Match {
		hints.Glyph = segmentsGlyph
		style := base.Style
		r, ok, err := score.Scan(ctx, file)
		if err != nil {
			return err
		}
		if ok {
			// A degenerate range (min == max) yields no usable rescale;
			// the track keeps its flat color in that case.
			if e, usable := opacity.LinearNormalize(r.Min, r.Max); usable {
				style.Color = opacity.ColorFunction(opacity.SourceFeature, e, b.d.pal.NextSequential())
			}
		}
		cc, err := json.Marshal(style)
		if err != nil {
			return err
		}
		ff.ClientConfig = string(cc)
		ff.TrackType = canvasFeatures
	}

	cfg, err := json.Marshal(hints)
	if err != nil {
		return err
	}
	ff.Config = string(cfg)
	return b.d.ws.LoadFlatFile(ctx, ff)
}
