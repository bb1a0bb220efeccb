package trackconfig

import (
	"context"
	"encoding/json"
	"os"

	"github.com/genvis/trackbuild/opacity"
	"github.com/genvis/trackbuild/rebase"
	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
)

// alignmentResultBuilder handles pairwise-alignment results (blastxml):
// the raw output is rebased into reference-genome coordinates first, then
// imported with a log-decay opacity callback reading the parent match
// feature's score.
type alignmentResultBuilder struct {
	d       *Dispatcher
	toolDir string
}

func (b alignmentResultBuilder) add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error {
	rebased, err := rebase.Rebase(ctx, b.d.run, b.d.ws.ViewerDir(), file, rebase.Opts{
		Parent:  t.Options.Parent,
		Protein: t.Options.Protein,
		MinGap:  t.Options.MinGap,
		ToolDir: b.toolDir,
	})
	if err != nil {
		return err
	}
	defer os.Remove(rebased)

	style := base.Style
	style.Color = opacity.ColorFunction(opacity.SourceParent, opacity.LogDecay(), b.d.pal.NextSequential())
	cc, err := json.Marshal(style)
	if err != nil {
		return err
	}
	cfg, err := json.Marshal(Hints{Glyph: segmentsGlyph, Category: t.Category})
	if err != nil {
		return err
	}
	return b.d.ws.LoadFlatFile(ctx, workspace.FlatFile{
		FormatFlag:   "--gff",
		Path:         rebased,
		Label:        base.Label,
		Key:          base.Key,
		ClientConfig: string(cc),
		Config:       string(cfg),
		TrackType:    canvasFeatures,
	})
}
