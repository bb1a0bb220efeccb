package trackconfig

import (
	"context"
	"fmt"

	"github.com/genvis/trackbuild/palette"
	"github.com/genvis/trackbuild/runner"
	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
	"github.com/grailbio/base/errors"
)

// Viewer store classes and track types referenced by descriptors.
const (
	segmentsGlyph  = "JBrowse/View/FeatureGlyph/Segments"
	canvasFeatures = "JBrowse/View/Track/CanvasFeatures"

	bigWigStore  = "JBrowse/Store/SeqFeature/BigWig"
	densityTrack = "JBrowse/View/Track/Wiggle/Density"

	bamStore        = "JBrowse/Store/SeqFeature/BAM"
	alignmentsTrack = "JBrowse/View/Track/Alignments2"
	snpCovTrack     = "JBrowse/View/Track/SNPCoverage"

	vcfTabixStore = "JBrowse/Store/SeqFeature/VCFTabix"
	variantsTrack = "JBrowse/View/Track/HTMLVariants"
)

// Config wires a Dispatcher's collaborators.
type Config struct {
	Workspace *workspace.Workspace
	Runner    runner.Runner
	// Palette is the run-wide color allocator.  Its cursor is shared
	// across every track the dispatcher processes.
	Palette *palette.Allocator
	// RebaseToolDir locates the coordinate-rebasing helper scripts; empty
	// means $PATH.
	RebaseToolDir string
}

// builder adds the descriptor(s) for one file of a track.  base arrives
// with the label, key, and resolved style filled in.
type builder interface {
	add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error
}

// Dispatcher routes tracks to their format's builder.  Processing is
// strictly sequential: descriptor labels, palette colors, and the config
// store's append order all depend on shared order-dependent state.
type Dispatcher struct {
	ws       *workspace.Workspace
	run      runner.Runner
	pal      *palette.Allocator
	builders map[tracklist.Kind]builder
}

// NewDispatcher returns a Dispatcher with one builder per track kind.
func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		ws:  cfg.Workspace,
		run: cfg.Runner,
		pal: cfg.Palette,
	}
	d.builders = map[tracklist.Kind]builder{
		tracklist.KindFeatures:        featureBuilder{d},
		tracklist.KindSignal:          signalBuilder{d},
		tracklist.KindAlignments:      alignmentBuilder{d},
		tracklist.KindAlignmentResult: alignmentResultBuilder{d, cfg.RebaseToolDir},
		tracklist.KindVariants:        variantBuilder{d},
	}
	return d
}

// Process normalizes one track and emits its descriptors, one per
// (file, label) pair in sorted file order.  The first failing file aborts
// the track; nothing that already reached the config store is undone.
func (d *Dispatcher) Process(ctx context.Context, t *tracklist.Track) error {
	kind, err := tracklist.KindOf(t.Format)
	if err != nil {
		return err
	}
	if err := t.Normalize(); err != nil {
		return err
	}
	style, err := d.resolveStyle(kind, t)
	if err != nil {
		return err
	}
	b := d.builders[kind]
	for i, file := range t.Files {
		base := Descriptor{
			Label: Label(file, i),
			Key:   t.Labels[i],
			Style: style,
		}
		if err := b.add(ctx, t, file, i, base); err != nil {
			return errors.E(err, fmt.Sprintf("track %q (%s): file %s", t.Labels[i], kind, file))
		}
	}
	return nil
}

// resolveStyle computes the track-wide client display config.  Signal
// tracks use a two-color diverging scheme around a pivot; everything else
// gets either its declared color or the next sequential palette entry.
func (d *Dispatcher) resolveStyle(kind tracklist.Kind, t *tracklist.Track) (Style, error) {
	in := t.Options.Style
	s := Style{
		Label:       in.Label,
		ClassName:   in.ClassName,
		Description: in.Description,
		Height:      in.Height,
	}
	if kind == tracklist.KindSignal {
		if in.ColorConfig == "brewer" {
			pos, neg, err := palette.Diverging(in.Color)
			if err != nil {
				return Style{}, err
			}
			s.PosColor, s.NegColor = pos, neg
		} else {
			s.PosColor = in.ColorPos
			s.NegColor = in.ColorNeg
		}
		return s, nil
	}
	if in.Color == "" || in.Color == "__auto__" {
		s.Color = d.pal.NextSequential().Opaque()
	} else {
		s.Color = in.Color
	}
	return s, nil
}

// appendDescriptor hands one descriptor to the config-merge collaborator,
// skipping descriptors that carry nothing.
func (d *Dispatcher) appendDescriptor(ctx context.Context, desc Descriptor) error {
	if desc.Empty() {
		return nil
	}
	return d.ws.AppendTrackJSON(ctx, &desc)
}
