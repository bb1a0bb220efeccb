package trackconfig

import (
	"context"

	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
)

// signalBuilder links continuous-signal (bigwig) files into the workspace
// and emits a density-track descriptor.  Explicit min/max bounds win over
// viewer-side autoscaling.
type signalBuilder struct {
	d *Dispatcher
}

func (b signalBuilder) add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error {
	dest, err := b.d.ws.LinkRaw(ctx, file)
	if err != nil {
		return err
	}
	base.URLTemplate = workspace.URLTemplate(dest)
	base.StoreClass = bigWigStore
	base.Type = densityTrack
	if t.Options.Type != "" {
		base.Type = t.Options.Type
	}

	base.BicolorPivot = t.Options.Style.BicolorPivot
	if base.BicolorPivot == "" {
		base.BicolorPivot = "zero"
	}

	if t.Options.Min != nil && t.Options.Max != nil {
		base.Min = t.Options.Min
		base.Max = t.Options.Max
	} else {
		base.Autoscale = t.Options.Autoscale
		if base.Autoscale == "" {
			base.Autoscale = "local"
		}
	}
	return b.d.appendDescriptor(ctx, base)
}
