package trackconfig

import (
	"context"

	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
)

// variantBuilder links variant-call (VCF) files into the workspace,
// block-compresses and positionally indexes them, and emits a
// tabix-backed variant descriptor.
type variantBuilder struct {
	d *Dispatcher
}

func (b variantBuilder) add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error {
	dest, err := b.d.ws.SymlinkRaw(ctx, file)
	if err != nil {
		return err
	}
	if err := b.d.ws.BGZip(ctx, dest); err != nil {
		return err
	}
	if err := b.d.ws.TabixVCF(ctx, dest+".gz"); err != nil {
		return err
	}

	base.URLTemplate = workspace.URLTemplate(dest + ".gz")
	base.Type = variantsTrack
	base.StoreClass = vcfTabixStore
	base.Category = t.Category
	return b.d.appendDescriptor(ctx, base)
}
