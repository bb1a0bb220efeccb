package trackconfig

import (
	"context"
	"os"

	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
)

// alignmentBuilder links read-alignment (BAM) files plus their indexes
// into the workspace.  With auto_snp set it layers a second
// SNP/coverage descriptor over the same linked data.
type alignmentBuilder struct {
	d *Dispatcher
}

func (b alignmentBuilder) add(ctx context.Context, t *tracklist.Track, file string, index int, base Descriptor) error {
	if len(t.Options.BamIndexes) == 0 {
		return errors.E("read-alignments track declares no bam_indexes")
	}
	if err := verifyBAM(file); err != nil {
		return err
	}

	dest, err := b.d.ws.SymlinkRaw(ctx, file)
	if err != nil {
		return err
	}
	if err := b.d.ws.SymlinkAs(ctx, t.Options.BamIndexes[index], dest+".bai"); err != nil {
		return err
	}

	base.URLTemplate = workspace.URLTemplate(dest)
	base.Type = alignmentsTrack
	base.StoreClass = bamStore
	base.Category = t.Category
	if err := b.d.appendDescriptor(ctx, base); err != nil {
		return err
	}

	if t.Options.AutoSNP {
		// Second layer over the same linked file, with a derived key and
		// label.
		snp := base
		snp.Type = snpCovTrack
		snp.Key = base.Key + " - SNPs/Coverage"
		snp.Label = base.Label + "_autosnp"
		return b.d.appendDescriptor(ctx, snp)
	}
	return nil
}

// verifyBAM confirms the file parses as BAM before it is linked into the
// workspace, so a corrupt input fails the track here rather than
// surfacing as a viewer-side read error much later.
func verifyBAM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := bam.NewReader(f, 1)
	if err != nil {
		return errors.E(err, "not a readable BAM:", path)
	}
	defer r.Close()
	log.Debug.Printf("%s: %d reference sequences", path, len(r.Header().Refs()))
	return nil
}
