// Package rebase maps pairwise-alignment results from alignment-local
// coordinates back into reference-genome coordinates.  The two transforms
// are external tools; this package owns their contract: alignment file in,
// rebased interval file out, any failure fatal for the track since
// downstream coordinates would otherwise be silently wrong.
package rebase

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/genvis/trackbuild/runner"
	"github.com/grailbio/base/errors"
)

const (
	gappedTool = "blastxml_to_gapped_gff3.py"
	rebaseTool = "gff3_rebase.py"
)

// Opts parameterizes one rebasing run.
type Opts struct {
	// Parent is the reference coordinate file the intervals are rebased
	// against.  Required.
	Parent string
	// Protein selects protein-to-nucleotide mode for protein queries
	// aligned to a nucleotide subject.
	Protein bool
	// MinGap is the minimum gap length preserved when the gapped
	// alignment is flattened into intervals.
	MinGap int
	// ToolDir locates the transform scripts.  Empty means $PATH.
	ToolDir string
}

func (o *Opts) tool(name string) string {
	if o.ToolDir == "" {
		return name
	}
	return filepath.Join(o.ToolDir, name)
}

// Rebase converts alignPath into an interval file in reference-genome
// coordinates.  It returns the path of a temporary interval file the
// caller must remove.  The intermediate alignment-local interval file is
// removed on every path.
func Rebase(ctx context.Context, run runner.Runner, dir, alignPath string, opts Opts) (string, error) {
	if opts.Parent == "" {
		return "", errors.E("rebasing " + alignPath + ": no parent reference declared")
	}

	local, err := ioutil.TempFile("", "trackbuild-gapped-")
	if err != nil {
		return "", err
	}
	defer os.Remove(local.Name())
	err = run.Run(ctx, dir, local,
		"python", opts.tool(gappedTool), "--trim_end", "--min_gap", strconv.Itoa(opts.MinGap), alignPath)
	if cerr := local.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return "", errors.E(err, "flattening gapped alignment:", alignPath)
	}

	rebased, err := ioutil.TempFile("", "trackbuild-rebased-")
	if err != nil {
		return "", err
	}
	args := []string{opts.tool(rebaseTool)}
	if opts.Protein {
		args = append(args, "--protein2dna")
	}
	args = append(args, opts.Parent, local.Name())
	err = run.Run(ctx, dir, rebased, "python", args...)
	if cerr := rebased.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(rebased.Name())
		return "", errors.E(err, "rebasing intervals onto:", opts.Parent)
	}
	return rebased.Name(), nil
}
