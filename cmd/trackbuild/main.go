// trackbuild provisions a working genome-browser installation from a
// genome FASTA and a declarative YAML track list: it clones a viewer
// release, prepares the reference-sequence index, and converts every
// declared track into the viewer's track configuration.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/genvis/trackbuild/palette"
	"github.com/genvis/trackbuild/runner"
	"github.com/genvis/trackbuild/score"
	"github.com/genvis/trackbuild/trackconfig"
	"github.com/genvis/trackbuild/tracklist"
	"github.com/genvis/trackbuild/workspace"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "run",
		Short:    "Provision a browser installation and configure its tracks",
		ArgsName: "genome.fa tracks.yaml",
	}
	viewer := cmd.Flags.String("viewer", "", "Directory containing an unpacked viewer release (required)")
	outDir := cmd.Flags.String("out", "out", "Output directory")
	toolDir := cmd.Flags.String("tool-dir", "", "Directory holding the coordinate-rebasing helper scripts; empty means $PATH")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("run takes a genome and a track list, but got %v", argv)
		}
		if *viewer == "" {
			return fmt.Errorf("run requires -viewer")
		}
		return run(*viewer, *outDir, *toolDir, argv[0], argv[1])
	})
	return cmd
}

func run(viewerRelease, outDir, toolDir, genomePath, listPath string) error {
	ctx := vcontext.Background()

	genome, err := filepath.Abs(genomePath)
	if err != nil {
		return err
	}
	f, err := os.Open(listPath)
	if err != nil {
		return err
	}
	tracks, err := tracklist.Load(f)
	f.Close()
	if err != nil {
		return err
	}

	exec := runner.Exec{}
	ws := workspace.New(outDir, filepath.Base(viewerRelease), exec)
	if err := ws.Clone(ctx, viewerRelease); err != nil {
		return err
	}
	if err := ws.PrepareRefSeqs(ctx, genome); err != nil {
		return err
	}

	// Tracks run strictly one at a time: label hashing, palette colors,
	// and config-store append order all depend on processing order.
	dispatcher := trackconfig.NewDispatcher(trackconfig.Config{
		Workspace:     ws,
		Runner:        exec,
		Palette:       new(palette.Allocator),
		RebaseToolDir: toolDir,
	})
	for i := range tracks {
		if err := dispatcher.Process(ctx, &tracks[i]); err != nil {
			return err
		}
		log.Printf("configured track %d/%d (%s, %d files)",
			i+1, len(tracks), tracks[i].Format, len(tracks[i].Files))
	}
	return ws.WriteIndexHTML()
}

func newCmdScanScores() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "scanscores",
		Short:    "Print the score range of a tab-delimited interval file",
		ArgsName: "intervals.gff3",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("scanscores takes one pathname argument, but got %v", argv)
		}
		r, ok, err := score.Scan(vcontext.Background(), argv[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(env.Stdout, "no parsable scores")
			return nil
		}
		fmt.Fprintf(env.Stdout, "min=%v max=%v\n", r.Min, r.Max)
		return nil
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:     "trackbuild",
		Short:    "Build genome-browser track configurations",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdRun(),
			newCmdScanScores(),
		},
	})
}
