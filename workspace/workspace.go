// Package workspace manages the provisioned viewer installation tree the
// pipeline writes into: cloning a viewer release, preparing the reference
// sequence index, linking raw data files into the data area, and handing
// descriptor payloads to the viewer's config-merge and flat-file import
// tools.
package workspace

import (
	"context"
	"encoding/json"
	"html/template"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/genvis/trackbuild/runner"
	"github.com/google/uuid"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

const (
	rawDir        = "data/raw"
	trackListPath = "data/trackList.json"

	prepareRefSeqsTool = "bin/prepare-refseqs.pl"
	addTrackJSONTool   = "bin/add-track-json.pl"
	flatFileTool       = "bin/flatfile-to-json.pl"
)

// Workspace is one output directory holding a cloned viewer release.
type Workspace struct {
	// Root is the output directory.
	Root string
	// ViewerName is the name of the viewer release directory under Root.
	ViewerName string

	run runner.Runner
}

// New returns a Workspace rooted at root for the given viewer release
// directory name.  Nothing is created until Clone runs.
func New(root, viewerName string, run runner.Runner) *Workspace {
	return &Workspace{Root: root, ViewerName: viewerName, run: run}
}

// ViewerDir returns the path of the cloned viewer installation.
func (w *Workspace) ViewerDir() string {
	return filepath.Join(w.Root, w.ViewerName)
}

// Clone provisions the workspace: copies the viewer release under Root,
// creates the raw-data area, and drops the broken symlinks viewer
// releases are known to ship with.
func (w *Workspace) Clone(ctx context.Context, releaseDir string) error {
	if err := os.MkdirAll(w.Root, 0777); err != nil {
		return err
	}
	if err := w.run.Run(ctx, "", nil, "cp", "-r", releaseDir, w.Root); err != nil {
		return errors.E(err, "cloning viewer release:", releaseDir)
	}
	if err := os.MkdirAll(filepath.Join(w.ViewerDir(), rawDir), 0777); err != nil {
		return err
	}
	return removeBrokenSymlinks(w.ViewerDir())
}

func removeBrokenSymlinks(root string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return nil
		}
		if _, serr := os.Stat(p); os.IsNotExist(serr) {
			log.Debug.Printf("removing broken symlink %s", p)
			return os.Remove(p)
		}
		return nil
	})
}

// PrepareRefSeqs builds the viewer's reference-sequence index from a
// genome FASTA.
func (w *Workspace) PrepareRefSeqs(ctx context.Context, genomePath string) error {
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "perl", prepareRefSeqsTool, "--fasta", genomePath); err != nil {
		return errors.E(err, "preparing reference sequences from:", genomePath)
	}
	return nil
}

// LinkRaw hard-links src into the raw-data area and returns its
// workspace-relative destination, e.g. "data/raw/coverage.bw".
func (w *Workspace) LinkRaw(ctx context.Context, src string) (string, error) {
	dest := path.Join(rawDir, filepath.Base(src))
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "ln", src, dest); err != nil {
		return "", errors.E(err, "linking into workspace:", src)
	}
	return dest, nil
}

// SymlinkRaw is LinkRaw with a symbolic link.
func (w *Workspace) SymlinkRaw(ctx context.Context, src string) (string, error) {
	dest := path.Join(rawDir, filepath.Base(src))
	return dest, w.SymlinkAs(ctx, src, dest)
}

// SymlinkAs symlinks src to an explicit workspace-relative destination.
// Used for index files that must sit next to their data file under a
// derived name.
func (w *Workspace) SymlinkAs(ctx context.Context, src, dest string) error {
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "ln", "-s", src, dest); err != nil {
		return errors.E(err, "symlinking into workspace:", src)
	}
	return nil
}

// URLTemplate converts a workspace-relative data path into the relative
// URL template descriptors reference it by.
func URLTemplate(dest string) string {
	return path.Join("..", dest)
}

// BGZip block-gzip-compresses a workspace-relative file in place,
// appending the .gz suffix.
func (w *Workspace) BGZip(ctx context.Context, dest string) error {
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "bgzip", dest); err != nil {
		return errors.E(err, "block-compressing:", dest)
	}
	return nil
}

// TabixVCF builds a positional index for a block-gzipped VCF.
func (w *Workspace) TabixVCF(ctx context.Context, dest string) error {
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "tabix", "-p", "vcf", dest); err != nil {
		return errors.E(err, "indexing:", dest)
	}
	return nil
}

// AppendTrackJSON hands one descriptor payload to the viewer's
// config-merge tool, which appends it to the persistent track list.  The
// transient payload file is removed whether or not the merge succeeds.
func (w *Workspace) AppendTrackJSON(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	tmp := filepath.Join(os.TempDir(), "trackbuild-"+uuid.New().String()+".json")
	if err := ioutil.WriteFile(tmp, data, 0666); err != nil {
		return err
	}
	defer os.Remove(tmp)
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "perl", addTrackJSONTool, tmp, trackListPath); err != nil {
		return errors.E(err, "appending track configuration")
	}
	return nil
}

// FlatFile describes one flat-file import: the viewer's import tool
// parses the file itself and only needs the descriptor fields as
// arguments.
type FlatFile struct {
	FormatFlag   string // --gff, --bed, or --gbk
	Path         string
	Label        string
	Key          string
	ClientConfig string // JSON display config; optional
	Config       string // JSON extra hints; optional
	TrackType    string // optional
}

// LoadFlatFile runs the viewer's flat-file import tool for one file.
func (w *Workspace) LoadFlatFile(ctx context.Context, f FlatFile) error {
	args := []string{flatFileTool, f.FormatFlag, f.Path,
		"--trackLabel", f.Label,
		"--key", f.Key,
	}
	if f.ClientConfig != "" {
		args = append(args, "--clientConfig", f.ClientConfig)
	}
	if f.TrackType != "" {
		args = append(args, "--trackType", f.TrackType)
	}
	if f.Config != "" {
		args = append(args, "--config", f.Config)
	}
	if err := w.run.Run(ctx, w.ViewerDir(), nil, "perl", args...); err != nil {
		return errors.E(err, "importing flat file:", f.Path)
	}
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<html>
    <body>
    <script type="text/javascript">
        window.location="{{.}}/index.html";
    </script>
    <a href="{{.}}/index.html">Go to the genome browser</a>
    <p>The browser functions best behind a server capable of subrange
    requests; development paste servers struggle with the data volumes
    involved.</p>
    </body>
</html>
`))

// WriteIndexHTML drops a landing page at the workspace root that
// redirects into the cloned viewer.
func (w *Workspace) WriteIndexHTML() error {
	f, err := os.Create(filepath.Join(w.Root, "index.html"))
	if err != nil {
		return err
	}
	if err := indexTemplate.Execute(f, w.ViewerName); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
