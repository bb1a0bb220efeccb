package workspace

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/genvis/trackbuild/runner"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) (*Workspace, *runner.Fake, func()) {
	dir, err := ioutil.TempDir("", "workspace_test")
	require.NoError(t, err)
	fake := &runner.Fake{}
	w := New(filepath.Join(dir, "out"), "JBrowse-1.11.6", fake)
	return w, fake, func() { os.RemoveAll(dir) }
}

func TestClone(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()

	// The fake cp does nothing, so pre-create a viewer tree containing a
	// broken symlink and a good one.
	require.NoError(t, os.MkdirAll(w.ViewerDir(), 0777))
	target := filepath.Join(w.ViewerDir(), "real-file")
	require.NoError(t, ioutil.WriteFile(target, []byte("x"), 0666))
	good := filepath.Join(w.ViewerDir(), "good-link")
	broken := filepath.Join(w.ViewerDir(), "broken-link")
	require.NoError(t, os.Symlink(target, good))
	require.NoError(t, os.Symlink(filepath.Join(w.ViewerDir(), "gone"), broken))

	require.NoError(t, w.Clone(context.Background(), "/releases/JBrowse-1.11.6"))

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{"cp", "-r", "/releases/JBrowse-1.11.6", w.Root}, fake.Calls[0].Argv())

	info, err := os.Stat(filepath.Join(w.ViewerDir(), "data", "raw"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Lstat(broken)
	assert.True(t, os.IsNotExist(err), "broken symlink should be removed")
	_, err = os.Lstat(good)
	assert.NoError(t, err, "valid symlink should survive")
}

func TestPrepareRefSeqs(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()

	require.NoError(t, w.PrepareRefSeqs(context.Background(), "/in/genome.fa"))
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{"perl", "bin/prepare-refseqs.pl", "--fasta", "/in/genome.fa"}, fake.Calls[0].Argv())
	assert.Equal(t, w.ViewerDir(), fake.Calls[0].Dir)
}

func TestLinks(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()
	ctx := context.Background()

	dest, err := w.LinkRaw(ctx, "/in/coverage.bw")
	require.NoError(t, err)
	assert.Equal(t, "data/raw/coverage.bw", dest)
	assert.Equal(t, "../data/raw/coverage.bw", URLTemplate(dest))

	dest, err = w.SymlinkRaw(ctx, "/in/reads.bam")
	require.NoError(t, err)
	assert.Equal(t, "data/raw/reads.bam", dest)

	require.NoError(t, w.SymlinkAs(ctx, "/in/reads.bai", dest+".bai"))

	require.Len(t, fake.Calls, 3)
	assert.Equal(t, []string{"ln", "/in/coverage.bw", "data/raw/coverage.bw"}, fake.Calls[0].Argv())
	assert.Equal(t, []string{"ln", "-s", "/in/reads.bam", "data/raw/reads.bam"}, fake.Calls[1].Argv())
	assert.Equal(t, []string{"ln", "-s", "/in/reads.bai", "data/raw/reads.bam.bai"}, fake.Calls[2].Argv())
}

func TestCompressAndIndex(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, w.BGZip(ctx, "data/raw/calls.vcf"))
	require.NoError(t, w.TabixVCF(ctx, "data/raw/calls.vcf.gz"))

	require.Len(t, fake.Calls, 2)
	assert.Equal(t, []string{"bgzip", "data/raw/calls.vcf"}, fake.Calls[0].Argv())
	assert.Equal(t, []string{"tabix", "-p", "vcf", "data/raw/calls.vcf.gz"}, fake.Calls[1].Argv())
}

func TestAppendTrackJSON(t *testing.T) {
	w, _, cleanup := newTestWorkspace(t)
	defer cleanup()

	var payloadPath, payload string
	fake := &runner.Fake{
		OnRun: func(c runner.Call, stdout io.Writer) error {
			payloadPath = c.Args[1]
			data, err := ioutil.ReadFile(payloadPath)
			if err != nil {
				return err
			}
			payload = string(data)
			return nil
		},
	}
	w.run = fake

	in := map[string]string{"label": "abc_0", "key": "My track"}
	require.NoError(t, w.AppendTrackJSON(context.Background(), in))

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, "perl", fake.Calls[0].Name)
	assert.Equal(t, "bin/add-track-json.pl", fake.Calls[0].Args[0])
	assert.Equal(t, "data/trackList.json", fake.Calls[0].Args[2])
	assert.JSONEq(t, `{"label": "abc_0", "key": "My track"}`, payload)

	_, err := os.Stat(payloadPath)
	assert.True(t, os.IsNotExist(err), "transient payload should be removed")
}

func TestAppendTrackJSONRemovesPayloadOnFailure(t *testing.T) {
	w, _, cleanup := newTestWorkspace(t)
	defer cleanup()

	var payloadPath string
	w.run = &runner.Fake{
		OnRun: func(c runner.Call, stdout io.Writer) error {
			payloadPath = c.Args[1]
			return errors.New("exit status 2")
		},
	}
	require.Error(t, w.AppendTrackJSON(context.Background(), map[string]string{"label": "x"}))
	_, err := os.Stat(payloadPath)
	assert.True(t, os.IsNotExist(err), "transient payload should be removed on failure too")
}

func TestLoadFlatFile(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()

	require.NoError(t, w.LoadFlatFile(context.Background(), FlatFile{
		FormatFlag:   "--gff",
		Path:         "/in/genes.gff3",
		Label:        "abc_0",
		Key:          "Genes",
		ClientConfig: `{"color":"rgba(1, 2, 3, 1)"}`,
		Config:       `{"category":"Default"}`,
		TrackType:    "JBrowse/View/Track/CanvasFeatures",
	}))

	require.Len(t, fake.Calls, 1)
	assert.Equal(t, []string{
		"perl", "bin/flatfile-to-json.pl", "--gff", "/in/genes.gff3",
		"--trackLabel", "abc_0",
		"--key", "Genes",
		"--clientConfig", `{"color":"rgba(1, 2, 3, 1)"}`,
		"--trackType", "JBrowse/View/Track/CanvasFeatures",
		"--config", `{"category":"Default"}`,
	}, fake.Calls[0].Argv())
}

func TestLoadFlatFileMinimal(t *testing.T) {
	w, fake, cleanup := newTestWorkspace(t)
	defer cleanup()

	require.NoError(t, w.LoadFlatFile(context.Background(), FlatFile{
		FormatFlag: "--bed",
		Path:       "/in/peaks.bed",
		Label:      "def_1",
		Key:        "Peaks",
	}))
	require.Len(t, fake.Calls, 1)
	argv := fake.Calls[0].Argv()
	assert.NotContains(t, argv, "--clientConfig")
	assert.NotContains(t, argv, "--trackType")
	assert.NotContains(t, argv, "--config")
}

func TestWriteIndexHTML(t *testing.T) {
	w, _, cleanup := newTestWorkspace(t)
	defer cleanup()
	require.NoError(t, os.MkdirAll(w.Root, 0777))

	require.NoError(t, w.WriteIndexHTML())
	data, err := ioutil.ReadFile(filepath.Join(w.Root, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `JBrowse-1.11.6/index.html`)
}
