// Package tracklist parses and normalizes the declarative YAML list of
// genomic data tracks fed to the track configuration pipeline.  One Track
// names a format, one or more data files with matching display labels,
// and per-track display options.
package tracklist

import (
	"io"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Kind classifies a declared file format by how its track is built.
type Kind int

const (
	// KindFeatures covers flat interval-feature files (gff, gff3, bed,
	// genbank) loaded in their native coordinate space.
	KindFeatures Kind = iota
	// KindSignal covers continuous-signal files (bigwig).
	KindSignal
	// KindAlignments covers read-alignment files (bam).
	KindAlignments
	// KindAlignmentResult covers pairwise-alignment results (blastxml)
	// that need coordinate rebasing before display.
	KindAlignmentResult
	// KindVariants covers variant-call files (vcf).
	KindVariants
)

func (k Kind) String() string {
	switch k {
	case KindFeatures:
		return "interval-features"
	case KindSignal:
		return "continuous-signal"
	case KindAlignments:
		return "read-alignments"
	case KindAlignmentResult:
		return "pairwise-alignment-result"
	case KindVariants:
		return "variant-calls"
	}
	return "unknown"
}

var formatKinds = map[string]Kind{
	"gff":      KindFeatures,
	"gff3":     KindFeatures,
	"bed":      KindFeatures,
	"genbank":  KindFeatures,
	"bigwig":   KindSignal,
	"bam":      KindAlignments,
	"blastxml": KindAlignmentResult,
	"vcf":      KindVariants,
}

// KindOf maps a declared format tag to its track kind.  An unrecognized
// tag is a configuration error, reported before any tool runs for the
// track.
func KindOf(format string) (Kind, error) {
	k, ok := formatKinds[format]
	if !ok {
		return 0, errors.Errorf("unrecognized track format %q", format)
	}
	return k, nil
}

// FlatFileFlag returns the flat-file import tool's format selector for
// interval-feature formats.  Unknown feature formats import as GFF.
func FlatFileFlag(format string) string {
	switch format {
	case "bed":
		return "--bed"
	case "genbank":
		return "--gbk"
	default:
		return "--gff"
	}
}

// Style holds the display styling sub-options of a track.
type Style struct {
	Label        string `yaml:"label"`
	ClassName    string `yaml:"className"`
	Description  string `yaml:"description"`
	Height       string `yaml:"height"`
	Color        string `yaml:"color"`
	ColorConfig  string `yaml:"color_config"`
	ColorPos     string `yaml:"color_pos"`
	ColorNeg     string `yaml:"color_neg"`
	BicolorPivot string `yaml:"bicolor_pivot"`
}

// Options holds the format-specific track options.
type Options struct {
	Style      Style    `yaml:"style"`
	Match      bool     `yaml:"match"`
	MinGap     int      `yaml:"min_gap"`
	Protein    bool     `yaml:"protein"`
	Parent     string   `yaml:"parent"`
	BamIndexes []string `yaml:"bam_indexes"`
	AutoSNP    bool     `yaml:"auto_snp"`
	Autoscale  string   `yaml:"autoscale"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
	Type       string   `yaml:"type"`
}

// Track is one logical data layer to visualize.
type Track struct {
	Format   string   `yaml:"format"`
	Files    []string `yaml:"files"`
	Labels   []string `yaml:"labels"`
	Category string   `yaml:"category"`
	Options  Options  `yaml:"options"`
}

// Load reads a YAML track list.  Tracks are returned as declared; call
// Normalize on each before processing.
func Load(r io.Reader) ([]Track, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var tracks []Track
	if err := yaml.Unmarshal(data, &tracks); err != nil {
		return nil, errors.Wrap(err, "parsing track list")
	}
	return tracks, nil
}

// Normalize validates the track and rewrites it into canonical form:
// paths become absolute, display defaults are filled in, encoded color
// values are decoded, and (file, label) pairs are sorted by file path so
// processing order, and therefore label hashing and color assignment, is
// reproducible.  Per-file alignment indexes are sorted alongside their
// files.
func (t *Track) Normalize() error {
	if _, err := KindOf(t.Format); err != nil {
		return err
	}
	if len(t.Files) == 0 {
		return errors.Errorf("track %q declares no files", t.Format)
	}
	if len(t.Files) != len(t.Labels) {
		return errors.Errorf("track %q declares %d files but %d labels",
			t.Format, len(t.Files), len(t.Labels))
	}
	if len(t.Options.BamIndexes) > 0 && len(t.Options.BamIndexes) != len(t.Files) {
		return errors.Errorf("track %q declares %d files but %d bam indexes",
			t.Format, len(t.Files), len(t.Options.BamIndexes))
	}
	if t.Category == "" {
		t.Category = "Default"
	}
	s := &t.Options.Style
	if s.Label == "" {
		s.Label = "description"
	}
	if s.ClassName == "" {
		s.ClassName = "feature"
	}
	if s.Height == "" {
		s.Height = "100px"
	}
	s.Color = DecodeColor(s.Color)
	s.ColorPos = DecodeColor(s.ColorPos)
	s.ColorNeg = DecodeColor(s.ColorNeg)

	for i, f := range t.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		t.Files[i] = abs
	}
	for i, f := range t.Options.BamIndexes {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		t.Options.BamIndexes[i] = abs
	}
	if t.Options.Parent != "" {
		abs, err := filepath.Abs(t.Options.Parent)
		if err != nil {
			return err
		}
		t.Options.Parent = abs
	}

	sort.Sort(byFile{t})
	return nil
}

// DecodeColor reverses the "__pd__" escaping the upstream job runner
// applies to '#' characters in color values.
func DecodeColor(c string) string {
	return strings.Replace(c, "__pd__", "#", -1)
}

// byFile sorts Files, Labels, and any per-file indexes as one unit,
// keyed by file path.
type byFile struct {
	t *Track
}

func (s byFile) Len() int           { return len(s.t.Files) }
func (s byFile) Less(i, j int) bool { return s.t.Files[i] < s.t.Files[j] }

func (s byFile) Swap(i, j int) {
	t := s.t
	t.Files[i], t.Files[j] = t.Files[j], t.Files[i]
	t.Labels[i], t.Labels[j] = t.Labels[j], t.Labels[i]
	if len(t.Options.BamIndexes) > 0 {
		t.Options.BamIndexes[i], t.Options.BamIndexes[j] = t.Options.BamIndexes[j], t.Options.BamIndexes[i]
	}
}
