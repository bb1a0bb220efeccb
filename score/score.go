// Package score scans tab-delimited interval files (GFF-style) for the
// observed range of the numeric score column.
package score

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// scoreColumn is the 0-based index of the score field in GFF and scored
// BED lines.
const scoreColumn = 5

// maxLineBytes bounds a single input line; GFF attribute columns can get
// long but not this long.
const maxLineBytes = 16 * 1024 * 1024

// Range is an observed [Min, Max] score interval.
type Range struct {
	Min, Max float64
}

// Scan streams path and returns the min and max of its score column.
// Lines whose score column is missing or non-numeric are expected (GFF
// uses "." for unscored features) and skipped silently.  ok is false when
// the file contains no parsable score at all.  Gzipped files are handled
// transparently.
func Scan(ctx context.Context, path string) (r Range, ok bool, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return Range{}, false, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		if reader, err = gzip.NewReader(reader); err != nil {
			return Range{}, false, errors.E(err, "opening gzipped interval file:", path)
		}
	}
	return scanReader(reader)
}

func scanReader(reader io.Reader) (Range, bool, error) {
	var (
		r  Range
		ok bool
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) <= scoreColumn {
			continue
		}
		v, err := strconv.ParseFloat(cols[scoreColumn], 64)
		if err != nil {
			continue
		}
		if !ok {
			r = Range{Min: v, Max: v}
			ok = true
			continue
		}
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	if err := scanner.Err(); err != nil {
		return Range{}, false, err
	}
	return r, ok, nil
}
