package iotable

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// open returns a reader of a file. Files with .gz or .zst extensions are
// decompressed on the fly, metadata of GTDB releases is distributed this
// way.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, ReadFileError(path, err)
		}
		return &stream{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, ReadFileError(path, err)
		}
		rc := dec.IOReadCloser()
		return &stream{Reader: rc, closers: []io.Closer{rc, f}}, nil
	default:
		return f, nil
	}
}

// stream closes the decompressor before the file under it.
type stream struct {
	io.Reader
	closers []io.Closer
}

func (s *stream) Close() error {
	var errs []error
	for _, v := range s.closers {
		errs = append(errs, v.Close())
	}
	return errors.Join(errs...)
}

// ExpandPaths replaces glob patterns (doublestar syntax, for example
// "data/**/*_metadata*.tsv.gz") with matching files in lexical order.
// Plain paths are kept as is, so a missing file is reported when it is
// read. A pattern without matches is an error. Duplicates are removed.
func ExpandPaths(patterns []string) ([]string, error) {
	var res []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[{") {
			res = append(res, p)
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, ReadFileError(p, err)
		}
		if len(matches) == 0 {
			return nil, ReadFileError(p, fs.ErrNotExist)
		}
		slices.Sort(matches)
		res = append(res, matches...)
	}

	seen := make(map[string]struct{}, len(res))
	return slices.DeleteFunc(res, func(s string) bool {
		if _, ok := seen[s]; ok {
			return true
		}
		seen[s] = struct{}{}
		return false
	}), nil
}
