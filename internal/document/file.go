package document

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xtxerr/equalizer/config"
	"github.com/xtxerr/equalizer/internal/errors"
)

// LoadFile opens and decodes the document at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	d, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return d, nil
}

// DefaultOutputPath derives the output path from the input path: the input
// stem plus "_out", in the input's directory. The extension is kept for JSON
// output and replaced by ".parquet" for Parquet output.
func DefaultOutputPath(input, format string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if format == "parquet" {
		ext = ".parquet"
	}
	return filepath.Join(dir, stem+config.OutputSuffix+ext)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFileAtomic calls write with a temporary file next to path and renames
// it over path once write succeeds. On failure path is left untouched.
// It returns the number of bytes written.
func WriteFileAtomic(path string, write func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, errors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	bw := bufio.NewWriter(tmp)
	cw := &countingWriter{w: bw}
	if err := write(cw); err != nil {
		cleanup()
		return 0, errors.Wrap(err, path)
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return 0, errors.NewIO("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, errors.NewIO("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, errors.NewIO("close", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return 0, errors.NewIO("chmod", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, errors.NewIO("rename", path, err)
	}

	return cw.n, nil
}

// WriteFile encodes d to path atomically.
func (d *Document) WriteFile(path, indent string) (int64, error) {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return d.Encode(w, indent)
	})
}
