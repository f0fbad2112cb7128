package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	negio "github.com/hed1ad/negsel/pkg/io"
)

var resultHeader = []string{"x", "y", "norm_x", "norm_y", "class", "expected"}

// Writer writes classification results as CSV rows.
type Writer struct {
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
}

// NewWriter creates (or truncates) filename.
func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w := NewStreamWriter(file)
	w.file = file
	return w, nil
}

// NewStreamWriter writes to dst. Close flushes but does not close dst.
func NewStreamWriter(dst io.Writer) *Writer {
	return &Writer{writer: csv.NewWriter(dst)}
}

// Write outputs a single result.
func (w *Writer) Write(result negio.Result) error {
	if !w.wroteHeader {
		if err := w.writer.Write(resultHeader); err != nil {
			return errors.Wrap(err, "write header")
		}
		w.wroteHeader = true
	}

	expected := ""
	if result.Expected != nil {
		expected = result.Expected.String()
	}

	return w.writer.Write([]string{
		formatFloat(result.Point[0]),
		formatFloat(result.Point[1]),
		formatFloat(result.Normalized[0]),
		formatFloat(result.Normalized[1]),
		result.Class.String(),
		expected,
	})
}

// WriteAll outputs multiple results.
func (w *Writer) WriteAll(results []negio.Result) error {
	for _, r := range results {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered rows and releases resources.
func (w *Writer) Close() error {
	w.writer.Flush()
	err := w.writer.Error()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
