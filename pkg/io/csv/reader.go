// Package csv provides CSV reading of labeled samples and writing of
// classification results.
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hed1ad/negsel/pkg/detectors"
	negio "github.com/hed1ad/negsel/pkg/io"
)

// Reader reads labeled samples from CSV files.
type Reader struct {
	file      *os.File
	reader    *csv.Reader
	name      string
	hasHeader bool
	headers   []string

	features    [2]string
	classColumn string
	columns     [3]int // x, y, class; class is -1 when absent

	skipMalformed bool
	skipped       int
}

// Option configures a CSV reader.
type Option func(*Reader)

// WithHeader indicates the CSV has a header row. Without a header the
// first two columns are the features and the third, if any, the class.
func WithHeader(has bool) Option {
	return func(r *Reader) {
		r.hasHeader = has
	}
}

// WithFeatures selects the two feature columns by header name.
func WithFeatures(x, y string) Option {
	return func(r *Reader) {
		r.features = [2]string{x, y}
	}
}

// WithClassColumn names the column holding the class string.
func WithClassColumn(name string) Option {
	return func(r *Reader) {
		r.classColumn = name
	}
}

// WithSkipMalformed skips rows that fail to parse instead of failing.
func WithSkipMalformed(skip bool) Option {
	return func(r *Reader) {
		r.skipMalformed = skip
	}
}

// NewReader opens filename and resolves the selected columns.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	r, err := newReader(file, filename, opts...)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewStreamReader reads CSV from an already open stream. Close does not
// close src.
func NewStreamReader(src io.Reader, opts ...Option) (*Reader, error) {
	return newReader(src, "<stream>", opts...)
}

func newReader(src io.Reader, name string, opts ...Option) (*Reader, error) {
	r := &Reader{
		reader:      csv.NewReader(src),
		name:        name,
		hasHeader:   true,
		classColumn: "class",
		columns:     [3]int{0, 1, 2},
	}
	r.reader.TrimLeadingSpace = true
	r.reader.FieldsPerRecord = -1

	for _, opt := range opts {
		opt(r)
	}

	// Read header if present
	if r.hasHeader {
		headers, err := r.reader.Read()
		if err != nil {
			return nil, errors.Wrapf(err, "%s: read header", name)
		}
		for i := range headers {
			headers[i] = strings.TrimSpace(headers[i])
		}
		r.headers = headers

		if err := r.resolveColumns(); err != nil {
			return nil, errors.Wrap(err, name)
		}
	}

	return r, nil
}

func (r *Reader) resolveColumns() error {
	index := make(map[string]int, len(r.headers))
	for i, h := range r.headers {
		index[h] = i
	}

	for i, f := range r.features {
		if f == "" {
			continue
		}
		col, ok := index[f]
		if !ok {
			return errors.Errorf("feature column %q not found", f)
		}
		r.columns[i] = col
	}

	r.columns[2] = -1
	if col, ok := index[r.classColumn]; ok {
		r.columns[2] = col
	}
	return nil
}

// Headers returns the column headers.
func (r *Reader) Headers() []string {
	return r.headers
}

// Skipped returns the number of malformed rows skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Read returns all samples.
func (r *Reader) Read() ([]negio.Sample, error) {
	var data []negio.Sample

	for {
		record, err := r.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, r.name)
		}

		sample, err := r.parseRow(record)
		if err != nil {
			if r.skipMalformed {
				r.skipped++
				continue
			}
			line, _ := r.reader.FieldPos(0)
			return nil, errors.Wrapf(err, "%s: line %d", r.name, line)
		}
		data = append(data, sample)
	}

	return data, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRow converts a record to a sample.
func (r *Reader) parseRow(record []string) (negio.Sample, error) {
	var s negio.Sample

	for i := 0; i < 2; i++ {
		col := r.columns[i]
		if col >= len(record) {
			return s, errors.Errorf("missing column %d", col)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return s, err
		}
		s.Point[i] = f
	}
	if err := detectors.ValidatePoint(s.Point, -1); err != nil {
		return s, err
	}

	if col := r.columns[2]; col >= 0 && col < len(record) {
		s.Class = strings.TrimSpace(record[col])
	}
	return s, nil
}
