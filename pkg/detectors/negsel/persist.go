package negsel

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/spatial"
)

// formatVersion is written by Save. Files without a version field use the
// original unversioned layout, which is otherwise identical.
const formatVersion = 1

// modelFile is the persisted form of a Model. The spatial index is derived
// and never stored.
type modelFile struct {
	Version   int         `json:"version"`
	ID        string      `json:"id,omitempty"`
	Detectors [][]float64 `json:"detectors"`
	Radius    float64     `json:"radius"`
	Maximums  []float64   `json:"maximums"`
	Minimums  []float64   `json:"minimums"`
}

// Save writes the model as indented JSON.
func (m *Model) Save(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.trained {
		return &detectors.PersistenceError{Op: "save", Err: detectors.ErrNotTrained}
	}

	file := modelFile{
		Version:   formatVersion,
		Detectors: make([][]float64, len(m.detectors)),
		Radius:    m.radius,
		Maximums:  []float64{m.bounds.Max[0], m.bounds.Max[1]},
		Minimums:  []float64{m.bounds.Min[0], m.bounds.Min[1]},
	}
	if m.id != uuid.Nil {
		file.ID = m.id.String()
	}
	for i, d := range m.detectors {
		file.Detectors[i] = []float64{d[0], d[1]}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return &detectors.PersistenceError{Op: "save", Err: errors.Wrap(err, "encode")}
	}
	return nil
}

// SaveFile writes the model to path, creating or truncating it.
func (m *Model) SaveFile(path string) error {
	if !m.Trained() {
		return &detectors.PersistenceError{Op: "save", Path: path, Err: detectors.ErrNotTrained}
	}

	f, err := os.Create(path)
	if err != nil {
		return &detectors.PersistenceError{Op: "save", Path: path, Err: err}
	}

	if err := m.Save(f); err != nil {
		f.Close()
		return withPath(err, path)
	}
	if err := f.Close(); err != nil {
		return &detectors.PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load replaces the model with the one read from r. The spatial index is
// rebuilt before the new state becomes visible; on error the model is
// left unchanged.
func (m *Model) Load(r io.Reader) error {
	var file modelFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return &detectors.PersistenceError{Op: "load", Err: errors.Wrap(err, "decode")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &detectors.PersistenceError{Op: "load", Err: errors.New("trailing data after model")}
	}

	st, err := file.state()
	if err != nil {
		return &detectors.PersistenceError{Op: "load", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = st.id
	m.bounds = st.bounds
	m.radius = st.radius
	m.detectors = st.detectors
	m.index = st.index
	m.trained = true

	return nil
}

// LoadFile reads a model from path.
func LoadFile(path string, opts ...Option) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &detectors.PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	m := New(opts...)
	if err := m.Load(f); err != nil {
		return nil, withPath(err, path)
	}
	return m, nil
}

type state struct {
	id        uuid.UUID
	bounds    detectors.Bounds
	radius    float64
	detectors []detectors.Point
	index     *spatial.Index
}

func (f *modelFile) state() (*state, error) {
	if f.Version < 0 {
		return nil, errors.Errorf("invalid format version %d", f.Version)
	}
	if f.Version > formatVersion {
		return nil, errors.Errorf("unsupported format version %d (max %d)", f.Version, formatVersion)
	}

	st := &state{radius: f.Radius}

	if f.ID != "" {
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "model id %q", f.ID)
		}
		st.id = id
	}

	hi, err := tuple(f.Maximums, "maximums")
	if err != nil {
		return nil, err
	}
	lo, err := tuple(f.Minimums, "minimums")
	if err != nil {
		return nil, err
	}
	st.bounds = detectors.Bounds{Max: hi, Min: lo}
	if err := st.bounds.Validate(); err != nil {
		return nil, err
	}

	if !(f.Radius >= 0) || math.IsInf(f.Radius, 1) {
		return nil, &detectors.ConfigError{
			Field:     "radius",
			Dimension: -1,
			Value:     f.Radius,
			Reason:    "must be a finite non-negative number",
		}
	}

	st.detectors = make([]detectors.Point, len(f.Detectors))
	for i, raw := range f.Detectors {
		d, err := tuple(raw, "detector")
		if err != nil {
			return nil, errors.Wrapf(err, "detector #%d", i)
		}
		if err := detectors.ValidatePoint(d, i); err != nil {
			return nil, err
		}
		st.detectors[i] = d
	}

	st.index = spatial.New()
	if err := st.index.Rebuild(st.detectors); err != nil {
		return nil, errors.Wrap(err, "rebuild index")
	}

	return st, nil
}

func tuple(v []float64, field string) (detectors.Point, error) {
	if len(v) != 2 {
		return detectors.Point{}, errors.Errorf("%s: expected 2 values, got %d", field, len(v))
	}
	return detectors.Point{v[0], v[1]}, nil
}

func withPath(err error, path string) error {
	var pErr *detectors.PersistenceError
	if errors.As(err, &pErr) && pErr.Path == "" {
		pErr.Path = path
	}
	return err
}
