// Package metadata loads per-feature normalization ranges.
//
// The file maps feature names to their range:
//
//	{"sepal_length": {"max": 7.9, "min": 4.3}, "petal_length": {"max": 6.9, "min": 1.0}}
//
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hed1ad/negsel/pkg/detectors"
)

// Range is the observed range of one feature.
type Range struct {
	Max float64 `json:"max" yaml:"max"`
	Min float64 `json:"min" yaml:"min"`
}

// Metadata maps feature names to their ranges.
type Metadata map[string]Range

// Load reads metadata from path.
func Load(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var md Metadata
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &md)
	default:
		err = json.NewDecoder(bytes.NewReader(data)).Decode(&md)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "parse metadata %s", path)
	}
	return md, nil
}

// Features returns the feature names in sorted order.
func (m Metadata) Features() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bounds builds validated normalization bounds from two features.
// A ConfigError names the offending feature.
func (m Metadata) Bounds(x, y string) (detectors.Bounds, error) {
	var b detectors.Bounds

	for i, name := range [2]string{x, y} {
		r, ok := m[name]
		if !ok {
			return b, pkgerrors.Errorf("feature %q not in metadata (have %s)", name, strings.Join(m.Features(), ", "))
		}
		b.Max[i] = r.Max
		b.Min[i] = r.Min
	}

	if err := b.Validate(); err != nil {
		var cfgErr *detectors.ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Dimension >= 0 {
			cfgErr.Feature = [2]string{x, y}[cfgErr.Dimension]
		}
		return b, err
	}
	return b, nil
}
