package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/negsel/pkg/detectors"
)

const irisJSON = `{
  "sepal_length": {"max": 7.9, "min": 4.3},
  "sepal_width": {"max": 4.4, "min": 2.0},
  "petal_length": {"max": 6.9, "min": 1.0},
  "petal_width": {"max": 2.5, "min": 0.1}
}`

const irisYAML = `
sepal_length: {max: 7.9, min: 4.3}
petal_length:
  max: 6.9
  min: 1.0
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct{ name, content string }{
		{"metadata.json", irisJSON},
		{"metadata.yaml", irisYAML},
		{"metadata.YML", irisYAML},
	} {
		t.Run(tc.name, func(t *testing.T) {
			md, err := Load(write(t, tc.name, tc.content))
			require.NoError(t, err)

			assert.Equal(t, Range{Max: 7.9, Min: 4.3}, md["sepal_length"])
			assert.Equal(t, Range{Max: 6.9, Min: 1.0}, md["petal_length"])

			b, err := md.Bounds("sepal_length", "petal_length")
			require.NoError(t, err)
			assert.Equal(t, detectors.Bounds{
				Max: detectors.Point{7.9, 6.9},
				Min: detectors.Point{4.3, 1.0},
			}, b)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "bad.json", `{"sepal_length": `))
	assert.ErrorContains(t, err, "parse metadata")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBoundsErrors(t *testing.T) {
	md := Metadata{
		"a":    {Max: 1, Min: 0},
		"flat": {Max: 3, Min: 3},
	}

	_, err := md.Bounds("a", "missing")
	assert.ErrorContains(t, err, `feature "missing" not in metadata (have a, flat)`)

	_, err = md.Bounds("a", "flat")
	var cfgErr *detectors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 1, cfgErr.Dimension)
	assert.Equal(t, "flat", cfgErr.Feature)
}

func TestFeatures(t *testing.T) {
	md := Metadata{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, md.Features())
}
