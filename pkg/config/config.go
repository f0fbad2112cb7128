// Package config loads negsel settings from a YAML file, NEGSEL_ environment
// variables and command line flags, in increasing priority.
package config

import (
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/logging"
)

const (
	EnvPrefix = "negsel"
	FileName  = "negsel"
)

type Features struct {
	X string `mapstructure:"x" yaml:"x"`
	Y string `mapstructure:"y" yaml:"y"`
}

// Classes maps dataset labels onto self (Positive) and non-self.
type Classes struct {
	Positive string   `mapstructure:"positive" yaml:"positive"`
	Negative []string `mapstructure:"negative" yaml:"negative"`
}

type Data struct {
	Metadata string `mapstructure:"metadata" yaml:"metadata"`
	Train    string `mapstructure:"train" yaml:"train"`
	Test     string `mapstructure:"test" yaml:"test"`
}

type Config struct {
	Radius         float64        `mapstructure:"radius" yaml:"radius"`
	Detectors      int            `mapstructure:"detectors" yaml:"detectors"`
	Seed           uint64         `mapstructure:"seed" yaml:"seed"`
	MaxAttempts    int            `mapstructure:"max_attempts" yaml:"max_attempts"`
	GridResolution int            `mapstructure:"grid_resolution" yaml:"grid_resolution"`
	Features       Features       `mapstructure:"features" yaml:"features"`
	Classes        Classes        `mapstructure:"classes" yaml:"classes"`
	Data           Data           `mapstructure:"data" yaml:"data"`
	Model          string         `mapstructure:"model" yaml:"model"`
	Plot           string         `mapstructure:"plot" yaml:"plot"`
	Log            logging.Config `mapstructure:"log" yaml:"log"`
}

// Default reproduces the iris experiment: setosa as self, versicolor as
// non-self, sepal and petal length as the two dimensions.
func Default() Config {
	dc := detectors.DefaultConfig()
	return Config{
		Radius:      dc.Radius,
		Detectors:   dc.Detectors,
		Seed:        dc.RandomSeed,
		MaxAttempts: dc.MaxAttempts,
		Features:    Features{X: "sepal_length", Y: "petal_length"},
		Classes: Classes{
			Positive: "Iris-setosa",
			Negative: []string{"Iris-versicolor"},
		},
		Data: Data{
			Metadata: "data/metadata.json",
			Train:    "data/train.csv",
			Test:     "data/test.csv",
		},
		Model: "model.json",
		Plot:  "result.png",
		Log:   logging.DefaultConfig(),
	}
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"radius":          "radius",
	"detectors":       "detectors",
	"seed":            "seed",
	"max-attempts":    "max_attempts",
	"grid-resolution": "grid_resolution",
	"model":           "model",
	"plot":            "plot",
	"log-level":       "log.level",
	"log-file":        "log.path",
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("radius", d.Radius)
	v.SetDefault("detectors", d.Detectors)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("max_attempts", d.MaxAttempts)
	v.SetDefault("grid_resolution", d.GridResolution)
	v.SetDefault("features.x", d.Features.X)
	v.SetDefault("features.y", d.Features.Y)
	v.SetDefault("classes.positive", d.Classes.Positive)
	v.SetDefault("classes.negative", d.Classes.Negative)
	v.SetDefault("data.metadata", d.Data.Metadata)
	v.SetDefault("data.train", d.Data.Train)
	v.SetDefault("data.test", d.Data.Test)
	v.SetDefault("model", d.Model)
	v.SetDefault("plot", d.Plot)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.rotation_hours", d.Log.RotationHours)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}

// Load reads path, or negsel.yaml from the working directory when path is
// empty. A missing default file is not an error; a missing explicit one is.
// Flags in fs that were set on the command line override everything else.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, errors.Wrapf(err, "bind flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on input files.
func (c Config) Validate() error {
	if !(c.Radius >= 0) || math.IsInf(c.Radius, 1) {
		return &detectors.ConfigError{Field: "radius", Value: c.Radius, Reason: "must be finite and non-negative"}
	}
	if c.Detectors < 0 {
		return &detectors.ConfigError{Field: "detectors", Value: float64(c.Detectors), Reason: "must be non-negative"}
	}
	if c.GridResolution < 0 {
		return &detectors.ConfigError{Field: "grid_resolution", Value: float64(c.GridResolution), Reason: "must be non-negative"}
	}
	if c.Features.X == "" || c.Features.Y == "" {
		return errors.New("features.x and features.y are required")
	}
	if c.Classes.Positive == "" {
		return errors.New("classes.positive is required")
	}
	for _, n := range c.Classes.Negative {
		if n == c.Classes.Positive {
			return errors.Errorf("class %q is both positive and negative", n)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Options converts the generator settings into detector configuration.
func (c Config) Options() detectors.Config {
	return detectors.Config{
		Radius:      c.Radius,
		Detectors:   c.Detectors,
		MaxAttempts: c.MaxAttempts,
		RandomSeed:  c.Seed,
	}
}

// Write stores c as YAML, refusing to replace an existing file.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}
