package main

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hed1ad/negsel/pkg/config"
	"github.com/hed1ad/negsel/pkg/detectors"
	"github.com/hed1ad/negsel/pkg/detectors/negsel"
	negio "github.com/hed1ad/negsel/pkg/io"
	"github.com/hed1ad/negsel/pkg/io/csv"
	"github.com/hed1ad/negsel/pkg/io/metadata"
	"github.com/hed1ad/negsel/pkg/io/pcap"
	"github.com/hed1ad/negsel/pkg/logging"
)

// session is the resolved configuration and logger of one command run.
type session struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	out      io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(cfgPathFlag, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}

	log, closeLog, err := logging.NewWithConsole("negsel", cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, errors.Wrap(err, "logger")
	}

	return &session{cfg: cfg, log: log, closeLog: closeLog, out: cmd.OutOrStdout()}, nil
}

// close flushes the logger and releases the log file.
func (s *session) close() {
	s.closeLog()
}

func (s *session) labels() negio.Labels {
	return negio.Labels{Positive: s.cfg.Classes.Positive, Negative: s.cfg.Classes.Negative}
}

func (s *session) modelOptions() []negsel.Option {
	opts := []negsel.Option{
		negsel.WithConfig(s.cfg.Options()),
		negsel.WithObserver(negsel.NewZapObserver(s.log)),
	}
	if s.cfg.GridResolution > 0 {
		opts = append(opts, negsel.WithGridFallback(s.cfg.GridResolution))
	}
	return opts
}

func (s *session) loadModel() (*negsel.Model, error) {
	model, err := negsel.LoadFile(s.cfg.Model, s.modelOptions()...)
	if err != nil {
		return nil, err
	}
	s.log.Info("model loaded",
		zap.String("path", s.cfg.Model),
		zap.Stringer("model_id", model.ID()),
		zap.Int("detectors", len(model.Detectors())))
	return model, nil
}

func (s *session) bounds() (detectors.Bounds, error) {
	md, err := metadata.Load(s.cfg.Data.Metadata)
	if err != nil {
		return detectors.Bounds{}, errors.Wrap(err, "load metadata")
	}
	return md.Bounds(s.cfg.Features.X, s.cfg.Features.Y)
}

// readSamples reads a CSV file, or a PCAP capture when the extension says
// so. Packets carry no label, so every one of them gets class.
func (s *session) readSamples(path, class string) ([]negio.Sample, error) {
	var (
		r   negio.Reader
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcap", ".cap":
		r, err = pcap.NewFileReader(path,
			pcap.WithFeatures(s.cfg.Features.X, s.cfg.Features.Y),
			pcap.WithClass(class))
	default:
		r, err = csv.NewReader(path, csv.WithFeatures(s.cfg.Features.X, s.cfg.Features.Y))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	samples, err := negio.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	s.log.Debug("samples read", zap.String("path", path), zap.Int("samples", len(samples)))
	return samples, nil
}

// fit trains a model on the self samples of the training file.
func (s *session) fit() (*negsel.Model, []detectors.Point, detectors.FitReport, error) {
	bounds, err := s.bounds()
	if err != nil {
		return nil, nil, detectors.FitReport{}, err
	}

	samples, err := s.readSamples(inputOr(s.cfg.Data.Train), s.cfg.Classes.Positive)
	if err != nil {
		return nil, nil, detectors.FitReport{}, err
	}
	positives := s.labels().Positives(samples)

	dc := s.cfg.Options()
	model := negsel.New(s.modelOptions()...)
	report, err := model.Fit(detectors.FitParams{
		Positives:   positives,
		Radius:      dc.Radius,
		Bounds:      bounds,
		TargetCount: dc.Detectors,
	})
	if err != nil {
		return nil, nil, report, errors.Wrap(err, "fit")
	}
	return model, positives, report, nil
}

func inputOr(path string) string {
	if inputFlag != "" {
		return inputFlag
	}
	return path
}

// parsePoint reads "x,y".
func parsePoint(s string) (detectors.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return detectors.Point{}, errors.Errorf("point %q: want x,y", s)
	}

	var p detectors.Point
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return detectors.Point{}, errors.Wrapf(err, "point %q", s)
		}
		p[i] = v
	}
	return p, nil
}
