package negsel

import (
	"go.uber.org/zap"

	"github.com/hed1ad/negsel/pkg/detectors"
)

// Observer receives events from a Model. Implementations must be cheap:
// DetectorAccepted and PointClassified fire once per point.
//
// A Fit ends with exactly one of FitCompleted or FitFailed once sampling has
// started. After FitFailed the detectors reported by DetectorAccepted in that
// run are discarded.
type Observer interface {
	DetectorAccepted(d detectors.Point, attempts int)
	FitCompleted(report detectors.FitReport)
	FitFailed(report detectors.FitReport, err error)
	PointClassified(p, normalized detectors.Point, c detectors.Class)
	EvaluationCompleted(e detectors.Evaluation)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) DetectorAccepted(detectors.Point, int) {}
func (NopObserver) FitCompleted(detectors.FitReport) {}
func (NopObserver) FitFailed(detectors.FitReport, error) {}
func (NopObserver) PointClassified(detectors.Point, detectors.Point, detectors.Class) {}
func (NopObserver) EvaluationCompleted(detectors.Evaluation) {}

type zapObserver struct {
	log *zap.Logger
}

// NewZapObserver logs per-point events at debug level and fit and
// evaluation summaries at info level.
func NewZapObserver(log *zap.Logger) Observer {
	return &zapObserver{log: log}
}

func (o *zapObserver) DetectorAccepted(d detectors.Point, attempts int) {
	o.log.Debug("detector accepted",
		zap.Float64("x", d[0]),
		zap.Float64("y", d[1]),
		zap.Int("attempts", attempts),
	)
}

func (o *zapObserver) FitCompleted(r detectors.FitReport) {
	o.log.Info("fit completed",
		zap.Stringer("model_id", r.ID),
		zap.Int("detectors", r.Detectors),
		zap.Int("attempts", r.Attempts),
		zap.Int("rejected", r.Rejected),
		zap.Int("from_grid", r.FromGrid),
		zap.Int64("attempts_p50", r.AttemptsP50),
		zap.Int64("attempts_p99", r.AttemptsP99),
		zap.Int64("attempts_max", r.AttemptsMax),
		zap.Duration("elapsed", r.Duration),
	)
}

func (o *zapObserver) FitFailed(r detectors.FitReport, err error) {
	o.log.Warn("fit failed",
		zap.Error(err),
		zap.Int("accepted", r.Detectors),
		zap.Int("attempts", r.Attempts),
		zap.Int("rejected", r.Rejected),
		zap.Duration("elapsed", r.Duration),
	)
}

func (o *zapObserver) PointClassified(p, normalized detectors.Point, c detectors.Class) {
	o.log.Debug("point classified",
		zap.Float64s("point", p[:]),
		zap.Float64s("normalized", normalized[:]),
		zap.Stringer("class", c),
	)
}

func (o *zapObserver) EvaluationCompleted(e detectors.Evaluation) {
	o.log.Info("evaluation completed",
		zap.Int("total", e.Total),
		zap.Int("correct", e.Correct),
		zap.Float64("accuracy", e.Accuracy),
		zap.Int("true_positive", e.TruePositive),
		zap.Int("false_positive", e.FalsePositive),
		zap.Int("true_negative", e.TrueNegative),
		zap.Int("false_negative", e.FalseNegative),
	)
}
