package ai

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/pkg/models"
)

// Source tells where a batch of scores came from
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is a batch of final ranking scores in [0,1], parallel to the input
type Result struct {
	Scores []float64
	Source Source
}

// Engine combines the remote predictor with the local fallback
type Engine struct {
	predictor Predictor
	fallback  *Fallback
	log       logrus.FieldLogger
}

// NewEngine returns an engine. predictor may be nil, in which case every
// batch is scored by the fallback.
func NewEngine(predictor Predictor, fallback *Fallback, log logrus.FieldLogger) *Engine {
	if fallback == nil {
		fallback = NewFallback(0)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{predictor: predictor, fallback: fallback, log: log}
}

// Predict scores rows, falling back to the heuristic when the predictor
// errors or returns an empty, all-zero or wrongly sized result.
// contractors should be parallel to rows; when they are not, the batch is
// scored by the fallback, one score per contractor.
func (e *Engine) Predict(ctx context.Context, rows []FeatureVector, contractors []*models.Contractor) Result {
	if len(rows) != len(contractors) {
		e.log.WithFields(logrus.Fields{
			"prediction_source": SourceFallback,
			"rows":              len(rows),
			"contractors":       len(contractors),
		}).Error("feature rows do not match contractors, using heuristic fallback")
		return Result{Scores: e.fallback.ScoreAll(contractors), Source: SourceFallback}
	}
	if len(rows) == 0 {
		return Result{Scores: []float64{}, Source: SourceModel}
	}

	var (
		predictions []float64
		err         error
	)
	if e.predictor != nil {
		predictions, err = e.predictor.Predict(ctx, rows)
	} else {
		err = fmt.Errorf("%w: no predictor configured", ErrPredictionUnavailable)
	}

	switch {
	case err != nil:
		e.log.WithError(err).WithFields(logrus.Fields{
			"prediction_source": SourceFallback,
			"rows":              len(rows),
		}).Warn("prediction failed, using heuristic fallback")
	case degenerate(predictions):
		e.log.WithFields(logrus.Fields{
			"prediction_source": SourceFallback,
			"rows":              len(rows),
		}).Warn("prediction returned no signal, using heuristic fallback")
	case len(predictions) != len(rows):
		e.log.WithFields(logrus.Fields{
			"prediction_source": SourceFallback,
			"rows":              len(rows),
			"predictions":       len(predictions),
		}).Warn("prediction count does not match rows, using heuristic fallback")
	default:
		scores := make([]float64, len(predictions))
		for i, p := range predictions {
			scores[i] = clampFraction(p, 0, 1)
		}
		e.log.WithFields(logrus.Fields{
			"prediction_source": SourceModel,
			"rows":              len(rows),
		}).Debug("prediction succeeded")
		return Result{Scores: scores, Source: SourceModel}
	}

	return Result{Scores: e.fallback.ScoreAll(contractors), Source: SourceFallback}
}

// degenerate reports an empty result or one where every value is exactly zero
func degenerate(predictions []float64) bool {
	for _, p := range predictions {
		if p != 0 {
			return false
		}
	}
	return true
}
