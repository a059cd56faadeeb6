package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrPredictionUnavailable is returned when the prediction service cannot
// produce a usable answer
var ErrPredictionUnavailable = errors.New("prediction service unavailable")

// DefaultTimeout bounds a single prediction round-trip
const DefaultTimeout = 5 * time.Second

// Predictor scores a batch of feature rows. The result is parallel to rows.
type Predictor interface {
	Predict(ctx context.Context, rows []FeatureVector) ([]float64, error)
}

// HTTPPredictor calls an external scoring endpoint over JSON
type HTTPPredictor struct {
	URL    string
	Client *http.Client
}

// NewHTTPPredictor returns a predictor for url with the given timeout
func NewHTTPPredictor(url string, timeout time.Duration) *HTTPPredictor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPPredictor{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predict posts rows and decodes the {"predictions": [...]} response
func (p *HTTPPredictor) Predict(ctx context.Context, rows []FeatureVector) ([]float64, error) {
	if p.URL == "" {
		return nil, fmt.Errorf("%w: no endpoint configured", ErrPredictionUnavailable)
	}

	jsonData, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPredictionUnavailable, resp.StatusCode, string(body))
	}

	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrPredictionUnavailable, err)
	}

	if len(result.Predictions) != 0 && len(result.Predictions) != len(rows) {
		return nil, fmt.Errorf("%w: got %d predictions for %d rows",
			ErrPredictionUnavailable, len(result.Predictions), len(rows))
	}

	return result.Predictions, nil
}
