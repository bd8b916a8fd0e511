package inference

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RemoteModel calls a model served over HTTP:
//
//	POST {base}/models/{name}/predict        {"instances": [[...]]} -> {"predictions": [v]}
//	POST {base}/models/{name}/predict_proba  {"instances": [[...]]} -> {"probabilities": [[p0, p1]]}
type RemoteModel struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewRemoteModel(baseURL, name string, httpClient *http.Client) *RemoteModel {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteModel{name: name, baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (m *RemoteModel) Name() string { return m.name }

func (m *RemoteModel) Predict(ctx context.Context, features []float64) (float64, error) {
	var result struct {
		Predictions []float64 `json:"predictions"`
	}
	if err := m.call(ctx, "predict", features, &result); err != nil {
		return 0, err
	}
	if len(result.Predictions) != 1 {
		return 0, fmt.Errorf("model-service %s/predict: expected 1 prediction, got %d", m.name, len(result.Predictions))
	}
	return result.Predictions[0], nil
}

func (m *RemoteModel) PredictProba(ctx context.Context, features []float64) ([]float64, error) {
	var result struct {
		Probabilities [][]float64 `json:"probabilities"`
	}
	if err := m.call(ctx, "predict_proba", features, &result); err != nil {
		return nil, err
	}
	if len(result.Probabilities) != 1 {
		return nil, fmt.Errorf("model-service %s/predict_proba: expected 1 row, got %d", m.name, len(result.Probabilities))
	}
	return result.Probabilities[0], nil
}

func (m *RemoteModel) call(ctx context.Context, op string, features []float64, out any) error {
	path := "/models/" + url.PathEscape(m.name) + "/" + op
	body, err := json.Marshal(map[string]any{"instances": [][]float64{features}})
	if err != nil {
		return fmt.Errorf("model-service %s: encode: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("model-service %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model-service %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("model-service %s: decode: %w", path, err)
	}
	return nil
}

// checkResp returns an error carrying the upstream body when the status is
// not 2xx. Client errors mean the model rejected the input.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	err := fmt.Errorf("model-service %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
