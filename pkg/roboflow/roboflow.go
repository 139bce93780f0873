package roboflow

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"CruxBackend/pkg/geometry"
)

const (
	defaultBaseURL    = "https://serverless.roboflow.com"
	defaultModel      = "hold-detector-rnvkl/2"
	defaultConfidence = 0.5
	maxAttempts       = 3
)

type ItfRoboflow interface {
	DetectTile(ctx context.Context, jpegData []byte) ([]Prediction, error)
	Confidence() float64
}

// Prediction is one detection from the hosted segmentation model.
// Points is present for instance-segmentation output; bounding-box
// output carries only the center and extent.
type Prediction struct {
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Confidence float64          `json:"confidence"`
	Class      string           `json:"class"`
	Points     []geometry.Point `json:"points"`
}

type detectResponse struct {
	Predictions []Prediction `json:"predictions"`
}

type roboflowClient struct {
	baseURL    string
	apiKey     string
	model      string
	confidence float64
	httpClient *http.Client
	log        *logrus.Logger
}

func New(log *logrus.Logger) (ItfRoboflow, error) {
	apiKey := os.Getenv("ROBOFLOW_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ROBOFLOW_API_KEY is required")
	}

	model := os.Getenv("ROBOFLOW_MODEL")
	if model == "" {
		model = defaultModel
	}

	baseURL := os.Getenv("ROBOFLOW_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	confidence := defaultConfidence
	if raw := os.Getenv("ROBOFLOW_CONFIDENCE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("invalid ROBOFLOW_CONFIDENCE %q", raw)
		}
		confidence = parsed
	}

	return &roboflowClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		confidence: confidence,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}, nil
}

func (c *roboflowClient) Confidence() float64 {
	return c.confidence
}

// DetectTile sends one JPEG tile to the hosted model and returns its
// raw predictions in the tile's pixel space. Server errors are retried
// with exponential backoff; client errors fail immediately.
func (c *roboflowClient) DetectTile(ctx context.Context, jpegData []byte) ([]Prediction, error) {
	encoded := base64.StdEncoding.EncodeToString(jpegData)

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("confidence", strconv.Itoa(int(c.confidence*100)))
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, c.model, params.Encode())

	var lastStatus int
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			c.log.WithFields(logrus.Fields{
				"status": lastStatus,
				"wait":   wait.String(),
			}).Warn("Detection API returned server error, retrying")

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.Warnf("Failed to close detection response body: %v", closeErr)
		}
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusOK {
			var parsed detectResponse
			if err := jsoniter.Unmarshal(body, &parsed); err != nil {
				return nil, fmt.Errorf("failed to decode detection response: %w", err)
			}
			return parsed.Predictions, nil
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastStatus = resp.StatusCode
			continue
		}

		return nil, fmt.Errorf("detection API error: %d - %s", resp.StatusCode, string(body))
	}

	return nil, fmt.Errorf("detection API unavailable after %d attempts, last status %d", maxAttempts, lastStatus)
}
