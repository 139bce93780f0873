package roboflow

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

func newTestClient(baseURL string) *roboflowClient {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &roboflowClient{
		baseURL:    baseURL,
		apiKey:     "test-key",
		model:      "hold-detector-rnvkl/2",
		confidence: 0.5,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log,
	}
}

func TestDetectTileParsesPredictions(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "50", r.URL.Query().Get("confidence"))

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"predictions":[
			{"x":120,"y":80,"width":30,"height":20,"confidence":0.91,"class":"hold",
			 "points":[{"x":110,"y":70},{"x":130,"y":70},{"x":130,"y":90},{"x":110,"y":90}]},
			{"x":300,"y":200,"width":40,"height":40,"confidence":0.55,"class":"volume"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	tile := []byte{0xff, 0xd8, 0xff, 0xe0}

	preds, err := client.DetectTile(context.Background(), tile)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	assert.Equal(t, base64.StdEncoding.EncodeToString(tile), gotBody)
	assert.Len(t, preds[0].Points, 4)
	assert.InDelta(t, 0.91, preds[0].Confidence, 1e-9)
	assert.Equal(t, "hold", preds[0].Class)
	assert.Empty(t, preds[1].Points)
	assert.Equal(t, "volume", preds[1].Class)
}

func TestDetectTileRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	preds, err := client.DetectTile(context.Background(), []byte("tile"))
	require.NoError(t, err)
	assert.Empty(t, preds)
	assert.Equal(t, 2, attempts)
}

func TestDetectTileFailsFastOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.DetectTile(context.Background(), []byte("tile"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 1, attempts)
}

func TestDetectTileGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.DetectTile(context.Background(), []byte("tile"))
	require.Error(t, err)
	assert.Equal(t, maxAttempts, attempts)
}
