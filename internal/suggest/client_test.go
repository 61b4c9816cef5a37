package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chart-dashboard/internal/model"
)

func suggestDataset() *model.Dataset {
	return &model.Dataset{
		FileName: "sales.csv",
		Columns:  []string{"Region", "Sales"},
		Rows: []model.Row{
			{"Region": "East", "Sales": float64(100)},
			{"Region": "West", "Sales": float64(80)},
		},
	}
}

// writeGeminiReply wraps text the way generateContent does
func writeGeminiReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	reply := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(reply))
}

func TestClient_Suggest(t *testing.T) {
	fenced := "```json\n" +
		`[{"title": "Sales by region", "type": "bar", "xAxis": "Region", "yAxis": "Sales", "aggregation": "sum", "description": "totals"}]` +
		"\n```"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "COLUMNS:")

		writeGeminiReply(t, w, fenced)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "secret", Model: "test-model", Endpoint: srv.URL})

	got, err := c.Suggest(context.Background(), suggestDataset())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "Sales by region", got[0].Title)
	assert.Equal(t, model.AggSum, got[0].Aggregation)
}

func TestClient_Suggest_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		writeGeminiReply(t, w, `[{"title": "T", "type": "line", "xAxis": "Region", "yAxis": "Sales", "aggregation": "count"}]`)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", Model: "m", Endpoint: srv.URL})

	got, err := c.Suggest(context.Background(), suggestDataset())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int32(2), calls.Load(), "5xx earns exactly one more attempt")
}

func TestClient_Suggest_TerminalFailureDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", Model: "m", Endpoint: srv.URL})

	_, err := c.Suggest(context.Background(), suggestDataset())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx means the request itself is wrong, retrying cannot help")
}

func TestClient_Suggest_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded", "code": 429}}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", Model: "m", Endpoint: srv.URL})

	_, err := c.Suggest(context.Background(), suggestDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNew_FillsDefaults(t *testing.T) {
	c := New(Config{APIKey: "k"})

	assert.Equal(t, "gemini-2.0-flash", c.config.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/models", c.config.Endpoint)
}
