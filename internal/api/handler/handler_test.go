package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chart-dashboard/internal/api"
	"go-chart-dashboard/internal/api/handler"
	"go-chart-dashboard/internal/dashboard"
	"go-chart-dashboard/internal/model"
	"go-chart-dashboard/internal/store"
	"go-chart-dashboard/pkg/router"
)

const salesCSV = "Region,Sales\nEast,100\nWest,80\nEast,50\n"

type fakeSuggester struct {
	batch []model.Suggestion
	err   error
}

func (f *fakeSuggester) Suggest(ctx context.Context, ds *model.Dataset) ([]model.Suggestion, error) {
	return f.batch, f.err
}

type testAPI struct {
	router   *router.Router
	registry *dashboard.Registry
	gateway  *store.MemoryStore
}

func newTestAPI(t *testing.T, suggester handler.Suggester) *testAPI {
	t.Helper()
	gateway := store.NewMemoryStore()
	registry := dashboard.NewRegistry(gateway, 25*time.Millisecond)
	t.Cleanup(registry.Close)

	r := router.New()
	api.RegisterRoutes(r, handler.New(registry, suggester))
	return &testAPI{router: r, registry: registry, gateway: gateway}
}

func (a *testAPI) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(t *testing.T, user string) (token string, restored bool) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/sessions", "", map[string]string{"user": user})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token    string `json:"token"`
		Restored bool   `json:"restored"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token, body.Restored
}

func (a *testAPI) upload(t *testing.T, token, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/dataset", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) createChart(t *testing.T, token string, cfg model.ChartConfig) model.ChartConfig {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/session/charts", token, cfg)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored model.ChartConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	require.NotEmpty(t, stored.ID)
	return stored
}

func barChart(title string) model.ChartConfig {
	return model.ChartConfig{
		Title:       title,
		Type:        model.ChartBar,
		XAxis:       "Region",
		YAxis:       "Sales",
		Aggregation: model.AggSum,
	}
}

func TestAPI_ChartLifecycle(t *testing.T) {
	a := newTestAPI(t, nil)
	token, restored := a.login(t, "alice")
	assert.False(t, restored)

	w := a.upload(t, token, "sales.csv", salesCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "sales.csv", summary["fileName"])
	assert.Equal(t, float64(3), summary["rowCount"])
	assert.Equal(t, "sales", summary["dashboardTitle"], "title derives from the file name")

	stored := a.createChart(t, token, barChart("Sales by region"))

	// Update keeps the id
	updated := barChart("Totals by region")
	w = a.do(t, http.MethodPut, "/api/v1/session/charts/"+stored.ID, token, updated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/session/charts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var charts []model.ChartConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &charts))
	require.Len(t, charts, 1)
	assert.Equal(t, stored.ID, charts[0].ID)
	assert.Equal(t, "Totals by region", charts[0].Title)

	w = a.do(t, http.MethodDelete, "/api/v1/session/charts/"+stored.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/session/charts", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &charts))
	assert.Empty(t, charts)
}

func TestAPI_RequiresSession(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(t, http.MethodGet, "/api/v1/session/charts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/session/charts", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_CreateChartValidation(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)

	bad := model.ChartConfig{
		Title:       "   ",
		Type:        model.ChartBar,
		XAxis:       "Region",
		YAxis:       "Profit", // not in the dataset
		Aggregation: model.AggSum,
	}
	w := a.do(t, http.MethodPost, "/api/v1/session/charts", token, bad)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"title", "yAxis"}, body.Fields)
}

func TestAPI_UpdateUnknownChart(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")

	w := a.do(t, http.MethodPut, "/api/v1/session/charts/12345", token, barChart("T"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ChartData(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	stored := a.createChart(t, token, barChart("Sales by region"))

	w := a.do(t, http.MethodGet, "/api/v1/session/charts/"+stored.ID+"/data", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ChartID string      `json:"chart_id"`
		Data    []model.Row `json:"data"`
		Count   int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, stored.ID, body.ChartID)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, model.Row{"Region": "East", "Sales": float64(150)}, body.Data[0])
	assert.Equal(t, model.Row{"Region": "West", "Sales": float64(80)}, body.Data[1])
}

func TestAPI_ExportCSV(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	stored := a.createChart(t, token, barChart("Sales by region"))

	w := a.do(t, http.MethodGet, "/api/v1/session/charts/"+stored.ID+"/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Sales_by_region.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Region,Sales\nEast,150\nWest,80\n", w.Body.String())
}

func TestAPI_ExportUnknownFormat(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	stored := a.createChart(t, token, barChart("Sales by region"))

	w := a.do(t, http.MethodGet, "/api/v1/session/charts/"+stored.ID+"/export?format=xml", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_Suggestions(t *testing.T) {
	batch := []model.Suggestion{
		{ChartConfig: barChart("Sales by region"), Description: "totals per region"},
	}
	a := newTestAPI(t, &fakeSuggester{batch: batch})
	token, _ := a.login(t, "alice")

	// Without a dataset there is nothing to suggest over
	w := a.do(t, http.MethodPost, "/api/v1/session/suggestions", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	w = a.do(t, http.MethodPost, "/api/v1/session/suggestions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Suggestions []model.Suggestion `json:"suggestions"`
		Count       int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "totals per region", body.Suggestions[0].Description)
}

func TestAPI_SuggestionFailureDegradesToEmptyBatch(t *testing.T) {
	a := newTestAPI(t, &fakeSuggester{err: assert.AnError})
	token, _ := a.login(t, "alice")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)

	w := a.do(t, http.MethodPost, "/api/v1/session/suggestions", token, nil)
	require.Equal(t, http.StatusOK, w.Code, "advisor failures never surface as errors")

	var body struct {
		Suggestions []model.Suggestion `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)
}

func TestAPI_DashboardTitle(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "alice")

	w := a.do(t, http.MethodPut, "/api/v1/session/dashboard/title", token, map[string]string{"title": "Q3 Review"})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/session/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Q3 Review", body["dashboardTitle"])
	assert.Equal(t, false, body["hasData"])
}

func TestAPI_RestoreAcrossLogins(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "bob")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	a.createChart(t, token, barChart("Sales by region"))

	// Wait for the debounced write to land
	key := store.SnapshotKey("bob")
	assert.Eventually(t, func() bool {
		_, err := a.gateway.Load(context.Background(), key)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	token2, restored := a.login(t, "bob")
	assert.True(t, restored)

	w := a.do(t, http.MethodGet, "/api/v1/session/dashboard", token2, nil)
	var board struct {
		FileName string              `json:"fileName"`
		HasData  bool                `json:"hasData"`
		Charts   []model.ChartConfig `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, "sales.csv", board.FileName)
	assert.False(t, board.HasData, "restore brings back charts, not rows")
	require.Len(t, board.Charts, 1)

	// Re-uploading the same file fills in the data and keeps the charts
	require.Equal(t, http.StatusOK, a.upload(t, token2, "sales.csv", salesCSV).Code)
	w = a.do(t, http.MethodGet, "/api/v1/session/dashboard", token2, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.True(t, board.HasData)
	assert.Len(t, board.Charts, 1)
}

func TestAPI_LogoutClearsSavedDashboard(t *testing.T) {
	a := newTestAPI(t, nil)
	token, _ := a.login(t, "bob")
	require.Equal(t, http.StatusOK, a.upload(t, token, "sales.csv", salesCSV).Code)
	a.createChart(t, token, barChart("Sales by region"))

	key := store.SnapshotKey("bob")
	assert.Eventually(t, func() bool {
		_, err := a.gateway.Load(context.Background(), key)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	w := a.do(t, http.MethodDelete, "/api/v1/sessions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := a.gateway.Load(context.Background(), key)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, restored := a.login(t, "bob")
	assert.False(t, restored, "logout leaves nothing to restore")

	// The old token is dead
	w = a.do(t, http.MethodGet, "/api/v1/session/charts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
