package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabgate/internal/config"
	"tabgate/internal/engine"
	"tabgate/internal/http/middleware"
	"tabgate/internal/model"
	"tabgate/internal/service"
	"tabgate/internal/storage"
)

// fakeEngine records every request it receives and answers per path.
type fakeEngine struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
	handle   map[string]http.HandlerFunc
}

func (f *fakeEngine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.bodies[r.URL.Path] = b
	h := f.handle[r.URL.Path]
	f.mu.Unlock()

	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeEngine) on(path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle[path] = h
}

func (f *fakeEngine) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeEngine) body(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

type gateway struct {
	app    *fiber.App
	engine *fakeEngine
	store  *storage.Local
}

func newGateway(t *testing.T) *gateway {
	t.Helper()

	fe := &fakeEngine{bodies: map[string][]byte{}, handle: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(fe)
	t.Cleanup(srv.Close)

	store, err := storage.NewLocal(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	eng := engine.New(config.EngineConfig{
		BaseURL:        srv.URL,
		AnalyzeTimeout: 5 * time.Second,
		CleanTimeout:   5 * time.Second,
		TrainTimeout:   5 * time.Second,
		HealthTimeout:  time.Second,
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(false)})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Dependencies{
		Uploads:  service.NewUploadService(store, nil, nil),
		Analysis: service.NewAnalysisService(store, eng),
		Cleaning: service.NewCleaningService(store, eng),
		Training: service.NewTrainingService(store, eng),
		Engine:   eng,
	})

	return &gateway{app: app, engine: fe, store: store}
}

func (g *gateway) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := g.app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func (g *gateway) upload(t *testing.T, name, content string) model.UploadResult {
	t.Helper()
	resp := g.do(t, multipartRequest(t, "/api/upload", name, content))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.UploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestGateway_UploadThenAnalyze(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/analyze", jsonReply(http.StatusOK, `{"summary":{"rows":2},"missing":{"b":1}}`))

	up := g.upload(t, "pairs.csv", "a,b\n1,2\n3,\n")
	assert.Equal(t, []string{"a", "b"}, up.Columns)
	assert.Equal(t, 2, up.RowCount)
	assert.Equal(t, ".csv", up.FileType)
	require.Len(t, up.Preview, 2)
	assert.Nil(t, up.Preview[1]["b"])

	var first, second model.AnalysisEnvelope
	for _, out := range []*model.AnalysisEnvelope{&first, &second} {
		resp := g.do(t, jsonRequest(http.MethodPost, "/api/analyze", `{"filepath":"`+up.Filepath+`"}`))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	assert.Equal(t, up.Columns, first.Columns)
	assert.Equal(t, up.RowCount, first.RowCount)
	assert.Equal(t, filepath.Base(up.Filepath), first.Filename)
	assert.JSONEq(t, `{"summary":{"rows":2},"missing":{"b":1}}`, string(first.Analysis))
	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.RowCount, second.RowCount)

	assert.JSONEq(t,
		`{"data":[{"a":"1","b":"2"},{"a":"3","b":null}],"columns":["a","b"],"analysisType":"full"}`,
		string(g.engine.body("/analyze")))
}

func TestGateway_HeaderOnlyUpload(t *testing.T) {
	g := newGateway(t)

	up := g.upload(t, "empty.csv", "a,b\n")
	assert.Equal(t, 0, up.RowCount)

	resp := g.do(t, jsonRequest(http.MethodPost, "/api/analyze", `{"filepath":"`+up.Filepath+`"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_OR_UNREADABLE", decodeError(t, resp).Code)
	assert.Zero(t, g.engine.count())
}

func TestGateway_AnalyzeRelaysUpstreamStatus(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/analyze", jsonReply(http.StatusUnprocessableEntity, `{"detail":"analysisType not supported"}`))

	up := g.upload(t, "x.csv", "x\n1\n")
	resp := g.do(t, jsonRequest(http.MethodPost, "/api/analyze", `{"filepath":"`+up.Filepath+`","analysisType":"bogus"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeError(t, resp)
	assert.False(t, body.Success)
	assert.JSONEq(t, `{"detail":"analysisType not supported"}`, string(body.Error))
}

func TestGateway_CleanRelaysCounts(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/clean", jsonReply(http.StatusOK,
		`{"summary":"Filled missing values with column means","originalRows":100,"cleanedRows":100,"removedRows":0,"method":"fill_mean","extra":"dropped"}`))

	up := g.upload(t, "hundred.csv", "v\n1\n")
	resp := g.do(t, jsonRequest(http.MethodPost, "/api/clean", `{"filepath":"`+up.Filepath+`","cleaningMethod":"fill_mean"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t,
		`{"success":true,"summary":"Filled missing values with column means","originalRows":100,"cleanedRows":100,"removedRows":0,"method":"fill_mean"}`,
		string(b))

	// Only the path and method travel, never the rows.
	assert.JSONEq(t, `{"filepath":"`+up.Filepath+`","cleaningMethod":"fill_mean"}`, string(g.engine.body("/clean")))
}

func TestGateway_DownloadPipesEngineStream(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/download_cleaned", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="cleaned.csv"`)
		io.WriteString(w, "v\n1\n")
	})

	up := g.upload(t, "d.csv", "v\n1\n")
	req := httptest.NewRequest(http.MethodGet, "/api/clean/download?filepath="+filepath.Base(up.Filepath), nil)
	resp := g.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="cleaned.csv"`, resp.Header.Get("Content-Disposition"))

	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "v\n1\n", string(b))
}

func TestGateway_TrainRejectsTargetInFeatures(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/train", jsonReply(http.StatusOK, `{}`))

	up := g.upload(t, "t.csv", "x,y\n1,2\n")
	resp := g.do(t, jsonRequest(http.MethodPost, "/api/train",
		`{"filepath":"`+up.Filepath+`","modelType":"random_forest","features":["x","y"],"target":"y"}`))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "TARGET_IN_FEATURES", decodeError(t, resp).Code)
	assert.Zero(t, g.engine.count())
}

func TestGateway_TrainPassesNullFeatureImportance(t *testing.T) {
	g := newGateway(t)
	g.engine.on("/train", jsonReply(http.StatusOK,
		`{"training_samples":8,"test_samples":2,"metrics":{"train":{"r2":1},"test":{"r2":0.5}},"predictions":[1,2],"feature_importance":null,"model_type":"svm"}`))

	up := g.upload(t, "t.csv", "x,y\n1,2\n")
	resp := g.do(t, jsonRequest(http.MethodPost, "/api/train",
		`{"filepath":"`+up.Filepath+`","modelType":"svm","features":["x"],"target":"y"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t,
		`{"success":true,"training_samples":8,"test_samples":2,"metrics":{"train":{"r2":1},"test":{"r2":0.5}},"predictions":[1,2],"feature_importance":null,"model_type":"svm"}`,
		string(b))
}

func TestGateway_PathOutsideUploadDir(t *testing.T) {
	g := newGateway(t)

	resp := g.do(t, jsonRequest(http.MethodPost, "/api/analyze", `{"filepath":"/etc/passwd"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FILEPATH", decodeError(t, resp).Code)
	assert.Zero(t, g.engine.count())
}

func TestGateway_ReadinessChecksEngine(t *testing.T) {
	g := newGateway(t)

	resp := g.do(t, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	g.engine.on("/health", jsonReply(http.StatusOK, `{"status":"healthy"}`))
	resp = g.do(t, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
