package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nayna-import-api/internal/api"
	"github.com/nayna-import-api/internal/config"
	"github.com/nayna-import-api/internal/importer"
	"github.com/nayna-import-api/internal/mocks"
	"github.com/nayna-import-api/internal/models"
	"github.com/nayna-import-api/internal/service"
	"github.com/rs/zerolog"
)

type testServer struct {
	router *gin.Engine
	imp    *mocks.MockImportService
	export *mocks.MockExportService
	jobs   *mocks.MockJobService
	roster *mocks.MockRosterService
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", AllowedOrigin: "*"},
		Import: config.ImportConfig{
			MaxUploadSize: 1024,
			MaxRows:       100,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func setupTestRouter(cfg *config.Config) *testServer {
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		imp:    mocks.NewMockImportService(),
		export: mocks.NewMockExportService(),
		jobs:   mocks.NewMockJobService(),
		roster: mocks.NewMockRosterService(),
	}

	services := &service.Services{
		Import: ts.imp,
		Export: ts.export,
		Job:    ts.jobs,
		Roster: ts.roster,
	}

	ts.router = api.NewRouter(services, cfg, zerolog.Nop())
	return ts
}

func multipartBody(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func upload(t *testing.T, router *gin.Engine, path, fileName, content string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fileName, content)
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to parse response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestRouter(testConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if resp := decode(t, w); resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestRouter(testConfig())

	// Generate one observed request first
	ts.router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "nayna_http_requests_total") {
		t.Errorf("Expected request counter in exposition, got:\n%s", w.Body.String())
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	ts := setupTestRouter(cfg)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.export.Counts[importer.KindGuests] = 12
	ts.export.Counts[importer.KindRooms] = 3

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	db := decode(t, w)["database"].(map[string]interface{})
	if db["guests"] != float64(12) || db["rooms"] != float64(3) {
		t.Errorf("Unexpected counts: %v", db)
	}
}

func TestCreateImport(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.imp.ImportFunc = func(ctx context.Context, req *models.ImportRequest, data []byte) (*service.ImportOutcome, error) {
		return &service.ImportOutcome{Job: &models.Job{
			ID:            "job-1",
			Kind:          req.Kind,
			Status:        models.JobStatusCompleted,
			AcceptedCount: 1,
			SkippedCount:  1,
			Message:       "Successfully imported 1 guests from CSV",
		}}, nil
	}

	content := "name,email\nAsha,asha@x.com\n,b@x.com\n"
	w := upload(t, ts.router, "/v1/instances/wedding-1/imports/guests", "guests.csv", content,
		map[string]string{"Idempotency-Key": "abc"})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp["accepted"] != float64(1) || resp["skipped"] != float64(1) {
		t.Errorf("Unexpected counts: %v", resp)
	}
	if resp["message"] != "Successfully imported 1 guests from CSV" {
		t.Errorf("Unexpected message: %v", resp["message"])
	}

	if len(ts.imp.Requests) != 1 {
		t.Fatalf("Expected 1 import request, got %d", len(ts.imp.Requests))
	}
	req := ts.imp.Requests[0]
	if req.InstanceID != "wedding-1" || req.Kind != "guests" || req.FileName != "guests.csv" {
		t.Errorf("Unexpected request: %+v", req)
	}
	if req.IdempotencyKey != "abc" {
		t.Errorf("Expected idempotency key 'abc', got %q", req.IdempotencyKey)
	}
	if string(ts.imp.Uploads[0]) != content {
		t.Errorf("Upload body changed in transit: %q", ts.imp.Uploads[0])
	}
}

func TestCreateImport_Replayed(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.imp.ImportFunc = func(ctx context.Context, req *models.ImportRequest, data []byte) (*service.ImportOutcome, error) {
		return &service.ImportOutcome{
			Job:      &models.Job{ID: "job-1", Status: models.JobStatusCompleted},
			Replayed: true,
		}, nil
	}

	w := upload(t, ts.router, "/v1/instances/w/imports/guests", "guests.csv", "name\nA\n", nil)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for replay, got %d", w.Code)
	}
	if decode(t, w)["replayed"] != true {
		t.Error("Expected replayed flag")
	}
}

func TestCreateImport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		outcome    *service.ImportOutcome
		wantStatus int
		wantError  string
	}{
		{
			name:       "not csv",
			err:        service.ErrNotCSV,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please select a CSV file",
		},
		{
			name:       "unknown kind",
			err:        fmt.Errorf("%w: tables", service.ErrUnknownKind),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "too large",
			err:        service.ErrFileTooLarge,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name: "no valid records",
			err:  service.ErrNoValidRecords,
			outcome: &service.ImportOutcome{Job: &models.Job{
				ID:      "job-2",
				Status:  models.JobStatusFailed,
				Message: "No valid guest data found in CSV file",
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "No valid guest data found in CSV file",
		},
		{
			name:       "import in progress",
			err:        service.ErrImportInProgress,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "store failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "failed to import file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestRouter(testConfig())
			ts.imp.ImportFunc = func(ctx context.Context, req *models.ImportRequest, data []byte) (*service.ImportOutcome, error) {
				return tt.outcome, tt.err
			}

			w := upload(t, ts.router, "/v1/instances/w/imports/guests", "guests.csv", "name\nA\n", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantError != "" {
				if got := decode(t, w)["error"]; got != tt.wantError {
					t.Errorf("Expected error %q, got %v", tt.wantError, got)
				}
			}
		})
	}
}

func TestCreateImport_WrongExtensionWithRealService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	repos, guests, _, jobs := mocks.NewMockRepositories()
	services := service.NewServices(repos, cfg, zerolog.Nop())
	router := api.NewRouter(services, cfg, zerolog.Nop())

	w := upload(t, router, "/v1/instances/w/imports/guests", "guests.txt", "name\nAsha\n", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["error"]; got != "Please select a CSV file" {
		t.Errorf("Unexpected error: %v", got)
	}
	if guests.ReplaceCalls != 0 {
		t.Errorf("Expected no store calls, got %d", guests.ReplaceCalls)
	}
	if len(jobs.Jobs) != 0 {
		t.Errorf("Expected no job for rejected file, got %d", len(jobs.Jobs))
	}
}

func setupRealServices(t *testing.T) (*gin.Engine, *mocks.MockJobRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	repos, _, _, jobs := mocks.NewMockRepositories()
	services := service.NewServices(repos, cfg, zerolog.Nop())
	return api.NewRouter(services, cfg, zerolog.Nop()), jobs
}

func TestGetImportStatus_MalformedID(t *testing.T) {
	router, jobs := setupRealServices(t)
	jobs.GetError = errors.New(`invalid input syntax for type uuid: "foo"`)

	for _, path := range []string{"/v1/imports/foo", "/v1/imports/foo/errors"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		want := http.StatusNotFound
		if strings.HasSuffix(path, "/errors") {
			want = http.StatusOK
		}
		if w.Code != want {
			t.Errorf("%s: expected status %d, got %d: %s", path, want, w.Code, w.Body.String())
		}
	}
}

func TestReplaceRoster_NullElement(t *testing.T) {
	router, _ := setupRealServices(t)

	for _, path := range []string{"/v1/instances/w/guests", "/v1/instances/w/rooms"} {
		req := httptest.NewRequest("PUT", path, strings.NewReader(`[null]`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected status 422, got %d: %s", path, w.Code, w.Body.String())
			continue
		}
		errs := decode(t, w)["errors"].([]interface{})
		first := errs[0].(map[string]interface{})
		if first["line"] != float64(1) || first["message"] != "record must be an object" {
			t.Errorf("%s: unexpected error %v", path, first)
		}
	}
}

func TestCreateImport_MissingFile(t *testing.T) {
	ts := setupTestRouter(testConfig())

	req := httptest.NewRequest("POST", "/v1/instances/w/imports/guests", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(ts.imp.Requests) != 0 {
		t.Error("Service should not be called without a file")
	}
}

func TestCreateImport_OversizedUpload(t *testing.T) {
	ts := setupTestRouter(testConfig())

	content := "name\n" + strings.Repeat("Guest Name\n", 200)
	w := upload(t, ts.router, "/v1/instances/w/imports/guests", "guests.csv", content, nil)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", w.Code)
	}
	if len(ts.imp.Requests) != 0 {
		t.Error("Service should not be called for an oversized upload")
	}
}

func TestCreateImport_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}
	ts := setupTestRouter(cfg)

	var codes []int
	for i := 0; i < 3; i++ {
		w := upload(t, ts.router, "/v1/instances/w/imports/guests", "guests.csv", "name\nA\n", nil)
		codes = append(codes, w.Code)
		if i == 2 && w.Header().Get("Retry-After") == "" {
			t.Error("Expected Retry-After header on limited response")
		}
	}

	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated {
		t.Errorf("Expected first two uploads to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third upload to be limited, got %d", codes[2])
	}

	// Reads are not limited
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/instances/w/imports", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected history read to pass, got %d", w.Code)
	}
}

func TestPreviewImport(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.imp.PreviewFunc = func(ctx context.Context, kind, fileName string, data []byte) (*importer.Result, error) {
		schema, _ := importer.Lookup(kind)
		res := importer.Parse(string(data), schema)
		return &res, nil
	}

	w := upload(t, ts.router, "/v1/imports/preview/rooms", "rooms.csv",
		"roomnumber,hotelname,guestids\n101,Grand,g1;g2\n,Grand,\n", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	records := resp["records"].([]interface{})
	if len(records) != 1 || resp["skipped"] != float64(1) {
		t.Fatalf("Unexpected preview: %v", resp)
	}
	rec := records[0].(map[string]interface{})
	if rec["roomNumber"] != "101" {
		t.Errorf("Expected roomNumber 101, got %v", rec["roomNumber"])
	}
}

func TestListImports(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.jobs.Jobs["job-1"] = &models.JobResponse{Job: models.Job{ID: "job-1", InstanceID: "w"}}
	ts.jobs.Jobs["job-2"] = &models.JobResponse{Job: models.Job{ID: "job-2", InstanceID: "other"}}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/instances/w/imports", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	imports := decode(t, w)["imports"].([]interface{})
	if len(imports) != 1 {
		t.Errorf("Expected 1 import, got %d", len(imports))
	}
}

func TestListImports_BadLimit(t *testing.T) {
	ts := setupTestRouter(testConfig())

	for _, limit := range []string{"0", "-1", "abc"} {
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/instances/w/imports?limit="+limit, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status 400, got %d", limit, w.Code)
		}
	}
}

func TestGetImportStatus(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.jobs.Jobs["test-job-123"] = &models.JobResponse{
		Job: models.Job{
			ID:            "test-job-123",
			Kind:          "guests",
			Status:        models.JobStatusCompleted,
			AcceptedCount: 95,
			SkippedCount:  5,
		},
		ErrorCount: 5,
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/imports/test-job-123", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["job_id"] != "test-job-123" {
		t.Errorf("Expected job_id 'test-job-123', got %v", resp["job_id"])
	}
	if resp["status"] != "completed" {
		t.Errorf("Expected status 'completed', got %v", resp["status"])
	}
	if resp["accepted"] != float64(95) {
		t.Errorf("Expected accepted 95, got %v", resp["accepted"])
	}
}

func TestGetImportStatus_NotFound(t *testing.T) {
	ts := setupTestRouter(testConfig())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/imports/non-existent", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetImportErrors(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.jobs.Errors["job-1"] = []models.ValidationError{
		{Line: 3, Message: "row has 1 columns, header has 3"},
		{Line: 5, Field: "name", Message: "name is required"},
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/imports/job-1/errors", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["error_count"] != float64(2) {
		t.Errorf("Expected error_count 2, got %v", resp["error_count"])
	}
}

func TestGetImportErrors_CSV(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.jobs.Errors["job-1"] = []models.ValidationError{
		{Line: 5, Field: "name", Message: "name is required"},
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/imports/job-1/errors?format=csv", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected Content-Type text/csv, got %s", ct)
	}
	want := "line,field,message,value\n5,name,name is required,\n"
	if w.Body.String() != want {
		t.Errorf("Unexpected CSV:\n%s", w.Body.String())
	}
}

func TestGetImportErrors_EmptyErrors(t *testing.T) {
	ts := setupTestRouter(testConfig())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/imports/clean-job/errors", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if decode(t, w)["error_count"] != float64(0) {
		t.Error("Expected error_count 0")
	}
}

func TestReplaceGuests(t *testing.T) {
	ts := setupTestRouter(testConfig())

	body := `[{"name":"Asha Rao","email":"asha@x.com","side":"bride","rsvp":"yes"}]`
	req := httptest.NewRequest("PUT", "/v1/instances/w/guests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["saved"] != float64(1) {
		t.Errorf("Expected saved 1")
	}
	if got := ts.roster.Guests["w"]; len(got) != 1 || got[0].Name != "Asha Rao" {
		t.Errorf("Unexpected stored guests: %+v", got)
	}

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/instances/w/guests", nil))
	if guests := decode(t, w)["guests"].([]interface{}); len(guests) != 1 {
		t.Errorf("Expected 1 guest listed, got %d", len(guests))
	}
}

func TestReplaceRooms_Invalid(t *testing.T) {
	ts := setupTestRouter(testConfig())
	ts.roster.ReplaceError = &service.InvalidRecordsError{Errors: []models.ValidationError{
		{Line: 1, Field: "hotelName", Message: "hotelName is required"},
	}}

	req := httptest.NewRequest("PUT", "/v1/instances/w/rooms", strings.NewReader(`[{"roomNumber":"101"}]`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", w.Code)
	}
	if errs := decode(t, w)["errors"].([]interface{}); len(errs) != 1 {
		t.Errorf("Expected 1 validation error, got %d", len(errs))
	}
}

func TestReplaceRooms_BadBody(t *testing.T) {
	ts := setupTestRouter(testConfig())

	req := httptest.NewRequest("PUT", "/v1/instances/w/rooms", strings.NewReader(`{"roomNumber":"101"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestExportStream_Validation(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"unknown kind", "/v1/instances/w/exports/tables", http.StatusNotFound},
		{"bad format", "/v1/instances/w/exports/guests?format=xml", http.StatusBadRequest},
		{"default csv", "/v1/instances/w/exports/guests", http.StatusOK},
		{"ndjson", "/v1/instances/w/exports/rooms?format=ndjson", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestRouter(testConfig())

			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK && len(ts.export.Streamed) != 0 {
				t.Error("Rejected export should not reach the service")
			}
		})
	}
}

func TestExportStream_FormatPassedThrough(t *testing.T) {
	ts := setupTestRouter(testConfig())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/instances/w/exports/guests", nil))

	if len(ts.export.Streamed) != 1 {
		t.Fatalf("Expected 1 export, got %d", len(ts.export.Streamed))
	}
	got := ts.export.Streamed[0]
	if got.Format != "csv" || got.InstanceID != "w" || got.Kind != "guests" {
		t.Errorf("Unexpected export request: %+v", got)
	}
}

func TestListSchemas(t *testing.T) {
	ts := setupTestRouter(testConfig())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/schemas", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	schemas := decode(t, w)["schemas"].([]interface{})
	if len(schemas) != 2 {
		t.Fatalf("Expected 2 schemas, got %d", len(schemas))
	}
	first := schemas[0].(map[string]interface{})
	if first["kind"] != "guests" {
		t.Errorf("Expected guests first, got %v", first["kind"])
	}
}

func TestGetTemplate(t *testing.T) {
	ts := setupTestRouter(testConfig())

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/schemas/rooms/template", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	want := strings.Join(importer.RoomSchema.Headers(), ",") + "\n"
	if w.Body.String() != want {
		t.Errorf("Expected %q, got %q", want, w.Body.String())
	}

	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, httptest.NewRequest("GET", "/v1/schemas/tables/template", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown kind, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := setupTestRouter(testConfig())

	req := httptest.NewRequest("OPTIONS", "/v1/instances/w/guests", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header Access-Control-Allow-Origin: *")
	}
}
