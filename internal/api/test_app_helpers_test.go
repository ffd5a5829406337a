package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/terraincognita07/lunacycle/internal/db"
	"github.com/terraincognita07/lunacycle/internal/metrics"
	"github.com/terraincognita07/lunacycle/internal/models"
	"github.com/terraincognita07/lunacycle/internal/services"
)

const testSecretKey = "test-secret-key-with-at-least-32-chars"

var testNow = time.Date(2024, time.February, 5, 9, 30, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	registry *prometheus.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "lunacycle-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	return newTestAppWithStore(t, db.NewRepositories(database).Documents)
}

func newTestAppWithStore(t *testing.T, documents services.DocumentStore) *testApp {
	t.Helper()

	metricsManager, registry := metrics.NewTestManagerAndRegistry()
	periods := services.NewPeriodService(documents, services.WithPeriodMetrics(metricsManager), services.WithPredictionCache(1024*1024))

	handler, err := NewHandler(periods, testSecretKey, time.UTC, metricsManager)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	return &testApp{
		app:      NewApp(handler, registry, nil),
		handler:  handler,
		registry: registry,
	}
}

func mustIssueToken(t *testing.T, userKey string) string {
	t.Helper()
	token, err := IssueToken([]byte(testSecretKey), userKey, time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// do sends a request as userKey; an empty userKey sends no Authorization header.
func (ta *testApp) do(t *testing.T, method string, path string, userKey string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if userKey != "" {
		request.Header.Set("Authorization", "Bearer "+mustIssueToken(t, userKey))
	}

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func expectStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

type failingDocumentStore struct {
	documents map[string]models.PeriodDocument
	writeErr  error
}

func (stub *failingDocumentStore) Read(_ context.Context, key string) (models.PeriodDocument, bool, error) {
	document, ok := stub.documents[key]
	return document, ok, nil
}

func (stub *failingDocumentStore) Write(_ context.Context, key string, document models.PeriodDocument) error {
	if stub.writeErr != nil {
		return stub.writeErr
	}
	stub.documents[key] = document
	return nil
}

var errStoreUnavailable = errors.New("store unavailable")
