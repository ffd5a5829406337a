package api

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	ta := newTestApp(t)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-05"}), http.StatusCreated)

	response := ta.do(t, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, response, http.StatusOK)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	rendered := string(body)
	for _, name := range []string{
		`lunacycle_test_server_request{method="POST",status="201"} 1`,
		`lunacycle_test_server_period_mutations{kind="add"} 1`,
	} {
		if !strings.Contains(rendered, name) {
			t.Fatalf("expected %q in metrics output", name)
		}
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	ta := newTestApp(t)
	expectStatus(t, ta.do(t, http.MethodGet, "/nowhere", "", nil), http.StatusNotFound)
}
