package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthDoesNotRequireToken(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, response, http.StatusOK)
}

func TestAPIRejectsRequestsWithoutBearerToken(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodGet, "/api/periods", "", nil)
	expectStatus(t, response, http.StatusUnauthorized)

	payload := map[string]string{}
	decodeBody(t, response, &payload)
	if payload["error"] != "unauthorized" {
		t.Fatalf("expected unauthorized error, got %#v", payload)
	}
}

func TestAPIRejectsInvalidTokens(t *testing.T) {
	ta := newTestApp(t)

	expired, err := IssueToken([]byte(testSecretKey), "user-1", time.Hour, testNow.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	foreign, err := IssueToken([]byte("another-secret-key-with-32-characters"), "user-1", time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong secret", header: "Bearer " + foreign},
		{name: "garbage", header: "Bearer not-a-token"},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/periods", nil)
			request.Header.Set("Authorization", tc.header)

			response, err := ta.app.Test(request, -1)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer response.Body.Close()

			if response.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", response.StatusCode)
			}
		})
	}
}

func TestIssueTokenRequiresUserKey(t *testing.T) {
	if _, err := IssueToken([]byte(testSecretKey), "  ", time.Hour, testNow); err == nil {
		t.Fatal("expected error for blank user key")
	}
}
