package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

func TestAddPeriodThenList(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-05", Flow: "heavy"})
	expectStatus(t, response, http.StatusCreated)

	created := models.PeriodInterval{}
	decodeBody(t, response, &created)
	if created.ID == "" || created.Flow != models.FlowHeavy {
		t.Fatalf("unexpected created period: %+v", created)
	}

	listed := periodsResponse{}
	listResponse := ta.do(t, http.MethodGet, "/api/periods", "user-1", nil)
	expectStatus(t, listResponse, http.StatusOK)
	decodeBody(t, listResponse, &listed)
	if len(listed.Periods) != 1 || listed.Periods[0].String() != "[2024-01-01, 2024-01-05]" {
		t.Fatalf("unexpected periods: %+v", listed.Periods)
	}

	other := periodsResponse{}
	otherResponse := ta.do(t, http.MethodGet, "/api/periods", "user-2", nil)
	expectStatus(t, otherResponse, http.StatusOK)
	decodeBody(t, otherResponse, &other)
	if len(other.Periods) != 0 {
		t.Fatalf("expected periods to be scoped per user, got %+v", other.Periods)
	}
}

func TestAddPeriodMergesAdjacentRanges(t *testing.T) {
	ta := newTestApp(t)

	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-03"}), http.StatusCreated)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-04", End: "2024-01-06"}), http.StatusCreated)

	listed := periodsResponse{}
	response := ta.do(t, http.MethodGet, "/api/periods", "user-1", nil)
	decodeBody(t, response, &listed)
	if len(listed.Periods) != 1 || listed.Periods[0].String() != "[2024-01-01, 2024-01-06]" {
		t.Fatalf("expected one merged period, got %+v", listed.Periods)
	}
}

func TestAddPeriodValidation(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		name    string
		payload periodPayload
		message string
	}{
		{name: "bad start", payload: periodPayload{Start: "2024-13-01", End: "2024-01-05"}, message: "invalid start date"},
		{name: "bad end", payload: periodPayload{Start: "2024-01-01", End: "soon"}, message: "invalid end date"},
		{name: "reversed", payload: periodPayload{Start: "2024-01-05", End: "2024-01-01"}, message: "invalid range"},
		{name: "bad flow", payload: periodPayload{Start: "2024-01-01", End: "2024-01-05", Flow: "torrential"}, message: "invalid flow"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			response := ta.do(t, http.MethodPost, "/api/periods", "user-1", tc.payload)
			expectStatus(t, response, http.StatusBadRequest)

			payload := map[string]string{}
			decodeBody(t, response, &payload)
			if payload["error"] != tc.message {
				t.Fatalf("expected error %q, got %q", tc.message, payload["error"])
			}
		})
	}
}

func TestRemovePeriodDaySplitsPeriod(t *testing.T) {
	ta := newTestApp(t)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-05"}), http.StatusCreated)

	response := ta.do(t, http.MethodDelete, "/api/periods/days/2024-01-03", "user-1", nil)
	expectStatus(t, response, http.StatusOK)

	removed := removeDayResponse{}
	decodeBody(t, response, &removed)
	if len(removed.Remaining) != 2 {
		t.Fatalf("expected split into two periods, got %+v", removed.Remaining)
	}
	if removed.Remaining[0].String() != "[2024-01-01, 2024-01-02]" || removed.Remaining[1].String() != "[2024-01-04, 2024-01-05]" {
		t.Fatalf("unexpected remaining periods: %+v", removed.Remaining)
	}

	missing := ta.do(t, http.MethodDelete, "/api/periods/days/2024-02-03", "user-1", nil)
	expectStatus(t, missing, http.StatusNotFound)
}

func TestImportPeriodsReplacesList(t *testing.T) {
	ta := newTestApp(t)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2023-06-01", End: "2023-06-04"}), http.StatusCreated)

	payload := importPayload{Periods: []models.PeriodInterval{
		{StartDate: mustDay(t, "2024-01-29"), EndDate: mustDay(t, "2024-02-02"), Flow: models.FlowLight},
		{StartDate: mustDay(t, "2024-01-01"), EndDate: mustDay(t, "2024-01-05"), Flow: models.FlowMedium},
	}}
	response := ta.do(t, http.MethodPut, "/api/periods", "user-1", payload)
	expectStatus(t, response, http.StatusOK)

	imported := periodsResponse{}
	decodeBody(t, response, &imported)
	if len(imported.Periods) != 2 || imported.Periods[0].String() != "[2024-01-01, 2024-01-05]" {
		t.Fatalf("expected sorted imported periods, got %+v", imported.Periods)
	}

	overlapping := importPayload{Periods: []models.PeriodInterval{
		{StartDate: mustDay(t, "2024-01-01"), EndDate: mustDay(t, "2024-01-05"), Flow: models.FlowMedium},
		{StartDate: mustDay(t, "2024-01-04"), EndDate: mustDay(t, "2024-01-08"), Flow: models.FlowMedium},
	}}
	expectStatus(t, ta.do(t, http.MethodPut, "/api/periods", "user-1", overlapping), http.StatusConflict)
}

func TestPersistFailureIsRetryable(t *testing.T) {
	documents := &failingDocumentStore{documents: map[string]models.PeriodDocument{}, writeErr: errStoreUnavailable}
	ta := newTestAppWithStore(t, documents)

	response := ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-05"})
	expectStatus(t, response, http.StatusServiceUnavailable)

	payload := map[string]any{}
	decodeBody(t, response, &payload)
	if payload["retryable"] != true {
		t.Fatalf("expected retryable flag, got %#v", payload)
	}

	listed := periodsResponse{}
	listResponse := ta.do(t, http.MethodGet, "/api/periods", "user-1", nil)
	decodeBody(t, listResponse, &listed)
	if len(listed.Periods) != 1 {
		t.Fatalf("expected in-memory period to survive a failed save, got %+v", listed.Periods)
	}

	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods/sync", "user-1", nil), http.StatusServiceUnavailable)

	documents.writeErr = nil
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods/sync", "user-1", nil), http.StatusOK)
	if len(documents.documents["user-1"].Periods) != 1 {
		t.Fatalf("expected sync to persist the period, got %+v", documents.documents["user-1"])
	}
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := models.ParseCalendarDate(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return day
}
