package api

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func TestExportCSVWritesAttachment(t *testing.T) {
	ta := newTestApp(t)
	seedWorkedExample(t, ta, "user-1")

	response := ta.do(t, http.MethodGet, "/api/export/csv", "user-1", nil)
	expectStatus(t, response, http.StatusOK)

	if got := response.Header.Get("Content-Disposition"); got != "attachment; filename=lunacycle-export-2024-02-05.csv" {
		t.Fatalf("unexpected content disposition %q", got)
	}

	records, err := csv.NewReader(response.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus two rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(services.ExportCSVHeaders, ",") {
		t.Fatalf("unexpected header %v", records[0])
	}
	if strings.Join(records[1], ",") != "2024-01-01,2024-01-05,5,medium" {
		t.Fatalf("unexpected first row %v", records[1])
	}
}

func TestExportJSONFiltersByRange(t *testing.T) {
	ta := newTestApp(t)
	seedWorkedExample(t, ta, "user-1")

	response := ta.do(t, http.MethodGet, "/api/export/json?from=2024-01-20", "user-1", nil)
	expectStatus(t, response, http.StatusOK)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	payload := struct {
		ExportedAt string                     `json:"exported_at"`
		Periods    []services.ExportJSONEntry `json:"periods"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if payload.ExportedAt != "2024-02-05" {
		t.Fatalf("unexpected exported_at %q", payload.ExportedAt)
	}
	if len(payload.Periods) != 1 || payload.Periods[0].Start != "2024-01-29" {
		t.Fatalf("expected only the late january period, got %+v", payload.Periods)
	}
}

func TestExportSummary(t *testing.T) {
	ta := newTestApp(t)
	seedWorkedExample(t, ta, "user-1")

	summary := services.ExportSummary{}
	response := ta.do(t, http.MethodGet, "/api/export/summary", "user-1", nil)
	expectStatus(t, response, http.StatusOK)
	decodeBody(t, response, &summary)

	want := services.ExportSummary{TotalPeriods: 2, TotalDays: 10, HasData: true, DateFrom: "2024-01-01", DateTo: "2024-02-02"}
	if summary != want {
		t.Fatalf("unexpected summary: got %+v want %+v", summary, want)
	}
}

func TestExportRejectsInvalidRange(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		query   string
		message string
	}{
		{query: "from=yesterday", message: "invalid from date"},
		{query: "to=2024-02-30", message: "invalid to date"},
		{query: "from=2024-03-01&to=2024-02-01", message: "invalid range"},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			response := ta.do(t, http.MethodGet, "/api/export/summary?"+tc.query, "user-1", nil)
			expectStatus(t, response, http.StatusBadRequest)

			payload := map[string]string{}
			decodeBody(t, response, &payload)
			if payload["error"] != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, payload["error"])
			}
		})
	}
}
