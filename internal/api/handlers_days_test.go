package api

import (
	"net/http"
	"testing"

	"github.com/terraincognita07/lunacycle/internal/services"
)

func TestDayJournalEndpoints(t *testing.T) {
	ta := newTestApp(t)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/periods", "user-1", periodPayload{Start: "2024-01-01", End: "2024-01-05"}), http.StatusCreated)

	expectStatus(t, ta.do(t, http.MethodPost, "/api/days/2024-01-02/symptoms", "user-1", symptomPayload{Name: "cramps"}), http.StatusOK)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/days/2024-01-03/symptoms", "user-1", symptomPayload{Name: "cramps"}), http.StatusOK)
	expectStatus(t, ta.do(t, http.MethodPut, "/api/days/2024-01-02/note", "user-1", notePayload{Text: "stayed in"}), http.StatusOK)

	day := dayResponse{}
	response := ta.do(t, http.MethodGet, "/api/days/2024-01-02", "user-1", nil)
	expectStatus(t, response, http.StatusOK)
	decodeBody(t, response, &day)
	if day.Period == nil || len(day.Symptoms) != 1 || day.Symptoms[0] != "cramps" || day.Note != "stayed in" {
		t.Fatalf("unexpected day: %+v", day)
	}

	frequencies := struct {
		Symptoms []services.SymptomFrequency `json:"symptoms"`
	}{}
	decodeBody(t, ta.do(t, http.MethodGet, "/api/symptoms/frequencies", "user-1", nil), &frequencies)
	if len(frequencies.Symptoms) != 1 || frequencies.Symptoms[0].Count != 2 {
		t.Fatalf("unexpected frequencies: %+v", frequencies.Symptoms)
	}

	expectStatus(t, ta.do(t, http.MethodDelete, "/api/days/2024-01-02/symptoms/cramps", "user-1", nil), http.StatusOK)
	expectStatus(t, ta.do(t, http.MethodDelete, "/api/days/2024-01-02/symptoms/cramps", "user-1", nil), http.StatusNotFound)
}

func TestDayJournalValidation(t *testing.T) {
	ta := newTestApp(t)

	expectStatus(t, ta.do(t, http.MethodGet, "/api/days/not-a-day", "user-1", nil), http.StatusBadRequest)
	expectStatus(t, ta.do(t, http.MethodPost, "/api/days/2024-01-02/symptoms", "user-1", symptomPayload{Name: " "}), http.StatusBadRequest)
}
