package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrMalformedDocument = errors.New("malformed period document")

// PeriodDocument is the envelope persisted per user in the document store.
type PeriodDocument struct {
	Periods  []PeriodInterval `json:"periods"`
	Symptoms []SymptomEntry   `json:"symptoms"`
	Notes    []NoteEntry      `json:"notes"`
}

func EncodePeriodDocument(document PeriodDocument) ([]byte, error) {
	if document.Periods == nil {
		document.Periods = []PeriodInterval{}
	}
	if document.Symptoms == nil {
		document.Symptoms = []SymptomEntry{}
	}
	if document.Notes == nil {
		document.Notes = []NoteEntry{}
	}
	return json.Marshal(document)
}

// DecodePeriodDocument parses and validates a stored document. Anything that
// would leave a zero or ambiguous field behind is rejected with
// ErrMalformedDocument instead of being passed on.
func DecodePeriodDocument(raw []byte) (PeriodDocument, error) {
	document := PeriodDocument{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return PeriodDocument{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := ValidatePeriodDocument(&document); err != nil {
		return PeriodDocument{}, err
	}
	return document, nil
}

func ValidatePeriodDocument(document *PeriodDocument) error {
	seenIDs := make(map[string]struct{}, len(document.Periods))
	for index := range document.Periods {
		period := &document.Periods[index]
		if period.ID == "" {
			return fmt.Errorf("%w: period %d has no id", ErrMalformedDocument, index)
		}
		if _, duplicate := seenIDs[period.ID]; duplicate {
			return fmt.Errorf("%w: duplicate period id %q", ErrMalformedDocument, period.ID)
		}
		seenIDs[period.ID] = struct{}{}

		if period.StartDate.IsZero() || period.EndDate.IsZero() {
			return fmt.Errorf("%w: period %q is missing dates", ErrMalformedDocument, period.ID)
		}
		if period.EndDate.Before(period.StartDate) {
			return fmt.Errorf("%w: period %q ends before it starts", ErrMalformedDocument, period.ID)
		}

		period.Flow = NormalizeFlow(period.Flow)
		if !IsValidFlow(period.Flow) {
			return fmt.Errorf("%w: period %q has unknown flow %q", ErrMalformedDocument, period.ID, period.Flow)
		}
	}

	if err := rejectOverlappingPeriods(document.Periods); err != nil {
		return err
	}

	for index, symptom := range document.Symptoms {
		if symptom.Name == "" {
			return fmt.Errorf("%w: symptom %d has no name", ErrMalformedDocument, index)
		}
	}

	if document.Periods == nil {
		document.Periods = []PeriodInterval{}
	}
	if document.Symptoms == nil {
		document.Symptoms = []SymptomEntry{}
	}
	if document.Notes == nil {
		document.Notes = []NoteEntry{}
	}
	return nil
}

func rejectOverlappingPeriods(periods []PeriodInterval) error {
	sorted := append([]PeriodInterval{}, periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	for index := 1; index < len(sorted); index++ {
		previous, current := sorted[index-1], sorted[index]
		if !current.StartDate.After(previous.EndDate) {
			return fmt.Errorf("%w: periods %q and %q overlap", ErrMalformedDocument, previous.ID, current.ID)
		}
	}
	return nil
}
