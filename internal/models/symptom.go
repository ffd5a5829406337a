package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SymptomEntry is a symptom tagged on a calendar day. The cycle engine does
// not read symptoms; they ride along in the period document.
type SymptomEntry struct {
	Date time.Time
	Name string
}

// NoteEntry is a free-text note attached to a calendar day.
type NoteEntry struct {
	Date time.Time
	Text string
}

type symptomEntryRecord struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type noteEntryRecord struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

func (entry SymptomEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(symptomEntryRecord{Date: entry.Date.Format(DateLayout), Name: entry.Name})
}

func (entry *SymptomEntry) UnmarshalJSON(raw []byte) error {
	record := symptomEntryRecord{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return err
	}
	day, err := ParseCalendarDate(record.Date)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	entry.Date = day
	entry.Name = strings.TrimSpace(record.Name)
	return nil
}

func (entry NoteEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(noteEntryRecord{Date: entry.Date.Format(DateLayout), Text: entry.Text})
}

func (entry *NoteEntry) UnmarshalJSON(raw []byte) error {
	record := noteEntryRecord{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return err
	}
	day, err := ParseCalendarDate(record.Date)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	entry.Date = day
	entry.Text = record.Text
	return nil
}
