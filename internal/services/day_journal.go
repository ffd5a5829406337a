package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

var (
	ErrInvalidSymptomName = errors.New("invalid symptom name")
	ErrNoteTooLong        = errors.New("note is too long")
)

const (
	maxSymptomNameLength = 80
	MaxDayNoteLength     = 2000
)

// DayJournal is everything logged for one calendar day besides its period.
type DayJournal struct {
	Date     time.Time
	Period   *models.PeriodInterval
	Symptoms []string
	Note     string
}

type SymptomFrequency struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	TotalDays int    `json:"total_days"`
}

func normalizeSymptomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxSymptomNameLength {
		return "", ErrInvalidSymptomName
	}
	return name, nil
}

// AddSymptom tags day with name. Names are matched case-insensitively, so
// tagging the same symptom twice is a no-op that reports false.
func (store *PeriodStore) AddSymptom(day time.Time, name string) (bool, error) {
	name, err := normalizeSymptomName(name)
	if err != nil {
		return false, err
	}
	day = models.CalendarDate(day)

	for _, entry := range store.symptoms {
		if entry.Date.Equal(day) && strings.EqualFold(entry.Name, name) {
			return false, nil
		}
	}
	store.symptoms = append(store.symptoms, models.SymptomEntry{Date: day, Name: name})
	return true, nil
}

func (store *PeriodStore) RemoveSymptom(day time.Time, name string) bool {
	day = models.CalendarDate(day)
	name = strings.TrimSpace(name)

	for index, entry := range store.symptoms {
		if entry.Date.Equal(day) && strings.EqualFold(entry.Name, name) {
			store.symptoms = append(store.symptoms[:index], store.symptoms[index+1:]...)
			return true
		}
	}
	return false
}

// SetNote replaces the note of day. Blank text deletes it.
func (store *PeriodStore) SetNote(day time.Time, text string) error {
	if len(text) > MaxDayNoteLength {
		return ErrNoteTooLong
	}
	day = models.CalendarDate(day)

	kept := store.notes[:0]
	for _, entry := range store.notes {
		if !entry.Date.Equal(day) {
			kept = append(kept, entry)
		}
	}
	store.notes = kept

	if strings.TrimSpace(text) != "" {
		store.notes = append(store.notes, models.NoteEntry{Date: day, Text: text})
	}
	return nil
}

func (store *PeriodStore) Journal(day time.Time) DayJournal {
	day = models.CalendarDate(day)
	journal := DayJournal{Date: day, Symptoms: []string{}}

	if period, ok := store.ContainsDay(day); ok {
		journal.Period = &period
	}
	for _, entry := range store.symptoms {
		if entry.Date.Equal(day) {
			journal.Symptoms = append(journal.Symptoms, entry.Name)
		}
	}
	sort.Strings(journal.Symptoms)
	for _, entry := range store.notes {
		if entry.Date.Equal(day) {
			journal.Note = entry.Text
		}
	}
	return journal
}

// SymptomFrequencies counts on how many tagged days each symptom appears,
// most frequent first.
func (store *PeriodStore) SymptomFrequencies() []SymptomFrequency {
	if len(store.symptoms) == 0 {
		return []SymptomFrequency{}
	}

	days := make(map[time.Time]struct{})
	counts := make(map[string]int)
	names := make(map[string]string)
	for _, entry := range store.symptoms {
		days[entry.Date] = struct{}{}
		key := strings.ToLower(entry.Name)
		counts[key]++
		if _, seen := names[key]; !seen {
			names[key] = entry.Name
		}
	}

	result := make([]SymptomFrequency, 0, len(counts))
	for key, count := range counts {
		result = append(result, SymptomFrequency{
			Name:      names[key],
			Count:     count,
			TotalDays: len(days),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Name < result[j].Name
		}
		return result[i].Count > result[j].Count
	})
	return result
}
