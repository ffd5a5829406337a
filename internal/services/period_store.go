package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/lunacycle/internal/models"
)

// DocumentStore is the key-value collaborator that owns durable storage of a
// user's period document.
type DocumentStore interface {
	Read(ctx context.Context, key string) (models.PeriodDocument, bool, error)
	Write(ctx context.Context, key string, document models.PeriodDocument) error
}

// PeriodStore keeps one user's logged periods in memory. Mutations are not
// written through: callers must call Save after every change they want kept.
type PeriodStore struct {
	userKey       string
	documents     DocumentStore
	newID         func() string
	mergeAdjacent bool

	periods  []models.PeriodInterval
	symptoms []models.SymptomEntry
	notes    []models.NoteEntry
}

type PeriodStoreOption func(store *PeriodStore)

// WithMergeAdjacent controls whether AddInterval coalesces the new range with
// overlapping or day-adjacent periods. When disabled, overlapping ranges are
// rejected and adjacent ones are kept apart.
func WithMergeAdjacent(enabled bool) PeriodStoreOption {
	return func(store *PeriodStore) {
		store.mergeAdjacent = enabled
	}
}

func WithIDGenerator(generator func() string) PeriodStoreOption {
	return func(store *PeriodStore) {
		if generator != nil {
			store.newID = generator
		}
	}
}

type RemoveDayResult struct {
	Original  models.PeriodInterval
	Remaining []models.PeriodInterval
}

func NewPeriodStore(userKey string, documents DocumentStore, options ...PeriodStoreOption) *PeriodStore {
	store := &PeriodStore{
		userKey:       userKey,
		documents:     documents,
		newID:         uuid.NewString,
		mergeAdjacent: true,
		periods:       []models.PeriodInterval{},
	}
	for _, option := range options {
		option(store)
	}
	return store
}

func (store *PeriodStore) UserKey() string {
	return store.userKey
}

// Intervals returns a copy of the stored periods ordered by start date.
func (store *PeriodStore) Intervals() []models.PeriodInterval {
	return sortedIntervals(store.periods)
}

func (store *PeriodStore) ContainsDay(day time.Time) (models.PeriodInterval, bool) {
	index := store.indexContaining(day)
	if index < 0 {
		return models.PeriodInterval{}, false
	}
	return store.periods[index], true
}

func (store *PeriodStore) AddInterval(start time.Time, end time.Time, flow string) (models.PeriodInterval, error) {
	start = models.CalendarDate(start)
	end = models.CalendarDate(end)
	if end.Before(start) {
		return models.PeriodInterval{}, ErrInvalidRange
	}

	flow = models.NormalizeFlow(flow)
	if !models.IsValidFlow(flow) {
		return models.PeriodInterval{}, ErrInvalidFlow
	}

	added := models.PeriodInterval{
		ID:        store.newID(),
		StartDate: start,
		EndDate:   end,
		Flow:      flow,
	}

	if !store.mergeAdjacent {
		for _, existing := range store.periods {
			if intervalsOverlap(existing, added) {
				return models.PeriodInterval{}, ErrOverlappingRange
			}
		}
		store.periods = append(store.periods, added)
		return added, nil
	}

	return store.insertMerged(added), nil
}

// insertMerged absorbs every period that overlaps or touches the new range.
// The merged period keeps the id of the earliest absorbed period and the flow
// of the new range.
func (store *PeriodStore) insertMerged(added models.PeriodInterval) models.PeriodInterval {
	merged := added
	remaining := store.periods
	absorbedID := ""
	var absorbedStart time.Time

	for {
		kept := make([]models.PeriodInterval, 0, len(remaining))
		absorbedAny := false
		for _, existing := range remaining {
			if !intervalsTouch(existing, merged) {
				kept = append(kept, existing)
				continue
			}

			absorbedAny = true
			if existing.StartDate.Before(merged.StartDate) {
				merged.StartDate = existing.StartDate
			}
			if existing.EndDate.After(merged.EndDate) {
				merged.EndDate = existing.EndDate
			}
			if absorbedID == "" || existing.StartDate.Before(absorbedStart) {
				absorbedID = existing.ID
				absorbedStart = existing.StartDate
			}
		}
		remaining = kept
		if !absorbedAny {
			break
		}
	}

	if absorbedID != "" {
		merged.ID = absorbedID
	}
	store.periods = append(remaining, merged)
	return merged
}

// RemoveDay takes a single day out of the period that contains it, shrinking,
// splitting or deleting that period. It reports false when no period contains
// the day.
func (store *PeriodStore) RemoveDay(day time.Time) (RemoveDayResult, bool) {
	day = models.CalendarDate(day)
	index := store.indexContaining(day)
	if index < 0 {
		return RemoveDayResult{}, false
	}

	original := store.periods[index]
	result := RemoveDayResult{Original: original}

	switch {
	case original.StartDate.Equal(original.EndDate):
		store.periods = append(store.periods[:index], store.periods[index+1:]...)
	case day.Equal(original.StartDate):
		shrunk := original
		shrunk.StartDate = models.AddDays(original.StartDate, 1)
		store.periods[index] = shrunk
		result.Remaining = []models.PeriodInterval{shrunk}
	case day.Equal(original.EndDate):
		shrunk := original
		shrunk.EndDate = models.AddDays(original.EndDate, -1)
		store.periods[index] = shrunk
		result.Remaining = []models.PeriodInterval{shrunk}
	default:
		before := models.PeriodInterval{
			ID:        store.newID(),
			StartDate: original.StartDate,
			EndDate:   models.AddDays(day, -1),
			Flow:      original.Flow,
		}
		after := models.PeriodInterval{
			ID:        store.newID(),
			StartDate: models.AddDays(day, 1),
			EndDate:   original.EndDate,
			Flow:      original.Flow,
		}
		store.periods = append(store.periods[:index], store.periods[index+1:]...)
		store.periods = append(store.periods, before, after)
		result.Remaining = []models.PeriodInterval{before, after}
	}

	return result, true
}

// Replace swaps the whole period list, e.g. for an import. Periods without an
// id get a fresh one. Overlaps are rejected; touching periods are joined when
// adjacent merging is on.
func (store *PeriodStore) Replace(periods []models.PeriodInterval) error {
	replacement := make([]models.PeriodInterval, 0, len(periods))
	for _, period := range periods {
		period.StartDate = models.CalendarDate(period.StartDate)
		period.EndDate = models.CalendarDate(period.EndDate)
		if period.EndDate.Before(period.StartDate) {
			return ErrInvalidRange
		}
		period.Flow = models.NormalizeFlow(period.Flow)
		if !models.IsValidFlow(period.Flow) {
			return ErrInvalidFlow
		}
		if period.ID == "" {
			period.ID = store.newID()
		}
		replacement = append(replacement, period)
	}

	sorted := sortedIntervals(replacement)
	for index := 1; index < len(sorted); index++ {
		if intervalsOverlap(sorted[index-1], sorted[index]) {
			return ErrOverlappingRange
		}
	}

	if store.mergeAdjacent {
		sorted = coalesceAdjacent(sorted)
	}
	store.periods = sorted
	return nil
}

// coalesceAdjacent joins sorted, non-overlapping periods whose days touch. The
// joined period keeps the id and flow of the earlier one.
func coalesceAdjacent(sorted []models.PeriodInterval) []models.PeriodInterval {
	if len(sorted) == 0 {
		return sorted
	}
	joined := []models.PeriodInterval{sorted[0]}
	for _, period := range sorted[1:] {
		last := &joined[len(joined)-1]
		if intervalsTouch(*last, period) {
			last.EndDate = period.EndDate
			continue
		}
		joined = append(joined, period)
	}
	return joined
}

func (store *PeriodStore) Load(ctx context.Context) ([]models.PeriodInterval, error) {
	document, found, err := store.documents.Read(ctx, store.userKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if !found {
		document = models.PeriodDocument{}
	}

	store.periods = append([]models.PeriodInterval{}, document.Periods...)
	store.symptoms = append([]models.SymptomEntry{}, document.Symptoms...)
	store.notes = append([]models.NoteEntry{}, document.Notes...)
	return store.Intervals(), nil
}

func (store *PeriodStore) Save(ctx context.Context) error {
	document := models.PeriodDocument{
		Periods:  store.Intervals(),
		Symptoms: append([]models.SymptomEntry{}, store.symptoms...),
		Notes:    append([]models.NoteEntry{}, store.notes...),
	}
	if err := store.documents.Write(ctx, store.userKey, document); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

func (store *PeriodStore) indexContaining(day time.Time) int {
	for index, period := range store.periods {
		if period.Contains(day) {
			return index
		}
	}
	return -1
}

func sortedIntervals(periods []models.PeriodInterval) []models.PeriodInterval {
	sorted := make([]models.PeriodInterval, 0, len(periods))
	sorted = append(sorted, periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted
}

func intervalsOverlap(a models.PeriodInterval, b models.PeriodInterval) bool {
	return !a.StartDate.After(b.EndDate) && !b.StartDate.After(a.EndDate)
}

func intervalsTouch(a models.PeriodInterval, b models.PeriodInterval) bool {
	return !a.StartDate.After(models.AddDays(b.EndDate, 1)) && !b.StartDate.After(models.AddDays(a.EndDate, 1))
}
