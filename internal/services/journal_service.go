package services

import (
	"context"
	"time"
)

const (
	MutationSymptom = "symptom"
	MutationNote    = "note"
)

func (service *PeriodService) Day(ctx context.Context, userKey string, day time.Time) (DayJournal, error) {
	var journal DayJournal
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		journal = user.store.Journal(day)
		return nil
	})
	return journal, err
}

// LogSymptom tags day with a symptom. Nothing is written when the tag
// already exists.
func (service *PeriodService) LogSymptom(ctx context.Context, userKey string, day time.Time, name string) (DayJournal, error) {
	var journal DayJournal
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		added, err := user.store.AddSymptom(day, name)
		if err != nil {
			return err
		}
		journal = user.store.Journal(day)
		if !added {
			return nil
		}
		return service.persist(ctx, user, MutationSymptom)
	})
	return journal, err
}

func (service *PeriodService) RemoveSymptom(ctx context.Context, userKey string, day time.Time, name string) (DayJournal, bool, error) {
	var (
		journal DayJournal
		removed bool
	)
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		removed = user.store.RemoveSymptom(day, name)
		journal = user.store.Journal(day)
		if !removed {
			return nil
		}
		return service.persist(ctx, user, MutationSymptom)
	})
	return journal, removed, err
}

func (service *PeriodService) SetNote(ctx context.Context, userKey string, day time.Time, text string) (DayJournal, error) {
	var journal DayJournal
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		if err := user.store.SetNote(day, text); err != nil {
			return err
		}
		journal = user.store.Journal(day)
		return service.persist(ctx, user, MutationNote)
	})
	return journal, err
}

func (service *PeriodService) SymptomFrequencies(ctx context.Context, userKey string) ([]SymptomFrequency, error) {
	var frequencies []SymptomFrequency
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		frequencies = user.store.SymptomFrequencies()
		return nil
	})
	return frequencies, err
}
