package services

import (
	"time"

	"github.com/terraincognita07/lunacycle/internal/models"
)

type EditMode string

const (
	EditModeIdle          EditMode = "idle"
	EditModeAwaitingStart EditMode = "awaiting_start"
	EditModeAwaitingEnd   EditMode = "awaiting_end"
)

// SelectOutcome tells the caller what a SelectDate call did, so it knows
// whether the store changed and needs persisting.
type SelectOutcome string

const (
	SelectOutcomeViewing      SelectOutcome = "viewing"
	SelectOutcomeRemovedDay   SelectOutcome = "removed_day"
	SelectOutcomePendingStart SelectOutcome = "pending_start"
	SelectOutcomePendingEnd   SelectOutcome = "pending_end"
	SelectOutcomeRestarted    SelectOutcome = "restarted"
)

// IntervalEditor is the part of PeriodStore the edit session drives.
type IntervalEditor interface {
	ContainsDay(day time.Time) (models.PeriodInterval, bool)
	RemoveDay(day time.Time) (RemoveDayResult, bool)
	AddInterval(start time.Time, end time.Time, flow string) (models.PeriodInterval, error)
}

// EditSession drives the two-tap "log period" interaction:
// idle -> awaiting_start -> awaiting_end -> committed or cancelled.
type EditSession struct {
	mode         EditMode
	pendingStart *time.Time
	pendingEnd   *time.Time
	viewingDate  *time.Time
}

type EditSessionSnapshot struct {
	Mode         EditMode
	PendingStart *time.Time
	PendingEnd   *time.Time
	ViewingDate  *time.Time
}

func NewEditSession() *EditSession {
	return &EditSession{mode: EditModeIdle}
}

func (session *EditSession) Mode() EditMode {
	return session.mode
}

func (session *EditSession) Snapshot() EditSessionSnapshot {
	return EditSessionSnapshot{
		Mode:         session.mode,
		PendingStart: copyDay(session.pendingStart),
		PendingEnd:   copyDay(session.pendingEnd),
		ViewingDate:  copyDay(session.viewingDate),
	}
}

// HoldsState reports whether the session has anything worth keeping between
// calls.
func (session *EditSession) HoldsState() bool {
	return session.mode != EditModeIdle || session.viewingDate != nil
}

// BeginLogging starts a fresh selection from any state.
func (session *EditSession) BeginLogging() {
	session.clearPending()
	session.mode = EditModeAwaitingStart
}

func (session *EditSession) SelectDate(day time.Time, editor IntervalEditor) SelectOutcome {
	day = models.CalendarDate(day)

	switch session.mode {
	case EditModeAwaitingStart:
		if _, inside := editor.ContainsDay(day); inside {
			editor.RemoveDay(day)
			return SelectOutcomeRemovedDay
		}
		session.pendingStart = &day
		session.pendingEnd = nil
		session.mode = EditModeAwaitingEnd
		return SelectOutcomePendingStart

	case EditModeAwaitingEnd:
		if _, inside := editor.ContainsDay(day); inside {
			editor.RemoveDay(day)
			return SelectOutcomeRemovedDay
		}
		if session.pendingStart == nil || session.pendingEnd != nil {
			session.pendingStart = &day
			session.pendingEnd = nil
			return SelectOutcomeRestarted
		}
		if day.Before(*session.pendingStart) {
			end := *session.pendingStart
			session.pendingStart = &day
			session.pendingEnd = &end
			return SelectOutcomePendingEnd
		}
		session.pendingEnd = &day
		return SelectOutcomePendingEnd

	default:
		session.viewingDate = &day
		return SelectOutcomeViewing
	}
}

// Commit adds the pending range as a medium-flow period and returns to idle.
// On failure the selection is kept so the user can adjust or cancel it.
func (session *EditSession) Commit(editor IntervalEditor) (models.PeriodInterval, error) {
	if session.pendingStart == nil || session.pendingEnd == nil {
		return models.PeriodInterval{}, ErrSelectionIncomplete
	}

	interval, err := editor.AddInterval(*session.pendingStart, *session.pendingEnd, models.FlowMedium)
	if err != nil {
		return models.PeriodInterval{}, err
	}

	session.clearPending()
	session.mode = EditModeIdle
	return interval, nil
}

func (session *EditSession) Cancel() {
	session.clearPending()
	session.mode = EditModeIdle
}

func (session *EditSession) clearPending() {
	session.pendingStart = nil
	session.pendingEnd = nil
}

func copyDay(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
