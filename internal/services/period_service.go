package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"github.com/terraincognita07/lunacycle/internal/models"
)

const (
	MutationAdd        = "add"
	MutationRemoveDay  = "remove_day"
	MutationCommit     = "commit"
	MutationImport     = "import"
	predictionCacheTTL = 3600
)

// PeriodMetrics receives the counters PeriodService reports.
type PeriodMetrics interface {
	PeriodMutation(kind string)
	PersistFailure()
	PredictionCacheLookup(hit bool)
}

type noopPeriodMetrics struct{}

func (noopPeriodMetrics) PeriodMutation(string)      {}
func (noopPeriodMetrics) PersistFailure()            {}
func (noopPeriodMetrics) PredictionCacheLookup(bool) {}

type PeriodServiceOption func(service *PeriodService)

func WithPeriodMetrics(metrics PeriodMetrics) PeriodServiceOption {
	return func(service *PeriodService) {
		if metrics != nil {
			service.metrics = metrics
		}
	}
}

// WithPredictionCache memoises month predictions in a freecache of the given
// size. A size of zero disables the memo.
func WithPredictionCache(sizeBytes int) PeriodServiceOption {
	return func(service *PeriodService) {
		if sizeBytes <= 0 {
			service.cache = nil
			return
		}
		service.cache = freecache.NewCache(sizeBytes)
	}
}

func WithStoreOptions(options ...PeriodStoreOption) PeriodServiceOption {
	return func(service *PeriodService) {
		service.storeOptions = append(service.storeOptions, options...)
	}
}

// PeriodService owns one PeriodStore and EditSession per user. Calls for the
// same user are serialised, so an edit never interleaves with a pending save.
type PeriodService struct {
	documents    DocumentStore
	storeOptions []PeriodStoreOption
	cache        *freecache.Cache
	metrics      PeriodMetrics

	mu    sync.Mutex
	users map[string]*userPeriods
}

// userPeriods is dropped from PeriodService once no call holds it, no edit
// session is open and the last save succeeded. The next call reloads it.
type userPeriods struct {
	mu      sync.Mutex
	loaded  bool
	dirty   bool
	store   *PeriodStore
	session *EditSession

	refs int // guarded by PeriodService.mu
}

type cachedPrediction struct {
	Prediction *Prediction `json:"prediction,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

func NewPeriodService(documents DocumentStore, options ...PeriodServiceOption) *PeriodService {
	service := &PeriodService{
		documents: documents,
		metrics:   noopPeriodMetrics{},
		users:     make(map[string]*userPeriods),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (service *PeriodService) Periods(ctx context.Context, userKey string) ([]models.PeriodInterval, error) {
	var periods []models.PeriodInterval
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		periods = user.store.Intervals()
		return nil
	})
	return periods, err
}

// AddPeriod stores a range directly, bypassing the edit session. When only
// the save fails the period is returned together with ErrPersistFailed.
func (service *PeriodService) AddPeriod(ctx context.Context, userKey string, start time.Time, end time.Time, flow string) (models.PeriodInterval, error) {
	var added models.PeriodInterval
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		interval, err := user.store.AddInterval(start, end, flow)
		if err != nil {
			return err
		}
		added = interval
		return service.persist(ctx, user, MutationAdd)
	})
	return added, err
}

func (service *PeriodService) RemoveDay(ctx context.Context, userKey string, day time.Time) (RemoveDayResult, bool, error) {
	var (
		result  RemoveDayResult
		removed bool
	)
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		result, removed = user.store.RemoveDay(day)
		if !removed {
			return nil
		}
		return service.persist(ctx, user, MutationRemoveDay)
	})
	return result, removed, err
}

func (service *PeriodService) ImportPeriods(ctx context.Context, userKey string, periods []models.PeriodInterval) ([]models.PeriodInterval, error) {
	var imported []models.PeriodInterval
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		if err := user.store.Replace(periods); err != nil {
			return err
		}
		imported = user.store.Intervals()
		return service.persist(ctx, user, MutationImport)
	})
	return imported, err
}

// Sync retries writing the in-memory periods after an earlier save failed.
func (service *PeriodService) Sync(ctx context.Context, userKey string) error {
	return service.withUser(ctx, userKey, func(user *userPeriods) error {
		return service.save(ctx, user)
	})
}

func (service *PeriodService) BeginLogging(ctx context.Context, userKey string) (EditSessionSnapshot, error) {
	var snapshot EditSessionSnapshot
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		user.session.BeginLogging()
		snapshot = user.session.Snapshot()
		return nil
	})
	return snapshot, err
}

func (service *PeriodService) SelectDate(ctx context.Context, userKey string, day time.Time) (SelectOutcome, EditSessionSnapshot, error) {
	var (
		outcome  SelectOutcome
		snapshot EditSessionSnapshot
	)
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		outcome = user.session.SelectDate(day, user.store)
		snapshot = user.session.Snapshot()
		if outcome != SelectOutcomeRemovedDay {
			return nil
		}
		return service.persist(ctx, user, MutationRemoveDay)
	})
	return outcome, snapshot, err
}

func (service *PeriodService) Commit(ctx context.Context, userKey string) (models.PeriodInterval, error) {
	var committed models.PeriodInterval
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		interval, err := user.session.Commit(user.store)
		if err != nil {
			return err
		}
		committed = interval
		return service.persist(ctx, user, MutationCommit)
	})
	return committed, err
}

func (service *PeriodService) Cancel(ctx context.Context, userKey string) (EditSessionSnapshot, error) {
	var snapshot EditSessionSnapshot
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		user.session.Cancel()
		snapshot = user.session.Snapshot()
		return nil
	})
	return snapshot, err
}

func (service *PeriodService) Session(ctx context.Context, userKey string) (EditSessionSnapshot, error) {
	var snapshot EditSessionSnapshot
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		snapshot = user.session.Snapshot()
		return nil
	})
	return snapshot, err
}

func (service *PeriodService) Statistics(ctx context.Context, userKey string) (CycleStatistics, bool, error) {
	periods, err := service.Periods(ctx, userKey)
	if err != nil {
		return CycleStatistics{}, false, err
	}
	stats, ok := ComputeCycleStatistics(periods)
	return stats, ok, nil
}

func (service *PeriodService) Prediction(ctx context.Context, userKey string, month time.Time) (Prediction, error) {
	periods, err := service.Periods(ctx, userKey)
	if err != nil {
		return Prediction{}, err
	}
	return service.predict(periods, month)
}

// Calendar renders the month grid for a user. The prediction is nil when
// none covers the month.
func (service *PeriodService) Calendar(ctx context.Context, userKey string, month time.Time, today time.Time) ([]CalendarDayState, *Prediction, error) {
	var (
		periods  []models.PeriodInterval
		snapshot EditSessionSnapshot
	)
	err := service.withUser(ctx, userKey, func(user *userPeriods) error {
		periods = user.store.Intervals()
		snapshot = user.session.Snapshot()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var predicted *Prediction
	prediction, err := service.predict(periods, month)
	switch {
	case err == nil:
		predicted = &prediction
	case !isPredictionUnavailable(err):
		return nil, nil, err
	}

	return BuildCalendarDayStates(month, periods, predicted, snapshot, today), predicted, nil
}

func (service *PeriodService) Status(ctx context.Context, userKey string, today time.Time) (CycleStatus, error) {
	periods, err := service.Periods(ctx, userKey)
	if err != nil {
		return CycleStatus{}, err
	}

	stats, ok := ComputeCycleStatistics(periods)
	if !ok {
		return BuildCycleStatus(periods, nil, today), nil
	}
	return BuildCycleStatus(periods, &stats, today), nil
}

func (service *PeriodService) withUser(ctx context.Context, userKey string, fn func(user *userPeriods) error) error {
	user := service.acquire(userKey)

	user.mu.Lock()
	err := service.runLoaded(ctx, userKey, user, fn)
	user.mu.Unlock()

	service.release(userKey, user)
	return err
}

func (service *PeriodService) runLoaded(ctx context.Context, userKey string, user *userPeriods, fn func(user *userPeriods) error) error {
	if !user.loaded {
		if _, err := user.store.Load(ctx); err != nil {
			log.WithError(err).WithField("user", userKey).Error("load periods failed")
			return err
		}
		user.loaded = true
	}
	return fn(user)
}

func (service *PeriodService) acquire(userKey string) *userPeriods {
	service.mu.Lock()
	defer service.mu.Unlock()

	user, ok := service.users[userKey]
	if !ok {
		user = &userPeriods{
			store:   NewPeriodStore(userKey, service.documents, service.storeOptions...),
			session: NewEditSession(),
		}
		service.users[userKey] = user
	}
	user.refs++
	return user
}

// release drops the entry when this was the last holder. With refs at zero
// no call can be inside user.mu, so its state is read without it.
func (service *PeriodService) release(userKey string, user *userPeriods) {
	service.mu.Lock()
	defer service.mu.Unlock()

	user.refs--
	if user.refs > 0 || user.dirty || user.session.HoldsState() {
		return
	}
	if service.users[userKey] == user {
		delete(service.users, userKey)
	}
}

// cachedUsers reports how many users are held in memory.
func (service *PeriodService) cachedUsers() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.users)
}

func (service *PeriodService) persist(ctx context.Context, user *userPeriods, kind string) error {
	service.metrics.PeriodMutation(kind)
	return service.save(ctx, user)
}

func (service *PeriodService) save(ctx context.Context, user *userPeriods) error {
	if err := user.store.Save(ctx); err != nil {
		user.dirty = true
		service.metrics.PersistFailure()
		log.WithError(err).WithField("user", user.store.UserKey()).Warn("persist periods failed")
		return err
	}
	user.dirty = false
	return nil
}

func (service *PeriodService) predict(periods []models.PeriodInterval, month time.Time) (Prediction, error) {
	month = models.MonthStart(month)
	if service.cache == nil {
		return predictFromPeriods(periods, month)
	}

	key := predictionCacheKey(periods, month)
	if raw, err := service.cache.Get(key); err == nil {
		var cached cachedPrediction
		if err := json.Unmarshal(raw, &cached); err == nil {
			service.metrics.PredictionCacheLookup(true)
			return cached.result()
		}
	}
	service.metrics.PredictionCacheLookup(false)

	prediction, err := predictFromPeriods(periods, month)
	entry := cachedPrediction{}
	switch {
	case err == nil:
		entry.Prediction = &prediction
	case isPredictionUnavailable(err):
		entry.Reason = err.Error()
	default:
		return prediction, err
	}

	if raw, marshalErr := json.Marshal(entry); marshalErr == nil {
		if setErr := service.cache.Set(key, raw, predictionCacheTTL); setErr != nil {
			log.WithError(setErr).Debug("prediction cache set failed")
		}
	}
	return prediction, err
}

func (cached cachedPrediction) result() (Prediction, error) {
	if cached.Prediction != nil {
		return *cached.Prediction, nil
	}
	for _, candidate := range []error{ErrInsufficientHistory, ErrNoAnchorForMonth, ErrNoPredictionForMonth} {
		if candidate.Error() == cached.Reason {
			return Prediction{}, candidate
		}
	}
	return Prediction{}, ErrNoPredictionForMonth
}

func predictFromPeriods(periods []models.PeriodInterval, month time.Time) (Prediction, error) {
	stats, ok := ComputeCycleStatistics(periods)
	if !ok {
		return PredictForMonth(periods, nil, month)
	}
	return PredictForMonth(periods, &stats, month)
}

// predictionCacheKey is derived from the period ranges only, so equal
// histories share entries across users.
func predictionCacheKey(periods []models.PeriodInterval, month time.Time) []byte {
	var builder strings.Builder
	for _, period := range periods {
		builder.WriteString(period.StartDate.Format(models.DateLayout))
		builder.WriteByte(':')
		builder.WriteString(period.EndDate.Format(models.DateLayout))
		builder.WriteByte('|')
	}
	fingerprint := xxhash.Sum64String(builder.String())

	key := make([]byte, 0, 32)
	key = append(key, month.Format("2006-01")...)
	key = append(key, ':')
	return strconv.AppendUint(key, fingerprint, 16)
}

func isPredictionUnavailable(err error) bool {
	return errors.Is(err, ErrInsufficientHistory) ||
		errors.Is(err, ErrNoAnchorForMonth) ||
		errors.Is(err, ErrNoPredictionForMonth)
}
