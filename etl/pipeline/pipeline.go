// Package pipeline orchestrates the full analytics run: parallel source
// fetch, the four aggregation stages in dependency order and the staged
// loads into the aggregated dataset.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brandon841/posthog-etl/etl/churn"
	"github.com/brandon841/posthog-etl/etl/dailyactivity"
	"github.com/brandon841/posthog-etl/etl/dal"
	"github.com/brandon841/posthog-etl/etl/domain"
	"github.com/brandon841/posthog-etl/etl/identity"
	"github.com/brandon841/posthog-etl/etl/people"
	"github.com/brandon841/posthog-etl/etl/sessions"
	"github.com/brandon841/posthog-etl/logger"
	"github.com/brandon841/posthog-etl/times"
)

// fetchWorkers caps the number of concurrent source queries.
const fetchWorkers = 3

// Stage statuses reported on the run summary.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// RunParams controls a single pipeline run.
type RunParams struct {
	// FullLoad scans the whole raw event table instead of the incremental
	// window.
	FullLoad bool

	// Limit caps every source query when positive. Used for dry runs.
	Limit int

	// InactivityThresholdDays overrides the churn threshold when positive.
	InactivityThresholdDays int

	// EvaluationDate is the day the grid extends to and churn is judged
	// against. Zero value means today in UTC.
	EvaluationDate string
}

// StageResult is the outcome of one aggregation stage.
type StageResult struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// RunSummary is the per-stage outcome of a run. The computed row sets ride
// along for callers that want them; they are not part of the JSON summary.
type RunSummary struct {
	Sessions      StageResult `json:"sessions"`
	People        StageResult `json:"people"`
	DailyActivity StageResult `json:"daily_activity"`
	ChurnState    StageResult `json:"churn_state"`

	SessionRows  []domain.SessionRecord    `json:"-"`
	PeopleRows   []domain.PeopleRecord     `json:"-"`
	ActivityRows []domain.DailyActivityRow `json:"-"`
	ChurnRows    []domain.ChurnStateRecord `json:"-"`
}

// Failed reports whether any stage ended in failure.
func (s *RunSummary) Failed() bool {
	for _, r := range []StageResult{s.Sessions, s.People, s.DailyActivity, s.ChurnState} {
		if r.Status == StatusFailed {
			return true
		}
	}

	return false
}

type Service struct {
	loggerProvider logger.Provider
	dal            dal.Etl
}

func NewService(loggerProvider logger.Provider, etlDAL dal.Etl) *Service {
	return &Service{
		loggerProvider: loggerProvider,
		dal:            etlDAL,
	}
}

// sources holds the five raw inputs with their per-source fetch errors.
type sources struct {
	events        []domain.RawEvent
	sessionMeta   []domain.SessionMeta
	users         []domain.User
	createdEvents []domain.CreatedEvent
	invites       []domain.UserInvite

	eventsErr        error
	sessionMetaErr   error
	usersErr         error
	createdEventsErr error
	invitesErr       error
}

func (s *Service) fetch(ctx context.Context, params RunParams) *sources {
	src := &sources{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)

	g.Go(func() error {
		src.events, src.eventsErr = s.dal.GetRawEvents(gctx, params.FullLoad, params.Limit)
		return nil
	})
	g.Go(func() error {
		src.sessionMeta, src.sessionMetaErr = s.dal.GetSessionMetadata(gctx, params.Limit)
		return nil
	})
	g.Go(func() error {
		src.users, src.usersErr = s.dal.GetUsers(gctx, params.Limit)
		return nil
	})
	g.Go(func() error {
		src.createdEvents, src.createdEventsErr = s.dal.GetCreatedEvents(gctx, params.Limit)
		return nil
	})
	g.Go(func() error {
		src.invites, src.invitesErr = s.dal.GetUserInvites(gctx, params.Limit)
		return nil
	})

	// Fetch errors are recorded per source; the stages that need a failed
	// source are skipped instead of aborting the whole run.
	_ = g.Wait()

	return src
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func skipped(err error) StageResult {
	return StageResult{
		Status: StatusSkipped,
		Error:  fmt.Sprintf("inputs unavailable: %v", err),
	}
}

// Run executes the full pipeline and returns the per-stage summary. The
// returned error is non-nil when any stage failed; the summary is always
// populated.
func (s *Service) Run(ctx context.Context, params RunParams) (*RunSummary, error) {
	log := s.loggerProvider(ctx)

	evalDate := times.CurrentDayUTC()

	if params.EvaluationDate != "" {
		parsed, err := time.Parse(times.YearMonthDayLayout, params.EvaluationDate)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", params.EvaluationDate, err)
		}

		evalDate = times.DayOfUTC(parsed)
	}

	if err := s.dal.EnsureDataset(ctx); err != nil {
		return nil, fmt.Errorf("ensuring destination dataset: %w", err)
	}

	if params.FullLoad {
		log.Info("running full load")
	} else {
		log.Info("running incremental load")
	}

	src := s.fetch(ctx, params)

	log.Infof("fetched %d events, %d session rows, %d users, %d created events, %d invites",
		len(src.events), len(src.sessionMeta), len(src.users), len(src.createdEvents), len(src.invites))

	summary := &RunSummary{}

	loadedAt := time.Now().UTC()

	var resolver *identity.Resolver
	if src.usersErr == nil {
		resolver = identity.NewResolver(src.users)
	}

	// Sessions.
	if err := firstErr(src.eventsErr, src.sessionMetaErr, src.usersErr, src.createdEventsErr); err != nil {
		summary.Sessions = skipped(err)
	} else {
		rows := sessions.Aggregate(src.events, src.sessionMeta, src.createdEvents, resolver, loadedAt)
		summary.SessionRows = rows
		summary.Sessions = s.loadStage(ctx, "sessions", len(rows), func() error {
			return s.dal.LoadSessions(ctx, rows)
		})
	}

	// People rolls up the session rows and never runs without them.
	if summary.Sessions.Status == StatusSkipped {
		summary.People = StageResult{Status: StatusSkipped, Error: "session rows unavailable"}
	} else {
		rows := people.Aggregate(summary.SessionRows, loadedAt)
		summary.PeopleRows = rows
		summary.People = s.loadStage(ctx, "people", len(rows), func() error {
			return s.dal.LoadPeople(ctx, rows)
		})
	}

	// Daily activity.
	if err := firstErr(src.eventsErr, src.createdEventsErr, src.invitesErr, src.usersErr); err != nil {
		summary.DailyActivity = skipped(err)
	} else {
		rows := dailyactivity.Build(src.events, src.createdEvents, src.invites, resolver, evalDate)
		summary.ActivityRows = rows
		summary.DailyActivity = s.loadStage(ctx, "daily activity", len(rows), func() error {
			return s.dal.LoadDailyActivity(ctx, rows)
		})
	}

	// Churn reduces the grid and never runs without it.
	if summary.DailyActivity.Status == StatusSkipped {
		summary.ChurnState = StageResult{Status: StatusSkipped, Error: "daily activity rows unavailable"}
	} else {
		rows := churn.Build(summary.ActivityRows, churn.Params{
			InactivityThresholdDays: params.InactivityThresholdDays,
			EvaluationDate:          evalDate,
		})
		summary.ChurnRows = rows
		summary.ChurnState = s.loadStage(ctx, "churn state", len(rows), func() error {
			return s.dal.LoadChurnState(ctx, rows)
		})
	}

	log.Infof("pipeline finished: sessions=%s people=%s daily_activity=%s churn_state=%s",
		summary.Sessions.Status, summary.People.Status, summary.DailyActivity.Status, summary.ChurnState.Status)

	if summary.Failed() {
		return summary, fmt.Errorf("pipeline finished with failed stages")
	}

	return summary, nil
}

// loadStage runs a stage's table load and folds the outcome into its result.
// The computed record count is reported even when the load fails.
func (s *Service) loadStage(ctx context.Context, name string, records int, load func() error) StageResult {
	log := s.loggerProvider(ctx)

	if err := load(); err != nil {
		log.Errorf("loading %s: %v", name, err)

		return StageResult{
			Status:  StatusFailed,
			Records: records,
			Error:   err.Error(),
		}
	}

	log.Infof("%s: %d records", name, records)

	return StageResult{
		Status:  StatusCompleted,
		Records: records,
	}
}
