package report

import (
	"context"

	"github.com/bks/clubcoordinator/internal/data"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Store is the read-side the report fetcher needs. Match logs and plans are
// fetched unwindowed (stats and match-date context reach outside the
// window); attendance is windowed at the source.
type Store interface {
	TeamPlayers(ctx context.Context, teamID int64) ([]*data.Player, error)
	TeamMatchLogs(ctx context.Context, teamID int64) ([]*data.MatchLog, error)
	TeamPlans(ctx context.Context, teamID int64) ([]*data.TrainingPlan, error)
	TeamAttendance(ctx context.Context, teamID int64, dateRange data.DateRange) (
		[]*data.AttendanceRecord, error)
}

type Service struct {
	store  Store
	logger zerolog.Logger
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// TeamReport fans out the four source fetches concurrently and reduces them
// with Build. A players, match-logs or plans failure aborts the report; a
// failed attendance fetch is downgraded to an empty set, which zeroes the
// attendance percentages but leaves the rest of the report intact.
func (s *Service) TeamReport(ctx context.Context, teamID int64, w Window) (*TeamReport, error) {
	var src Sources

	dateRange := data.DateRange{AfterDate: &w.Start, BeforeDate: &w.End}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		players, err := s.store.TeamPlayers(ctx, teamID)
		if err != nil {
			return err
		}
		src.Players = players
		return nil
	})

	g.Go(func() error {
		logs, err := s.store.TeamMatchLogs(ctx, teamID)
		if err != nil {
			return err
		}
		src.MatchLogs = logs
		return nil
	})

	g.Go(func() error {
		plans, err := s.store.TeamPlans(ctx, teamID)
		if err != nil {
			return err
		}
		src.Plans = plans
		return nil
	})

	g.Go(func() error {
		records, err := s.store.TeamAttendance(ctx, teamID, dateRange)
		if err != nil {
			s.logger.Warn().Err(err).Int64("team_id", teamID).
				Msg("attendance fetch failed, reporting without attendance")
			src.Attendance = nil
			return nil
		}
		src.Attendance = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Build(w, src), nil
}

// modelStore adapts data.Models to the Store interface.
type modelStore struct {
	models data.Models
}

func NewModelStore(models data.Models) Store {
	return &modelStore{models: models}
}

func (s *modelStore) TeamPlayers(ctx context.Context, teamID int64) ([]*data.Player, error) {
	return s.models.Players.GetAllByTeamCtx(ctx, teamID)
}

func (s *modelStore) TeamMatchLogs(ctx context.Context, teamID int64) ([]*data.MatchLog, error) {
	return s.models.MatchLogs.GetAllByTeamCtx(ctx, teamID, data.DateRange{})
}

func (s *modelStore) TeamPlans(ctx context.Context, teamID int64) ([]*data.TrainingPlan, error) {
	return s.models.Plans.GetAllByTeamCtx(ctx, teamID, data.DateRange{})
}

func (s *modelStore) TeamAttendance(ctx context.Context, teamID int64,
	dateRange data.DateRange) ([]*data.AttendanceRecord, error) {
	return s.models.Attendance.GetAllByTeamCtx(ctx, teamID, dateRange)
}
