package usecase

import (
	"context"
	"fmt"
	"time"

	"lifequest/internal/analytics"
	"lifequest/internal/domain"
	"lifequest/internal/infrastructure/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type AnalyticsUseCase struct {
	store       *repository.Store
	agg         *analytics.Aggregator
	defaultDays int
	maxDays     int
	now         func() time.Time
}

func NewAnalyticsUseCase(store *repository.Store, agg *analytics.Aggregator, defaultDays, maxDays int) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		store:       store,
		agg:         agg,
		defaultDays: defaultDays,
		maxDays:     maxDays,
		now:         time.Now,
	}
}

// ResolveDays maps 0 to the default window and rejects anything outside
// 1..maxDays.
func (uc *AnalyticsUseCase) ResolveDays(days int) (int, error) {
	if days == 0 {
		return uc.defaultDays, nil
	}
	if days < 1 || days > uc.maxDays {
		return 0, domain.NewValidationError("days", fmt.Sprintf("must be between 1 and %d", uc.maxDays))
	}
	return days, nil
}

func (uc *AnalyticsUseCase) Habits(ctx context.Context, userID uuid.UUID, days int) (*analytics.HabitReport, error) {
	days, err := uc.ResolveDays(days)
	if err != nil {
		return nil, err
	}
	habits, err := uc.store.Habits.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := uc.agg.Habits(habits, days, uc.now())
	return &report, nil
}

func (uc *AnalyticsUseCase) Tasks(ctx context.Context, userID uuid.UUID, days int) (*analytics.TaskReport, error) {
	days, err := uc.ResolveDays(days)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.store.Tasks.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := uc.agg.Tasks(tasks, days, uc.now())
	return &report, nil
}

func (uc *AnalyticsUseCase) Journals(ctx context.Context, userID uuid.UUID, days int) (*analytics.JournalReport, error) {
	days, err := uc.ResolveDays(days)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	entries, err := uc.store.Journals.ListSince(ctx, userID, uc.agg.Calendar().WindowStart(now, days))
	if err != nil {
		return nil, err
	}
	report := uc.agg.Journals(entries, days, now)
	return &report, nil
}

func (uc *AnalyticsUseCase) MoodStats(ctx context.Context, userID uuid.UUID, days int) ([]analytics.MoodStat, error) {
	days, err := uc.ResolveDays(days)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	entries, err := uc.store.Journals.ListSince(ctx, userID, uc.agg.Calendar().WindowStart(now, days))
	if err != nil {
		return nil, err
	}
	return uc.agg.MoodStats(entries, days, now), nil
}

// Dashboard loads the four record sets concurrently and aggregates them at
// a single reference instant.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, userID uuid.UUID) (*analytics.Dashboard, error) {
	var (
		user *domain.User
		in   analytics.DashboardInput
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = uc.store.Users.GetByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.Habits, err = uc.store.Habits.ListAll(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.Tasks, err = uc.store.Tasks.ListAll(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		in.Journals, err = uc.store.Journals.ListAll(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.User = *user
	d := uc.agg.Dashboard(in, uc.now())
	return &d, nil
}
