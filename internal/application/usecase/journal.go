package usecase

import (
	"context"
	"time"

	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/gamification"
	"lifequest/internal/infrastructure/repository"

	"github.com/google/uuid"
)

type JournalUseCase struct {
	store  *repository.Store
	engine *gamification.Engine
	cal    dates.Calendar
	now    func() time.Time
}

func NewJournalUseCase(store *repository.Store, engine *gamification.Engine, cal dates.Calendar) *JournalUseCase {
	return &JournalUseCase{store: store, engine: engine, cal: cal, now: time.Now}
}

type CreateJournalInput struct {
	Title     string
	Content   string
	Mood      domain.Mood
	MoodScore int
	Tags      []string
	IsPrivate *bool
	Weather   string
	Location  string
}

type UpdateJournalInput struct {
	Title     *string
	Content   *string
	Mood      *domain.Mood
	MoodScore *int
	Tags      *[]string
	IsPrivate *bool
	Weather   *string
	Location  *string
}

// JournalListInput dates are calendar days; To is inclusive.
type JournalListInput struct {
	Search string
	Mood   domain.Mood
	From   *time.Time
	To     *time.Time
	PageRequest
}

type JournalPage struct {
	Entries    []domain.JournalEntry `json:"entries"`
	Pagination Pagination            `json:"pagination"`
}

type JournalResult struct {
	Entry         *domain.JournalEntry `json:"entry"`
	PointsAwarded int                  `json:"pointsAwarded"`
	NewBadges     []domain.Badge       `json:"newBadges"`
}

func (uc *JournalUseCase) List(ctx context.Context, userID uuid.UUID, in JournalListInput) (*JournalPage, error) {
	if in.Mood != "" && !in.Mood.Valid() {
		return nil, domain.NewValidationError("mood", "unknown mood")
	}
	page := in.normalize()
	filter := repository.JournalFilter{Search: in.Search, Mood: in.Mood, Page: page}
	if in.From != nil {
		from := uc.cal.StartOfDay(*in.From)
		filter.From = &from
	}
	if in.To != nil {
		to := uc.cal.AddDays(*in.To, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, domain.NewValidationError("endDate", "must not be before startDate")
	}

	entries, total, err := uc.store.Journals.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &JournalPage{Entries: entries, Pagination: newPagination(page, total)}, nil
}

func (uc *JournalUseCase) Get(ctx context.Context, userID, id uuid.UUID) (*domain.JournalEntry, error) {
	return uc.store.Journals.GetByID(ctx, userID, id)
}

// Create stores the entry and awards journal_entry points in the same
// transaction.
func (uc *JournalUseCase) Create(ctx context.Context, userID uuid.UUID, in CreateJournalInput) (*JournalResult, error) {
	now := uc.now()
	entry := &domain.JournalEntry{
		UserID:    userID,
		IsPrivate: true,
		Tags:      []string{},
		CreatedAt: now.UTC(),
	}
	upd := UpdateJournalInput{
		Title:     &in.Title,
		Content:   &in.Content,
		Tags:      &in.Tags,
		IsPrivate: in.IsPrivate,
		Weather:   &in.Weather,
		Location:  &in.Location,
	}
	if in.Mood != "" {
		upd.Mood = &in.Mood
	}
	if in.MoodScore != 0 {
		upd.MoodScore = &in.MoodScore
	}
	if err := applyJournalInput(entry, upd); err != nil {
		return nil, err
	}

	result := &JournalResult{Entry: entry}
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		user, err := tx.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Journals.Create(ctx, entry); err != nil {
			return err
		}

		result.PointsAwarded = uc.engine.AwardPoints(user, gamification.ActionJournalEntry, nil)
		user.Stats.TotalJournalEntries++
		badges := uc.engine.CheckBadges(user, gamification.TriggerJournalCount, user.Stats.TotalJournalEntries, now)
		badges = append(badges, uc.engine.CheckBadges(user, gamification.TriggerPoints, 0, now)...)
		if err := tx.Users.AddBadges(ctx, badges); err != nil {
			return err
		}
		result.NewBadges = badges
		return tx.Users.SaveLedger(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update never touches createdAt.
func (uc *JournalUseCase) Update(ctx context.Context, userID, id uuid.UUID, in UpdateJournalInput) (*domain.JournalEntry, error) {
	entry, err := uc.store.Journals.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	// A new mood without a score (or the reverse) re-derives the other half.
	switch {
	case in.Mood != nil && in.MoodScore == nil:
		entry.MoodScore = 0
	case in.MoodScore != nil && in.Mood == nil:
		entry.Mood = ""
	}
	if err := applyJournalInput(entry, in); err != nil {
		return nil, err
	}
	if err := uc.store.Journals.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (uc *JournalUseCase) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return uc.store.Journals.Delete(ctx, userID, id)
}

func applyJournalInput(j *domain.JournalEntry, in UpdateJournalInput) error {
	var err error
	if in.Title != nil {
		if j.Title, err = requireText("title", *in.Title, 200); err != nil {
			return err
		}
	}
	if in.Content != nil {
		if j.Content, err = requireText("content", *in.Content, 10000); err != nil {
			return err
		}
	}
	// A lone mood or score replaces the pair and the other side is derived.
	switch {
	case in.Mood != nil && in.MoodScore != nil:
		j.Mood, j.MoodScore = *in.Mood, *in.MoodScore
	case in.Mood != nil:
		j.Mood, j.MoodScore = *in.Mood, 0
	case in.MoodScore != nil:
		j.Mood, j.MoodScore = "", *in.MoodScore
	}
	if j.Mood, j.MoodScore, err = resolveMood(j.Mood, j.MoodScore); err != nil {
		return err
	}
	if in.Tags != nil {
		j.Tags = cleanTags(*in.Tags)
	}
	if in.IsPrivate != nil {
		j.IsPrivate = *in.IsPrivate
	}
	if in.Weather != nil {
		if j.Weather, err = limitText("weather", *in.Weather, 64); err != nil {
			return err
		}
	}
	if in.Location != nil {
		if j.Location, err = limitText("location", *in.Location, 128); err != nil {
			return err
		}
	}
	return nil
}

// resolveMood keeps mood and score consistent. Either one derives the
// other; neither means neutral.
func resolveMood(mood domain.Mood, score int) (domain.Mood, int, error) {
	switch {
	case mood == "" && score == 0:
		return domain.MoodNeutral, domain.NeutralMoodScore, nil
	case mood == "":
		m, ok := domain.MoodFromScore(score)
		if !ok {
			return "", 0, domain.NewValidationError("moodScore", "must be between 1 and 5")
		}
		return m, score, nil
	case !mood.Valid():
		return "", 0, domain.NewValidationError("mood", "unknown mood")
	case score == 0:
		return mood, mood.Score(), nil
	case mood.Score() != score:
		return "", 0, domain.NewValidationError("moodScore", "does not match mood")
	default:
		return mood, score, nil
	}
}
