package usecase

import (
	"errors"
	"testing"
	"time"

	"lifequest/internal/dates"
	"lifequest/internal/domain"
	"lifequest/internal/gamification"
)

func TestResolveMood(t *testing.T) {
	tests := []struct {
		name      string
		mood      domain.Mood
		score     int
		wantMood  domain.Mood
		wantScore int
		wantErr   bool
	}{
		{"neither", "", 0, domain.MoodNeutral, 3, false},
		{"mood only", domain.MoodHappy, 0, domain.MoodHappy, 4, false},
		{"score only", "", 1, domain.MoodVerySad, 1, false},
		{"both agree", domain.MoodSad, 2, domain.MoodSad, 2, false},
		{"both disagree", domain.MoodSad, 5, "", 0, true},
		{"score out of range", "", 6, "", 0, true},
		{"unknown mood", "ecstatic", 0, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, score, err := resolveMood(tt.mood, tt.score)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if mood != tt.wantMood || score != tt.wantScore {
				t.Errorf("got %q/%d, want %q/%d", mood, score, tt.wantMood, tt.wantScore)
			}
		})
	}
}

func TestCreateJournalAwardsPoints(t *testing.T) {
	f := newFixture(t)

	res, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{
		Title:   "Morning pages",
		Content: "Slept well.",
		Mood:    domain.MoodHappy,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.PointsAwarded != 15 || len(res.NewBadges) != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Entry.MoodScore != 4 || !res.Entry.IsPrivate || !res.Entry.CreatedAt.Equal(fixedNow) {
		t.Errorf("entry = %+v", res.Entry)
	}
	u := f.reloadUser(t)
	if u.Points != 15 || u.Stats.TotalJournalEntries != 1 {
		t.Errorf("ledger = %d %+v", u.Points, u.Stats)
	}
}

func TestCreateJournalUsesRulePoints(t *testing.T) {
	f := newFixture(t)
	rules := gamification.DefaultRules()
	rules.Points[gamification.ActionJournalEntry] = 40
	engine, err := gamification.NewEngine(rules)
	if err != nil {
		t.Fatal(err)
	}
	journals := NewJournalUseCase(f.store, engine, dates.Calendar{})
	journals.now = clock

	res, err := journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "x", Content: "y"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.PointsAwarded != 40 {
		t.Errorf("pointsAwarded = %d, want 40", res.PointsAwarded)
	}
	if u := f.reloadUser(t); u.Points != 40 {
		t.Errorf("points = %d, want 40", u.Points)
	}
}

func TestJournalWriterBadge(t *testing.T) {
	f := newFixture(t)
	u := f.reloadUser(t)
	u.Stats.TotalJournalEntries = 29
	if err := f.store.Users.SaveLedger(f.ctx, u); err != nil {
		t.Fatal(err)
	}

	res, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "30", Content: "thirty"})
	if err != nil {
		t.Fatal(err)
	}
	if got := badgeNames(res.NewBadges); !equalStrings(got, []string{"Journal Writer"}) {
		t.Errorf("new badges = %v", got)
	}
}

func TestCreateJournalRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "x", Content: "y", Mood: domain.MoodSad, MoodScore: 5})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("mismatched mood error = %v", err)
	}
	_, err = f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing content error = %v", err)
	}
	if u := f.reloadUser(t); u.Points != 0 {
		t.Errorf("rejected entries awarded %d points", u.Points)
	}
}

func TestUpdateJournalRederivesMood(t *testing.T) {
	f := newFixture(t)
	res, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "x", Content: "y", Mood: domain.MoodHappy})
	if err != nil {
		t.Fatal(err)
	}

	sad := domain.MoodSad
	got, err := f.journals.Update(f.ctx, f.user.ID, res.Entry.ID, UpdateJournalInput{Mood: &sad})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Mood != domain.MoodSad || got.MoodScore != 2 {
		t.Errorf("mood = %q/%d, want sad/2", got.Mood, got.MoodScore)
	}
	if !got.CreatedAt.Equal(fixedNow) {
		t.Errorf("createdAt changed to %s", got.CreatedAt)
	}
}

func TestJournalListDateRange(t *testing.T) {
	f := newFixture(t)
	for i, offset := range []int{-10, -3, 0} {
		f.journals.now = func() time.Time { return dayOffset(offset).Add(time.Duration(9+i) * time.Hour) }
		if _, err := f.journals.Create(f.ctx, f.user.ID, CreateJournalInput{Title: "t", Content: "c"}); err != nil {
			t.Fatal(err)
		}
	}

	from, to := dayOffset(-3), dayOffset(-3)
	page, err := f.journals.List(f.ctx, f.user.ID, JournalListInput{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if page.Pagination.Total != 1 {
		t.Errorf("entries on day -3 = %d, want 1", page.Pagination.Total)
	}

	if _, err := f.journals.List(f.ctx, f.user.ID, JournalListInput{Mood: "grumpy"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown mood filter error = %v", err)
	}
	later, earlier := dayOffset(0), dayOffset(-5)
	if _, err := f.journals.List(f.ctx, f.user.ID, JournalListInput{From: &later, To: &earlier}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("inverted range error = %v", err)
	}
}
