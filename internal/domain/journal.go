package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrJournalNotFound = fmt.Errorf("journal entry %w", ErrNotFound)

type Mood string

const (
	MoodVerySad   Mood = "very_sad"
	MoodSad       Mood = "sad"
	MoodNeutral   Mood = "neutral"
	MoodHappy     Mood = "happy"
	MoodVeryHappy Mood = "very_happy"
)

// NeutralMoodScore is used for entries that carry no score.
const NeutralMoodScore = 3

var moodScores = map[Mood]int{
	MoodVerySad:   1,
	MoodSad:       2,
	MoodNeutral:   3,
	MoodHappy:     4,
	MoodVeryHappy: 5,
}

// Moods lists every mood from lowest to highest score.
var Moods = []Mood{MoodVerySad, MoodSad, MoodNeutral, MoodHappy, MoodVeryHappy}

func (m Mood) Valid() bool {
	_, ok := moodScores[m]
	return ok
}

func (m Mood) Score() int {
	return moodScores[m]
}

func MoodFromScore(score int) (Mood, bool) {
	if score < 1 || score > len(Moods) {
		return "", false
	}
	return Moods[score-1], true
}

type JournalEntry struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user"`
	Title     string                      `gorm:"size:200;not null" json:"title"`
	Content   string                      `gorm:"size:10000;not null" json:"content"`
	Mood      Mood                        `gorm:"size:16;not null;index" json:"mood"`
	MoodScore int                         `gorm:"not null" json:"moodScore"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	IsPrivate bool                        `gorm:"not null" json:"isPrivate"`
	Weather   string                      `gorm:"size:64" json:"weather,omitempty"`
	Location  string                      `gorm:"size:128" json:"location,omitempty"`
	CreatedAt time.Time                   `gorm:"<-:create;index" json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// EffectiveMoodScore falls back to neutral for entries without a score.
func (j *JournalEntry) EffectiveMoodScore() int {
	if j.MoodScore < 1 {
		return NeutralMoodScore
	}
	return j.MoodScore
}
