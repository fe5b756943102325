package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardHanziEmpty is returned when a card has no hanzi.
	ErrCardHanziEmpty = errors.New("card hanzi cannot be empty")

	// ErrCardPinyinEmpty is returned when a card has no pinyin.
	ErrCardPinyinEmpty = errors.New("card pinyin cannot be empty")

	// ErrCardEnglishEmpty is returned when a card has no english meaning.
	ErrCardEnglishEmpty = errors.New("card english cannot be empty")
)

// Card represents one vocabulary item in a user's catalog.
// Scheduling state is not stored here; it lives in CardProgress, one row
// per (card, study mode) pair.
type Card struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	Hanzi         string   `json:"hanzi"`
	Pinyin        string   `json:"pinyin"`         // tone numbers, e.g. "ni3 hao3"
	PinyinDisplay string   `json:"pinyin_display"` // tone marks, e.g. "nǐ hǎo"
	English       string   `json:"english"`        // primary meaning
	EnglishAlt    []string `json:"english_alt"`    // alternate meanings

	ExampleSentence string `json:"example_sentence,omitempty"`
	ExamplePinyin   string `json:"example_pinyin,omitempty"`
	ExampleEnglish  string `json:"example_english,omitempty"`

	HSKLevel     int      `json:"hsk_level,omitempty"`     // 1-6, 0 when unset
	TextbookPart int      `json:"textbook_part,omitempty"` // 0 when unset
	LessonNumber int      `json:"lesson_number,omitempty"` // 0 when unset
	Tags         []string `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card with a generated ID and creation timestamps.
// Returns an error if validation fails.
func NewCard(userID uuid.UUID, hanzi, pinyin, pinyinDisplay, english string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:            uuid.New(),
		UserID:        userID,
		Hanzi:         hanzi,
		Pinyin:        pinyin,
		PinyinDisplay: pinyinDisplay,
		English:       english,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Hanzi == "" {
		return ErrCardHanziEmpty
	}

	if c.Pinyin == "" {
		return ErrCardPinyinEmpty
	}

	if c.English == "" {
		return ErrCardEnglishEmpty
	}

	return nil
}
