package model

import (
	"time"

	"github.com/google/uuid"
)

type QuestionLevel string

const (
	LevelEasy   QuestionLevel = "easy"
	LevelMedium QuestionLevel = "medium"
	LevelHard   QuestionLevel = "hard"
)

// Option is a single answer choice. Options are stored as a JSONB array
// on the question row.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Question belongs to a question paper. CorrectAnswer references an
// Option.ID and is never exposed to students. IsEvaluatable is false for
// survey-style questions excluded from grading.
type Question struct {
	ID            uuid.UUID     `json:"id"`
	PaperID       uuid.UUID     `json:"paper_id"`
	Sr            int           `json:"sr"`
	Level         QuestionLevel `json:"level"`
	Text          string        `json:"text"`
	Image         string        `json:"image,omitempty"`
	Options       []Option      `json:"options"`
	CorrectAnswer string        `json:"-"`
	IsEvaluatable bool          `json:"is_evaluatable"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// QuestionPaper groups the question pool for one class and paper set.
// Tests reference a paper; students are matched to it through the
// class/set pair.
type QuestionPaper struct {
	ID          uuid.UUID `json:"id"`
	InstituteID uuid.UUID `json:"institute_id"`
	Title       string    `json:"title"`
	Class       string    `json:"class,omitempty"`
	Set         string    `json:"set,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
