// Package queue defines message payloads exchanged over the message broker.
package queue

// Content event actions.
const (
	ActionChapterCreated  = "chapter.created"
	ActionChapterUpdated  = "chapter.updated"
	ActionChapterDeleted  = "chapter.deleted"
	ActionQuestionAdded   = "question.added"
	ActionQuestionUpdated = "question.updated"
	ActionQuestionDeleted = "question.deleted"
)

// ContentChangedEvent is published when an admin mutates chapter content.
// It carries enough information for downstream consumers to audit or
// invalidate derived data without querying the primary database.
type ContentChangedEvent struct {
	Action     string `json:"action"`
	ChapterID  uint64 `json:"chapter_id"`
	SubjectID  uint64 `json:"subject_id,omitempty"`
	QuestionID uint64 `json:"question_id,omitempty"`
	Title      string `json:"title,omitempty"`
	ActorID    uint64 `json:"actor_id"`
	OccurredAt string `json:"occurred_at"`
}
