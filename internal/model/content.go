package model

import "time"

// Board represents a curriculum board (e.g. CBSE, ICSE) at the root of the
// content hierarchy.  Nullable text columns are pointers so that absent
// values marshal as JSON null and scan cleanly from the database.
type Board struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Grade belongs to a board and groups subjects for one class level.
type Grade struct {
	ID        uint64    `json:"id"`
	BoardID   uint64    `json:"board_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subject belongs to a grade and contains ordered chapters.
type Subject struct {
	ID          uint64    `json:"id"`
	GradeID     uint64    `json:"grade_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chapter is the leaf of the hierarchy and owns a list of multiple-choice
// questions.  Number is the chapter's ordinal within its subject.  The
// Questions slice is populated by the repository on detail reads; list
// queries leave it nil.
type Chapter struct {
	ID          uint64     `json:"id"`
	SubjectID   uint64     `json:"subject_id"`
	Number      uint32     `json:"number"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	VideoURL    *string    `json:"video_url,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Question is one multiple-choice entry in a chapter.  Options are stored
// as a JSON array column; Answer is the zero-based index of the correct
// option.
type Question struct {
	ID          uint64   `json:"id"`
	ChapterID   uint64   `json:"chapter_id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Answer      uint8    `json:"answer"`
	Explanation *string  `json:"explanation,omitempty"`
}
