package model

import "time"

// Media is a stored media item that sections can bind to. Upload and
// transcoding happen elsewhere; this service only reads the record.
type Media struct {
	ID              int64       `db:"id" json:"id"`
	Kind            ContentType `db:"kind" json:"kind"`
	Title           string      `db:"title" json:"title"`
	StoragePath     string      `db:"storage_path" json:"storage_path"`
	DurationSeconds int         `db:"duration_seconds" json:"duration_seconds"`
	OwnerID         string      `db:"owner_id" json:"owner_id"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
}

// QuestionGroup is a named set of quiz questions.
type QuestionGroup struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// QuestionGroupItem is one question of a group.
type QuestionGroupItem struct {
	ID         int64  `db:"id" json:"id"`
	GroupID    int64  `db:"group_id" json:"group_id"`
	Position   int    `db:"position" json:"position"`
	Difficulty int    `db:"difficulty" json:"difficulty"`
	Prompt     string `db:"prompt" json:"prompt"`
	Analysis   string `db:"analysis" json:"analysis,omitempty"`
}
