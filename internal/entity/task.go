package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusDone       TaskStatus = "done"
	StatusError      TaskStatus = "error"
)

// Terminal reports whether no further transitions are possible.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusError
}

type Backend string

const (
	BackendLibreOffice Backend = "libreoffice"
	BackendMineru      Backend = "mineru"
)

// TaskInput is everything a worker needs to run the external call.
type TaskInput struct {
	BaseURL      string            `json:"base_url"`
	UploadPath   string            `json:"upload_path"`
	OutputPath   string            `json:"output_path,omitempty"`
	OriginalName string            `json:"original_name"`
	Options      map[string]string `json:"options,omitempty"`
}

type Task struct {
	ID         uuid.UUID       `json:"id"`
	Backend    Backend         `json:"backend"`
	Status     TaskStatus      `json:"status"`
	Input      TaskInput       `json:"input"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      *string         `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
