package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"doc-gateway/internal/entity"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Formats Gotenberg's LibreOffice route accepts.
var officeExtensions = map[string]struct{}{
	".doc": {}, ".docx": {},
	".odt": {},
	".rtf": {},
	".txt": {},
	".html": {}, ".htm": {},
	".xml": {},
	".xls": {}, ".xlsx": {},
	".ods": {},
	".csv": {},
	".ppt": {}, ".pptx": {},
	".odp": {},
}

// CheckFileType enforces the per-backend allow-list. Mineru also accepts a
// PDF content type when the filename carries no usable extension.
func CheckFileType(backend entity.Backend, filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch backend {
	case entity.BackendLibreOffice:
		if _, ok := officeExtensions[ext]; !ok {
			return fmt.Errorf("%w: %s is not a supported office format", ErrUnsupportedType, ext)
		}
	case entity.BackendMineru:
		if ext != ".pdf" && !strings.Contains(strings.ToLower(contentType), "pdf") {
			return fmt.Errorf("%w: only PDF files are supported for Mineru parsing", ErrUnsupportedType)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidRequest, backend)
	}
	return nil
}

// Registry port (implementation: registry.Registry).
type TaskRegistry interface {
	Create(task *entity.Task) error
	Get(id uuid.UUID) (*entity.Task, error)
}

// Queue port (implementation: queue.FIFO).
type TaskQueue interface {
	Enqueue(id uuid.UUID)
}

type TaskService struct {
	registry TaskRegistry
	queue    TaskQueue
}

func NewTaskService(registry TaskRegistry, queue TaskQueue) *TaskService {
	return &TaskService{registry: registry, queue: queue}
}

type SubmitRequest struct {
	Backend      entity.Backend
	BaseURL      string
	UploadPath   string
	OutputPath   string
	OriginalName string
	ContentType  string
	Options      map[string]string
}

// Submit registers a pending task and enqueues its id. It never waits on
// the backend; on validation failure nothing is registered or enqueued.
func (s *TaskService) Submit(ctx context.Context, req SubmitRequest) (uuid.UUID, error) {
	if req.BaseURL == "" {
		return uuid.Nil, fmt.Errorf("%w: base_url is required", ErrInvalidRequest)
	}
	if req.UploadPath == "" {
		return uuid.Nil, fmt.Errorf("%w: no uploaded file", ErrInvalidRequest)
	}
	if err := CheckFileType(req.Backend, req.OriginalName, req.ContentType); err != nil {
		return uuid.Nil, err
	}

	task := &entity.Task{
		ID:      uuid.New(),
		Backend: req.Backend,
		Status:  entity.StatusPending,
		Input: entity.TaskInput{
			BaseURL:      req.BaseURL,
			UploadPath:   req.UploadPath,
			OutputPath:   req.OutputPath,
			OriginalName: req.OriginalName,
			Options:      req.Options,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.registry.Create(task); err != nil {
		return uuid.Nil, err
	}
	s.queue.Enqueue(task.ID)

	return task.ID, nil
}

// Result reports the task's current state without blocking. Callers poll.
func (s *TaskService) Result(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	return s.registry.Get(id)
}
