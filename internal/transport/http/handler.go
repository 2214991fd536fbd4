package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"doc-gateway/internal/registry"
	"doc-gateway/internal/service"
	"doc-gateway/internal/storage"
)

type GotenbergClient interface {
	Convert(ctx context.Context, baseURL, inputPath, outputPath string, options map[string]string) error
}

type MineruClient interface {
	Parse(ctx context.Context, baseURL, inputPath string) (json.RawMessage, error)
}

type Handler struct {
	tasks     *service.TaskService
	gotenberg GotenbergClient
	mineru    MineruClient

	liboUploads   *storage.Store
	liboOutputs   *storage.Store
	mineruUploads *storage.Store
	kkUploads     *storage.Store

	kkHostPublic  string
	mineruBaseURL string
}

type Deps struct {
	Tasks     *service.TaskService
	Gotenberg GotenbergClient
	Mineru    MineruClient

	LibreOfficeUploads *storage.Store
	LibreOfficeOutputs *storage.Store
	MineruUploads      *storage.Store
	KKFileViewUploads  *storage.Store

	KKHostPublic         string
	MineruDefaultBaseURL string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		tasks:         d.Tasks,
		gotenberg:     d.Gotenberg,
		mineru:        d.Mineru,
		liboUploads:   d.LibreOfficeUploads,
		liboOutputs:   d.LibreOfficeOutputs,
		mineruUploads: d.MineruUploads,
		kkUploads:     d.KKFileViewUploads,
		kkHostPublic:  d.KKHostPublic,
		mineruBaseURL: d.MineruDefaultBaseURL,
	}
}

type taskIDResp struct {
	TaskID string `json:"task_id"`
}

// errStatus maps the service/registry/storage error taxonomy onto HTTP
// status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// formValueOr reads a multipart form field with a default, mirroring the
// converter backends' documented option defaults.
func formValueOr(r *http.Request, key, def string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return def
}
