package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"doc-gateway/internal/entity"
	"doc-gateway/internal/service"
	"doc-gateway/internal/storage"
)

// parseMineruForm validates the PDF upload, persists it and resolves the
// backend base URL (form field wins over the configured default).
func (h *Handler) parseMineruForm(r *http.Request) (inputPath, baseURL string, err error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("%w: file field is required", service.ErrInvalidRequest)
	}
	defer file.Close()

	if err := service.CheckFileType(entity.BackendMineru, header.Filename, header.Header.Get("Content-Type")); err != nil {
		return "", "", err
	}

	baseURL = r.FormValue("base_url")
	if baseURL == "" {
		baseURL = h.mineruBaseURL
	}
	if baseURL == "" {
		return "", "", fmt.Errorf("%w: base_url is required (MINERU_DEFAULT_BASE_URL is not configured)", service.ErrInvalidRequest)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	inputPath, err = h.mineruUploads.SaveUpload(name, file)
	if err != nil {
		return "", "", err
	}
	return inputPath, baseURL, nil
}

// ParseFile godoc
// @Summary Parse a PDF (synchronous)
// @Description Uploads a PDF, parses it through Mineru and returns the normalized JSON payload.
// @Tags mineru
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF to parse"
// @Param base_url formData string false "Mineru base URL (falls back to MINERU_DEFAULT_BASE_URL)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apiError
// @Failure 415 {object} apiError
// @Failure 500 {object} apiError
// @Router /mineru/parse/file [post]
func (h *Handler) ParseFile(w http.ResponseWriter, r *http.Request) {
	inputPath, baseURL, err := h.parseMineruForm(r)
	if err != nil {
		writeErr(w, errStatus(err), err.Error())
		return
	}

	result, err := h.mineru.Parse(r.Context(), baseURL, inputPath)
	storage.Remove(inputPath)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "parse failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
}

// ParseFileAsync godoc
// @Summary Parse a PDF (asynchronous)
// @Description Registers a parse task and returns its id immediately. Poll /mineru/parse_result/{task_id}.
// @Tags mineru
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF to parse"
// @Param base_url formData string false "Mineru base URL (falls back to MINERU_DEFAULT_BASE_URL)"
// @Success 200 {object} taskIDResp
// @Failure 400 {object} apiError
// @Failure 415 {object} apiError
// @Failure 500 {object} apiError
// @Router /mineru/parse_async/file [post]
func (h *Handler) ParseFileAsync(w http.ResponseWriter, r *http.Request) {
	inputPath, baseURL, err := h.parseMineruForm(r)
	if err != nil {
		writeErr(w, errStatus(err), err.Error())
		return
	}

	id, err := h.tasks.Submit(r.Context(), service.SubmitRequest{
		Backend:      entity.BackendMineru,
		BaseURL:      baseURL,
		UploadPath:   inputPath,
		OriginalName: filepath.Base(inputPath),
	})
	if err != nil {
		storage.Remove(inputPath)
		writeErr(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, taskIDResp{TaskID: id.String()})
}

type parseResultResp struct {
	TaskID     string            `json:"task_id"`
	Status     entity.TaskStatus `json:"status"`
	Result     json.RawMessage   `json:"result,omitempty"`
	CreatedAt  string            `json:"created_at"`
	StartedAt  string            `json:"started_at,omitempty"`
	FinishedAt string            `json:"finished_at,omitempty"`
}

// ParseResult godoc
// @Summary Poll an asynchronous parse
// @Description Returns the task projection: status plus result once done, or the failure message.
// @Tags mineru
// @Produce json
// @Param task_id path string true "task id (uuid)"
// @Success 200 {object} parseResultResp
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /mineru/parse_result/{task_id} [get]
func (h *Handler) ParseResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid task_id")
		return
	}

	task, err := h.tasks.Result(r.Context(), id)
	if err != nil {
		writeErr(w, errStatus(err), "unknown task_id")
		return
	}

	if task.Status == entity.StatusError {
		msg := ""
		if task.Error != nil {
			msg = *task.Error
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": msg})
		return
	}

	resp := parseResultResp{
		TaskID:    task.ID.String(),
		Status:    task.Status,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	}
	if task.StartedAt != nil {
		resp.StartedAt = task.StartedAt.Format(time.RFC3339)
	}
	if task.FinishedAt != nil {
		resp.FinishedAt = task.FinishedAt.Format(time.RFC3339)
	}
	if task.Status == entity.StatusDone {
		resp.Result = task.Result
		// Upload already parsed; drop it without blocking the response.
		go storage.Remove(task.Input.UploadPath)
	}

	writeJSON(w, http.StatusOK, resp)
}
