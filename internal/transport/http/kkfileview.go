package httptransport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"doc-gateway/internal/preview"
)

type previewURLBody struct {
	KKBaseURL string `json:"kk_base_url"`
	TargetURL string `json:"target_url"`
}

type previewURLResp struct {
	PreviewURL string `json:"preview_url"`
	TempURL    string `json:"temp_url,omitempty"`
}

// PreviewURL godoc
// @Summary Build a kkFileView preview link for an existing file URL
// @Tags kkfileview
// @Accept json
// @Produce json
// @Param request body previewURLBody true "kk base URL and target file URL"
// @Success 200 {object} previewURLResp
// @Failure 400 {object} apiError
// @Router /kkfileview/preview/url [post]
func (h *Handler) PreviewURL(w http.ResponseWriter, r *http.Request) {
	var body previewURLBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.KKBaseURL == "" {
		writeErr(w, http.StatusBadRequest, "kk_base_url is required")
		return
	}
	if err := preview.ValidateTarget(body.TargetURL); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, previewURLResp{
		PreviewURL: preview.BuildPreviewURL(body.KKBaseURL, body.TargetURL),
	})
}

// PreviewFile godoc
// @Summary Upload a file, temp-host it and build its kkFileView preview link
// @Tags kkfileview
// @Accept multipart/form-data
// @Produce json
// @Param kk_base_url formData string true "kkFileView base URL, e.g. http://127.0.0.1:8012"
// @Param file formData file true "file to host"
// @Success 200 {object} previewURLResp
// @Failure 400 {object} apiError
// @Failure 413 {object} apiError
// @Failure 500 {object} apiError
// @Router /kkfileview/preview/file [post]
func (h *Handler) PreviewFile(w http.ResponseWriter, r *http.Request) {
	kkBaseURL := r.FormValue("kk_base_url")
	if kkBaseURL == "" {
		writeErr(w, http.StatusBadRequest, "kk_base_url is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	fileID := uuid.New().String()
	name := fileID + strings.ToLower(filepath.Ext(header.Filename))
	if _, err := h.kkUploads.SaveUpload(name, file); err != nil {
		writeErr(w, errStatus(err), err.Error())
		return
	}

	originalName := header.Filename
	if originalName == "" {
		originalName = name
	}

	// Hosted files are kept until pruned externally; kkFileView may fetch
	// them at any later time.
	tempURL := preview.TempURL(h.kkHostPublic, fileID, originalName)
	writeJSON(w, http.StatusOK, previewURLResp{
		PreviewURL: preview.BuildPreviewURL(kkBaseURL, tempURL),
		TempURL:    tempURL,
	})
}

// TempFile godoc
// @Summary Serve a temp-hosted upload
// @Tags kkfileview
// @Produce application/octet-stream
// @Param file_id path string true "hosted file id"
// @Param fullfilename query string false "download name for type detection"
// @Success 200 {file} binary
// @Failure 404 {object} apiError
// @Router /kkfileview/temp/{file_id} [get]
func (h *Handler) TempFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "file_id")

	path, err := h.kkUploads.FindByID(fileID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeErr(w, http.StatusNotFound, "file not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := r.URL.Query().Get("fullfilename")
	if name == "" {
		name = filepath.Base(path)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}
