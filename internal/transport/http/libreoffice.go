package httptransport

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"doc-gateway/internal/entity"
	"doc-gateway/internal/service"
	"doc-gateway/internal/storage"
)

type liboSubmission struct {
	baseURL      string
	inputPath    string
	outputPath   string
	originalName string
	options      map[string]string
}

// parseLibreOfficeForm validates the multipart submission and persists the
// upload. Nothing is written to disk when validation fails.
func (h *Handler) parseLibreOfficeForm(r *http.Request) (*liboSubmission, error) {
	baseURL := r.FormValue("base_url")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", service.ErrInvalidRequest)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: file field is required", service.ErrInvalidRequest)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, fmt.Errorf("%w: no filename provided", service.ErrInvalidRequest)
	}
	if err := service.CheckFileType(entity.BackendLibreOffice, header.Filename, header.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	options := map[string]string{
		"marginTop":         formValueOr(r, "marginTop", "1"),
		"marginBottom":      formValueOr(r, "marginBottom", "1"),
		"marginLeft":        formValueOr(r, "marginLeft", "1"),
		"marginRight":       formValueOr(r, "marginRight", "1"),
		"landscape":         formValueOr(r, "landscape", "false"),
		"printBackground":   formValueOr(r, "printBackground", "true"),
		"preferCSSPageSize": formValueOr(r, "preferCSSPageSize", "true"),
	}
	if pr := strings.TrimSpace(r.FormValue("pageRanges")); pr != "" {
		options["pageRanges"] = pr
	}

	fileID := uuid.New().String()
	inputPath, err := h.liboUploads.SaveUpload(fileID+"_"+filepath.Base(header.Filename), file)
	if err != nil {
		return nil, err
	}

	return &liboSubmission{
		baseURL:      baseURL,
		inputPath:    inputPath,
		outputPath:   h.liboOutputs.Path(fileID + ".pdf"),
		originalName: header.Filename,
		options:      options,
	}, nil
}

func servePDF(w http.ResponseWriter, r *http.Request, path, downloadName string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	http.ServeFile(w, r, path)
}

// ConvertToPDF godoc
// @Summary Convert an office document to PDF (synchronous)
// @Description Uploads a document, converts it through Gotenberg and streams the PDF back.
// @Tags libre_office
// @Accept multipart/form-data
// @Produce application/pdf
// @Param base_url formData string true "Gotenberg base URL"
// @Param file formData file true "document to convert"
// @Success 200 {file} binary
// @Failure 400 {object} apiError
// @Failure 415 {object} apiError
// @Failure 500 {object} apiError
// @Router /libre_office/converter_to_pdf [post]
func (h *Handler) ConvertToPDF(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseLibreOfficeForm(r)
	if err != nil {
		writeErr(w, errStatus(err), err.Error())
		return
	}

	if err := h.gotenberg.Convert(r.Context(), sub.baseURL, sub.inputPath, sub.outputPath, sub.options); err != nil {
		storage.Remove(sub.inputPath, sub.outputPath)
		writeErr(w, http.StatusInternalServerError, "conversion failed: "+err.Error())
		return
	}

	base := strings.TrimSuffix(sub.originalName, filepath.Ext(sub.originalName))
	servePDF(w, r, sub.outputPath, "converted_"+base+".pdf")
	storage.Remove(sub.inputPath, sub.outputPath)
}

// ConvertToPDFAsync godoc
// @Summary Convert an office document to PDF (asynchronous)
// @Description Registers a conversion task and returns its id immediately. Poll /libre_office/converter_result/{task_id}.
// @Tags libre_office
// @Accept multipart/form-data
// @Produce json
// @Param base_url formData string true "Gotenberg base URL"
// @Param file formData file true "document to convert"
// @Success 200 {object} taskIDResp
// @Failure 400 {object} apiError
// @Failure 415 {object} apiError
// @Failure 500 {object} apiError
// @Router /libre_office/converter_to_pdf_async [post]
func (h *Handler) ConvertToPDFAsync(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseLibreOfficeForm(r)
	if err != nil {
		writeErr(w, errStatus(err), err.Error())
		return
	}

	id, err := h.tasks.Submit(r.Context(), service.SubmitRequest{
		Backend:      entity.BackendLibreOffice,
		BaseURL:      sub.baseURL,
		UploadPath:   sub.inputPath,
		OutputPath:   sub.outputPath,
		OriginalName: sub.originalName,
		Options:      sub.options,
	})
	if err != nil {
		storage.Remove(sub.inputPath)
		writeErr(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, taskIDResp{TaskID: id.String()})
}

// ConvertResult godoc
// @Summary Poll an asynchronous conversion
// @Description Returns the task status while running, the PDF once done, or the failure message.
// @Tags libre_office
// @Produce json
// @Param task_id path string true "task id (uuid)"
// @Success 200 {file} binary
// @Failure 400 {object} apiError
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /libre_office/converter_result/{task_id} [get]
func (h *Handler) ConvertResult(w http.ResponseWriter, r *http.Request) {
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

	switch task.Status {
	case entity.StatusPending, entity.StatusProcessing:
		writeJSON(w, http.StatusOK, map[string]string{"status": string(task.Status)})
	case entity.StatusError:
		msg := ""
		if task.Error != nil {
			msg = *task.Error
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": msg})
	case entity.StatusDone:
		out := task.Input.OutputPath
		if _, statErr := os.Stat(out); statErr != nil {
			writeErr(w, http.StatusInternalServerError, "converted artifact is no longer available")
			return
		}
		servePDF(w, r, out, "converted_"+id.String()+".pdf")
		// Scratch files are done serving their purpose after a successful
		// terminal read; the record itself stays.
		storage.Remove(task.Input.UploadPath, out)
	default:
		writeErr(w, http.StatusInternalServerError, "unknown task status")
	}
}
