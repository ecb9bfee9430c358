package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebwren/redline/internal/audit"
	"github.com/calebwren/redline/internal/pipeline"
	"github.com/calebwren/redline/pkg/pagination"
)

var (
	ErrMissingDocument = errors.New("multipart field 'document' required")
	ErrFileTooLarge    = errors.New("upload exceeds size limit")
	ErrUnknownRun      = errors.New("unknown run id")
)

func (rt *Runtime) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.Lifecycle != nil && !rt.Lifecycle.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateRun accepts a multipart form with the DOCX action plan
// ("document"), an optional scanned PDF ("scan"), and an optional
// "analyze_only" flag, then executes a run synchronously.
func (rt *Runtime) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.MaxUploadSize)
	if err := r.ParseMultipartForm(rt.MaxUploadSize); err != nil {
		respondError(w, rt.Logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	id := uuid.NewString()
	dir := filepath.Join(rt.UploadDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		respondError(w, rt.Logger, http.StatusInternalServerError, err)
		return
	}

	docPath, err := rt.saveUpload(r, "document", dir)
	if err != nil {
		respondError(w, rt.Logger, http.StatusBadRequest, ErrMissingDocument)
		return
	}

	scanPath, err := rt.saveUpload(r, "scan", dir)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		respondError(w, rt.Logger, http.StatusBadRequest, err)
		return
	}

	analyzeOnly := strings.EqualFold(r.FormValue("analyze_only"), "true")

	opts := pipeline.Options{
		DocumentPath: docPath,
		ScanPath:     scanPath,
		AnalyzeOnly:  analyzeOnly,
	}
	if !analyzeOnly {
		base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
		opts.OutputPath = filepath.Join(dir, base+"-updated.docx")
	}

	result, err := rt.Runner.Run(r.Context(), opts)
	if err != nil {
		respondError(w, rt.Logger, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (rt *Runtime) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := rt.Store.RunIDs(r.Context())
	if err != nil {
		respondError(w, rt.Logger, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"runs": ids})
}

// handleRunChanges returns a paginated page of the run's change records.
// An optional search parameter filters by section name.
func (rt *Runtime) handleRunChanges(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	records, err := rt.runRecords(r, runID)
	if err != nil {
		respondError(w, rt.Logger, http.StatusNotFound, err)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), rt.Pagination)
	if page.Search != nil {
		needle := strings.ToLower(*page.Search)
		filtered := records[:0:0]
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Section), needle) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	data, total := pagination.Slice(records, page)
	respondJSON(w, http.StatusOK, pagination.NewPageResult(data, total, page.Page, page.PageSize))
}

// handleRunReport streams the run's audit trail as an XLSX workbook.
func (rt *Runtime) handleRunReport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	records, err := rt.runRecords(r, runID)
	if err != nil {
		respondError(w, rt.Logger, http.StatusNotFound, err)
		return
	}

	data, err := rt.Report.ExportXLSX(audit.Rebuild(runID, records))
	if err != nil {
		respondError(w, rt.Logger, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", runID+".xlsx"))
	_, _ = w.Write(data)
}

func (rt *Runtime) runRecords(r *http.Request, runID string) ([]audit.ChangeRecord, error) {
	records, err := rt.Store.RunRecords(r.Context(), runID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	return records, nil
}

func (rt *Runtime) saveUpload(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return writeUpload(file, header, dir)
}

func writeUpload(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	name := filepath.Base(header.Filename)
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid upload filename")
	}
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}
