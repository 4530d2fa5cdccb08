package server

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/loomi-hq/hr-service/constants"
	"github.com/loomi-hq/hr-service/internal/ingest"
)

// maxUploadBytes bounds a single contract upload. Scanned multi-page
// contracts run a few MB; 25MB leaves generous headroom.
const maxUploadBytes = 25 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleHealthDeep(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "degraded", "db": "not configured"})
		return
	}
	if err := s.health(r.Context()); err != nil {
		s.logger.Error("health.db_unreachable", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"status": "degraded", "db": "error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "db": "connected"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "Expected multipart/form-data with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if !supportedUpload(header.Filename) {
		writeErr(w, http.StatusBadRequest, "Only PDF and image files are accepted")
		return
	}
	contents, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Could not read upload")
		return
	}
	s.ingestAndRespond(w, r, contents, header.Filename)
}

type ingestBase64Request struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// handleIngestBase64 accepts {"filename", "data"} JSON bodies for clients
// that cannot send multipart reliably. Data may be a bare base64 string or
// a data URL ("data:application/pdf;base64,...").
func (s *Server) handleIngestBase64(w http.ResponseWriter, r *http.Request) {
	var body ingestBase64Request
	if err := decodeJSON(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if !supportedUpload(body.Filename) {
		writeErr(w, http.StatusBadRequest, "Only PDF and image files are accepted")
		return
	}

	raw := body.Data
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[i+1:]
	}
	contents, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid base64 data")
		return
	}
	s.ingestAndRespond(w, r, contents, body.Filename)
}

func (s *Server) ingestAndRespond(w http.ResponseWriter, r *http.Request, contents []byte, filename string) {
	res, err := s.ingest.IngestBytes(r.Context(), contents, filename)
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingestResponse(res))
}

// ingestResponse flattens an ingest result for API clients. Every record is
// stored; needs_review tells the client whether it also landed on the
// exceptions queue.
func ingestResponse(res ingest.Result) map[string]any {
	fields := make(map[string]any, len(res.Fields))
	for f, v := range res.Fields {
		if v == nil {
			fields[string(f)] = nil
		} else {
			fields[string(f)] = *v
		}
	}
	scores := make(map[string]float64, len(res.Scores))
	for f, sc := range res.Scores {
		scores[string(f)] = float64(sc)
	}
	return map[string]any{
		"employee_id":  res.EmployeeID,
		"confidence":   res.Confidence,
		"needs_review": res.NeedsReview,
		"ocr_used":     res.OCRUsed,
		"doc_type":     string(res.DocType),
		"fields":       fields,
		"field_scores": scores,
	}
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.repo.List(r.Context())
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := s.repo.Get(r.Context(), r.PathValue("employee_id"))
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (s *Server) handleExceptions(w http.ResponseWriter, r *http.Request) {
	employees, err := s.repo.Exceptions(r.Context())
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	out, err := s.export.ExportCSV(r.Context())
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=employees.csv`)
	_, _ = w.Write(out)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	out, err := s.export.ExportXLSX(r.Context())
	if err != nil {
		s.writeInternalErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename=employees.xlsx`)
	_, _ = w.Write(out)
}

func supportedUpload(filename string) bool {
	return constants.MapExtToFormat(filepath.Ext(filename)) != ""
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	return json.NewDecoder(r.Body).Decode(v)
}
