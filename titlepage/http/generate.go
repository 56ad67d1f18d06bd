package http

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v2"
	"github.com/ritlepage/backend/httpjson"
	"github.com/ritlepage/backend/srvcerror"
	"github.com/ritlepage/backend/submission"
	"github.com/ritlepage/backend/wordml"
)

const downloadName = "submission.docx"

func (h *TitlePageHttpHandler) PostGenerate(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	var request submission.Submission
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		httpjson.HandleError(logger, w, submission.ErrMalformedBody(err))
		return
	}

	gen, err := h.srvc.Generate(r.Context(), &request)
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}
	defer func() {
		if err := h.srvc.Cleanup(gen.Path); err != nil {
			logger.Warn("failed to remove generated document", "document_id", gen.ID, "error", err)
		}
	}()

	f, err := os.Open(gen.Path)
	if err != nil {
		httpjson.HandleError(logger, w, srvcerror.ErrInternalSE().SetDebug(err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httpjson.HandleError(logger, w, srvcerror.ErrInternalSE().SetDebug(err))
		return
	}

	w.Header().Set("Content-Type", wordml.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	w.Header().Set("X-Document-Id", gen.ID.String())
	http.ServeContent(w, r, downloadName, info.ModTime(), f)
}
