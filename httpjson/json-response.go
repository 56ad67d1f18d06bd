package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ritlepage/backend/srvcerror"
)

type JsonResponse struct {
	Status     string            `json:"status"` // "success" or "error"
	Data       any               `json:"data,omitempty"`
	ErrCode    string            `json:"code,omitempty"`
	ErrMsg     string            `json:"message,omitempty"`
	ErrDetails map[string]string `json:"details,omitempty"`
}

func WriteSuccessJson(w http.ResponseWriter, data any) {
	resp := JsonResponse{
		Status: "success",
		Data:   data,
	}
	writeJson(w, http.StatusOK, resp)
}

func WriteErrorJson(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	resp := JsonResponse{
		Status:  "error",
		ErrMsg:  errMsg,
		ErrCode: errCode,
	}
	writeJson(w, statusCode, resp)
}

func writeJson(w http.ResponseWriter, statusCode int, resp JsonResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func writeInternalErrorJson(w http.ResponseWriter) {
	WriteErrorJson(w,
		http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
		srvcerror.ErrCodeInternalServerError)
}

// HandleError writes err as a JSON error response. Service errors keep their
// code, message and field details; anything else becomes a bare 500.
func HandleError(logger *slog.Logger, w http.ResponseWriter, err error) {
	srvcErr := &srvcerror.Error{}
	if !errors.As(err, &srvcErr) {
		logger.Error("internal server error", "error", err)
		writeInternalErrorJson(w)
		return
	}

	if srvcErr.HttpStatusCode() >= http.StatusInternalServerError {
		logger.Error("internal server error", "error", err, "debug", srvcErr.DebugInfo())
	} else if srvcErr.DebugInfo() != nil {
		logger.Warn("service error", "error", err, "debug", srvcErr.DebugInfo())
	} else {
		logger.Warn("service error", "error", err)
	}

	writeJson(w, srvcErr.HttpStatusCode(), JsonResponse{
		Status:     "error",
		ErrMsg:     srvcErr.Error(),
		ErrCode:    srvcErr.ErrorCode(),
		ErrDetails: srvcErr.Details(),
	})
}
