package httphandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/niksmo/catalog-review/internal/core/domain"
)

const maxRequestBody = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	return sonic.Unmarshal(b, v)
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, code int, v any) {
	b, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		log.Error("failed to encode response", "err", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(b); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// writeError maps core errors to response statuses.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, log, http.StatusUnprocessableEntity,
			ErrorResponse{validationMessage(err)})
		log.Info("rejected", "err", err)
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, log, http.StatusNotFound, ErrorResponse{"not found"})
		log.Info("not found", "err", err)
	default:
		writeJSON(w, log, http.StatusBadGateway,
			ErrorResponse{"catalog service is unavailable"})
		log.Error("upstream failure", "err", err)
	}
}

// validationMessage drops the operation prefixes of a wrapped
// validation error.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return domain.ErrValidation.Error()
}

func badRequest(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	writeJSON(w, log, http.StatusBadRequest, ErrorResponse{msg})
	log.Warn(msg, "err", err)
}
