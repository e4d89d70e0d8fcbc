package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ClinicDesk/internal/service"
	"ClinicDesk/internal/validate"
)

// errBadBody - тело запроса не разбирается как JSON.
var errBadBody = errors.New("Invalid request data")

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string          `json:"message"`
	Errors  validate.Errors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeValid разбирает JSON-тело в dst и проверяет его правилами validate.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadBody
	}
	return validate.Struct(dst)
}

// writeError переводит ошибку сервиса в HTTP-ответ.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, r *http.Request, err error) {
	var ve validate.Errors
	var rule *service.RuleError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Validation failed", Errors: ve})
	case errors.Is(err, errBadBody):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
	case errors.As(err, &rule):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: rule.Message})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
	default:
		log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
	}
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// pathID читает {id} из маршрута.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadBody
	}
	return id, nil
}
