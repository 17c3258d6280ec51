package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"betboard/service"

	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind       service.ErrorKind `json:"kind"`
	Message    string            `json:"message"`
	MinAllowed *int64            `json:"min_allowed,omitempty"`
}

var statusByKind = map[service.ErrorKind]int{
	service.KindInvalidInput:          http.StatusBadRequest,
	service.KindUnauthenticated:       http.StatusUnauthorized,
	service.KindForbidden:             http.StatusForbidden,
	service.KindNotFound:              http.StatusNotFound,
	service.KindConflict:              http.StatusConflict,
	service.KindBusinessRuleViolation: http.StatusUnprocessableEntity,
	service.KindInternal:              http.StatusInternalServerError,
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, kind service.ErrorKind, message string) {
	respondWithJSON(w, statusByKind[kind], errorBody{Error: errorDetail{Kind: kind, Message: message}})
}

// respondWithServiceError classifies err and writes it. Internal errors are
// logged with their detail and answered with a generic message.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		log.WithFields(log.Fields{
			"requestId": requestIDFrom(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
		}).WithError(err).Error("Request failed")
		respondWithError(w, kind, "internal error")
		return
	}

	detail := errorDetail{Kind: kind, Message: err.Error()}
	var tooLow *service.WagerTooLowError
	if errors.As(err, &tooLow) {
		detail.MinAllowed = &tooLow.MinAllowed
	}
	respondWithJSON(w, statusByKind[kind], errorBody{Error: detail})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}
