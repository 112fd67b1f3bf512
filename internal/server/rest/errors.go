package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
)

const (
	msgInvalidCredentials = "Could not validate credentials"
	msgIncorrectLogin     = "Incorrect email or password"
	msgEmailRegistered    = "Email already registered"
	msgDocumentNotFound   = "Document not found"
	msgInvalidAmount      = "Recharge amount must be positive"
	msgStorageDisabled    = "Object storage is not configured"
	msgInternal           = "Internal server error"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

// fieldError is one entry of a 422 response.
type fieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

type validationResponse struct {
	Detail []fieldError `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(detailResponse{Detail: msgInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: errs})
}

// writeUnauthorized is the single rejection used by the identity resolver.
func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

// writeError maps service errors that no handler translated itself.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		writeUnauthorized(w, msgInvalidCredentials)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not Found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, common.ErrInvalidAmount):
		writeDetail(w, http.StatusBadRequest, msgInvalidAmount)
	case errors.Is(err, common.ErrStorageDisabled):
		writeDetail(w, http.StatusServiceUnavailable, msgStorageDisabled)
	case errors.Is(err, common.ErrorValidation):
		writeValidation(w, []fieldError{{Loc: []any{"body"}, Msg: err.Error(), Type: "value_error"}})
	default:
		s.logger.Error(ctx, "request failed", "error", err, "request_id", requestIDFromContext(ctx))
		writeDetail(w, http.StatusInternalServerError, msgInternal)
	}
}
