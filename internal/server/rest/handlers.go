package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"github.com/lvdopqt/carteira-digital-api/internal/server/models"
	"github.com/lvdopqt/carteira-digital-api/internal/server/services"
)

type userResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type documentResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	FileURL      string    `json:"file_url"`
	DocumentType *string   `json:"document_type"`
	OwnerID      int64     `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newDocumentResponse(d *models.Document) documentResponse {
	return documentResponse{
		ID:           d.ID,
		Title:        d.Title,
		FileURL:      d.FileURL,
		DocumentType: d.DocumentType,
		OwnerID:      d.OwnerID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type balanceResponse struct {
	Balance float64 `json:"balance"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	ExpiresIn int64  `json:"expires_in"`
}

type chatbotResponse struct {
	Answer string `json:"answer"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// --- auth & users ---

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if errs := decodeBody(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	var errs []fieldError
	if req.Email == nil {
		errs = append(errs, missing("email"))
	}
	if req.Password == nil {
		errs = append(errs, missing("password"))
	}
	if errs != nil {
		writeValidation(w, errs)
		return
	}

	res, err := s.deps.Users.Authenticate(r.Context(), *req.Email, *req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeUnauthorized(w, msgIncorrectLogin)
			return
		}
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: res.AccessToken, TokenType: res.TokenType})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       *string `json:"email"`
		Password    *string `json:"password"`
		FullName    *string `json:"full_name"`
		IsActive    *bool   `json:"is_active"`
		IsSuperuser *bool   `json:"is_superuser"`
	}
	if errs := decodeBody(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}

	var errs []fieldError
	switch {
	case req.Email == nil:
		errs = append(errs, missing("email"))
	case !validEmail(*req.Email):
		errs = append(errs, fieldError{
			Loc:  []any{"body", "email"},
			Msg:  "value is not a valid email address",
			Type: "value_error",
		})
	}
	switch {
	case req.Password == nil:
		errs = append(errs, missing("password"))
	case len(*req.Password) > maxPasswordBytes:
		errs = append(errs, fieldError{
			Loc:  []any{"body", "password"},
			Msg:  "String should have at most 72 bytes",
			Type: "string_too_long",
		})
	}
	if errs != nil {
		writeValidation(w, errs)
		return
	}

	in := services.RegisterInput{
		Email:    *req.Email,
		Password: *req.Password,
		FullName: req.FullName,
		IsActive: true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	if req.IsSuperuser != nil {
		in.IsSuperuser = *req.IsSuperuser
	}

	u, err := s.deps.Users.Register(r.Context(), in)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeDetail(w, http.StatusBadRequest, msgEmailRegistered)
			return
		}
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

// --- documents ---

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req struct {
		Title        *string `json:"title"`
		FileURL      *string `json:"file_url"`
		DocumentType *string `json:"document_type"`
	}
	if errs := decodeBody(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	var errs []fieldError
	if req.Title == nil {
		errs = append(errs, missing("title"))
	}
	if req.FileURL == nil {
		errs = append(errs, missing("file_url"))
	}
	if errs != nil {
		writeValidation(w, errs)
		return
	}

	doc, err := s.deps.Documents.Create(r.Context(), user, services.CreateDocumentInput{
		Title:        *req.Title,
		FileURL:      *req.FileURL,
		DocumentType: req.DocumentType,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "document created", "document_id", doc.ID, "owner_id", user.ID)
	writeJSON(w, http.StatusCreated, newDocumentResponse(doc))
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	docs, err := s.deps.Documents.List(r.Context(), user)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, newDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	raw := mux.Vars(r)["document_id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeValidation(w, []fieldError{{
			Loc:  []any{"path", "document_id"},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
			Type: "int_parsing",
		}})
		return
	}

	doc, err := s.deps.Documents.Get(r.Context(), user, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeDetail(w, http.StatusNotFound, msgDocumentNotFound)
			return
		}
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) documentUploadURL(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	target, err := s.deps.Documents.PresignUpload(r.Context(), user)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadURLResponse{
		UploadURL: target.UploadURL,
		FileURL:   target.FileURL,
		ExpiresIn: int64(target.ExpiresIn / time.Second),
	})
}

// --- transport ---

func (s *Server) transportBalance(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	b, err := s.deps.Transport.Balance(r.Context(), user)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: b})
}

func (s *Server) transportRecharge(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req struct {
		Amount *float64 `json:"amount"`
	}
	if errs := decodeBody(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	if req.Amount == nil {
		writeValidation(w, []fieldError{missing("amount")})
		return
	}

	b, err := s.deps.Transport.Recharge(r.Context(), user, *req.Amount)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "balance recharged", "owner_id", user.ID, "amount", *req.Amount)
	writeJSON(w, http.StatusOK, balanceResponse{Balance: b})
}

// --- chatbot & health ---

func (s *Server) chatbot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question *string `json:"question"`
	}
	if errs := decodeBody(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	if req.Question == nil {
		writeValidation(w, []fieldError{missing("question")})
		return
	}

	writeJSON(w, http.StatusOK, chatbotResponse{Answer: s.deps.Chatbot.Answer(*req.Question)})
}

const healthPingTimeout = 2 * time.Second

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.deps.Health.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
