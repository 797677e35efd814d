package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"authgate/internal/app/service"
	"authgate/internal/common"
	"authgate/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type authResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	Data    model.Identity `json:"data"`
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   resp.Token,
		Data:    resp.User,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   resp.Token,
		Data:    resp.User,
	})
}

// decode reads a JSON body into dst. An empty body decodes to the zero
// value so that the validator reports the missing fields.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithDomainError(w, common.ErrBadRequest)
		return false
	}
	return true
}

func (h *AuthHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	common.RespondWithDomainError(w, err)
}
