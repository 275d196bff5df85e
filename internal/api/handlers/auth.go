package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/0x029Ax0/starter-kit-api/internal/api/dto"
	"github.com/0x029Ax0/starter-kit-api/internal/api/middleware"
	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/storage"
	"github.com/google/uuid"
)

type AuthHandler struct {
	auth         *auth.Service
	tokens       *auth.TokenService
	avatars      storage.AvatarStore
	baseURL      string
	logger       *slog.Logger
	inProduction bool
}

func NewAuthHandler(authService *auth.Service, tokens *auth.TokenService, avatars storage.AvatarStore, baseURL string, logger *slog.Logger, inProduction bool) *AuthHandler {
	return &AuthHandler{
		auth:         authService,
		tokens:       tokens,
		avatars:      avatars,
		baseURL:      baseURL,
		logger:       logger,
		inProduction: inProduction,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Status: dto.StatusSuccess,
		User:   dto.NewUser(user, h.baseURL),
		Token:  token,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Status: dto.StatusSuccess,
		User:   dto.NewUser(user, h.baseURL),
		Token:  token,
	})
}

func (h *AuthHandler) RecoverAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.RecoverAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	if err := h.auth.RecoverAccount(r.Context(), req.Email); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.RecoveryCode, req.Password); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	if err := h.auth.VerifyEmail(r.Context(), req.Email, req.VerificationCode); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	if err := h.auth.Logout(r.Context(), session); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	if err := h.auth.ChangePassword(r.Context(), session, req.Password, req.NewPassword); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	var avatarURL string
	if req.Avatar != "" {
		data, ext, err := decodeAvatar(req.Avatar)
		if err != nil {
			writeValidationErrors(w, map[string]string{
				"avatar": "Avatar must be a png, jpeg or webp data URL",
			})
			return
		}

		avatarURL, err = h.avatars.Save(r.Context(), uuid.NewString()+ext, data)
		if err != nil {
			writeServiceError(w, h.logger, h.inProduction, err)
			return
		}
	}

	user, err := h.auth.UpdateProfile(r.Context(), session, req.Name, req.Email, avatarURL)
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Status: dto.StatusSuccess,
		User:   dto.NewUser(user, h.baseURL),
	})
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var req dto.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		writeValidationErrors(w, details)
		return
	}

	if err := h.auth.DeleteAccount(r.Context(), session); err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success())
}

// Refresh returns the current user so clients can rehydrate state.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Status: dto.StatusSuccess,
		User:   dto.NewUser(session.User, h.baseURL),
	})
}

var avatarPrefixes = map[string]string{
	"data:image/png;base64,":  ".png",
	"data:image/jpeg;base64,": ".jpg",
	"data:image/webp;base64,": ".webp",
}

func decodeAvatar(payload string) ([]byte, string, error) {
	for prefix, ext := range avatarPrefixes {
		if !strings.HasPrefix(payload, prefix) {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(payload, prefix))
		if err != nil {
			return nil, "", err
		}
		return data, ext, nil
	}
	return nil, "", errors.New("unsupported image format")
}
