package handlers

import (
	"log/slog"
	"net/http"

	"github.com/0x029Ax0/starter-kit-api/internal/api/dto"
	"github.com/0x029Ax0/starter-kit-api/internal/api/middleware"
	"github.com/0x029Ax0/starter-kit-api/internal/users"
)

type UserHandler struct {
	users        *users.Service
	baseURL      string
	logger       *slog.Logger
	inProduction bool
}

func NewUserHandler(userService *users.Service, baseURL string, logger *slog.Logger, inProduction bool) *UserHandler {
	return &UserHandler{
		users:        userService,
		baseURL:      baseURL,
		logger:       logger,
		inProduction: inProduction,
	}
}

// Current returns the authenticated user, or a null user for anonymous
// callers.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	resp := dto.UserResponse{Status: dto.StatusSuccess}

	if user := h.users.Current(middleware.GetSession(r.Context())); user != nil {
		resp.User = dto.NewUser(user, h.baseURL)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, h.inProduction, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserListResponse{
		Status: dto.StatusSuccess,
		Users:  dto.NewUserList(list, h.baseURL),
	})
}
