package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"authsystem/internal/api/middleware"
	"authsystem/internal/app/service"
	"authsystem/internal/common"
	"authsystem/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/me", h.me)
		protected.Delete("/delete-account", h.deleteAccount)
	})
}

type authSuccessResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

type deleteAccountResponse struct {
	Message     string           `json:"message"`
	DeletedUser model.PublicUser `json:"deletedUser"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, authSuccessResponse{
		Message: "User registered successfully",
		Token:   resp.Token,
		User:    resp.User,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, authSuccessResponse{
		Message: "Login successful",
		Token:   resp.Token,
		User:    resp.User,
	})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetCurrentUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	log.Printf("Starting account deletion for user %s", userID)

	user, err := h.authService.DeleteAccount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("User deleted: %s", user.Email)

	common.RespondWithJSON(w, http.StatusOK, deleteAccountResponse{
		Message:     "Account deleted successfully",
		DeletedUser: user.Public(),
	})
}

// respondServiceError translates a service error into the public error body.
// Internal detail is only attached for server errors, mirroring the statuses
// and messages the clients depend on.
func respondServiceError(w http.ResponseWriter, err error) {
	code := common.HTTPStatusFromError(err)
	resp := common.ErrorResponse{Message: common.ClientMessage(err)}
	if code == http.StatusInternalServerError {
		resp.Error = err.Error()
	}
	common.RespondWithJSON(w, code, resp)
}
