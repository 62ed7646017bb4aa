package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thorfins/thorfins-be/internal/auth"
	"github.com/thorfins/thorfins-be/internal/http/respond"
	"github.com/thorfins/thorfins-be/internal/mail"
	"github.com/thorfins/thorfins-be/internal/middleware"
	"github.com/thorfins/thorfins-be/internal/models"
	"github.com/thorfins/thorfins-be/internal/models/dto"
	"github.com/thorfins/thorfins-be/internal/storage"
)

const mailDispatchTimeout = 15 * time.Second

// AuthHandler owns registration, login, verification, and account endpoints.
// Users start unverified with a 6-digit code; login is refused until the code
// is confirmed within its validity window.
type AuthHandler struct {
	users  storage.UserStore
	tokens *auth.TokenManager
	mailer mail.Sender
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, tokens *auth.TokenManager, mailer mail.Sender) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, mailer: mailer}
}

// Register attaches auth routes to the mux. requireAuth guards the
// account-scoped endpoints.
func (h *AuthHandler) Register(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("POST /auth/logout", h.handleLogout)
	mux.HandleFunc("POST /auth/verify", h.handleVerify)
	mux.HandleFunc("PUT /auth/resendCode", h.handleResendCode)
	mux.HandleFunc("PUT /auth/changepass", h.handleChangePassword)
	mux.HandleFunc("GET /auth/me", requireAuth(h.handleMe))
	mux.HandleFunc("PUT /auth/me/update", requireAuth(h.handleUpdateMe))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" || strings.TrimSpace(req.CurrencyID) == "" {
		respond.Error(w, http.StatusBadRequest, "All parameters are required")
		return
	}
	currencyID, err := uuid.Parse(req.CurrencyID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid currency ID")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	code := auth.GenerateVerificationCode()
	user := models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		Verified:     false,
		VerifyCode:   code,
		CurrencyID:   currencyID,
	}

	// Duplicate detection rides on the store's uniqueness constraint; there is
	// no separate existence lookup to race against.
	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Email already in use")
			return
		}
		log.Printf("register: create user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.tokens.Generate(created.ID)
	if err != nil {
		log.Printf("register: generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.dispatchCode(created.Email, code)
	respond.JSON(w, http.StatusCreated, dto.TokenResponse{Token: token, User: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("login: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusBadRequest, "Incorrect password")
		return
	}
	if !user.Verified {
		respond.Error(w, http.StatusForbidden, "User not verified")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		log.Printf("login: generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{Token: token, User: user})
}

func (h *AuthHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respond.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.Code == nil {
		respond.Error(w, http.StatusBadRequest, "Verification code is required")
		return
	}
	code, ok := parseCode(req.Code)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid verification code")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("verify: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	// Verified is a one-way transition. Once flipped, stale codes are neither
	// re-checked nor re-expired.
	if user.Verified {
		respond.Message(w, http.StatusOK, "User already verified")
		return
	}

	// A wrong code reports as invalid even when the window has also elapsed.
	if code != user.VerifyCode {
		respond.Error(w, http.StatusBadRequest, "Invalid verification code")
		return
	}
	if auth.CodeExpired(user.UpdatedAt, time.Now()) {
		respond.Error(w, http.StatusGone, "Verification code expired")
		return
	}

	if err := h.users.MarkVerified(r.Context(), user.ID); err != nil {
		log.Printf("verify: mark verified: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}
	respond.Message(w, http.StatusOK, "User verified successfully")
}

func (h *AuthHandler) handleResendCode(w http.ResponseWriter, r *http.Request) {
	var req dto.ResendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respond.Error(w, http.StatusBadRequest, "Email is required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("resend code: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to resend code")
		return
	}

	// A still-valid code is re-sent as is; an expired one is replaced before
	// sending so the mail always carries an acceptable code.
	if !auth.CodeExpired(user.UpdatedAt, time.Now()) {
		h.dispatchCode(user.Email, user.VerifyCode)
		respond.Message(w, http.StatusOK, "Code resent")
		return
	}

	newCode := auth.GenerateVerificationCode()
	if err := h.users.SetVerifyCode(r.Context(), user.ID, newCode, time.Now()); err != nil {
		log.Printf("resend code: store new code: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to resend code")
		return
	}
	h.dispatchCode(user.Email, newCode)
	respond.Message(w, http.StatusOK, "New code sent")
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		respond.Error(w, http.StatusBadRequest, "New Password is required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("change password: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if auth.CheckPassword(req.NewPassword, user.PasswordHash) {
		respond.Error(w, http.StatusBadRequest, "New password cannot be the same as the old password")
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("change password: hash password: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := h.users.SetPassword(r.Context(), user.ID, passwordHash); err != nil {
		log.Printf("change password: store digest: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	respond.Message(w, http.StatusOK, "Password updated successfully")
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("me: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Getting user failed")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusBadRequest, "User ID is required")
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.CurrencyID) == "" {
		respond.Error(w, http.StatusBadRequest, "Currency ID is required")
		return
	}
	currencyID, err := uuid.Parse(req.CurrencyID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid currency ID")
		return
	}

	user, err := h.users.SetCurrency(r.Context(), userID, currencyID)
	if err != nil {
		log.Printf("update user: set currency: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// handleLogout is a client-side affair: tokens are stateless, so the server
// has nothing to revoke.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusOK, "Logged out successfully")
}

// parseCode accepts the verification code as a JSON number or a quoted
// numeric string.
func parseCode(v any) (int, bool) {
	switch c := v.(type) {
	case float64:
		return int(c), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(c))
		return n, err == nil
	default:
		return 0, false
	}
}

// dispatchCode sends the verification mail without coupling the caller's
// success path to delivery. Failures are logged and swallowed.
func (h *AuthHandler) dispatchCode(email string, code int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()
		if err := h.mailer.SendCode(ctx, email, code); err != nil {
			log.Printf("send verification code to %s: %v", email, err)
		}
	}()
}
