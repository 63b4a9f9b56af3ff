package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"github.com/vncsmyrnk/rabbitfarm/internal/metrics"
	"go.uber.org/zap"
)

// PageRenderer renders a named HTML template with string values.
type PageRenderer interface {
	Render(name string, data map[string]string) (string, error)
	Fallback() string
}

type AuthHandler struct {
	authService ports.AuthService
	pages       PageRenderer
	appName     string
	logger      *zap.Logger
}

func NewAuthHandler(authService ports.AuthService, pages PageRenderer, appName string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		pages:       pages,
		appName:     appName,
		logger:      logger,
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

// Register godoc
// @Summary      Registers a new user
// @Description  Creates an unverified account and mails a verification link
// @Tags         auth
// @Accept       json
// @Success      201
// @Failure      400
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input ports.RegisterInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		metrics.RecordAuthEvent("register", "failure")
		writeError(w, h.logger, err)
		return
	}

	metrics.RecordAuthEvent("register", "success")
	writeData(w, http.StatusCreated, "Registration successful. Please check your email to verify your account", user)
}

// Login godoc
// @Summary      Logs a user in with email and password
// @Tags         auth
// @Accept       json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input ports.LoginInput
	if err := decodeJSON(w, r, &input, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		metrics.RecordAuthEvent("login", "failure")
		writeError(w, h.logger, err)
		return
	}

	metrics.RecordAuthEvent("login", "success")
	writeData(w, http.StatusOK, loginMessage(result), result)
}

func (h *AuthHandler) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.authService.LoginWithGoogle(r.Context(), req.Credential)
	if err != nil {
		metrics.RecordAuthEvent("google_login", "failure")
		writeError(w, h.logger, err)
		return
	}

	metrics.RecordAuthEvent("google_login", "success")
	writeData(w, http.StatusOK, loginMessage(result), result)
}

// Logout godoc
// @Summary      Logs the authenticated user out
// @Description  Revokes the session behind the bearer token
// @Tags         auth
// @Success      200
// @Failure      401
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), sessionTokenFrom(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", user)
}

// VerifyEmail answers with an HTML page since the link is opened from a mail client.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		status := http.StatusBadRequest
		message := domain.ErrInvalidVerifyToken.Message
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("email verification failed", zap.Error(err))
			status = http.StatusInternalServerError
			message = "Something went wrong while verifying your email"
		}
		h.writePage(w, status, "verify-error", map[string]string{
			"errorMessage": message,
			"appName":      h.appName,
		})
		return
	}

	metrics.RecordAuthEvent("verify_email", "success")
	h.writePage(w, http.StatusOK, "verify-success", map[string]string{
		"message":  "Your email address has been verified",
		"userName": user.Name,
		"appName":  h.appName,
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.authService.ResendVerificationEmail(r.Context(), req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "If the account exists and is not yet verified, a verification email has been sent")
}

func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.ValidateResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]bool{"valid": true})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	metrics.RecordAuthEvent("forgot_password", "success")
	writeMessage(w, http.StatusOK, "If an account exists for this email, a password reset link has been sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, h.logger, err)
		return
	}

	input := ports.ResetPasswordInput{
		Token:    chi.URLParam(r, "token"),
		Password: req.Password,
	}
	if err := h.authService.ResetPassword(r.Context(), input); err != nil {
		metrics.RecordAuthEvent("reset_password", "failure")
		writeError(w, h.logger, err)
		return
	}

	metrics.RecordAuthEvent("reset_password", "success")
	writeMessage(w, http.StatusOK, "Password has been reset successfully")
}

func (h *AuthHandler) writePage(w http.ResponseWriter, status int, name string, data map[string]string) {
	page, err := h.pages.Render(name, data)
	if err != nil {
		h.logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
		page = h.pages.Fallback()
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func loginMessage(result *ports.LoginResult) string {
	if result.RequiresEmailVerification {
		return "Login successful. Please verify your email address"
	}
	return "Login successful"
}
