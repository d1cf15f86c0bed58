package transport

import (
	"net/http"

	"craftdash/internal/middleware"
	"craftdash/internal/oauth"
	"craftdash/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ConnectResult is the callback response body. Message carries the
// provider's error description on failure.
type ConnectResult struct {
	Provider string `json:"provider"`
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
}

// OAuthHandler runs the two-step authorization flow for one provider. The
// login step requires a session; the callback is publicly reachable but
// only persists a token when a valid session accompanies it.
type OAuthHandler struct {
	connector   *oauth.Connector
	profileRepo repository.ProfileRepository
	logger      *zap.Logger
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(connector *oauth.Connector, profileRepo repository.ProfileRepository, logger *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		connector:   connector,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// RegisterRoutes mounts /{provider}/login behind the auth middleware and
// /{provider}/callback behind the optional one.
func (h *OAuthHandler) RegisterRoutes(r chi.Router, authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) {
	r.Route("/"+h.connector.Name(), func(r chi.Router) {
		r.With(authMiddleware).Get("/login", h.Login)
		r.With(optionalAuthMiddleware).Get("/callback", h.Callback)
	})
}

// Login redirects the browser to the provider's authorization page. No
// local state is created.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.connector.AuthorizeURL(), http.StatusFound)
}

// Callback receives the authorization code, exchanges it for an access
// token and writes the token onto the session user's profile. Every
// failure mode, missing code, provider rejection, transport fault, missing
// session, produces a failure result; nothing is persisted on failure.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := h.connector.Name()

	code := r.URL.Query().Get("code")
	token, err := h.connector.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("OAuth exchange failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.respondFailure(w, provider, err)
		return
	}

	userID, ok := authenticatedUserID(r)
	if !ok {
		h.logger.Warn("OAuth callback without session", zap.String("provider", provider))
		middleware.RespondWithJSON(w, http.StatusUnauthorized, ConnectResult{
			Provider: provider,
			Success:  false,
			Message:  "no active session; sign in before connecting an account",
		})
		return
	}

	if err := h.profileRepo.SaveToken(r.Context(), userID, h.connector.Slot(), token); err != nil {
		h.logger.Error("Failed to persist access token",
			zap.String("provider", provider),
			zap.Error(err),
		)
		middleware.RespondWithJSON(w, http.StatusInternalServerError, ConnectResult{
			Provider: provider,
			Success:  false,
			Message:  "failed to store access token",
		})
		return
	}

	h.logger.Info("Integration connected",
		zap.String("provider", provider),
		zap.String("user_id", userID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusOK, ConnectResult{
		Provider: provider,
		Success:  true,
	})
}

func (h *OAuthHandler) respondFailure(w http.ResponseWriter, provider string, err error) {
	if err == oauth.ErrNoCode {
		middleware.RespondWithJSON(w, http.StatusBadRequest, ConnectResult{
			Provider: provider,
			Success:  false,
			Message:  "authorization code not provided",
		})
		return
	}

	message := "unknown error occurred"
	if exchangeErr, ok := err.(*oauth.ExchangeError); ok {
		message = exchangeErr.Message
	}
	middleware.RespondWithJSON(w, http.StatusBadGateway, ConnectResult{
		Provider: provider,
		Success:  false,
		Message:  message,
	})
}
