// Package auth implements Google sign-in and the session cookie lifecycle.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// TrialReporter reports the caller's trial window for /me.
type TrialReporter interface {
	TrialStatus(ctx context.Context, userID string, accountCreatedAt time.Time) (TrialStatus, error)
}

// TrialStatus is the trial summary shown on /me.
type TrialStatus struct {
	SubscriptionStatus string     `json:"subscriptionStatus"`
	TrialEndsAt        *time.Time `json:"trialEndsAt"`
	DaysLeft           int        `json:"daysLeft"`
}

// Options configures Handler.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AppURL       string
	AdminEmails  []string
	SecureCookie bool
}

// Handler serves the Google OAuth flow, logout and /me.
type Handler struct {
	oauthConfig  *oauth2.Config
	userInfoURL  string
	appURL       string
	admins       map[string]bool
	secureCookie bool
	stateTTL     time.Duration
	states       StateStore
	sessions     *sharedauth.Sessions
	users        *users.Service
	trials       TrialReporter
}

// NewHandler builds a Handler. trials may be nil.
func NewHandler(opts Options, states StateStore, sessions *sharedauth.Sessions, userSvc *users.Service, trials TrialReporter) *Handler {
	admins := make(map[string]bool, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &Handler{
		oauthConfig: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL:  defaultUserInfoURL,
		appURL:       strings.TrimRight(opts.AppURL, "/"),
		admins:       admins,
		secureCookie: opts.SecureCookie,
		stateTTL:     5 * time.Minute,
		states:       states,
		sessions:     sessions,
		users:        userSvc,
		trials:       trials,
	}
}

// RegisterRoutes attaches auth routes. The Google routes must be listed as public in the
// auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", h.start)
	rg.GET("/auth/google/callback", h.callback)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/me", h.me)
}

func (h *Handler) configured() bool {
	return h.oauthConfig.ClientID != "" && h.oauthConfig.ClientSecret != "" && h.oauthConfig.RedirectURL != ""
}

func (h *Handler) start(c *gin.Context) {
	if !h.configured() {
		respond.Error(c, http.StatusInternalServerError, "configuration_error", "Google auth not configured")
		return
	}
	state := uuid.NewString()
	if err := h.states.Put(c.Request.Context(), state, h.stateTTL); err != nil {
		telemetry.Error("auth.state.put_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to start sign-in")
		return
	}
	c.Redirect(http.StatusFound, h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

func (h *Handler) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "missing state or code")
		return
	}

	ctx := c.Request.Context()
	ok, err := h.states.Consume(ctx, state)
	if err != nil {
		telemetry.Error("auth.state.consume_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to verify sign-in")
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid or expired state")
		return
	}

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to exchange code")
		return
	}
	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		telemetry.Warn("auth.userinfo_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "upstream_error", "failed to fetch user profile")
		return
	}
	if info.Email == "" {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "identity provider returned no email")
		return
	}

	user, err := h.users.UpsertFromAuth(ctx, info.Email, info.Name, info.Picture)
	if err != nil {
		telemetry.Error("auth.user_upsert_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	session, err := h.sessions.Sign(user.ID, user.Email, user.FullName, h.admins[user.Email])
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to issue session")
		return
	}
	h.setSessionCookie(c, session, int(h.sessions.TTL().Seconds()))
	telemetry.Info("auth.login", map[string]any{"user_id": user.ID})
	c.Redirect(http.StatusFound, h.appURL+"/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	response := gin.H{
		"userId":    user.ID,
		"email":     user.Email,
		"name":      user.FullName,
		"picture":   user.PictureURL,
		"isAdmin":   middleware.IsAdminFromContext(c),
		"createdAt": user.CreatedAt,
	}
	if h.trials != nil {
		trial, err := h.trials.TrialStatus(c.Request.Context(), user.ID, user.CreatedAt)
		if err != nil {
			respond.FromError(c, err)
			return
		}
		response["trial"] = trial
	}
	respond.OK(c, response)
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *Handler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// Some responses use "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))
	return info, nil
}
