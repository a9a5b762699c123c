package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/jyothri/mailclean/constants"
	"github.com/jyothri/mailclean/mailbox"
	"github.com/jyothri/mailclean/session"
)

const userInfoUrl = "https://www.googleapis.com/oauth2/v2/userinfo"

var oauthConfig *oauth2.Config

// buildOauthConfig reads the oauth flags. Called from Server, after flag
// parsing.
func buildOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     constants.OauthClientId,
		ClientSecret: constants.OauthClientSecret,
		RedirectURL:  constants.OauthRedirectUrl,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			gmail.MailGoogleComScope,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
	}
}

func oauth(r *mux.Router) {
	// OAuth routes with smaller body limit (16 KB)
	oauthRouter := r.PathPrefix("/api/auth").Subrouter()
	oauthRouter.Use(RequestSizeLimitMiddleware(OAuthCallbackMaxBodySize))
	oauthRouter.HandleFunc("/login", LoginHandler).Methods("GET")
	oauthRouter.HandleFunc("/callback", CallbackHandler).Methods("GET")
	oauthRouter.HandleFunc("/user", UserHandler).Methods("GET")
	oauthRouter.HandleFunc("/logout", LogoutHandler).Methods("POST")
}

// LoginHandler hands the UI the Google authorization URL to send the user
// to.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if r.URL.Query().Get("forceAccountSelection") == "true" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "select_account"))
	}
	authUrl := oauthConfig.AuthCodeURL(state, opts...)
	writeJSONResponse(w, map[string]string{"authUrl": authUrl}, http.StatusOK)
}

// CallbackHandler exchanges the authorization code for tokens, looks up the
// user's profile, creates a session and bounces back to the frontend.
func CallbackHandler(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		slog.Warn("OAuth callback error", "error", errParam)
		http.Redirect(w, r, constants.FrontendUrl+"/login?error="+errParam, http.StatusFound)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No authorization code provided", http.StatusBadRequest)
		return
	}

	token, err := oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("Failed to exchange authorization code", "error", err)
		http.Redirect(w, r, constants.FrontendUrl+"/login?error=auth_failed", http.StatusFound)
		return
	}

	info, err := fetchUserInfo(r.Context(), token.AccessToken)
	if err != nil {
		slog.Error("Failed to get user info", "error", err)
		http.Redirect(w, r, constants.FrontendUrl+"/login?error=auth_failed", http.StatusFound)
		return
	}

	// The session outlives this request, so the token source and Gmail
	// client are built on a background context.
	tokenSource := oauthConfig.TokenSource(context.Background(), token)
	client, err := mailbox.NewGoogleClient(context.Background(), tokenSource)
	if err != nil {
		slog.Error("Failed to create gmail client",
			"email", info.Email,
			"error", err)
		http.Redirect(w, r, constants.FrontendUrl+"/login?error=auth_failed", http.StatusFound)
		return
	}

	sessionId := store.Create(&session.Session{
		Email:       info.Email,
		Name:        info.Name,
		Picture:     info.Picture,
		TokenSource: tokenSource,
		Client:      client,
	})
	slog.Info("Created session", "email", info.Email)

	http.Redirect(w, r, constants.FrontendUrl+"/dashboard?sessionId="+sessionId, http.StatusFound)
}

// UserHandler returns the profile behind a session handle.
func UserHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}
	writeJSONResponse(w, UserInfoResponse{
		Email:   sess.Email,
		Name:    sess.Name,
		Picture: sess.Picture,
	}, http.StatusOK)
}

// LogoutHandler drops the session. Idempotent.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	store.Remove(r.URL.Query().Get("sessionId"))
	writeJSONResponse(w, map[string]string{"message": "Logged out successfully"}, http.StatusOK)
}

type UserInfoResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type userInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchUserInfo(ctx context.Context, accessToken string) (userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoUrl, nil)
	if err != nil {
		return userInfo{}, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return userInfo{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return userInfo{}, fmt.Errorf("userinfo returned status %d", res.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return userInfo{}, fmt.Errorf("failed to parse userinfo response: %w", err)
	}
	return info, nil
}
