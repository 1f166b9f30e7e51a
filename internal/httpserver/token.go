// internal/httpserver/token.go
//
// Discord launcher glue: client config, OAuth code exchange, and the
// signed activity token honoured by the game routes.
//
// The code exchange itself is a thin proxy with a fixed contract; when
// Discord credentials are not configured the server answers in local
// mode so the client can run outside Discord. Alongside the upstream
// access token the server mints its own HS256 activity token carrying
// the player identity, which later requests may present as a bearer.

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// discordTokenURL is a var so tests can point the exchange at a stub.
var discordTokenURL = "https://discord.com/api/oauth2/token"

// authPlayer is placed into request context by withActivityToken.
type authPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ctxPlayerKey is the context key type for storing authPlayer.
type ctxPlayerKey struct{}

// handleConfig returns the client-side launcher configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	clientID := os.Getenv("DISCORD_CLIENT_ID")
	if clientID == "" {
		clientID = "local_mode"
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"clientId": clientID})
}

// tokenReq is the payload for POST /api/token.
type tokenReq struct {
	Code       string `json:"code"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// handleToken exchanges an OAuth code for an access token and, when a
// player identity is supplied, mints an activity token for it.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	accessToken, err := exchangeCode(r.Context(), req.Code)
	if err != nil {
		log.Error().Err(err).Msg("token exchange")
		http.Error(w, `{"error":"Failed to exchange token"}`, http.StatusInternalServerError)
		return
	}

	resp := map[string]string{"access_token": accessToken}
	if req.PlayerID != "" {
		if tok, err := signActivityToken(req.PlayerID, req.PlayerName); err == nil {
			resp["activityToken"] = tok
		} else {
			log.Warn().Err(err).Msg("sign activity token")
		}
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// exchangeCode performs the upstream OAuth exchange. Without configured
// credentials it returns the local-mode token.
func exchangeCode(ctx context.Context, code string) (string, error) {
	clientID := os.Getenv("DISCORD_CLIENT_ID")
	clientSecret := os.Getenv("DISCORD_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Warn().Msg("discord credentials not configured, running in local mode")
		return "local_mode_token", nil
	}

	form := url.Values{
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, discordTokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 10 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("token exchange failed: %s", res.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

// ------------------------------ JWT ----------------------------------------

// signActivityToken creates an HS256 token with the player id/name and a
// configurable expiry (JWT_EXPIRES_DAYS; default 14).
func signActivityToken(id, name string) (string, error) {
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"name": name,
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	return t.SignedString([]byte(jwtSecret()))
}

// withActivityToken decorates requests with player identity if a valid
// bearer token is present. It never 401s; guests can always play.
func (s *Server) withActivityToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerToken(r); tok != "" {
				claims := jwt.MapClaims{}
				if t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
					return []byte(jwtSecret()), nil
				}); err == nil && t.Valid {
					if id, _ := claims["id"].(string); id != "" {
						name, _ := claims["name"].(string)
						ctx := context.WithValue(r.Context(), ctxPlayerKey{}, &authPlayer{ID: id, Name: name})
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// playerIdentity resolves the effective player id/name for a request:
// a valid activity token wins over body/query values.
func (s *Server) playerIdentity(r *http.Request, bodyID, bodyName string) (string, string) {
	if p, _ := r.Context().Value(ctxPlayerKey{}).(*authPlayer); p != nil {
		name := p.Name
		if name == "" {
			name = bodyName
		}
		return p.ID, name
	}
	return bodyID, bodyName
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// jwtSecret returns the signing secret, with a dev fallback.
func jwtSecret() string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	return "dev_secret_change_me"
}
