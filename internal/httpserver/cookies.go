// internal/httpserver/cookies.go
//
// Browser identity for players and game creators.
// Responsibilities:
//   - Mint and read the opaque per-browser player ID, carried in a signed
//     JWT cookie so it cannot be forged client-side.
//   - Issue a per-game creator cookie when a game is created; only its
//     holder may start the game or spin up a rematch.
//
// This is identity, not authentication: the ID says "same browser", nothing
// more.

package httpserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	playerCookieName = "player_id"
	creatorCookieTag = "creator_"
	cookieAge        = 2 * time.Hour
)

// playerID returns the browser's player ID, minting and setting a fresh one
// when the cookie is missing or fails verification. The cookie is refreshed
// on every call so active players never expire mid-game.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if c, err := r.Cookie(playerCookieName); err == nil {
		id = s.verifySubject(c.Value)
	}
	if id == "" {
		id = uuid.NewString()
	}
	s.setSignedCookie(w, playerCookieName, id)
	return id
}

// setCreatorCookie marks this browser as the creator of code.
func (s *Server) setCreatorCookie(w http.ResponseWriter, code string) {
	s.setSignedCookie(w, creatorCookieTag+code, code)
}

// isCreator reports whether the request carries a valid creator cookie for
// code. The cookie is kept after start so the creator can still trigger a
// rematch once the game finishes.
func (s *Server) isCreator(r *http.Request, code string) bool {
	c, err := r.Cookie(creatorCookieTag + code)
	if err != nil {
		return false
	}
	return s.verifySubject(c.Value) == code
}

func (s *Server) setSignedCookie(w http.ResponseWriter, name, subject string) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cookieAge)),
	})
	signed, err := token.SignedString([]byte(s.cfg.CookieSecret))
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(cookieAge),
	})
}

// verifySubject parses a signed cookie value and returns its subject, or ""
// when the token is missing, expired or tampered with.
func (s *Server) verifySubject(value string) string {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.CookieSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}
