package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"

	"coursereg/config"
)

// State is the admin session state machine. Anonymous sessions see
// only the public form and the login page. AuthenticatedDefault is
// the bootstrap identity before rotation; under the strict gate it
// may only rotate credentials or log out.
type State int

const (
	Anonymous State = iota
	AuthenticatedDefault
	AuthenticatedCustom
)

var Store *sessions.CookieStore

func InitStore() {
	// Derive two 32-byte keys from the session key to ensure secure encryption
	// Auth key for signing (HMAC)
	authKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "auth"))
	// Encryption key for content encryption (AES)
	encKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "encryption"))

	Store = sessions.NewCookieStore(authKey[:], encKey[:])

	// Ensure cookie security settings
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   config.AppConfig.ListenPort != 8080, // Default to true unless dev port
		SameSite: http.SameSiteLaxMode,
	}
}

const SessionName = "coursereg-session"

// StateOf returns the session state carried by the request's cookie.
func StateOf(r *http.Request) State {
	session, _ := Store.Get(r, SessionName)
	username, ok := session.Values["admin"].(string)
	if !ok || username == "" {
		return Anonymous
	}
	if isDefault, ok := session.Values["default"].(bool); ok && isDefault {
		return AuthenticatedDefault
	}
	return AuthenticatedCustom
}

// Username returns the logged-in admin username, or "" for anonymous
// sessions.
func Username(r *http.Request) string {
	session, _ := Store.Get(r, SessionName)
	if username, ok := session.Values["admin"].(string); ok {
		return username
	}
	return ""
}

func SetSession(w http.ResponseWriter, r *http.Request, username string, isDefault bool) {
	session, _ := Store.Get(r, SessionName)
	session.Values["admin"] = username
	session.Values["default"] = isDefault
	session.Save(r, w)
}

func ClearSession(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, SessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
}
