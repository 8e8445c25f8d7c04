package httpserver

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ironquill/assesspoint/internal/config"
)

// SessionManager issues and validates the admin's HS256 bearer token. Admin
// auth is a single shared username/password pair from config, not a user
// table — there is no AdminRepository in this system.
type SessionManager struct {
	secret []byte
	cfg    config.Config
}

// NewSessionManager constructs a SessionManager from config.
func NewSessionManager(cfg config.Config) *SessionManager {
	return &SessionManager{secret: []byte(cfg.AdminSessionSecret), cfg: cfg}
}

// GenerateJWT issues a compact HS256 JWT for the admin subject.
func (sm *SessionManager) GenerateJWT(username string, ttl time.Duration) (string, error) {
	if username == "" || ttl <= 0 {
		return "", fmt.Errorf("invalid params")
	}
	now := time.Now().Unix()
	exp := time.Now().Add(ttl).Unix()

	header := map[string]any{"alg": "HS256", "typ": "JWT"}
	claims := map[string]any{"sub": username, "iat": now, "exp": exp, "iss": "assesspoint"}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	unsigned := enc.EncodeToString(headerJSON) + "." + enc.EncodeToString(claimsJSON)
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(unsigned))
	return unsigned + "." + enc.EncodeToString(mac.Sum(nil)), nil
}

// ValidateJWT validates an HS256 JWT and returns its subject.
func (sm *SessionManager) ValidateJWT(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token")
	}
	enc := base64.RawURLEncoding
	unsigned := parts[0] + "." + parts[1]

	sigBytes, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("bad signature encoding")
	}
	mac := hmac.New(sha256.New, sm.secret)
	mac.Write([]byte(unsigned))
	if !hmac.Equal(mac.Sum(nil), sigBytes) {
		return "", fmt.Errorf("invalid signature")
	}

	claimsJSON, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("bad claims encoding")
	}
	var claims map[string]any
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return "", fmt.Errorf("bad claims")
	}
	expVal, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(expVal) {
		return "", fmt.Errorf("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("no sub")
	}
	return sub, nil
}

// VerifyAdminCredentials constant-time compares against the configured
// single admin account.
func (sm *SessionManager) VerifyAdminCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(sm.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(sm.cfg.AdminPassword)) == 1
	return userOK && passOK
}

// GenerateCSRFCookieValue creates a random URL-safe token; unused while the
// admin surface is bearer-token-only, kept for parity with a future
// cookie-based admin UI.
func GenerateCSRFCookieValue() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// AdminAPIGuard protects the admin API surface. When admin credentials
// aren't configured, the guard is a no-op (matches config.AdminEnabled's
// all-or-nothing semantics).
func (s *Server) AdminAPIGuard() func(http.Handler) http.Handler {
	if !s.Cfg.AdminEnabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	sm := NewSessionManager(s.Cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token := strings.TrimSpace(authz[len("Bearer "):])
				if token != "" {
					if _, err := sm.ValidateJWT(token); err == nil {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}
}

// bearerToken extracts the raw Bearer token from the Authorization header,
// used for candidate session tokens ("sess_...") which the usecase layer
// (not this middleware) validates against SessionRepository.
func bearerToken(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return ""
}
