package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	adminCookieName  = "houtcalc_admin"
	adminTokenHeader = "X-Admin-Token"
	adminTokenParam  = "token"
)

// adminGuard protects the price administration routes. With no token
// configured, access is only granted in development.
type adminGuard struct {
	token string
	dev   bool
}

func newAdminGuard(token string, dev bool) adminGuard {
	return adminGuard{token: token, dev: dev}
}

func (g adminGuard) enabled() bool {
	return g.token != "" || g.dev
}

func (g adminGuard) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.enabled() {
			http.Error(w, "price administration is disabled", http.StatusForbidden)
			return
		}
		if g.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if c, err := r.Cookie(adminCookieName); err == nil && g.validCookie(c.Value) {
			next.ServeHTTP(w, r)
			return
		}
		if g.validToken(r.Header.Get(adminTokenHeader)) {
			next.ServeHTTP(w, r)
			return
		}
		if g.validToken(r.URL.Query().Get(adminTokenParam)) {
			g.setCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("WWW-Authenticate", `Bearer realm="houtcalc-admin"`)
		http.Error(w, "admin token required", http.StatusUnauthorized)
	})
}

func (g adminGuard) validToken(provided string) bool {
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(g.token)) == 1
}

func (g adminGuard) cookieValue() string {
	mac := hmac.New(sha256.New, []byte(g.token))
	_, _ = mac.Write([]byte(adminCookieName))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g adminGuard) validCookie(value string) bool {
	provided, err := hex.DecodeString(value)
	if err != nil {
		return false
	}
	expected, _ := hex.DecodeString(g.cookieValue())
	return hmac.Equal(provided, expected)
}

func (g adminGuard) setCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    g.cookieValue(),
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
