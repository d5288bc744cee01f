package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/brightdesk/portal/internal/rbac"

	"golang.org/x/crypto/bcrypt"
)

// LoginHandler checks credentials against the users table and issues
// a JWT. An ADMIN_USER/ADMIN_PASS_HASH pair from the environment works
// even before any user rows exist, so a fresh install can log in.
func LoginHandler(a *AuthService, db *sql.DB, adminUser, adminPassHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		sub, role, ok := "", "", false
		if req.Username == adminUser && adminPassHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(adminPassHash), []byte(req.Password)) == nil {
				sub, role, ok = adminUser, "admin", true
			}
		}
		if !ok {
			var id, hash, dbRole string
			err := db.QueryRowContext(r.Context(),
				`SELECT id, password_hash, role FROM users WHERE username=$1`,
				req.Username).Scan(&id, &hash, &dbRole)
			switch {
			case errors.Is(err, sql.ErrNoRows):
			case err != nil:
				http.Error(w, "login unavailable", http.StatusInternalServerError)
				return
			default:
				if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) == nil {
					sub, role, ok = id, dbRole, true
				}
			}
		}
		if !ok {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(sub, role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// JWTMiddleware validates the bearer token and puts the subject and
// role into the request context for RBAC checks downstream.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil || claims == nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := rbac.WithSubject(r.Context(), claims.Sub)
			ctx = rbac.WithRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
