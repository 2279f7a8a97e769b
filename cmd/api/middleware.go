package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrihub/internal/auth"
	"agrihub/internal/models"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the bearer token and loads the account into the
// request context.
func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			app.errorResponse(w, http.StatusUnauthorized, kindUnauthorized, "missing or malformed credentials")
			return
		}

		subject, err := app.tokens.ValidateToken(token)
		if err != nil {
			app.errorResponse(w, http.StatusUnauthorized, kindUnauthorized, err.Error())
			return
		}

		userID, err := primitive.ObjectIDFromHex(subject)
		if err != nil {
			app.errorResponse(w, http.StatusUnauthorized, kindUnauthorized, "invalid token")
			return
		}

		user, err := app.store.GetUser(r.Context(), userID)
		if err != nil {
			app.errorResponse(w, http.StatusUnauthorized, kindUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route to the listed roles. It must run after
// requireAuth.
func (app *application) requireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := app.contextUser(r)
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			app.forbidden(w, "permission denied")
		})
	}
}

// contextUser returns the authenticated account; it panics if called on a
// route that did not pass requireAuth.
func (app *application) contextUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		panic("no user in request context")
	}
	return user
}
