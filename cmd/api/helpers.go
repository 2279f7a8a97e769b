package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"agrihub/internal/checkout"
	"agrihub/internal/models"
	"agrihub/internal/reviews"
)

// Error kinds surfaced to clients alongside the message.
const (
	kindNotFound     = "not_found"
	kindUnauthorized = "unauthorized"
	kindForbidden    = "forbidden"
	kindValidation   = "validation"
	kindConflict     = "conflict"
	kindInternal     = "internal"
)

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.errorLog.Println("writing response:", err)
	}
}

func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		app.errorResponse(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return false
	}
	return true
}

func (app *application) errorResponse(w http.ResponseWriter, status int, kind, message string) {
	app.writeJSON(w, status, map[string]errorPayload{
		"error": {Kind: kind, Message: message},
	})
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	app.errorLog.Output(2, fmt.Sprintf("%s\n%s", err, debug.Stack()))
	app.errorResponse(w, http.StatusInternalServerError, kindInternal, "internal server error")
}

func (app *application) notFound(w http.ResponseWriter, message string) {
	app.errorResponse(w, http.StatusNotFound, kindNotFound, message)
}

func (app *application) forbidden(w http.ResponseWriter, message string) {
	app.errorResponse(w, http.StatusForbidden, kindForbidden, message)
}

// storeError maps a data-layer error onto the client taxonomy, falling back
// to a 500.
func (app *application) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNoRecord):
		app.notFound(w, "record not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		app.errorResponse(w, http.StatusUnauthorized, kindUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrDuplicateEmail):
		app.errorResponse(w, http.StatusBadRequest, kindConflict, "email already registered")
	case errors.Is(err, models.ErrDuplicateReview):
		app.errorResponse(w, http.StatusBadRequest, kindConflict, "already reviewed")
	case errors.Is(err, models.ErrInsufficientStock):
		app.errorResponse(w, http.StatusBadRequest, kindConflict, err.Error())
	default:
		app.serverError(w, err)
	}
}

// checkoutError maps an order placement failure. Every validation-stage
// failure is a 400 so clients can tell a bad request from a lost race.
func (app *application) checkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrProductUnavailable):
		app.errorResponse(w, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, checkout.ErrProductNotFound):
		app.errorResponse(w, http.StatusBadRequest, kindNotFound, err.Error())
	case errors.Is(err, models.ErrInsufficientStock):
		app.errorResponse(w, http.StatusBadRequest, kindConflict, err.Error())
	default:
		app.serverError(w, err)
	}
}

// reviewError maps a review submission failure onto the client taxonomy.
func (app *application) reviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviews.ErrOrderNotOwned):
		app.forbidden(w, "invalid order")
	case errors.Is(err, reviews.ErrInvalidRating),
		errors.Is(err, reviews.ErrOrderNotDelivered),
		errors.Is(err, reviews.ErrProductNotInOrder):
		app.errorResponse(w, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, models.ErrDuplicateReview):
		app.errorResponse(w, http.StatusBadRequest, kindConflict, "already reviewed")
	default:
		app.serverError(w, err)
	}
}

// userContact is the slimmed-down user shape attached to products, orders
// and reviews.
type userContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func contact(u *models.User) *userContact {
	if u == nil {
		return nil
	}
	return &userContact{ID: u.ID.Hex(), Name: u.Name, Phone: u.Phone}
}
