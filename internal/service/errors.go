package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrMissingFields      = errors.New("missing fields")      // 400
	ErrWeakPassword       = errors.New("weak password")       // flash + redirect
	ErrInvalidRole        = errors.New("invalid role")        // flash + redirect
	ErrInvalidCredentials = errors.New("invalid credentials") // flash + redirect
	ErrProductNotFound    = errors.New("product not found")   // 404 / flash
	ErrUnauthenticated    = errors.New("unauthenticated")     // redirect /login
	ErrForbidden          = errors.New("forbidden")           // redirect /shopping
	ErrDatabase           = errors.New("database error")      // 500

	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrEmptyCart         = errors.New("cart is empty")      // flash + redirect
	ErrInsufficientStock = errors.New("insufficient stock") // flash + redirect
)

// dbErr wraps a storage failure so callers can match ErrDatabase while the
// driver error stays reachable through errors.Is.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDatabase, err)
}

// notFoundOr maps gorm.ErrRecordNotFound to notFound and wraps everything else as a database error.
func notFoundOr(op string, err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	return dbErr(op, err)
}
