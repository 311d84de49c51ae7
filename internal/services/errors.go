package services

import (
	"errors"

	"github.com/ytakahashi/agenda-api/internal/datetime"
)

var (
	// ErrNotFound covers both a missing document and a document owned by
	// someone else.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmptyUpdate  = errors.New("no fields to update")

	// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit.
	ErrPasswordTooLong = errors.New("password too long")

	ErrInvalidFormat = datetime.ErrInvalidFormat
)
