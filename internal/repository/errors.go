package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm/driver errors to the repository sentinels. Unique
// constraint violations are the single source of truth for duplicate
// detection; callers never pre-check before insert.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateMessage(err) {
		return ErrDuplicate
	}
	return err
}

// isDuplicateMessage covers drivers that predate gorm error translation:
// sqlite reports "UNIQUE constraint failed", postgres "duplicate key value".
func isDuplicateMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
