// Package repository wraps gorm access for every persisted entity. Lookups
// report a missing row as ErrNotFound so callers can tell "absent" from
// "store unavailable"; any other failure is returned wrapped.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the addressed row does not exist, or when a
// write references a parent row that does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a unique constraint.
var ErrConflict = errors.New("conflict")

// translate maps gorm sentinels onto the repository ones. The gorm handle must
// be opened with TranslateError so driver errors arrive as gorm sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrConflict, err)
	}
	return err
}
