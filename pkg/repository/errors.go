package repository

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// MapError translates a lookup miss into notFoundErr. gorm.ErrRecordNotFound
// and sql.ErrNoRows both count as a miss; other errors are returned unchanged.
func MapError(err error, notFoundErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	return err
}
