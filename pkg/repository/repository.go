// Package repository provides transaction management and error mapping
// over gorm sessions.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTx executes fn within a database transaction bound to ctx.
// It commits when fn succeeds and rolls back when fn returns an error or panics.
func WithTx[T any](ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) (T, error)) (result T, err error) {
	var zero T

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	result, err = fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit().Error; err != nil {
		return zero, fmt.Errorf("commit transaction: %w", err)
	}
	committed = true

	return result, nil
}

// ExpectAffected returns notFound when res succeeded but touched no rows.
func ExpectAffected(res *gorm.DB, notFound error) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
