package repository

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

// ErrSequenceMissing is returned when the counter row does not exist.
// No receipt may be created without a valid identifier.
var ErrSequenceMissing = errors.New("receipt sequence row not found")

const sequenceRowID = 1

// SequenceRepository issues unique, monotonically increasing receipt
// identifiers backed by the single-row last_receipt_id table.
//
// Next must be called inside a transaction (see TransactionManager): the
// UPDATE takes a row lock, so concurrent allocators serialize on it and
// a rollback returns the unissued value to the pool.
type SequenceRepository interface {
	Next(ctx context.Context) (string, error)
	Last(ctx context.Context) (int64, error)
	Seed(ctx context.Context) error
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next atomically increments the counter and returns the new value as a
// 10-digit zero-padded decimal string.
func (r *sequenceRepository) Next(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)

	res := db.Model(&model.ReceiptSequence{}).
		Where("id = ?", sequenceRowID).
		UpdateColumn("last_id", gorm.Expr("last_id + ?", 1))
	if res.Error != nil {
		return "", fmt.Errorf("advancing receipt sequence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrSequenceMissing
	}

	var seq model.ReceiptSequence
	if err := db.First(&seq, "id = ?", sequenceRowID).Error; err != nil {
		return "", fmt.Errorf("reading receipt sequence: %w", err)
	}

	return FormatReceiptID(seq.LastID), nil
}

// Last returns the highest identifier value issued so far.
func (r *sequenceRepository) Last(ctx context.Context) (int64, error) {
	var seq model.ReceiptSequence
	if err := GetDB(ctx, r.db).First(&seq, "id = ?", sequenceRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSequenceMissing
		}
		return 0, err
	}
	return seq.LastID, nil
}

// Seed creates the counter row if it does not exist yet. Called once at
// startup; a counter that already exists is left untouched.
func (r *sequenceRepository) Seed(ctx context.Context) error {
	var count int64
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ReceiptSequence{}).Where("id = ?", sequenceRowID).Count(&count).Error; err != nil {
		return fmt.Errorf("checking receipt sequence: %w", err)
	}
	if count > 0 {
		return nil
	}
	return db.Create(&model.ReceiptSequence{ID: sequenceRowID, LastID: 0}).Error
}

// FormatReceiptID renders a counter value as the fixed-width identifier
// printed on the document, e.g. 42 becomes "0000000042".
func FormatReceiptID(n int64) string {
	return fmt.Sprintf("%0*d", model.ReceiptIDLength, n)
}
