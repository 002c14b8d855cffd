package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// ReceiptRepository is CRUD over the two record sets implementing soft
// delete: receipts (active) and deleted_receipts. The Move operations
// copy a full row between the sets and remove the source atomically.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	FindByID(ctx context.Context, id string) (*model.Receipt, error)
	FindDeletedByID(ctx context.Context, id string) (*model.DeletedReceipt, error)
	Update(ctx context.Context, receipt *model.Receipt) error
	ExistsActive(ctx context.Context, id string) (bool, error)
	ListActive(ctx context.Context, page, limit int) ([]model.Receipt, int64, error)
	ListDeleted(ctx context.Context, page, limit int) ([]model.DeletedReceipt, int64, error)
	MoveToDeleted(ctx context.Context, id string) (*model.DeletedReceipt, error)
	MoveToActive(ctx context.Context, deletedID, newID, generatedPath string) (*model.Receipt, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id string) (*model.Receipt, error) {
	var receipt model.Receipt
	if err := GetDB(ctx, r.db).First(&receipt, "receipt_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindDeletedByID(ctx context.Context, id string) (*model.DeletedReceipt, error) {
	var receipt model.DeletedReceipt
	if err := GetDB(ctx, r.db).First(&receipt, "receipt_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) Update(ctx context.Context, receipt *model.Receipt) error {
	return GetDB(ctx, r.db).Save(receipt).Error
}

func (r *receiptRepository) ExistsActive(ctx context.Context, id string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Receipt{}).Where("receipt_id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *receiptRepository) ListActive(ctx context.Context, page, limit int) ([]model.Receipt, int64, error) {
	var receipts []model.Receipt
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Receipt{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("updated_at desc").Offset(offset).Limit(limit).Find(&receipts).Error; err != nil {
		return nil, 0, err
	}
	return receipts, total, nil
}

func (r *receiptRepository) ListDeleted(ctx context.Context, page, limit int) ([]model.DeletedReceipt, int64, error) {
	var receipts []model.DeletedReceipt
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.DeletedReceipt{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("updated_at desc").Offset(offset).Limit(limit).Find(&receipts).Error; err != nil {
		return nil, 0, err
	}
	return receipts, total, nil
}

// MoveToDeleted copies the active row into deleted_receipts, all fields
// preserved (including the generated document path), then removes it
// from the active set. Runs in its own transaction so the row can never
// appear in both sets or in neither.
func (r *receiptRepository) MoveToDeleted(ctx context.Context, id string) (*model.DeletedReceipt, error) {
	var moved model.DeletedReceipt
	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var receipt model.Receipt
		if err := tx.First(&receipt, "receipt_id = ?", id).Error; err != nil {
			return err
		}
		moved = model.DeletedReceipt{Receipt: receipt}
		if err := tx.Create(&moved).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Receipt{}, "receipt_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// MoveToActive is the inverse of MoveToDeleted. newID lets the caller
// substitute a freshly allocated identifier when the original is already
// occupied; generatedPath, when non-empty, replaces the stored document
// path (the backing file is renamed by the caller before the move).
func (r *receiptRepository) MoveToActive(ctx context.Context, deletedID, newID, generatedPath string) (*model.Receipt, error) {
	var restored model.Receipt
	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var deleted model.DeletedReceipt
		if err := tx.First(&deleted, "receipt_id = ?", deletedID).Error; err != nil {
			return err
		}
		restored = deleted.Receipt
		restored.ReceiptID = newID
		if generatedPath != "" {
			restored.GeneratedReceipt = generatedPath
		}
		if err := tx.Create(&restored).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DeletedReceipt{}, "receipt_id = ?", deletedID).Error
	})
	if err != nil {
		return nil, err
	}
	return &restored, nil
}
