package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment method enum constants. Unrecognized methods are stored as-is
// but produce no checkmark on the rendered document.
const (
	PaymentCash     = "cash"
	PaymentCDM      = "cdm"
	PaymentRHBBank  = "rhbbank"
	PaymentAmBank   = "ambank"
	PaymentTouchNGo = "touchngo"
	PaymentMaybank  = "maybank"
)

// ReceiptIDLength is the fixed width of the zero-padded receipt identifier.
const ReceiptIDLength = 10

// Receipt represents a single donation record plus its generated document.
// The identifier is the human-facing audit number printed on the document,
// so it is the primary key rather than a surrogate id.
type Receipt struct {
	ReceiptID        string          `gorm:"type:char(10);primaryKey" json:"receipt_id"`
	ReceivedFrom     string          `gorm:"type:varchar(255);not null" json:"received_from"`
	ContactNumber    string          `gorm:"type:varchar(50)" json:"contact_number"`
	SumRinggit       string          `gorm:"type:varchar(255);not null" json:"sum_ringgit"` // amount in words, kept as given
	RM               decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"rm"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null" json:"payment_method"`
	ReceiptFile      string          `gorm:"type:varchar(512)" json:"receipt_file"` // proof of payment, non-cash only
	GeneratedReceipt string          `gorm:"type:varchar(512);not null" json:"generated_receipt"`
	AddedBy          string          `gorm:"type:varchar(64)" json:"added_by"` // opaque actor identifier
	Remarks          string          `gorm:"type:text" json:"remarks"`
	CollectedBy      string          `gorm:"type:varchar(255)" json:"collected_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `gorm:"index" json:"updated_at"`
}

func (Receipt) TableName() string { return "receipts" }

// DeletedReceipt is a soft-deleted receipt. Same columns as Receipt; a
// receipt row lives in exactly one of the two tables at any time.
type DeletedReceipt struct {
	Receipt `gorm:"embedded"`
}

func (DeletedReceipt) TableName() string { return "deleted_receipts" }

// ReceiptSequence is the single-row counter holding the highest receipt
// identifier ever issued. It is advanced atomically inside the same
// transaction that persists the receipt using it.
type ReceiptSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LastID    int64     `gorm:"column:last_id;not null;default:0" json:"last_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReceiptSequence) TableName() string { return "last_receipt_id" }
