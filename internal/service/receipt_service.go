package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/internal/compositor"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateReceiptRequest struct {
	ReceivedFrom  string `form:"received_from" binding:"required"`
	ContactNumber string `form:"contact_number"`
	SumRinggit    string `form:"sum_ringgit" binding:"required"`
	RM            string `form:"rm" binding:"required"`
	PaymentMethod string `form:"payment_method" binding:"required"`
	Remarks       string `form:"remarks"`
	CollectedBy   string `form:"collected_by"`
	AddedBy       string `form:"added_by"`
	ProofFile     string `form:"-"` // storage path from the upload collaborator, opaque here
}

type UpdateReceiptRequest struct {
	ReceivedFrom  string `form:"received_from" binding:"required"`
	ContactNumber string `form:"contact_number"`
	SumRinggit    string `form:"sum_ringgit" binding:"required"`
	RM            string `form:"rm" binding:"required"`
	PaymentMethod string `form:"payment_method" binding:"required"`
	Remarks       string `form:"remarks"`
	CollectedBy   string `form:"collected_by"`
	ProofFile     string `form:"-"`
}

type ReceiptResponse struct {
	ReceiptID        string `json:"receipt_id"`
	ReceivedFrom     string `json:"received_from"`
	ContactNumber    string `json:"contact_number"`
	SumRinggit       string `json:"sum_ringgit"`
	RM               string `json:"rm"`
	PaymentMethod    string `json:"payment_method"`
	ReceiptFile      string `json:"receipt_file,omitempty"`
	GeneratedReceipt string `json:"generated_receipt"`
	AddedBy          string `json:"added_by"`
	Remarks          string `json:"remarks"`
	CollectedBy      string `json:"collected_by"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// --- Collaborator contracts ---

// DocumentRenderer produces the receipt document image.
type DocumentRenderer interface {
	Render(f compositor.Fields) ([]byte, error)
}

// Notifier is the mail dispatch collaborator. Send is synchronous; the
// service decouples it from request handling with a goroutine.
type Notifier interface {
	Send(to, subject, body, attachmentName string, attachment []byte) error
}

// EventPublisher pushes lifecycle events to connected dashboard clients.
type EventPublisher interface {
	Publish(event, receiptID string)
}

// --- Interface ---

type ReceiptService interface {
	CreateReceipt(ctx context.Context, req CreateReceiptRequest) (ReceiptResponse, error)
	UpdateReceipt(ctx context.Context, id string, req UpdateReceiptRequest) (ReceiptResponse, error)
	DeleteReceipt(ctx context.Context, id string) error
	RestoreReceipt(ctx context.Context, id string) (ReceiptResponse, error)
	GetReceipt(ctx context.Context, id string) (ReceiptResponse, error)
	ListReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error)
	ListDeletedReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error)
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	seqRepo     repository.SequenceRepository
	txManager   repository.TransactionManager
	renderer    DocumentRenderer
	store       storage.Storage
	notifier    Notifier
	events      EventPublisher
	adminEmail  string
}

func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	seqRepo repository.SequenceRepository,
	txManager repository.TransactionManager,
	renderer DocumentRenderer,
	store storage.Storage,
	notifier Notifier,
	events EventPublisher,
	adminEmail string,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		seqRepo:     seqRepo,
		txManager:   txManager,
		renderer:    renderer,
		store:       store,
		notifier:    notifier,
		events:      events,
		adminEmail:  adminEmail,
	}
}

// --- Implementation ---

// CreateReceipt allocates the next identifier, renders the document and
// persists the row as one transaction. A failure at any step rolls the
// counter back, so failed submissions spend no identifier.
func (s *receiptService) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (ReceiptResponse, error) {
	rm, err := decimal.NewFromString(req.RM)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("%w: invalid rm amount: %v", ErrValidation, err)
	}

	var created model.Receipt
	var document []byte
	var documentPath string

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		id, allocErr := s.seqRepo.Next(txCtx)
		if allocErr != nil {
			return fmt.Errorf("%w: %v", ErrAllocation, allocErr)
		}

		fields := compositor.Fields{
			ReceiptID:     id,
			ReceivedFrom:  req.ReceivedFrom,
			ContactNumber: req.ContactNumber,
			SumRinggit:    req.SumRinggit,
			RM:            rm.StringFixed(2),
			Remarks:       req.Remarks,
			PaymentMethod: req.PaymentMethod,
			Date:          time.Now(),
		}
		var renderErr error
		document, renderErr = s.renderer.Render(fields)
		if renderErr != nil {
			return fmt.Errorf("%w: %v", ErrTemplate, renderErr)
		}

		var saveErr error
		documentPath, saveErr = s.store.Save(generatedFileName(id), document)
		if saveErr != nil {
			return fmt.Errorf("%w: writing document: %v", ErrPersistence, saveErr)
		}

		created = model.Receipt{
			ReceiptID:        id,
			ReceivedFrom:     req.ReceivedFrom,
			ContactNumber:    req.ContactNumber,
			SumRinggit:       req.SumRinggit,
			RM:               rm,
			PaymentMethod:    req.PaymentMethod,
			ReceiptFile:      req.ProofFile,
			GeneratedReceipt: documentPath,
			AddedBy:          req.AddedBy,
			Remarks:          req.Remarks,
			CollectedBy:      req.CollectedBy,
		}
		if createErr := s.receiptRepo.Create(txCtx, &created); createErr != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, createErr)
		}
		return nil
	})
	if err != nil {
		// The row never committed; remove the orphaned document if one
		// was written.
		if documentPath != "" {
			if delErr := s.store.Delete(documentPath); delErr != nil {
				log.Printf("WARN: orphaned document %s left behind: %v", documentPath, delErr)
			}
		}
		return ReceiptResponse{}, err
	}

	s.notifyAsync("New Receipt Submitted", created, document)
	s.publish("receipt.created", created.ReceiptID)
	return toReceiptResponse(created), nil
}

// UpdateReceipt re-renders the document in place. The identifier never
// changes on edit; the generated file is an idempotent overwrite.
func (s *receiptService) UpdateReceipt(ctx context.Context, id string, req UpdateReceiptRequest) (ReceiptResponse, error) {
	rm, err := decimal.NewFromString(req.RM)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("%w: invalid rm amount: %v", ErrValidation, err)
	}

	var updated model.Receipt
	var document []byte

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, findErr := s.receiptRepo.FindByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", ErrPersistence, findErr)
		}

		// A replacement proof supersedes the old file.
		if req.ProofFile != "" && existing.ReceiptFile != "" && existing.ReceiptFile != req.ProofFile {
			if delErr := s.store.Delete(existing.ReceiptFile); delErr != nil {
				log.Printf("WARN: stale proof file %s not removed: %v", existing.ReceiptFile, delErr)
			}
		}

		fields := compositor.Fields{
			ReceiptID:     existing.ReceiptID,
			ReceivedFrom:  req.ReceivedFrom,
			ContactNumber: req.ContactNumber,
			SumRinggit:    req.SumRinggit,
			RM:            rm.StringFixed(2),
			Remarks:       req.Remarks,
			PaymentMethod: req.PaymentMethod,
			Date:          time.Now(),
		}
		var renderErr error
		document, renderErr = s.renderer.Render(fields)
		if renderErr != nil {
			return fmt.Errorf("%w: %v", ErrTemplate, renderErr)
		}

		documentPath, saveErr := s.store.Save(generatedFileName(existing.ReceiptID), document)
		if saveErr != nil {
			return fmt.Errorf("%w: writing document: %v", ErrPersistence, saveErr)
		}
		if existing.GeneratedReceipt != "" && existing.GeneratedReceipt != documentPath {
			if delErr := s.store.Delete(existing.GeneratedReceipt); delErr != nil {
				log.Printf("WARN: stale document %s not removed: %v", existing.GeneratedReceipt, delErr)
			}
		}

		existing.ReceivedFrom = req.ReceivedFrom
		existing.ContactNumber = req.ContactNumber
		existing.SumRinggit = req.SumRinggit
		existing.RM = rm
		existing.PaymentMethod = req.PaymentMethod
		existing.Remarks = req.Remarks
		existing.CollectedBy = req.CollectedBy
		existing.GeneratedReceipt = documentPath
		if req.ProofFile != "" {
			existing.ReceiptFile = req.ProofFile
		}

		if updateErr := s.receiptRepo.Update(txCtx, existing); updateErr != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, updateErr)
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return ReceiptResponse{}, err
	}

	s.notifyAsync("Receipt Updated", updated, document)
	s.publish("receipt.updated", updated.ReceiptID)
	return toReceiptResponse(updated), nil
}

// DeleteReceipt moves the row into the deleted set, all fields intact.
// No re-rendering happens; the generated document stays on disk.
func (s *receiptService) DeleteReceipt(ctx context.Context, id string) error {
	moved, err := s.receiptRepo.MoveToDeleted(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.notifyAsync("Receipt Deleted", moved.Receipt, nil)
	s.publish("receipt.deleted", moved.ReceiptID)
	return nil
}

// RestoreReceipt moves a deleted row back into the active set. The
// original identifier is re-used when still free; otherwise a fresh one
// is allocated and the backing document file renamed to match. A failed
// rename is a warning, not an error: the row is restored with its old
// path rather than failing the operation.
func (s *receiptService) RestoreReceipt(ctx context.Context, id string) (ReceiptResponse, error) {
	var restored *model.Receipt

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, findErr := s.receiptRepo.FindDeletedByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s not in deleted receipts", ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", ErrPersistence, findErr)
		}

		newID := deleted.ReceiptID
		generatedPath := ""

		occupied, existsErr := s.receiptRepo.ExistsActive(txCtx, deleted.ReceiptID)
		if existsErr != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, existsErr)
		}
		if occupied {
			// A newer receipt claimed this number while the row was
			// deleted; issue a fresh one and bring the file along.
			var allocErr error
			newID, allocErr = s.seqRepo.Next(txCtx)
			if allocErr != nil {
				return fmt.Errorf("%w: %v", ErrAllocation, allocErr)
			}
			if deleted.GeneratedReceipt != "" {
				renamed, renameErr := s.store.Rename(deleted.GeneratedReceipt, generatedFileName(newID))
				if renameErr != nil {
					log.Printf("WARN: document for restored receipt %s keeps old path %s: %v",
						newID, deleted.GeneratedReceipt, renameErr)
				} else {
					generatedPath = renamed
				}
			}
		}

		moved, moveErr := s.receiptRepo.MoveToActive(txCtx, deleted.ReceiptID, newID, generatedPath)
		if moveErr != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, moveErr)
		}
		restored = moved
		return nil
	})
	if err != nil {
		return ReceiptResponse{}, err
	}

	s.notifyAsync("Receipt Restored", *restored, nil)
	s.publish("receipt.restored", restored.ReceiptID)
	return toReceiptResponse(*restored), nil
}

func (s *receiptService) GetReceipt(ctx context.Context, id string) (ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptResponse{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return ReceiptResponse{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return toReceiptResponse(*receipt), nil
}

func (s *receiptService) ListReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error) {
	receipts, total, err := s.receiptRepo.ListActive(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	result := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		result = append(result, toReceiptResponse(r))
	}
	return result, total, nil
}

func (s *receiptService) ListDeletedReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error) {
	receipts, total, err := s.receiptRepo.ListDeleted(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	result := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		result = append(result, toReceiptResponse(r.Receipt))
	}
	return result, total, nil
}

// --- Helpers ---

func generatedFileName(receiptID string) string {
	return "receipt_" + receiptID + ".png"
}

// notifyAsync dispatches the admin mail after the mutation committed.
// Delivery latency and failures never reach the caller; failures are
// logged with the receipt identifier.
func (s *receiptService) notifyAsync(subject string, receipt model.Receipt, attachment []byte) {
	if s.notifier == nil {
		return
	}
	go func() {
		body := fmt.Sprintf(`%s

Details:
Received From: %s
Contact Number: %s
Sum (Ringgit): %s
RM: %s
Payment Method: %s
Receipt ID: %s
Remarks: %s
Date: %s
Collected By: %s
`,
			subject,
			receipt.ReceivedFrom,
			receipt.ContactNumber,
			receipt.SumRinggit,
			receipt.RM.StringFixed(2),
			receipt.PaymentMethod,
			receipt.ReceiptID,
			receipt.Remarks,
			time.Now().Format(compositor.DateLayout),
			receipt.CollectedBy,
		)

		attachmentName := ""
		if attachment != nil {
			attachmentName = generatedFileName(receipt.ReceiptID)
		}
		if err := s.notifier.Send(s.adminEmail, subject, body, attachmentName, attachment); err != nil {
			log.Printf("WARN: notification for receipt %s failed: %v", receipt.ReceiptID, err)
		}
	}()
}

func (s *receiptService) publish(event, receiptID string) {
	if s.events == nil {
		return
	}
	s.events.Publish(event, receiptID)
}

// --- Mapping ---

func toReceiptResponse(r model.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ReceiptID:        r.ReceiptID,
		ReceivedFrom:     r.ReceivedFrom,
		ContactNumber:    r.ContactNumber,
		SumRinggit:       r.SumRinggit,
		RM:               r.RM.StringFixed(2),
		PaymentMethod:    r.PaymentMethod,
		ReceiptFile:      r.ReceiptFile,
		GeneratedReceipt: r.GeneratedReceipt,
		AddedBy:          r.AddedBy,
		Remarks:          r.Remarks,
		CollectedBy:      r.CollectedBy,
		CreatedAt:        r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        r.UpdatedAt.Format(time.RFC3339),
	}
}
