package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"backend/internal/service"
	"backend/internal/storage"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxProofSize caps uploaded proof-of-payment files at 10 MB.
const maxProofSize = 10 << 20

type ReceiptHandler struct {
	receiptService service.ReceiptService
	store          storage.Storage
}

func NewReceiptHandler(receiptService service.ReceiptService, store storage.Storage) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		store:          store,
	}
}

func (h *ReceiptHandler) RegisterRoutes(router *gin.RouterGroup) {
	receipts := router.Group("/api/receipts")
	{
		receipts.POST("", h.CreateReceipt)
		receipts.GET("", h.ListReceipts)
		receipts.GET("/:id", h.GetReceipt)
		receipts.PUT("/:id", h.UpdateReceipt)
		receipts.POST("/:id/delete", h.DeleteReceipt)
	}

	deleted := router.Group("/api/deleted-receipts")
	{
		deleted.GET("", h.ListDeletedReceipts)
		deleted.POST("/:id/restore", h.RestoreReceipt)
	}
}

// CreateReceipt records a donation and issues a new receipt document
// @Summary      Create receipt
// @Description  Records a donation, allocates the next receipt number and renders the receipt document
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Param        received_from   formData  string  true   "Donor name"
// @Param        contact_number  formData  string  false  "Donor contact number"
// @Param        sum_ringgit     formData  string  true   "Amount in words"
// @Param        rm              formData  string  true   "Amount in RM"
// @Param        payment_method  formData  string  true   "cash, cdm, rhbbank, ambank, touchngo or maybank"
// @Param        remarks         formData  string  false  "Remarks"
// @Param        collected_by    formData  string  false  "Collector name"
// @Param        added_by        formData  string  false  "Submitting user id"
// @Param        receipt_file    formData  file    false  "Proof of payment (non-cash methods)"
// @Success      201  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req service.CreateReceiptRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	proofPath, err := h.storeProofUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	req.ProofFile = proofPath

	receipt, err := h.receiptService.CreateReceipt(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.SuccessMessage(http.StatusCreated, "Receipt submitted successfully", receipt))
}

// ListReceipts returns active receipts, newest update first
// @Summary      List receipts
// @Tags         receipts
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	params := pagination.Parse(c)

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetReceipt returns a single active receipt by identifier
// @Summary      Get receipt
// @Tags         receipts
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

// UpdateReceipt edits a receipt in place and regenerates its document
// @Summary      Update receipt
// @Description  Edits donation details; the receipt number is unchanged and the document is re-rendered
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Param        id              path      string  true   "Receipt ID"
// @Param        received_from   formData  string  true   "Donor name"
// @Param        contact_number  formData  string  false  "Donor contact number"
// @Param        sum_ringgit     formData  string  true   "Amount in words"
// @Param        rm              formData  string  true   "Amount in RM"
// @Param        payment_method  formData  string  true   "cash, cdm, rhbbank, ambank, touchngo or maybank"
// @Param        remarks         formData  string  false  "Remarks"
// @Param        collected_by    formData  string  false  "Collector name"
// @Param        receipt_file    formData  file    false  "Replacement proof of payment"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/receipts/{id} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	var req service.UpdateReceiptRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	proofPath, err := h.storeProofUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	req.ProofFile = proofPath

	receipt, err := h.receiptService.UpdateReceipt(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Receipt updated successfully", receipt))
}

// DeleteReceipt soft-deletes a receipt
// @Summary      Delete receipt
// @Description  Moves the receipt into the deleted set; all fields and the generated document are preserved
// @Tags         receipts
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/receipts/{id}/delete [post]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	if err := h.receiptService.DeleteReceipt(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Receipt deleted and moved to deleted receipts", nil))
}

// ListDeletedReceipts returns soft-deleted receipts, newest update first
// @Summary      List deleted receipts
// @Tags         deleted-receipts
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/deleted-receipts [get]
func (h *ReceiptHandler) ListDeletedReceipts(c *gin.Context) {
	params := pagination.Parse(c)

	receipts, total, err := h.receiptService.ListDeletedReceipts(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// RestoreReceipt moves a deleted receipt back to the active set
// @Summary      Restore receipt
// @Description  Restores a deleted receipt, re-using its number when free or assigning a fresh one
// @Tags         deleted-receipts
// @Produce      json
// @Param        id   path      string  true  "Receipt ID"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/deleted-receipts/{id}/restore [post]
func (h *ReceiptHandler) RestoreReceipt(c *gin.Context) {
	receipt, err := h.receiptService.RestoreReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessMessage(http.StatusOK, "Receipt restored", receipt))
}

// storeProofUpload saves an optional proof-of-payment file part under a
// unique name and returns its storage path, or "" when no file was sent.
func (h *ReceiptHandler) storeProofUpload(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("receipt_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", errors.New("invalid receipt_file upload: " + err.Error())
	}
	if fileHeader.Size > maxProofSize {
		return "", errors.New("receipt_file exceeds the 10MB limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", errors.New("reading receipt_file upload: " + err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.New("reading receipt_file upload: " + err.Error())
	}

	// Unique name so concurrent uploads never collide.
	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	path, err := h.store.Save(name, data)
	if err != nil {
		return "", errors.New("storing receipt_file upload: " + err.Error())
	}
	return path, nil
}

// renderError maps service error classes onto HTTP status codes.
func (h *ReceiptHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		log.Printf("ERROR: receipt operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Error processing receipt"))
	}
}
