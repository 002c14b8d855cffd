package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReceiptService struct {
	createFn      func(ctx context.Context, req service.CreateReceiptRequest) (service.ReceiptResponse, error)
	updateFn      func(ctx context.Context, id string, req service.UpdateReceiptRequest) (service.ReceiptResponse, error)
	deleteFn      func(ctx context.Context, id string) error
	restoreFn     func(ctx context.Context, id string) (service.ReceiptResponse, error)
	getFn         func(ctx context.Context, id string) (service.ReceiptResponse, error)
	listFn        func(ctx context.Context, page, limit int) ([]service.ReceiptResponse, int64, error)
	listDeletedFn func(ctx context.Context, page, limit int) ([]service.ReceiptResponse, int64, error)
}

func (s *stubReceiptService) CreateReceipt(ctx context.Context, req service.CreateReceiptRequest) (service.ReceiptResponse, error) {
	return s.createFn(ctx, req)
}

func (s *stubReceiptService) UpdateReceipt(ctx context.Context, id string, req service.UpdateReceiptRequest) (service.ReceiptResponse, error) {
	return s.updateFn(ctx, id, req)
}

func (s *stubReceiptService) DeleteReceipt(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubReceiptService) RestoreReceipt(ctx context.Context, id string) (service.ReceiptResponse, error) {
	return s.restoreFn(ctx, id)
}

func (s *stubReceiptService) GetReceipt(ctx context.Context, id string) (service.ReceiptResponse, error) {
	return s.getFn(ctx, id)
}

func (s *stubReceiptService) ListReceipts(ctx context.Context, page, limit int) ([]service.ReceiptResponse, int64, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubReceiptService) ListDeletedReceipts(ctx context.Context, page, limit int) ([]service.ReceiptResponse, int64, error) {
	return s.listDeletedFn(ctx, page, limit)
}

type stubStorage struct {
	saved map[string][]byte
}

func newStubStorage() *stubStorage {
	return &stubStorage{saved: make(map[string][]byte)}
}

func (s *stubStorage) Save(filename string, data []byte) (string, error) {
	s.saved[filename] = data
	return filename, nil
}

func (s *stubStorage) Get(path string) ([]byte, error)    { return s.saved[path], nil }
func (s *stubStorage) Delete(path string) error           { return nil }
func (s *stubStorage) Rename(o, n string) (string, error) { return n, nil }

func setupRouter(svc service.ReceiptService, store *stubStorage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewReceiptHandler(svc, store).RegisterRoutes(&router.RouterGroup)
	return router
}

func sampleResponse(id string) service.ReceiptResponse {
	return service.ReceiptResponse{
		ReceiptID:        id,
		ReceivedFrom:     "Tan Ah Kow",
		SumRinggit:       "One hundred fifty only",
		RM:               "150.00",
		PaymentMethod:    "cash",
		GeneratedReceipt: "receipt_" + id + ".png",
	}
}

// multipartForm builds a multipart body from form fields plus an
// optional file part named receipt_file.
func multipartForm(t *testing.T, fields map[string]string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileContent != nil {
		part, err := w.CreateFormFile("receipt_file", "proof.jpg")
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFormFields() map[string]string {
	return map[string]string{
		"received_from":  "Tan Ah Kow",
		"contact_number": "0123456789",
		"sum_ringgit":    "One hundred fifty only",
		"rm":             "150.00",
		"payment_method": "cash",
		"remarks":        "monthly donation",
		"collected_by":   "Siti",
		"added_by":       "7",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateReceipt_Success(t *testing.T) {
	var captured service.CreateReceiptRequest
	svc := &stubReceiptService{
		createFn: func(_ context.Context, req service.CreateReceiptRequest) (service.ReceiptResponse, error) {
			captured = req
			return sampleResponse("0000000001"), nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	buf, contentType := multipartForm(t, validFormFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Receipt submitted successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0000000001", data["receipt_id"])

	assert.Equal(t, "Tan Ah Kow", captured.ReceivedFrom)
	assert.Equal(t, "cash", captured.PaymentMethod)
	assert.Empty(t, captured.ProofFile)
}

func TestCreateReceipt_StoresProofUpload(t *testing.T) {
	var captured service.CreateReceiptRequest
	svc := &stubReceiptService{
		createFn: func(_ context.Context, req service.CreateReceiptRequest) (service.ReceiptResponse, error) {
			captured = req
			return sampleResponse("0000000001"), nil
		},
	}
	store := newStubStorage()
	router := setupRouter(svc, store)

	fields := validFormFields()
	fields["payment_method"] = "maybank"
	buf, contentType := multipartForm(t, fields, []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	// Upload stored under a generated name with the original extension.
	require.NotEmpty(t, captured.ProofFile)
	assert.True(t, strings.HasSuffix(captured.ProofFile, ".jpg"))
	assert.Equal(t, []byte("jpeg-bytes"), store.saved[captured.ProofFile])
}

func TestCreateReceipt_MissingRequiredField(t *testing.T) {
	svc := &stubReceiptService{
		createFn: func(_ context.Context, _ service.CreateReceiptRequest) (service.ReceiptResponse, error) {
			t.Fatal("service must not be reached on a binding failure")
			return service.ReceiptResponse{}, nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	fields := validFormFields()
	delete(fields, "received_from")
	buf, contentType := multipartForm(t, fields, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
}

func TestCreateReceipt_ValidationErrorMapsTo400(t *testing.T) {
	svc := &stubReceiptService{
		createFn: func(_ context.Context, _ service.CreateReceiptRequest) (service.ReceiptResponse, error) {
			return service.ReceiptResponse{}, fmt.Errorf("%w: invalid rm amount", service.ErrValidation)
		},
	}
	router := setupRouter(svc, newStubStorage())

	buf, contentType := multipartForm(t, validFormFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReceipt_InternalErrorIsOpaque(t *testing.T) {
	svc := &stubReceiptService{
		createFn: func(_ context.Context, _ service.CreateReceiptRequest) (service.ReceiptResponse, error) {
			return service.ReceiptResponse{}, fmt.Errorf("%w: disk full", service.ErrPersistence)
		},
	}
	router := setupRouter(svc, newStubStorage())

	buf, contentType := multipartForm(t, validFormFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	// Internal detail never leaks to the client.
	assert.Equal(t, "Error processing receipt", body["error"])
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestGetReceipt(t *testing.T) {
	svc := &stubReceiptService{
		getFn: func(_ context.Context, id string) (service.ReceiptResponse, error) {
			if id != "0000000001" {
				return service.ReceiptResponse{}, fmt.Errorf("%w: %s", service.ErrNotFound, id)
			}
			return sampleResponse(id), nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/receipts/0000000001", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "0000000001", data["receipt_id"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/receipts/0000000099", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateReceipt(t *testing.T) {
	svc := &stubReceiptService{
		updateFn: func(_ context.Context, id string, req service.UpdateReceiptRequest) (service.ReceiptResponse, error) {
			resp := sampleResponse(id)
			resp.ReceivedFrom = req.ReceivedFrom
			return resp, nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	fields := validFormFields()
	fields["received_from"] = "Lim Bee Hoon"
	buf, contentType := multipartForm(t, fields, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/receipts/0000000001", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0000000001", data["receipt_id"])
	assert.Equal(t, "Lim Bee Hoon", data["received_from"])
}

func TestDeleteReceipt(t *testing.T) {
	var deletedID string
	svc := &stubReceiptService{
		deleteFn: func(_ context.Context, id string) error {
			if id == "0000000099" {
				return fmt.Errorf("%w: %s", service.ErrNotFound, id)
			}
			deletedID = id
			return nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	t.Run("deletes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/receipts/0000000001/delete", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0000000001", deletedID)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/receipts/0000000099/delete", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRestoreReceipt(t *testing.T) {
	svc := &stubReceiptService{
		restoreFn: func(_ context.Context, id string) (service.ReceiptResponse, error) {
			if id == "0000000099" {
				return service.ReceiptResponse{}, fmt.Errorf("%w: %s", service.ErrNotFound, id)
			}
			return sampleResponse(id), nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	t.Run("restores", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/deleted-receipts/0000000001/restore", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Receipt restored", body["message"])
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/deleted-receipts/0000000099/restore", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListReceipts_PassesPagination(t *testing.T) {
	var gotPage, gotLimit int
	svc := &stubReceiptService{
		listFn: func(_ context.Context, page, limit int) ([]service.ReceiptResponse, int64, error) {
			gotPage, gotLimit = page, limit
			return []service.ReceiptResponse{sampleResponse("0000000001")}, 1, nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	q := url.Values{"page": {"3"}, "limit": {"5"}}
	req := httptest.NewRequest(http.MethodGet, "/api/receipts?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotPage)
	assert.Equal(t, 5, gotLimit)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 3, data["page"])
}

func TestListDeletedReceipts(t *testing.T) {
	svc := &stubReceiptService{
		listDeletedFn: func(_ context.Context, page, limit int) ([]service.ReceiptResponse, int64, error) {
			return []service.ReceiptResponse{sampleResponse("0000000002")}, 1, nil
		},
	}
	router := setupRouter(svc, newStubStorage())

	req := httptest.NewRequest(http.MethodGet, "/api/deleted-receipts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	receipts := data["receipts"].([]interface{})
	require.Len(t, receipts, 1)
	first := receipts[0].(map[string]interface{})
	assert.Equal(t, "0000000002", first["receipt_id"])
}
