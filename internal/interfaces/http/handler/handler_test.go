package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/config"
	"github.com/imperialbinding/billing/internal/infrastructure/persistence"
	"github.com/imperialbinding/billing/internal/infrastructure/printing"
	"github.com/imperialbinding/billing/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var testNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// fakeMirror records uploads and hands out predictable URLs
type fakeMirror struct {
	uploads map[string][]byte
	err     error
}

func (m *fakeMirror) Upload(_ context.Context, key string, data []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.uploads[key] = data
	return nil
}

func (m *fakeMirror) PresignGetObject(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://objects.example.com/" + key + "?expires=" + expires.String(), nil
}

// testServer is the billing API over an in-memory SQLite database
type testServer struct {
	engine *gin.Engine
	db     *persistence.Database
	mirror *fakeMirror
	pdfDir string
}

func newTestServer(t *testing.T, withMirror bool) *testServer {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	clock := shared.NewFixedClock(testNow)
	customers := persistence.NewGormCustomerRepository(db.DB)
	invoices := persistence.NewGormInvoiceRepository(db.DB)
	payments := persistence.NewGormPaymentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	pdfDir := t.TempDir()
	storage, err := printing.NewFileSystemStorage(&printing.FileSystemStorageConfig{BasePath: pdfDir})
	require.NoError(t, err)

	customerService := appbilling.NewCustomerService(customers, invoices, payments, clock, nil)
	invoiceService := appbilling.NewInvoiceService(invoices, txScope, clock, nil)
	paymentService := appbilling.NewPaymentService(payments, txScope, clock, nil)

	var mirror *fakeMirror
	var docMirror appbilling.DocumentMirror
	if withMirror {
		mirror = &fakeMirror{uploads: map[string][]byte{}}
		docMirror = mirror
	}
	documentService := appbilling.NewDocumentService(invoices, customerService.Balances(),
		printing.NewFPDFRenderer(nil), storage, docMirror, appbilling.DefaultDocumentSettings(), clock, nil)

	customerHandler := NewCustomerHandler(customerService)
	invoiceHandler := NewInvoiceHandler(invoiceService, documentService)
	paymentHandler := NewPaymentHandler(paymentService)
	systemHandler := NewSystemHandler("billing", "test", db)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", systemHandler.Health)

	api := engine.Group("/api/v1")
	api.GET("/ping", systemHandler.Ping)
	api.GET("/system/info", systemHandler.GetSystemInfo)
	api.POST("/customers", customerHandler.Create)
	api.GET("/customers", customerHandler.List)
	api.POST("/customers/import", customerHandler.Import)
	api.GET("/customers/with-balance", customerHandler.ListWithBalance)
	api.GET("/customers/:id", customerHandler.GetByID)
	api.GET("/customers/:id/balance", customerHandler.GetBalance)
	api.GET("/customers/:id/history", customerHandler.GetHistory)
	api.POST("/invoices", invoiceHandler.Create)
	api.GET("/invoices", invoiceHandler.List)
	api.GET("/invoices/:id", invoiceHandler.GetByID)
	api.GET("/invoices/:id/pdf", invoiceHandler.DownloadPDF)
	api.GET("/invoices/:id/pdf/url", invoiceHandler.GetPDFURL)
	api.POST("/payments", paymentHandler.Record)
	api.GET("/payments", paymentHandler.List)

	return &testServer{engine: engine, db: db, mirror: mirror, pdfDir: pdfDir}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// envelope decodes the standard response with a typed data field
type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
	} `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// upload posts content as the multipart file field with the given part type
func (s *testServer) upload(t *testing.T, path, content, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="customers.csv"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) createCustomer(t *testing.T, name string) appbilling.CustomerResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/customers", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[appbilling.CustomerResponse](t, w).Data
}
