package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	appbilling "github.com/imperialbinding/billing/internal/application/billing"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService  *appbilling.InvoiceService
	documentService *appbilling.DocumentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService, documentService *appbilling.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
	}
}

// PDFURLQuery is the query string of the presigned URL endpoint
type PDFURLQuery struct {
	// ExpiresIn is the link lifetime in seconds (S3 allows at most 7 days)
	ExpiresIn int `form:"expires_in" binding:"omitempty,min=60,max=604800" example:"900"`
}

// Create godoc
// @ID           createInvoice
// @Summary      Issue a new invoice
// @Description  Allocates the next IB-<year>-<seq> number and stores the invoice with its items in one transaction
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-generated key; a repeated key is rejected with 409"
// @Param        request body billing.CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req appbilling.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoice summaries
// @Description  Newest first; search matches the invoice number or customer name
// @Tags         invoices
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]billing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter appbilling.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	normalized := filter.ToDomain()
	h.SuccessWithMeta(c, invoices, total, normalized.Page, normalized.PageSize)
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get an invoice with its items
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} APIResponse[billing.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// DownloadPDF godoc
// @ID           downloadInvoicePdf
// @Summary      Render an invoice as PDF
// @Description  Renders the invoice, stores it as {invoiceNumber}.pdf and streams it inline
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path int true "Invoice ID"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	doc, err := h.documentService.Generate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+doc.FileName+`"`)
	c.Header("Content-Length", strconv.Itoa(len(doc.Data)))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}

// GetPDFURL godoc
// @ID           getInvoicePdfUrl
// @Summary      Get a presigned download URL for an invoice PDF
// @Description  Renders the invoice, mirrors it to object storage and returns a time-limited link
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Param        expires_in query int false "Link lifetime in seconds" default(900)
// @Success      200 {object} APIResponse[billing.DocumentURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /invoices/{id}/pdf/url [get]
func (h *InvoiceHandler) GetPDFURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var query PDFURLQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	url, err := h.documentService.PresignedURL(c.Request.Context(), id, time.Duration(query.ExpiresIn)*time.Second)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}
