package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appbilling "github.com/imperialbinding/billing/internal/application/billing"
	"github.com/imperialbinding/billing/internal/interfaces/http/dto"
)

const maxImportFileSize = 5 << 20

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *appbilling.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *appbilling.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body billing.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} APIResponse[billing.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req appbilling.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Customers ordered by name, optionally filtered by a name/email/phone search
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        order_by query string false "Order by field" default(name)
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]billing.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter appbilling.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	normalized := filter.ToDomain()
	h.SuccessWithMeta(c, customers, total, normalized.Page, normalized.PageSize)
}

// ListWithBalance godoc
// @ID           listCustomersWithBalance
// @Summary      List customers with their outstanding balance
// @Tags         customers
// @Produce      json
// @Success      200 {object} APIResponse[[]billing.CustomerWithBalanceResponse]
// @Failure      500 {object} ErrorResponse
// @Router       /customers/with-balance [get]
func (h *CustomerHandler) ListWithBalance(c *gin.Context) {
	customers, err := h.customerService.ListWithBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customers)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} APIResponse[billing.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// GetBalance godoc
// @ID           getCustomerBalance
// @Summary      Get the outstanding balance of a customer
// @Description  Total invoiced minus total paid; negative when the customer has overpaid
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} APIResponse[billing.BalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /customers/{id}/balance [get]
func (h *CustomerHandler) GetBalance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	balance, err := h.customerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// GetHistory godoc
// @ID           getCustomerHistory
// @Summary      Get invoices, payments and balance of a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} APIResponse[billing.CustomerHistoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /customers/{id}/history [get]
func (h *CustomerHandler) GetHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	history, err := h.customerService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// Import godoc
// @ID           importCustomers
// @Summary      Import customers from a CSV file
// @Description  Header row names the columns name, email, phone and address. Invalid rows are reported and skipped.
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Param        dry_run query bool false "Validate without creating customers"
// @Param        max_errors query int false "Maximum row errors to return" default(100)
// @Success      200 {object} APIResponse[billing.CustomerImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Router       /customers/import [post]
func (h *CustomerHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeValidation, "file exceeds maximum size of 5MB")
		return
	}
	switch header.Header.Get("Content-Type") {
	case "", "text/csv", "text/plain", "application/octet-stream", "application/vnd.ms-excel":
	default:
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	opts := appbilling.ImportOptions{}
	if v := c.Query("dry_run"); v != "" {
		if opts.DryRun, err = strconv.ParseBool(v); err != nil {
			h.BadRequest(c, "dry_run must be true or false")
			return
		}
	}
	if v := c.Query("max_errors"); v != "" {
		if opts.MaxErrors, err = strconv.Atoi(v); err != nil || opts.MaxErrors < 1 {
			h.BadRequest(c, "max_errors must be a positive integer")
			return
		}
	}

	result, err := h.customerService.Import(c.Request.Context(), file, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
