package router

import (
	"github.com/gin-gonic/gin"
	"github.com/imperialbinding/billing/internal/interfaces/http/handler"
)

// BillingHandlers are the handlers served under /api/<version>
type BillingHandlers struct {
	Customer *handler.CustomerHandler
	Invoice  *handler.InvoiceHandler
	Payment  *handler.PaymentHandler
	System   *handler.SystemHandler
}

// BillingGroups builds the billing route groups. The idempotent chain runs
// in front of every handler that creates an invoice or a payment.
func BillingGroups(h BillingHandlers, idempotent ...gin.HandlerFunc) []RouteRegistrar {
	system := NewDomainGroup("system", "")
	system.GET("/ping", h.System.Ping)
	system.GET("/system/info", h.System.GetSystemInfo)

	customers := NewDomainGroup("customers", "/customers")
	customers.POST("", h.Customer.Create)
	customers.GET("", h.Customer.List)
	customers.POST("/import", h.Customer.Import)
	customers.GET("/with-balance", h.Customer.ListWithBalance)
	customers.GET("/:id", h.Customer.GetByID)
	customers.GET("/:id/balance", h.Customer.GetBalance)
	customers.GET("/:id/history", h.Customer.GetHistory)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", chain(idempotent, h.Invoice.Create)...)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/:id", h.Invoice.GetByID)
	documents := invoices.Group("documents", "/:id/pdf")
	documents.GET("", h.Invoice.DownloadPDF)
	documents.GET("/url", h.Invoice.GetPDFURL)

	payments := NewDomainGroup("payments", "/payments")
	payments.POST("", chain(idempotent, h.Payment.Record)...)
	payments.GET("", h.Payment.List)

	return []RouteRegistrar{system, customers, invoices, payments}
}

// RegisterHealth mounts the unversioned liveness endpoint
func RegisterHealth(engine *gin.Engine, h *handler.SystemHandler) {
	engine.GET("/health", h.Health)
}

func chain(pre []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(pre)+1)
	out = append(out, pre...)
	return append(out, h)
}
