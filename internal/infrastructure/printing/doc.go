// Package printing renders invoice documents to PDF and stores them.
//
// This package contains:
// - PDFRenderer, implemented by FPDFRenderer (in-process, byte-for-byte
//   reproducible) and ChromedpRenderer (HTML template printed by headless Chrome)
// - TemplateEngine for the HTML invoice layout
// - PDFStorage and its FileSystemStorage implementation
//
// Example usage:
//
//	renderer := NewFPDFRenderer(nil)
//	result, err := renderer.Render(ctx, &InvoiceDocument{
//	    BusinessName:  "Imperial Binding Works",
//	    InvoiceNumber: "IB-2025-0001",
//	    ...
//	})
//	if err != nil {
//	    return err
//	}
//	stored, err := storage.Store(ctx, "IB-2025-0001", result.PDFData)
package printing
