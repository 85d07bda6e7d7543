package billing

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	domain "github.com/imperialbinding/billing/internal/domain/billing"
	"github.com/imperialbinding/billing/internal/domain/shared"
	"github.com/imperialbinding/billing/internal/infrastructure/csvimport"
	"github.com/imperialbinding/billing/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Customer CSV columns; only name is required
const (
	ColumnName    = "name"
	ColumnEmail   = "email"
	ColumnPhone   = "phone"
	ColumnAddress = "address"
)

// ImportOptions controls a customer import
type ImportOptions struct {
	// DryRun validates every row without writing anything
	DryRun bool
	// MaxErrors caps the row errors returned (default 100)
	MaxErrors int
}

// CustomerImportResult summarizes a customer import
type CustomerImportResult struct {
	Rows        int                  `json:"rows"`
	Imported    int                  `json:"imported"`
	Failed      int                  `json:"failed"`
	DryRun      bool                 `json:"dry_run"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	TotalErrors int                  `json:"total_errors"`
}

// importValidator checks rows against the same rules as the HTTP API
var importValidator = newImportValidator()

func newImportValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Import reads customers from CSV with a header row naming the columns
// name, email, phone and address. Rows that fail validation are reported
// and skipped; the remaining rows are created one by one.
func (s *CustomerService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*CustomerImportResult, error) {
	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "Invalid customer file", err)
	}
	if err := parser.RequireHeaders(ColumnName); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "Invalid customer file", err)
	}

	result := &CustomerImportResult{DryRun: opts.DryRun}
	rowErrors := csvimport.NewErrors(opts.MaxErrors)
	seen := make(map[string]int)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		result.Rows++

		var rowErr csvimport.RowError
		if errors.As(err, &rowErr) {
			rowErrors.Add(rowErr)
			result.Failed++
			continue
		}
		if err != nil {
			return nil, err
		}

		req := CreateCustomerRequest{
			Name:    row.Get(ColumnName),
			Email:   row.Get(ColumnEmail),
			Phone:   row.Get(ColumnPhone),
			Address: row.Get(ColumnAddress),
		}
		if errs := validateImportRow(row.Line, req); len(errs) > 0 {
			for _, e := range errs {
				rowErrors.Add(e)
			}
			result.Failed++
			continue
		}

		key := strings.ToLower(req.Name) + "\x00" + strings.ToLower(req.Email)
		if first, dup := seen[key]; dup {
			rowErrors.Add(csvimport.NewRowError(row.Line, ColumnName, csvimport.ErrCodeDuplicate,
				"same name and email as line "+strconv.Itoa(first)))
			result.Failed++
			continue
		}
		seen[key] = row.Line

		if opts.DryRun {
			result.Imported++
			continue
		}

		customer, err := domain.NewCustomer(req.Name, req.Email, req.Phone, req.Address, s.clock.Now())
		if err == nil {
			err = s.customerRepo.Create(ctx, customer)
		}
		if err != nil {
			rowErrors.Add(csvimport.NewRowError(row.Line, "", csvimport.ErrCodeRejected, err.Error()))
			result.Failed++
			continue
		}
		result.Imported++
	}

	result.Errors = rowErrors.Items()
	result.TotalErrors = rowErrors.Total()

	logger.For(ctx, s.logger).Info("customer import finished",
		zap.Int("rows", result.Rows),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed),
		zap.Bool("dry_run", result.DryRun))

	return result, nil
}

func validateImportRow(line int, req CreateCustomerRequest) []csvimport.RowError {
	err := importValidator.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []csvimport.RowError{csvimport.NewRowError(line, "", csvimport.ErrCodeRejected, err.Error())}
	}

	out := make([]csvimport.RowError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		column := fe.Field()
		switch fe.Tag() {
		case "required":
			out = append(out, csvimport.NewRowError(line, column, csvimport.ErrCodeRequiredField, column+" is required"))
		case "email":
			out = append(out, csvimport.NewRowError(line, column, csvimport.ErrCodeInvalidFormat, "not a valid email address"))
		case "max":
			out = append(out, csvimport.NewRowError(line, column, csvimport.ErrCodeInvalidLength,
				column+" must be at most "+fe.Param()+" characters"))
		default:
			out = append(out, csvimport.NewRowError(line, column, csvimport.ErrCodeRejected, "failed "+fe.Tag()+" check"))
		}
	}
	return out
}
