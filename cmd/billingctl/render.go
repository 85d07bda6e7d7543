package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <invoice-id>",
		Short: "Write the invoice PDF to the documents directory",
		Long: `Render an invoice to {invoiceNumber}.pdf under documents.base_path.
Rendering always uses the built-in fpdf engine.`,
		Example: `  billingctl render 3`,
		Args:    cobra.ExactArgs(1),
		RunE:    a.runRender,
	}
}

func (a *app) runRender(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	doc, err := a.documents.Generate(a.ctx(cmd), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, %d pages)\n", doc.Path, doc.Size, doc.PageCount)
	return nil
}
