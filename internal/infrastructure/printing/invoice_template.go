package printing

// invoiceHTMLTemplate mirrors the fpdf layout: header, meta lines, a
// four-column table at 4:1:2:2 and the totals block.
const invoiceHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.InvoiceNumber}}</title>
<style>
  @page { size: A4; margin: 15mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #000; }
  h1 { font-size: 16pt; margin: 0; }
  .subtitle { margin: 0 0 12pt 0; }
  .meta p { margin: 2pt 0; }
  .meta .number { font-weight: bold; }
  table { width: 100%; border-collapse: collapse; margin-top: 12pt; }
  thead { display: table-header-group; }
  th, td { border: 0.5pt solid #000; padding: 3pt 4pt; text-align: left; }
  th { font-weight: bold; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 12pt; }
  .totals p { margin: 2pt 0; }
  .totals .strong { font-weight: bold; }
  .notes { margin-top: 12pt; white-space: pre-wrap; }
</style>
</head>
<body>
  <h1>{{.BusinessName}}</h1>
  <p class="subtitle">{{.BusinessSubtitle}}</p>
  <div class="meta">
    <p class="number">Invoice No: {{.InvoiceNumber}}</p>
    <p>Date: {{formatDate .IssueDate}}</p>
    <p>Customer: {{.CustomerName}}</p>
  </div>
  <table>
    <colgroup>
      <col style="width: 44.4%">
      <col style="width: 11.2%">
      <col style="width: 22.2%">
      <col style="width: 22.2%">
    </colgroup>
    <thead>
      <tr><th>Description</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
    </thead>
    <tbody>
    {{- range .Lines}}
      <tr>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{formatMoney .Rate}}</td>
        <td class="num">{{formatMoney .Amount}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  <div class="totals">
    <p class="strong">Total: {{.CurrencySymbol}}{{formatMoney .Subtotal}}</p>
    <p>Amount Paid: {{.CurrencySymbol}}{{formatMoney .AmountPaid}}</p>
    <p class="strong">Balance Due: {{.CurrencySymbol}}{{formatMoney .BalanceDue}}</p>
  </div>
  {{- with .Notes}}
  <p class="notes">{{.}}</p>
  {{- end}}
</body>
</html>
`
