package printing

import (
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// summaryFuncMap holds the formatting functions used by the summary template
var summaryFuncMap = template.FuncMap{
	"formatMoney": formatMoney,
	"formatDate":  formatDate,
	"formatTime":  formatTime,
}

// formatMoney formats a decimal amount with thousands separators, e.g. "1,250,000.00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-3:]

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	result := string(out) + fracPart
	if neg {
		result = "-" + result
	}
	return result
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}

// defaultSummaryTemplate is the printable daily summary layout
const defaultSummaryTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Daily Summary {{ formatDate .Summary.TradingDate }}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; margin: 24px; }
  h1 { font-size: 18px; margin-bottom: 0; }
  .sub { color: #666; margin-top: 2px; }
  table { border-collapse: collapse; width: 100%; margin-top: 16px; }
  th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
  th { background: #f4f4f4; }
  td.amount, th.amount { text-align: right; }
  .variance-negative { color: #b00020; font-weight: bold; }
  .footer { margin-top: 24px; color: #888; font-size: 10px; }
</style>
</head>
<body>
<h1>Daily Trading Summary</h1>
<div class="sub">{{ formatDate .Summary.TradingDate }} &middot; Session opened by {{ .Session.OpenedByName }} at {{ .Session.OpenedAt.Format "15:04" }}, closed at {{ formatTime .Session.ClosedAt }}</div>

<table>
  <tr><th>Opening stock value</th><td class="amount">{{ formatMoney .Summary.OpeningStockValue }}</td></tr>
  <tr><th>Closing stock value</th><td class="amount">{{ formatMoney .Summary.ClosingStockValue }}</td></tr>
  <tr><th>Value of goods sold</th><td class="amount">{{ formatMoney .Summary.ValueOfGoodsSold }}</td></tr>
  <tr><th>Total revenue</th><td class="amount">{{ formatMoney .Summary.TotalRevenue }}</td></tr>
  <tr><th>Receipts issued</th><td class="amount">{{ .Summary.TotalReceipts }}</td></tr>
  <tr><th>Variance</th><td class="amount{{ if .Summary.Variance.IsNegative }} variance-negative{{ end }}">{{ formatMoney .Summary.Variance }}</td></tr>
</table>

{{ if .Session.Adjustments }}
<h2>Stock Adjustments</h2>
<table>
  <tr><th>Type</th><th class="amount">Old Qty</th><th class="amount">New Qty</th><th>By</th><th>Notes</th></tr>
  {{ range .Session.Adjustments }}
  <tr>
    <td>{{ .Type }}</td>
    <td class="amount">{{ .OldQuantity }}</td>
    <td class="amount">{{ .NewQuantity }}</td>
    <td>{{ .AdjustedBy }}</td>
    <td>{{ .Notes }}</td>
  </tr>
  {{ end }}
</table>
{{ end }}

<div class="footer">Generated {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}</div>
</body>
</html>`
