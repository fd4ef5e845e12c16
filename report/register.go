package report

import (
	"io"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
	"github.com/robinvdvleuten/journal/ledger"
)

// registerRow is a single posting line of the register.
type registerRow struct {
	title     string // transaction header, empty for all but the first posting
	account   string
	commodity string
	amount    string
	negative  bool
	total     []*ledger.CommodityAmount
}

// registerWidths holds the column widths of the register.
type registerWidths struct {
	title     int
	account   int
	commodity int
	amount    int
	total     int
}

// Register renders every balanced posting in load order with the running
// total per commodity after it. Postings of one transaction share the
// header column of their first line; extra commodities of the running total
// are continued on lines of their own.
func (r *Renderer) Register(w io.Writer, txns []*ast.Transaction) error {
	var rows []registerRow
	var widths registerWidths
	running := ledger.NewBalance()

	for _, txn := range txns {
		title := headerTitle(txn)
		first := true
		for _, p := range txn.Postings {
			if p.Balanced == nil {
				continue
			}
			running.AddAmount(*p.Balanced)

			row := registerRow{
				account:   p.Account,
				commodity: p.Balanced.Commodity,
				amount:    FormatValue(p.Balanced.Value),
				negative:  p.Balanced.Value.IsNegative(),
				total:     running.Copy().Entries(),
			}
			if first {
				row.title = title
				widths.title = max(widths.title, width(title))
				first = false
			}

			widths.account = max(widths.account, width(row.account))
			widths.commodity = max(widths.commodity, width(row.commodity))
			widths.amount = max(widths.amount, width(row.amount))
			for _, e := range row.total {
				widths.total = max(widths.total, width(FormatValue(e.Amount)))
			}

			rows = append(rows, row)
		}
	}

	var buf strings.Builder
	for _, row := range rows {
		r.writeRegisterRow(&buf, row, widths)
	}

	return flush(w, &buf)
}

func (r *Renderer) writeRegisterRow(buf *strings.Builder, row registerRow, widths registerWidths) {
	padRight(buf, row.title, row.title, widths.title+WidthOffset)
	padRight(buf, row.account, r.styles.Account(row.account), widths.account+WidthOffset)

	var amount strings.Builder
	padLeft(&amount, row.commodity, row.commodity, widths.commodity)
	padLeft(&amount, row.amount, row.amount, widths.amount)
	buf.WriteString(r.styles.Amount(amount.String(), row.negative))
	buf.WriteString(strings.Repeat(" ", WidthOffset*2))

	offset := widths.title + WidthOffset + widths.account + WidthOffset +
		widths.commodity + widths.amount + WidthOffset*2
	for i, e := range row.total {
		if i > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(" ", offset))
		}
		value := FormatValue(e.Amount)
		var total strings.Builder
		padLeft(&total, e.Commodity, e.Commodity, widths.commodity)
		padLeft(&total, value, value, widths.total)
		buf.WriteString(r.styles.Amount(total.String(), e.Amount.IsNegative()))
	}

	buf.WriteByte('\n')
}
