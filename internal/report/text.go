package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/stackcost/internal/model"
)

// WriteText renders doc as plain text, one section after another.
func WriteText(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	h := doc.Header()
	money := func(l model.CategoryCost) string { return model.FormatMoney(l.Cost, h.Currency) }

	for _, sec := range doc.Sections() {
		switch sec {
		case SectionHeader:
			fmt.Fprintf(bw, "%s\n", h.Title)
			fmt.Fprintf(bw, "%s\n", strings.Repeat("=", len([]rune(h.Title))))
			if h.PreparerName != "" || h.PreparerAddress != "" {
				fmt.Fprintf(bw, "Prepared by: %s\n", joinNonEmpty(h.PreparerName, oneLine(h.PreparerAddress)))
			}
			client := h.ClientName
			if client == "" {
				client = "My Business"
			}
			fmt.Fprintf(bw, "Prepared for: %s\n", joinNonEmpty(client, oneLine(h.ClientAddress)))
			fmt.Fprintf(bw, "Date: %s   Currency: %s   Billing: %s\n\n",
				h.GeneratedAt.Format("2006-01-02"), h.Currency, h.Cycle.Label())

		case SectionLineItems:
			rows := doc.Rows()
			nameW, catW := len("App"), len("Category")
			for _, r := range rows {
				nameW = max(nameW, len([]rune(r.Name)))
				catW = max(catW, len([]rune(r.Category)))
			}
			fmt.Fprintf(bw, "%-*s  %-*s  %14s\n", catW, "Category", nameW, "App", "Cost ("+h.Cycle.Label()+")")
			for _, r := range rows {
				fmt.Fprintf(bw, "%-*s  %-*s  %14s\n", catW, r.Category, nameW, r.Name, model.FormatMoney(r.Cost, h.Currency))
			}
			bw.WriteString("\n")

		case SectionTotals:
			t := doc.Totals()
			for _, s := range t.Subtotals {
				fmt.Fprintf(bw, "  %-24s %14s\n", fmt.Sprintf("%s (%d)", s.Name, s.Apps), money(s))
			}
			if !t.Uncategorized.IsZero() {
				fmt.Fprintf(bw, "  %-24s %14s\n", "Uncategorized", model.FormatMoney(t.Uncategorized, h.Currency))
			}
			fmt.Fprintf(bw, "  %-24s %14s\n", "Total", model.FormatMoney(t.Total, h.Currency))
			if t.Degraded {
				bw.WriteString("  (exchange rates unavailable, 1:1 parity used)\n")
			}

		case SectionChart:
			fmt.Fprintf(bw, "\n[chart: %d bytes]\n", len(doc.Chart()))

		case SectionNotes:
			fmt.Fprintf(bw, "\nNotes\n-----\n%s\n", doc.Notes())
		}
	}
	return bw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", ", ")), " ")
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
