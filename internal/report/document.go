// Package report assembles a priced stack into an immutable Document and
// exports it as HTML or plain text.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SectionKind identifies a Document section.
type SectionKind int

const (
	SectionHeader SectionKind = iota + 1
	SectionLineItems
	SectionTotals
	SectionChart
	SectionNotes
)

func (k SectionKind) String() string {
	switch k {
	case SectionHeader:
		return "header"
	case SectionLineItems:
		return "line_items"
	case SectionTotals:
		return "totals"
	case SectionChart:
		return "chart"
	case SectionNotes:
		return "notes"
	}
	return "unknown"
}

// Header is the identity block at the top of a report.
type Header struct {
	Title           string
	PreparerName    string
	PreparerAddress string
	ClientName      string
	ClientAddress   string
	Logo            []byte // PNG, nil when absent or undecodable
	GeneratedAt     time.Time
	Currency        string
	Cycle           model.Cycle
}

// Row is one line item.
type Row struct {
	Category    string
	Name        string
	Description string
	CycleLabel  string
	Cost        decimal.Decimal
}

// Totals is the totals block.
type Totals struct {
	Total         decimal.Decimal
	Subtotals     []model.CategoryCost
	Uncategorized decimal.Decimal
	Degraded      bool
}

// Document is a generated report. It is never modified after Generate
// returns; accessors hand out copies.
type Document struct {
	id       uuid.UUID
	filename string
	header   Header
	rows     []Row
	totals   Totals
	chart    []byte
	notes    string
}

// ID returns the document's unique id.
func (d *Document) ID() string { return d.id.String() }

// Filename returns the export name with ext appended, e.g. "Acme_Tech_Stack.html".
func (d *Document) Filename(ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return d.filename
	}
	return d.filename + "." + ext
}

// Header returns the header block.
func (d *Document) Header() Header {
	h := d.header
	h.Logo = slices.Clone(h.Logo)
	return h
}

// Rows returns the line items in selection order.
func (d *Document) Rows() []Row { return slices.Clone(d.rows) }

// Totals returns the totals block.
func (d *Document) Totals() Totals {
	t := d.totals
	t.Subtotals = slices.Clone(t.Subtotals)
	return t
}

// Chart returns the chart image, or nil when the chart section is omitted.
func (d *Document) Chart() []byte { return slices.Clone(d.chart) }

// Notes returns the trailing notes text.
func (d *Document) Notes() string { return d.notes }

// Sections lists the document's sections in render order.
func (d *Document) Sections() []SectionKind {
	out := []SectionKind{SectionHeader, SectionLineItems, SectionTotals}
	if len(d.chart) > 0 {
		out = append(out, SectionChart)
	}
	if d.notes != "" {
		out = append(out, SectionNotes)
	}
	return out
}
