package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/report"
	"github.com/theirongolddev/stackcost/internal/session"
	"github.com/theirongolddev/stackcost/internal/snapshot"

	"github.com/gin-gonic/gin"
)

type costJSON struct {
	Monthly  string `json:"monthly"`
	Yearly   string `json:"yearly"`
	Currency string `json:"currency"`
}

type appJSON struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Cost        costJSON `json:"cost"`
}

type categoryJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type templateJSON struct {
	Name   string `json:"name"`
	AppIDs []int  `json:"app_ids"`
}

type currenciesJSON struct {
	Supported []string `json:"supported"`
	Default   string   `json:"default"`
}

type catalogResponse struct {
	Source     string         `json:"source"`
	Categories []categoryJSON `json:"categories"`
	Apps       []appJSON      `json:"apps"`
	Templates  []templateJSON `json:"templates"`
	Currencies currenciesJSON `json:"currencies"`
}

type ratesResponse struct {
	Base     string            `json:"base"`
	Degraded bool              `json:"degraded"`
	Rates    map[string]string `json:"rates"`
}

type lineJSON struct {
	AppID          int    `json:"app_id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	CategoryKnown  bool   `json:"category_known"`
	Source         string `json:"source"`
	SourceCurrency string `json:"source_currency"`
	Cost           string `json:"cost"`
}

type subtotalJSON struct {
	Name string `json:"name"`
	Apps int    `json:"apps"`
	Cost string `json:"cost"`
}

type quoteResponse struct {
	Currency      string         `json:"currency"`
	Cycle         string         `json:"cycle"`
	Lines         []lineJSON     `json:"lines"`
	Subtotals     []subtotalJSON `json:"subtotals"`
	Uncategorized string         `json:"uncategorized"`
	Total         string         `json:"total"`
	Degraded      bool           `json:"degraded"`
}

type quoteRequest struct {
	IDs      []int  `json:"ids"`
	Template string `json:"template"`
	Currency string `json:"currency"`
	Cycle    string `json:"cycle"`
}

type linkRequest struct {
	IDs []int `json:"ids"`
}

type linkResponse struct {
	IDs   []int         `json:"ids"`
	Quote quoteResponse `json:"quote"`
}

type reportRequest struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	Currency string            `json:"currency"`
	Cycle    string            `json:"cycle"`
	Format   string            `json:"format"`
}

func (s *Service) handleCatalog(c *gin.Context) {
	resp := catalogResponse{
		Source:     s.cat.Source(),
		Categories: []categoryJSON{},
		Apps:       []appJSON{},
		Templates:  []templateJSON{},
	}
	for _, cat := range s.cat.Categories() {
		resp.Categories = append(resp.Categories, categoryJSON{Name: cat.Name, Description: cat.Description, Icon: cat.Icon})
	}
	for _, app := range s.cat.Apps() {
		resp.Apps = append(resp.Apps, appJSON{
			ID:          app.ID,
			Name:        app.Name,
			Description: app.Description,
			Category:    app.Category,
			Icon:        app.Icon,
			Cost: costJSON{
				Monthly:  model.Amount(app.Cost.Monthly),
				Yearly:   model.Amount(app.Cost.Yearly),
				Currency: app.Cost.Currency,
			},
		})
	}
	for _, t := range s.cat.Templates() {
		resp.Templates = append(resp.Templates, templateJSON{Name: t.Name, AppIDs: t.AppIDs})
	}
	cur := s.cat.Currencies()
	resp.Currencies = currenciesJSON{Supported: cur.Supported, Default: cur.Default}

	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleRates(c *gin.Context) {
	resp := ratesResponse{
		Base:     s.rates.Base,
		Degraded: s.rates.Degraded,
		Rates:    make(map[string]string, len(s.rates.Rates)),
	}
	for _, code := range s.rates.Codes() {
		resp.Rates[code] = s.rates.Rate(code).String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleQuote(c *gin.Context) {
	var req quoteRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondWithError(c, s.log, err)
		return
	}

	sess, err := s.newSession(req.Currency, req.Cycle)
	if err != nil {
		respondWithError(c, s.log, err)
		return
	}

	ids := req.IDs
	if req.Template != "" {
		t, ok := s.cat.Template(req.Template)
		if !ok {
			respondWithError(c, s.log, withMessage(ErrTemplateNotFound, "No template named "+strconv.Quote(req.Template)))
			return
		}
		ids = append(t.AppIDs, ids...)
	}
	sess.Selection().Replace(ids)

	q := sess.Quote()
	s.record(quoteEvent("quote", q))
	c.JSON(http.StatusOK, quoteJSON(q))
}

func (s *Service) handleEncodeLink(c *gin.Context) {
	var req linkRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondWithError(c, s.log, err)
		return
	}

	sess := session.New(s.cat, s.rates)
	sess.Selection().Replace(req.IDs)
	query, err := sess.ShareLink()
	if errors.Is(err, snapshot.ErrEmptySelection) {
		respondWithError(c, s.log, ErrEmptySelection)
		return
	}
	if err != nil {
		respondWithError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query})
}

func (s *Service) handleOpenLink(c *gin.Context) {
	sess, err := s.newSession(c.Query("currency"), c.Query("cycle"))
	if err != nil {
		respondWithError(c, s.log, err)
		return
	}
	sess.OpenLink(c.Request.URL.RawQuery)

	q := sess.Quote()
	s.record(quoteEvent("link", q))
	c.JSON(http.StatusOK, linkResponse{IDs: sess.Selection().IDs(), Quote: quoteJSON(q)})
}

func (s *Service) handleReport(c *gin.Context) {
	var req reportRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondWithError(c, s.log, err)
		return
	}
	format, err := report.ParseFormat(req.Format)
	if err != nil {
		respondWithError(c, s.log, withMessage(ErrInvalidInput, err.Error()))
		return
	}

	sess, err := s.newSession(req.Currency, req.Cycle)
	if err != nil {
		respondWithError(c, s.log, err)
		return
	}
	sess.RestoreSnapshot(req.Snapshot)

	doc := s.gen.Generate(c.Request.Context(), sess.Apps(), sess.ReportContext(), s.cat, s.rates)
	body, err := report.Render(doc, format, s.style)
	if err != nil {
		respondWithError(c, s.log, wrap(ErrInternalServer, err))
		return
	}

	totals := doc.Totals()
	s.record(Event{
		Type:     "report",
		Currency: doc.Header().Currency,
		Cycle:    doc.Header().Cycle.String(),
		Apps:     len(doc.Rows()),
		Total:    model.Amount(totals.Total),
	})

	contentType := "text/html; charset=utf-8"
	if format == report.FormatText {
		contentType = "text/plain; charset=utf-8"
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename(format.Ext())+`"`)
	c.Header("X-Report-ID", doc.ID())
	c.Data(http.StatusOK, contentType, body)
}

// newSession starts a per-request session priced in currency and cycle.
// Empty values keep the catalog defaults.
func (s *Service) newSession(currency, cycle string) (*session.Session, error) {
	sess := session.New(s.cat, s.rates)
	cy, err := model.ParseCycle(cycle)
	if err != nil {
		return nil, withMessage(ErrInvalidInput, err.Error())
	}
	sess.SetCycle(cy)
	if currency != "" {
		if err := sess.SetCurrency(currency); err != nil {
			return nil, withMessage(ErrUnsupportedCurrency, err.Error())
		}
	}
	return sess, nil
}

// bindOptionalJSON decodes the request body into dst. An empty body leaves
// dst at its zero value.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return withMessage(ErrInvalidInput, "Invalid JSON body")
	}
	return nil
}

func quoteJSON(q model.Quote) quoteResponse {
	resp := quoteResponse{
		Currency:      q.Currency,
		Cycle:         q.Cycle.String(),
		Lines:         make([]lineJSON, 0, len(q.Lines)),
		Subtotals:     make([]subtotalJSON, 0, len(q.Subtotals)),
		Uncategorized: model.Amount(q.Uncategorized),
		Total:         model.Amount(q.Total),
		Degraded:      q.Degraded,
	}
	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, lineJSON{
			AppID:          l.AppID,
			Name:           l.Name,
			Category:       l.Category,
			CategoryKnown:  l.CategoryKnown,
			Source:         model.Amount(l.Source),
			SourceCurrency: l.SourceCurrency,
			Cost:           model.Amount(l.Cost),
		})
	}
	for _, st := range q.Subtotals {
		resp.Subtotals = append(resp.Subtotals, subtotalJSON{Name: st.Name, Apps: st.Apps, Cost: model.Amount(st.Cost)})
	}
	return resp
}

func quoteEvent(typ string, q model.Quote) Event {
	return Event{
		Type:     typ,
		Currency: q.Currency,
		Cycle:    q.Cycle.String(),
		Apps:     len(q.Lines),
		Total:    model.Amount(q.Total),
	}
}
