// Package server exposes quoting, share links, and report export over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/currency"
	"github.com/theirongolddev/stackcost/internal/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config controls the server runtime.
type Config struct {
	Addr         string
	RateLimit    float64 // requests per second per client IP; 0 disables
	Burst        int
	EventsBuffer int
}

// Event is recorded for every quote, link, and report served.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Currency  string    `json:"currency"`
	Cycle     string    `json:"cycle"`
	Apps      int       `json:"apps"`
	Total     string    `json:"total"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	CatalogSource   string    `json:"catalog_source"`
	RateBase        string    `json:"rate_base"`
	RatesDegraded   bool      `json:"rates_degraded"`
	RequestCount    int64     `json:"request_count"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service serves one catalog and rate table. Both are read-only after New;
// each request prices its own selection.
type Service struct {
	cfg   Config
	cat   *catalog.Catalog
	rates currency.RateTable
	gen   *report.Generator
	style report.HTMLStyle
	log   *zap.SugaredLogger

	mu          sync.RWMutex
	startedAt   time.Time
	requests    int64
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a service with defaults filled in. A nil gen produces reports
// without a chart.
func New(cfg Config, cat *catalog.Catalog, rt currency.RateTable, gen *report.Generator, log *zap.SugaredLogger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8790"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if gen == nil {
		gen = report.NewGenerator(nil, log)
	}

	return &Service{
		cfg:       cfg,
		cat:       cat,
		rates:     rt,
		gen:       gen,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// SetStyle sets the HTML report style.
func (s *Service) SetStyle(style report.HTMLStyle) { s.style = style }

// Handler builds the gin engine with all routes and middleware.
func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogging(s.log))
	r.Use(s.countRequests)

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)

	api := v1.Group("")
	api.Use(RateLimit(s.cfg.RateLimit, s.cfg.Burst, s.log))
	api.GET("/catalog", s.handleCatalog)
	api.GET("/rates", s.handleRates)
	api.POST("/quote", s.handleQuote)
	api.POST("/link", s.handleEncodeLink)
	api.GET("/link", s.handleOpenLink)
	api.POST("/report", s.handleReport)

	return r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Infow("serving", "addr", s.cfg.Addr, "catalog", s.cat.Source())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Service) countRequests(c *gin.Context) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
	c.Next()
}

// record assigns the next event id and publishes ev.
func (s *Service) record(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.mu.Unlock()
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.publishEvent(ev)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		CatalogSource:   s.cat.Source(),
		RateBase:        s.rates.Base,
		RatesDegraded:   s.rates.Degraded,
		RequestCount:    s.requests,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Service) handleStream(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Announce the connection so clients can tell the stream is live.
	writeSSE(w, Event{Type: "hello", Timestamp: time.Now()})
	w.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			w.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
