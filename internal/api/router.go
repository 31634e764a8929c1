// Package api exposes read-only analysis, backtest and screener endpoints.
package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/screener"
)

// Defaults fill query parameters the caller leaves out.
type Defaults struct {
	Period    collector.Period
	Interval  model.Interval
	Universe  []string
	Criterion model.Criterion
}

type handler struct {
	svc      *analysis.Service
	screener *screener.Screener
	defaults Defaults
}

// NewRouter builds the HTTP API.
func NewRouter(svc *analysis.Service, scr *screener.Screener, gatherer prometheus.Gatherer, defaults Defaults) *gin.Engine {
	h := &handler{svc: svc, screener: scr, defaults: defaults}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/analysis/:symbol", h.analysis)
	v1.GET("/backtest/:symbol", h.backtest)
	v1.GET("/screen", h.screen)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[INFO] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// GET /v1/analysis/:symbol?period=6mo&interval=1d
func (h *handler) analysis(c *gin.Context) {
	req, ok := h.request(c)
	if !ok {
		return
	}
	rep, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(req, rep))
}

// GET /v1/backtest/:symbol?period=1y&strategy=MA_CROSS,RSI_OVER
func (h *handler) backtest(c *gin.Context) {
	req, ok := h.request(c)
	if !ok {
		return
	}
	if v := c.Query("strategy"); v != "" {
		for _, name := range strings.Split(v, ",") {
			req.Strategies = append(req.Strategies, model.ParseStrategy(name))
		}
	}
	results, err := h.svc.Backtest(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := backtestResponse{Symbol: req.Symbol, Period: string(req.Period), Results: make([]backtestDTO, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, newBacktestDTO(r))
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/screen?criterion=MACD_BUY&period=1y&symbols=BBCA.JK,TLKM.JK
func (h *handler) screen(c *gin.Context) {
	criterion := h.defaults.Criterion
	if v := c.Query("criterion"); v != "" {
		parsed, err := model.ParseCriterion(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		criterion = parsed
	}
	period, ok := h.period(c)
	if !ok {
		return
	}
	symbols := h.defaults.Universe
	if v := c.Query("symbols"); v != "" {
		symbols = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	matches, err := h.screener.Screen(c.Request.Context(), symbols, criterion, period)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := screenResponse{Criterion: criterion.String(), Period: string(period), Scanned: len(symbols), Matches: make([]matchDTO, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, newMatchDTO(m))
	}
	c.JSON(http.StatusOK, resp)
}

// request parses the symbol path parameter and the period and interval
// queries. It writes a 400 response and returns false on bad input.
func (h *handler) request(c *gin.Context) (analysis.Request, bool) {
	req := analysis.Request{
		Symbol:  strings.ToUpper(c.Param("symbol")),
		Trigger: model.TriggerAPI,
	}
	if err := collector.ValidateSymbol(req.Symbol); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	period, ok := h.period(c)
	if !ok {
		return req, false
	}
	req.Period = period
	req.Interval = h.defaults.Interval
	if c.Query("period") != "" {
		req.Interval = analysis.IntervalFor(period, h.defaults.Interval)
	}
	if v := c.Query("interval"); v != "" {
		iv, err := model.ParseInterval(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return req, false
		}
		req.Interval = iv
	}
	return req, true
}

func (h *handler) period(c *gin.Context) (collector.Period, bool) {
	v := c.Query("period")
	if v == "" {
		return h.defaults.Period, true
	}
	p, err := collector.ParsePeriod(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return p, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calculator.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient data, try a longer period"})
	case errors.Is(err, collector.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
