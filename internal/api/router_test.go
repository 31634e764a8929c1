package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/backtest"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/screener"
	"SignalSentinel/internal/strategy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, f collector.Fetcher) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	c := collector.NewCollector(f, calculator.DefaultParams(), time.UTC, 0)
	th := strategy.DefaultThresholds()
	svc := analysis.NewService(c, th, backtest.DefaultConfig(), nil, nil, nil, m)
	scr := screener.NewScreener(c, th, 2, nil, m)
	return NewRouter(svc, scr, reg, Defaults{
		Period:    collector.Period1y,
		Interval:  model.Interval1d,
		Universe:  []string{"BBCA.JK", "TLKM.JK"},
		Criterion: model.CriterionMACDBuy,
	})
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestRouter(t, &collector.MockFetcher{}), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalysis_OK(t *testing.T) {
	r := newTestRouter(t, &collector.MockFetcher{})
	w := get(t, r, "/v1/analysis/bbca.jk")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BBCA.JK", resp.Symbol)
	assert.Equal(t, "1y", resp.Period)
	assert.Equal(t, "1d", resp.Interval)
	assert.NotEmpty(t, resp.RunID)
	assert.NotEmpty(t, resp.Trends)
	assert.Equal(t, string(model.DirectionUnavailable), resp.Summary.Prediction.Label)

	// The metrics endpoint exposes the analysis counter.
	mw := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), `sentinel_analyses_total{outcome="ok",trigger="API"} 1`)
}

func TestAnalysis_PresetInterval(t *testing.T) {
	w := get(t, newTestRouter(t, &collector.MockFetcher{}), "/v1/analysis/BBCA.JK?period=3mo")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp analysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1h", resp.Interval)
}

func TestAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher collector.Fetcher
		path    string
		code    int
		msg     string
	}{
		{"invalid symbol", &collector.MockFetcher{}, "/v1/analysis/AB", http.StatusBadRequest, "invalid symbol"},
		{"bad period", &collector.MockFetcher{}, "/v1/analysis/BBCA.JK?period=3w", http.StatusBadRequest, "unknown period"},
		{"bad interval", &collector.MockFetcher{}, "/v1/analysis/BBCA.JK?interval=7s", http.StatusBadRequest, "interval"},
		{"insufficient data", &collector.MockFetcher{Count: 30}, "/v1/analysis/BBCA.JK", http.StatusUnprocessableEntity, "insufficient data, try a longer period"},
		{"no data", &collector.MockFetcher{Err: collector.ErrNoData}, "/v1/analysis/BBCA.JK", http.StatusNotFound, "no data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newTestRouter(t, tt.fetcher), tt.path)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
}

func TestBacktest(t *testing.T) {
	r := newTestRouter(t, &collector.MockFetcher{})

	w := get(t, r, "/v1/backtest/TLKM.JK")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all backtestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all.Results, len(model.Strategies))
	assert.Equal(t, "MA_CROSS", all.Results[0].Strategy)

	w = get(t, r, "/v1/backtest/TLKM.JK?strategy=rsi_over,bogus")
	require.Equal(t, http.StatusOK, w.Code)
	var some backtestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &some))
	require.Len(t, some.Results, 2)
	assert.Equal(t, "RSI_OVER", some.Results[0].Strategy)
	assert.Equal(t, "UNKNOWN", some.Results[1].Strategy)
	assert.Zero(t, some.Results[1].Trades)
	assert.True(t, math.IsNaN(float64(some.Results[1].ProfitFactor)))
}

func TestScreen(t *testing.T) {
	r := newTestRouter(t, &collector.MockFetcher{})

	w := get(t, r, "/v1/screen")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp screenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MACD_BUY", resp.Criterion)
	assert.Equal(t, 2, resp.Scanned)
	assert.NotNil(t, resp.Matches)

	w = get(t, r, "/v1/screen?criterion=death_cross&symbols=asii.jk,,unvr.jk")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "DEATH_CROSS", resp.Criterion)
	assert.Equal(t, 2, resp.Scanned)

	w = get(t, r, "/v1/screen?criterion=nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNumber_JSON(t *testing.T) {
	b, err := json.Marshal([]Number{1.5, Number(math.NaN()), Number(math.Inf(1)), Number(math.Inf(-1))})
	require.NoError(t, err)
	assert.Equal(t, `[1.5,"NaN","+Inf","-Inf"]`, string(b))

	var back []Number
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Number(1.5), back[0])
	assert.True(t, math.IsNaN(float64(back[1])))
	assert.True(t, math.IsInf(float64(back[2]), 1))
	assert.True(t, math.IsInf(float64(back[3]), -1))
	assert.False(t, strings.Contains(string(b), "null"))
}
