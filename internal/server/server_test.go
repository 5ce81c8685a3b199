package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poupaenergia/poupa/internal/savings"
)

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	engine, err := savings.NewEngine(savings.DefaultTariffs())
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	srv, err := New(engine, Options{Logger: zerolog.Nop(), Registry: reg, BatchConcurrency: 2, ExposeMetrics: true})
	require.NoError(t, err)
	return srv, reg
}

func do(t *testing.T, h http.Handler, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFieldsUnmarshalJSON(t *testing.T) {
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(`{"consumption":150,"current_rate":"0,1529","power_tier":null}`), &f))
	assert.Equal(t, Fields{"consumption": "150", "current_rate": "0,1529"}, f)

	assert.Error(t, json.Unmarshal([]byte(`{"consumption":[1]}`), &f))
}

func TestHandleEstimate(t *testing.T) {
	srv, reg := newTestServer(t)
	h := srv.Handler()

	t.Run("json body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates/energy", "application/json",
			strings.NewReader(`{"fields":{"consumption":150,"current_rate":0.1529,"comparison_rate":0.1147}}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(TraceHeader))

		var got savings.Estimate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.Savings)
		assert.Equal(t, "5.73", got.Savings.MonthlySavings.StringFixed(2))
		assert.Equal(t, "68.76", got.Savings.AnnualSavings.StringFixed(2))
	})

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"power": {"100"}, "hours": {"2"}, "days": {"20"}}
		rec := do(t, h, http.MethodPost, "/api/v1/estimates/appliance", "application/x-www-form-urlencoded",
			strings.NewReader(form.Encode()))
		require.Equal(t, http.StatusOK, rec.Code)

		var got savings.Estimate
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.NotNil(t, got.Appliance)
		assert.Equal(t, "4.00", got.Appliance.MonthlyKWh.StringFixed(2))
	})

	t.Run("invalid number", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates/energy", "application/json",
			strings.NewReader(`{"fields":{"consumption":"abc","current_rate":"0.15"}}`))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var got errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, savings.FieldConsumption, got.Field)
		assert.Equal(t, savings.ReasonNotNumber, got.Reason)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates/wind", "application/json", strings.NewReader(`{}`))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/estimates/energy", "application/json", strings.NewReader(`{`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/v1/estimates/energy", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.estimateTotal.WithLabelValues("energy", resultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(srv.metrics.estimateTotal.WithLabelValues("energy", resultInvalid)), 0)
	assert.Positive(t, testutil.CollectAndCount(reg, metricPrefix+"http_requests_total"))
}

func TestHandleEstimate_TraceHeaderEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(TraceHeader, "trace-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-123", rec.Header().Get(TraceHeader))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleCatalog(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Services, 2)
	assert.Equal(t, savings.PanelCounts(), got.PanelCounts)
	assert.Contains(t, got.TelecomInstruction, "3748")
	for _, svc := range got.Services {
		assert.NotEmpty(t, svc.Providers, "service %s", svc.ID)
	}
}

func TestHandleProposal(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "energy with email",
			body:     `{"service":"energy","provider":"edp","email":"ana@example.pt"}`,
			wantCode: http.StatusOK,
			wantMsg:  "Obrigado",
		},
		{
			name:     "telecom needs no contact",
			body:     `{"service":"telecom","provider":"meo"}`,
			wantCode: http.StatusOK,
			wantMsg:  "3748",
		},
		{
			name:     "energy without contact",
			body:     `{"service":"energy"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown service",
			body:     `{"service":"water","email":"ana@example.pt"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/proposals", "application/json", strings.NewReader(tt.body))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestHandleBatch(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	body := `{"scenarios":[
		{"name":"casa","strategy":"energy","fields":{"consumption":150,"current_rate":0.1529}},
		{"strategy":"solar-panels","fields":{"panels":7}}
	]}`

	t.Run("json", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/batch", "application/json", strings.NewReader(body))
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Results []batchResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Results, 2)
		assert.Equal(t, "casa", got.Results[0].Name)
		assert.NotNil(t, got.Results[0].Estimate)
		assert.Equal(t, "scenario-2", got.Results[1].Name)
		require.NotNil(t, got.Results[1].Error)
		assert.Equal(t, savings.ReasonUnsupportedPanels, got.Results[1].Error.Reason)
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/batch?format=xlsx", "application/json", strings.NewReader(body))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "estimates.xlsx")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("pdf", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/batch?format=pdf", "application/json", strings.NewReader(body))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/batch?format=csv", "application/json", strings.NewReader(body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/v1/batch", "application/json", strings.NewReader(`{"scenarios":[]}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	do(t, h, http.MethodGet, "/healthz", "", nil)
	rec := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "poupa_http_requests_total")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	engine, err := savings.NewEngine(savings.DefaultTariffs())
	require.NoError(t, err)
	srv, err := New(engine, Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	rec := do(t, srv.Handler(), http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_NilEngine(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, srv.Handler(), time.Second, time.Second, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
