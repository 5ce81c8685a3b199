package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/poupaenergia/poupa/internal/batch"
	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/export"
	"github.com/poupaenergia/poupa/internal/logging"
	"github.com/poupaenergia/poupa/internal/proposal"
	"github.com/poupaenergia/poupa/internal/savings"
)

// Fields is a form submitted as JSON. Values may be strings or numbers;
// nulls are dropped.
type Fields map[string]string

// UnmarshalJSON accepts string and number values.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := make(Fields, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			out[name] = val
		case json.Number:
			out[name] = val.String()
		default:
			return fmt.Errorf("field %q must be a string or a number", name)
		}
	}
	*f = out
	return nil
}

type estimateRequest struct {
	Fields Fields `json:"fields"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	strategy, err := savings.ParseStrategy(r.PathValue("strategy"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	fields, err := readFields(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	est, err := s.engine.Estimate(r.Context(), savings.Request{Strategy: strategy, Fields: fields})
	if err != nil {
		s.metrics.observeEstimate(strategy.String(), resultFor(err))
		writeEngineError(w, err)
		return
	}
	s.metrics.observeEstimate(strategy.String(), resultSuccess)
	writeJSON(w, http.StatusOK, est)
}

// readFields accepts a JSON body {"fields": {...}} or an HTML form.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		fields := make(map[string]string, len(r.PostForm))
		for name, values := range r.PostForm {
			if len(values) > 0 {
				fields[name] = values[0]
			}
		}
		return fields, nil
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return req.Fields, nil
}

type batchRequest struct {
	Scenarios []struct {
		Name     string           `json:"name"`
		Strategy savings.Strategy `json:"strategy"`
		Fields   Fields           `json:"fields"`
	} `json:"scenarios"`
}

type batchResult struct {
	Name     string            `json:"name"`
	Strategy savings.Strategy  `json:"strategy"`
	Estimate *savings.Estimate `json:"estimate,omitempty"`
	Error    *errorResponse    `json:"error,omitempty"`
}

// handleBatch evaluates several scenarios. ?format=xlsx or ?format=pdf
// returns an export instead of JSON.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	scenarios := make([]batch.Scenario, 0, len(req.Scenarios))
	for i, sc := range req.Scenarios {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			name = fmt.Sprintf("scenario-%d", i+1)
		}
		scenarios = append(scenarios, batch.Scenario{Name: name, Strategy: sc.Strategy, Fields: sc.Fields})
	}

	results, err := batch.NewRunner(s.engine, s.concurrency).Run(r.Context(), scenarios)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, batch.ErrNoScenarios) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	sum := batch.Summarize(results)
	s.metrics.observeBatch(sum.Succeeded, sum.Invalid, sum.Failed)

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		out := make([]batchResult, 0, len(results))
		for _, res := range results {
			br := batchResult{Name: res.Scenario.Name, Strategy: res.Scenario.Strategy, Estimate: res.Estimate}
			if res.Err != nil {
				br.Error = toErrorResponse(res.Err)
			}
			out = append(out, br)
		}
		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	case "xlsx", "pdf":
		s.writeExport(w, r, format, results)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported format %q", format)})
	}
}

func (s *Server) writeExport(w http.ResponseWriter, r *http.Request, format string, results []batch.Result) {
	rows := make([]export.Row, 0, len(results))
	for _, res := range results {
		rows = append(rows, export.NewRow(res.Scenario.Name, res.Scenario.Strategy, res.Estimate, res.Err))
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	if format == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, rows, s.engine.Tariffs(), s.now())
	} else {
		contentType = "application/pdf"
		err = export.WritePDF(&buf, rows, s.engine.Tariffs(), s.now())
	}
	if err != nil {
		s.metrics.observeExport(format, resultError)
		logging.FromContext(r.Context()).Error().Ctx(r.Context()).Err(err).Str("format", format).Msg("export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	s.metrics.observeExport(format, resultSuccess)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimates.%s"`, format))
	_, _ = w.Write(buf.Bytes())
}

type catalogService struct {
	ID        catalog.Service    `json:"id"`
	Offers    []catalog.Offer    `json:"offers"`
	Providers []catalog.Provider `json:"providers"`
}

type catalogResponse struct {
	Services           []catalogService    `json:"services"`
	Strategies         []savings.Strategy  `json:"strategies"`
	PowerTiers         []savings.PowerTier `json:"power_tiers"`
	PanelCounts        []int               `json:"panel_counts"`
	TelecomInstruction string              `json:"telecom_instruction"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	resp := catalogResponse{
		Strategies:         savings.Strategies(),
		PowerTiers:         savings.PowerTiers(),
		PanelCounts:        savings.PanelCounts(),
		TelecomInstruction: catalog.TelecomInstruction(),
	}
	for _, svc := range catalog.Services() {
		providers, _ := catalog.Providers(svc)
		resp.Services = append(resp.Services, catalogService{
			ID:        svc,
			Offers:    catalog.Offers(svc),
			Providers: providers,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req proposal.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	ack, err := s.acknowledger.Acknowledge(r.Context(), req)
	if err != nil {
		s.metrics.observeProposal(req.Service.String(), resultInvalid)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.observeProposal(req.Service.String(), resultSuccess)
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func resultFor(err error) string {
	if errors.Is(err, savings.ErrInvalidNumber) {
		return resultInvalid
	}
	return resultError
}

func toErrorResponse(err error) *errorResponse {
	var invalid *savings.InvalidNumberError
	if errors.As(err, &invalid) {
		return &errorResponse{Error: invalid.Error(), Field: invalid.Field, Reason: invalid.Reason}
	}
	return &errorResponse{Error: err.Error()}
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, savings.ErrInvalidNumber):
		writeJSON(w, http.StatusUnprocessableEntity, toErrorResponse(err))
	case errors.Is(err, savings.ErrUnknownStrategy):
		writeJSON(w, http.StatusNotFound, toErrorResponse(err))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
