package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/plantation-analytics/internal/engine"
	"github.com/iwvelando/plantation-analytics/internal/insight"
	"github.com/iwvelando/plantation-analytics/pkg/analysis"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/testutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeNarrator struct {
	text       string
	prediction *insight.Prediction
	err        error
	modules    []string
}

func (f *fakeNarrator) Narrate(_ context.Context, module string, _ any) (string, error) {
	f.modules = append(f.modules, module)
	return f.text, f.err
}

func (f *fakeNarrator) Predict(_ context.Context) (*insight.Prediction, error) {
	return f.prediction, f.err
}

func newTestHandler(narrator insight.Narrator) http.Handler {
	return NewHandler(zap.NewNop(), constants.DefaultMaxBodySizeBytes, "1.2.3", narrator)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	return data
}

func testConfigJSON(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "test", "test_config.yaml"))
	if err != nil {
		t.Fatalf("failed to read test config: %v", err)
	}
	var payload map[string]interface{}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to parse test config: %v", err)
	}
	return mustJSON(t, payload)
}

func TestHandleOptimization(t *testing.T) {
	in := analysis.OptimizationInputs{
		ExportPrice:   12,
		NationalPrice: 140,
		ExchangeRate:  20,
		Capacity:      27000,
		MinNational:   5000,
		LaborExport:   0.003,
		LaborNational: 0.002,
		MaxLaborHours: 70,
	}

	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/optimization", mustJSON(t, in))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got analysis.OptimizationResult
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	expected := analysis.OptimizationResult{ExportUnits: 20000, NationalUnits: 5000, MaxProfit: 5500000, Feasible: true}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("optimization mismatch (-expected +got):\n%s", diff)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Errorf("expected a generated request ID header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected request ID to be echoed, got %q", got)
	}
}

func TestHandleFinancial(t *testing.T) {
	in := analysis.FinancialInputs{InitialInvestment: 5400000, AnnualCashFlow: 2100000, ProjectLife: 5, DiscountRate: 11}

	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/financial", mustJSON(t, in))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got engine.FinancialReport
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !got.Viable || !got.IRRConverged || !got.BeatsDiscountRate {
		t.Errorf("expected a viable converged project, got %+v", got)
	}
	if len(got.CashFlows) != 6 {
		t.Errorf("expected 6 cash flows, got %d", len(got.CashFlows))
	}
}

func TestHandleRisk(t *testing.T) {
	in := analysis.RiskInputs{BaseExchangeRate: 20, ExportVolume: 22000, UnitPrice: 12, FixedCosts: 3000000}

	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/risk", mustJSON(t, in))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got engine.RiskReport
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Points) != constants.SensitivitySteps+1 {
		t.Errorf("expected %d points, got %d", constants.SensitivitySteps+1, len(got.Points))
	}
	if got.Points[0].Rate != 16 || got.Points[len(got.Points)-1].Rate != 24 {
		t.Errorf("unexpected sweep bounds %v .. %v", got.Points[0].Rate, got.Points[len(got.Points)-1].Rate)
	}
}

func TestHandleProductionCost(t *testing.T) {
	body := []byte(`{"hectares": 1, "plantsPerHectare": 1000, "bunchWeightKg": 20,
		"labor": {"date": "2024-04-20", "cost": 20000}}`)

	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/production-cost", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got analysis.ProductionCostResult
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.TotalCost != 20000 || got.CostPerBunch != 20 || got.CostPerKg != 1 {
		t.Errorf("unexpected result %+v", got)
	}
	if len(got.CategoryBreakdown) != 1 || got.CategoryBreakdown[0].Key != "labor" {
		t.Errorf("unexpected breakdown %+v", got.CategoryBreakdown)
	}
}

func TestHandleAnalysisErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   []byte
		status int
	}{
		{"MalformedJSON", "/api/analysis/inventory", []byte("{not json"), http.StatusBadRequest},
		{"EmptyBody", "/api/analysis/leverage", nil, http.StatusBadRequest},
		{"WrongType", "/api/analysis/financial", []byte(`{"projectLife": "five"}`), http.StatusBadRequest},
		{"OversizedLeverageSweep", "/api/analysis/leverage", []byte(`{"operatingIncome": 1000, "interestRate": 5, "maxDebt": 1e10, "stepSize": 1}`), http.StatusBadRequest},
		{"UnencodableResult", "/api/analysis/inventory", []byte(`{"annualDemand": 100, "orderingCost": 10, "holdingCost": -1}`), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, newTestHandler(nil), http.MethodPost, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp["error"] == "" {
				t.Errorf("expected error message in response")
			}
		})
	}
}

func TestHandleLeverageAtPointLimit(t *testing.T) {
	body := mustJSON(t, analysis.LeverageInputs{OperatingIncome: 1e12, InterestRate: 5, MaxDebt: 99, StepSize: 1})
	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/leverage", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result analysis.LeverageResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result.Points) != 100 {
		t.Errorf("expected 100 points, got %d", len(result.Points))
	}
}

func TestBodyLimit(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 128, "", nil)
	body := []byte(`{"annualDemand": 100, "note": "` + strings.Repeat("x", 512) + `"}`)

	rr := doRequest(t, handler, http.MethodPost, "/api/analysis/inventory", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleReport(t *testing.T) {
	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/report", testConfigJSON(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp reportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if diff := cmp.Diff([]string{"Baseline", "Strong peso"}, resp.Scenarios); diff != "" {
		t.Errorf("scenario mismatch (-expected +got):\n%s", diff)
	}
	baseline := testutil.FindReport(resp.Reports, "Baseline")
	if baseline == nil || len(baseline.Modules()) != 6 {
		t.Fatalf("expected baseline report to contain every module, got %+v", baseline)
	}
	strongPeso := testutil.FindReport(resp.Reports, "Strong peso")
	if strongPeso == nil || strongPeso.Risk == nil || strongPeso.Optimization == nil {
		t.Fatalf("expected strong peso report to contain risk and optimization, got %+v", strongPeso)
	}
	if strongPeso.Optimization.MaxProfit >= baseline.Optimization.MaxProfit {
		t.Errorf("a stronger peso should lower the optimal mix profit")
	}
	if !strings.HasPrefix(resp.CSV, `"scenario","module","metric","value"`) {
		t.Errorf("expected CSV header, got %q", resp.CSV)
	}
	if resp.Duration == "" {
		t.Errorf("expected duration in response")
	}
}

func TestHandleReportNoScenarios(t *testing.T) {
	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/report", []byte(`{"scenarios": []}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp reportResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Reports) != 0 {
		t.Errorf("expected no reports, got %d", len(resp.Reports))
	}
	if len(resp.Warnings) == 0 {
		t.Errorf("expected a warning about missing active scenarios")
	}
}

func TestHandleConfigExport(t *testing.T) {
	body := []byte(`{"scenarios": [{"name": "Baseline", "active": true}], "logging": {"level": "info"}, "extra": 1}`)

	rr := doRequest(t, newTestHandler(nil), http.MethodPost, "/api/analysis/export", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	exported := resp["configYaml"]
	logging := strings.Index(exported, "logging:")
	scenarios := strings.Index(exported, "scenarios:")
	extra := strings.Index(exported, "extra:")
	if logging < 0 || scenarios < 0 || extra < 0 {
		t.Fatalf("exported YAML missing keys:\n%s", exported)
	}
	if !(logging < scenarios && scenarios < extra) {
		t.Errorf("exported YAML keys out of order:\n%s", exported)
	}
}

func TestHandleInsight(t *testing.T) {
	narrator := &fakeNarrator{text: "Priorice la exportación."}
	rr := doRequest(t, newTestHandler(narrator), http.MethodPost, "/api/insight/optimization", []byte(`{"exportUnits": 20000}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp insightResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	expected := insightResponse{Module: "optimization", Text: "Priorice la exportación."}
	if diff := cmp.Diff(expected, resp); diff != "" {
		t.Errorf("insight mismatch (-expected +got):\n%s", diff)
	}
}

func TestHandleInsightErrors(t *testing.T) {
	tests := []struct {
		name     string
		narrator insight.Narrator
		path     string
		status   int
	}{
		{"UnknownModule", &fakeNarrator{}, "/api/insight/weather", http.StatusNotFound},
		{"NilNarrator", nil, "/api/insight/risk", http.StatusServiceUnavailable},
		{"NotConfigured", &fakeNarrator{err: insight.ErrNotConfigured}, "/api/insight/risk", http.StatusServiceUnavailable},
		{"UpstreamFailure", &fakeNarrator{err: errors.New("quota exceeded")}, "/api/insight/risk", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, newTestHandler(tt.narrator), http.MethodPost, tt.path, []byte(`{}`))
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandlePredictions(t *testing.T) {
	prediction := &insight.Prediction{
		WeeklyProductionForecast: []float64{1200, 1250, 1180, 1300},
		PredictedPriceUSD:        14.5,
		PestRiskLevel:            insight.PestRiskHigh,
	}

	rr := doRequest(t, newTestHandler(&fakeNarrator{prediction: prediction}), http.MethodGet, "/api/predictions", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var got insight.Prediction
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if diff := cmp.Diff(*prediction, got); diff != "" {
		t.Errorf("prediction mismatch (-expected +got):\n%s", diff)
	}

	rr = doRequest(t, newTestHandler(&fakeNarrator{err: insight.ErrNotConfigured}), http.MethodGet, "/api/predictions", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	rr := doRequest(t, newTestHandler(nil), http.MethodGet, "/api/version", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", resp["version"])
	}

	rr = doRequest(t, NewHandler(nil, 0, "  ", nil), http.MethodGet, "/api/version", nil)
	if !strings.Contains(rr.Body.String(), `"dev"`) {
		t.Errorf("expected default version dev, got %s", rr.Body.String())
	}
}

func TestMethodNotRouted(t *testing.T) {
	rr := doRequest(t, newTestHandler(nil), http.MethodGet, "/api/analysis/optimization", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
