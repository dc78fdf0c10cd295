package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/iwvelando/plantation-analytics/internal/config"
	"github.com/iwvelando/plantation-analytics/internal/engine"
	"github.com/iwvelando/plantation-analytics/internal/insight"
	"github.com/iwvelando/plantation-analytics/pkg/analysis"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/output"
	"github.com/iwvelando/plantation-analytics/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// errInvalidInput marks calculator inputs rejected before evaluation.
var errInvalidInput = errors.New("invalid input")

// Modules accepted by the insight endpoint.
var insightModules = map[string]struct{}{
	"optimization":   {},
	"inventory":      {},
	"financial":      {},
	"leverage":       {},
	"risk":           {},
	"productionCost": {},
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	narrator    insight.Narrator
}

// NewHandler constructs the HTTP handler that serves the analysis API. A nil
// narrator disables the insight endpoints.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, narrator insight.Narrator) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion, narrator: narrator}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(h.requestID)
	router.Use(h.logRequest)
	router.Use(h.limitBody)

	api := router.Group("/api")
	analysisGroup := api.Group("/analysis")
	analysisGroup.POST("/optimization", analyze(h, "server.handleOptimization", validation.OptimizationWarnings,
		func(in analysis.OptimizationInputs) (analysis.OptimizationResult, error) {
			return analysis.OptimizeMix(in), nil
		}))
	analysisGroup.POST("/inventory", analyze(h, "server.handleInventory", validation.InventoryWarnings,
		func(in analysis.InventoryInputs) (analysis.InventoryResult, error) {
			return analysis.EconomicOrderQuantity(in), nil
		}))
	analysisGroup.POST("/financial", analyze(h, "server.handleFinancial", validation.FinancialWarnings,
		func(in analysis.FinancialInputs) (*engine.FinancialReport, error) {
			return engine.EvaluateFinancial(h.logger, "request", in), nil
		}))
	analysisGroup.POST("/leverage", analyze(h, "server.handleLeverage", validation.LeverageWarnings,
		func(in analysis.LeverageInputs) (analysis.LeverageResult, error) {
			if in.ExceedsPointLimit() {
				return analysis.LeverageResult{}, fmt.Errorf("%w: sweep would evaluate more than %d debt levels", errInvalidInput, constants.MaxLeveragePoints)
			}
			return analysis.SweepLeverage(in), nil
		}))
	analysisGroup.POST("/risk", analyze(h, "server.handleRisk", validation.RiskWarnings, engine.SummarizeRisk))
	analysisGroup.POST("/production-cost", analyze(h, "server.handleProductionCost", validation.ProductionCostWarnings,
		func(in analysis.ProductionCostInputs) (analysis.ProductionCostResult, error) {
			return analysis.AllocateProductionCost(in), nil
		}))
	analysisGroup.POST("/report", h.handleReport)
	analysisGroup.POST("/export", h.handleConfigExport)

	api.POST("/insight/:module", h.handleInsight)
	api.GET("/predictions", h.handlePredictions)
	api.GET("/version", h.handleVersion)

	return router
}

func (h *handler) requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (h *handler) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()

	h.logger.Debug("request handled",
		zap.String("op", "server.logRequest"),
		zap.String("requestID", c.GetString("requestID")),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("duration", time.Since(start)),
	)
}

func (h *handler) limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}
	c.Next()
}

// bindJSON decodes the request body into v, responding on failure.
func (h *handler) bindJSON(c *gin.Context, v any, op string) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(c, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// analyze wraps a single calculator as a JSON endpoint.
func analyze[In, Out any](h *handler, op string, warn func(string, In) []string, run func(In) (Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in In
		if !h.bindJSON(c, &in, op) {
			return
		}

		for _, warning := range warn("Request", in) {
			h.logger.Warn(warning,
				zap.String("op", op),
				zap.String("requestID", c.GetString("requestID")),
			)
		}

		result, err := run(in)
		if errors.Is(err, errInvalidInput) {
			h.respondErrorWithOp(c, http.StatusBadRequest, err.Error(), op)
			return
		}
		if err != nil {
			h.respondErrorWithOp(c, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.writeJSON(c, http.StatusOK, result)
	}
}

type reportResponse struct {
	Scenarios []string        `json:"scenarios"`
	Reports   []engine.Report `json:"reports"`
	CSV       string          `json:"csv"`
	Warnings  []string        `json:"warnings,omitempty"`
	Duration  string          `json:"duration"`
}

func (h *handler) handleReport(c *gin.Context) {
	const op = "server.handleReport"
	start := time.Now()

	var payload map[string]interface{}
	if !h.bindJSON(c, &payload, op) {
		return
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(c, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(c, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	reports, err := engine.Evaluate(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(c, http.StatusInternalServerError, fmt.Sprintf("failed to evaluate scenarios: %v", err), op)
		return
	}

	var csvBuf bytes.Buffer
	output.CsvFormat(&csvBuf, reports)

	names := make([]string, 0, len(reports))
	for _, report := range reports {
		names = append(names, report.Scenario)
	}
	if reports == nil {
		reports = []engine.Report{}
	}

	elapsed := time.Since(start)
	h.logger.Info("report computed",
		zap.String("op", op),
		zap.String("requestID", c.GetString("requestID")),
		zap.Int("scenarios", len(reports)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(c, http.StatusOK, reportResponse{
		Scenarios: names,
		Reports:   reports,
		CSV:       csvBuf.String(),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

func (h *handler) handleConfigExport(c *gin.Context) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if !h.bindJSON(c, &payload, op) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(c, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(c, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

type insightResponse struct {
	Module string `json:"module"`
	Text   string `json:"text"`
}

func (h *handler) handleInsight(c *gin.Context) {
	const op = "server.handleInsight"

	module := c.Param("module")
	if _, ok := insightModules[module]; !ok {
		h.respondErrorWithOp(c, http.StatusNotFound, fmt.Sprintf("unknown module %q", module), op)
		return
	}

	var data any
	if !h.bindJSON(c, &data, op) {
		return
	}

	if h.narrator == nil {
		h.respondInsightError(c, insight.ErrNotConfigured, op)
		return
	}
	text, err := h.narrator.Narrate(c.Request.Context(), module, data)
	if err != nil {
		h.respondInsightError(c, err, op)
		return
	}

	h.writeJSON(c, http.StatusOK, insightResponse{Module: module, Text: text})
}

func (h *handler) handlePredictions(c *gin.Context) {
	const op = "server.handlePredictions"

	if h.narrator == nil {
		h.respondInsightError(c, insight.ErrNotConfigured, op)
		return
	}
	prediction, err := h.narrator.Predict(c.Request.Context())
	if err != nil {
		h.respondInsightError(c, err, op)
		return
	}

	h.writeJSON(c, http.StatusOK, prediction)
}

func (h *handler) respondInsightError(c *gin.Context, err error, op string) {
	if errors.Is(err, insight.ErrNotConfigured) {
		h.respondErrorWithOp(c, http.StatusServiceUnavailable, err.Error(), op)
		return
	}
	h.respondErrorWithOp(c, http.StatusBadGateway, err.Error(), op)
}

func (h *handler) handleVersion(c *gin.Context) {
	h.writeJSON(c, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "insight", "scenarios"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondErrorWithOp(c *gin.Context, status int, msg string, op string) {
	h.logger.Error("analysis request failed",
		zap.String("op", op),
		zap.String("requestID", c.GetString("requestID")),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// writeJSON encodes payload before writing so a value that cannot be
// represented (NaN, Inf) becomes an error response instead of a truncated body.
func (h *handler) writeJSON(c *gin.Context, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(c, http.StatusInternalServerError,
			fmt.Sprintf("result cannot be encoded as JSON: %v", err), "server.writeJSON")
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}
