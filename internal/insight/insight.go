// Package insight produces advisory narratives and market predictions for the
// plantation through a hosted generative model.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/plantation-analytics/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("insight service is not configured")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("insight service returned an empty response")
)

// Pest risk levels reported by Predict.
const (
	PestRiskLow      = "BAJO"
	PestRiskMedium   = "MEDIO"
	PestRiskHigh     = "ALTO"
	PestRiskCritical = "CRÍTICO"
)

// Prediction is the structured short-term outlook.
type Prediction struct {
	WeeklyProductionForecast []float64 `json:"weeklyProductionForecast" yaml:"weeklyProductionForecast"`
	PredictedPriceUSD        float64   `json:"predictedPriceUSD" yaml:"predictedPriceUSD"`
	PredictedDemandGrowth    float64   `json:"predictedDemandGrowth" yaml:"predictedDemandGrowth"`
	PredictedExchangeRate    float64   `json:"predictedExchangeRate" yaml:"predictedExchangeRate"`
	PestRiskLevel            string    `json:"pestRiskLevel" yaml:"pestRiskLevel"`
	PestRiskAnalysis         string    `json:"pestRiskAnalysis" yaml:"pestRiskAnalysis"`
	GeneralAnalysis          string    `json:"generalAnalysis" yaml:"generalAnalysis"`
}

// Narrator turns module results into advisory text.
type Narrator interface {
	Narrate(ctx context.Context, module string, data any) (string, error)
	Predict(ctx context.Context) (*Prediction, error)
}

// generator is the single model call both operations need.
type generator interface {
	Generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g genaiGenerator) Generate(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenAINarrator is a Narrator backed by the Gemini API.
type GenAINarrator struct {
	logger *zap.Logger
	conf   config.InsightConfig
	gen    generator
}

// NewGenAINarrator creates a narrator from conf. Without an API key the
// narrator is still returned and every call fails with ErrNotConfigured.
func NewGenAINarrator(ctx context.Context, logger *zap.Logger, conf config.InsightConfig) (*GenAINarrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conf = conf.WithDefaults()

	n := &GenAINarrator{logger: logger, conf: conf}

	apiKey := conf.APIKey()
	if apiKey == "" {
		logger.Warn(fmt.Sprintf("no API key found in %s, insights are disabled", conf.APIKeyEnv),
			zap.String("op", "insight.NewGenAINarrator"),
		)
		return n, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	n.gen = genaiGenerator{client: client}
	return n, nil
}

// Configured reports whether the narrator can reach the model.
func (n *GenAINarrator) Configured() bool {
	return n != nil && n.gen != nil
}

// Narrate returns a short recommendation about data produced by module.
func (n *GenAINarrator) Narrate(ctx context.Context, module string, data any) (string, error) {
	if !n.Configured() {
		return "", ErrNotConfigured
	}

	prompt, err := NarrativePrompt(n.conf, module, data)
	if err != nil {
		return "", err
	}

	text, err := n.gen.Generate(ctx, n.conf.Model, prompt, nil)
	if err != nil {
		n.logger.Error("narrative generation failed",
			zap.String("op", "insight.Narrate"),
			zap.String("module", module),
			zap.Error(err),
		)
		return "", fmt.Errorf("generating narrative for %s: %w", module, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Predict returns the structured short-term production and market outlook.
func (n *GenAINarrator) Predict(ctx context.Context) (*Prediction, error) {
	if !n.Configured() {
		return nil, ErrNotConfigured
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   PredictionSchema(),
	}
	text, err := n.gen.Generate(ctx, n.conf.Model, PredictionPrompt(n.conf), cfg)
	if err != nil {
		n.logger.Error("prediction generation failed",
			zap.String("op", "insight.Predict"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("generating prediction: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	return ParsePrediction(text)
}

// ParsePrediction decodes a model response into a Prediction.
func ParsePrediction(text string) (*Prediction, error) {
	var prediction Prediction
	if err := json.Unmarshal([]byte(text), &prediction); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}
	switch prediction.PestRiskLevel {
	case PestRiskLow, PestRiskMedium, PestRiskHigh, PestRiskCritical:
	default:
		return nil, fmt.Errorf("decoding prediction: unknown pest risk level %q", prediction.PestRiskLevel)
	}
	return &prediction, nil
}
