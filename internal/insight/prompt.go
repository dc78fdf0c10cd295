package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/plantation-analytics/internal/config"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"google.golang.org/genai"
)

// NarrativePrompt builds the consultant prompt for one module's data.
func NarrativePrompt(conf config.InsightConfig, module string, data any) (string, error) {
	conf = conf.WithDefaults()

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s data: %w", module, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert agricultural business consultant for a banana producer in %s.\n", conf.Region)
	fmt.Fprintf(&b, "Analyze the following data from the %s module and provide a concise, strategic recommendation (max %d words).\n",
		module, constants.InsightMaxWords)
	b.WriteString("Focus on profitability and risk.\n")
	fmt.Fprintf(&b, "IMPORTANT: Respond strictly in %s.\n\n", conf.Language)
	b.WriteString("Data:\n")
	b.Write(payload)
	b.WriteString("\n")
	return b.String(), nil
}

// PredictionPrompt builds the forecasting prompt.
func PredictionPrompt(conf config.InsightConfig) string {
	conf = conf.WithDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "Act as an advanced agricultural forecasting system for a banana plantation in %s.\n\n", conf.Region)
	b.WriteString("Simulate the analysis of:\n")
	b.WriteString("1. Historical production data (assume seasonality of the region).\n")
	b.WriteString("2. Global market trends for bananas (price and demand).\n")
	b.WriteString("3. Financial markets (MXN/USD exchange rate).\n")
	b.WriteString("4. Sensor data showing high humidity (85%) and warm temperatures (30°C), typical for fungal growth like Sigatoka.\n\n")
	b.WriteString("Provide a prediction for:\n")
	b.WriteString("- Weekly production for the next 4 weeks (in boxes).\n")
	b.WriteString("- Next week's international price (USD).\n")
	b.WriteString("- Next week's demand growth (%).\n")
	b.WriteString("- Next week's exchange rate (MXN).\n")
	fmt.Fprintf(&b, "- Pest risk level (%s).\n", strings.Join(pestRiskLevels(), ", "))
	b.WriteString("- A short analysis of the pest risk based on the sensor data.\n")
	b.WriteString("- A general executive summary.\n\n")
	fmt.Fprintf(&b, "CRITICAL: All textual analysis (pestRiskAnalysis and generalAnalysis) MUST be written in %s.\n", conf.Language)
	return b.String()
}

func pestRiskLevels() []string {
	return []string{PestRiskLow, PestRiskMedium, PestRiskHigh, PestRiskCritical}
}

// PredictionSchema constrains the model output to the Prediction shape.
func PredictionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"weeklyProductionForecast": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeNumber},
				Description: "Estimated production in boxes for the next 4 weeks",
			},
			"predictedPriceUSD":     {Type: genai.TypeNumber, Description: "Predicted price per box in USD"},
			"predictedDemandGrowth": {Type: genai.TypeNumber, Description: "Predicted demand growth percentage (e.g. 2.5)"},
			"predictedExchangeRate": {Type: genai.TypeNumber, Description: "Predicted MXN/USD exchange rate"},
			"pestRiskLevel": {
				Type:        genai.TypeString,
				Enum:        pestRiskLevels(),
				Description: "Risk level based on sensor data",
			},
			"pestRiskAnalysis": {Type: genai.TypeString, Description: "Explanation of pest risk based on humidity and temperature"},
			"generalAnalysis":  {Type: genai.TypeString, Description: "Executive summary of the market and production outlook"},
		},
		Required: []string{
			"weeklyProductionForecast",
			"predictedPriceUSD",
			"predictedDemandGrowth",
			"predictedExchangeRate",
			"pestRiskLevel",
			"pestRiskAnalysis",
			"generalAnalysis",
		},
	}
}
