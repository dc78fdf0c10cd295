// Package constants provides shared constants for the plantation-analytics application.
package constants

// Analysis constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FeasibilityTolerance is the absolute slack allowed when checking a
	// candidate allocation against the mix constraints.
	FeasibilityTolerance = 0.001
)

// Internal rate of return solver parameters
const (
	// IRRInitialGuess is the starting rate (10%) for the Newton iteration
	IRRInitialGuess = 0.1

	// IRRMaxIterations bounds the Newton iteration
	IRRMaxIterations = 20

	// IRRTolerance stops the iteration once successive guesses are this close
	IRRTolerance = 0.0001
)

// Leverage sweep parameters
const (
	// MaxLeveragePoints caps the number of debt levels a single sweep evaluates
	MaxLeveragePoints = 100000
)

// Exchange-rate sensitivity parameters
const (
	// SensitivitySpan is the relative distance swept on either side of the base rate
	SensitivitySpan = 0.2

	// SensitivitySteps is the number of equal steps across the swept range
	SensitivitySteps = 20

	// SensitivityRatePlaces is the number of decimals kept on each sampled rate
	SensitivityRatePlaces = 2

	// SensitivityProfitPlaces is the number of decimals kept on each sampled profit
	SensitivityProfitPlaces = 0
)

// Date handling constants
const (
	// ActivityDateLayout is the format of activity log dates (e.g. 2024-03-15)
	ActivityDateLayout = "2006-01-02"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Narrative service defaults
const (
	// DefaultInsightModel is the generation model used for advisory text
	DefaultInsightModel = "gemini-2.5-flash"

	// DefaultInsightAPIKeyEnv is the environment variable holding the API key
	DefaultInsightAPIKeyEnv = "API_KEY"

	// DefaultInsightLanguage is the language narratives are written in
	DefaultInsightLanguage = "Spanish"

	// DefaultInsightRegion is the growing region named in prompts
	DefaultInsightRegion = "Tapachula, Chiapas"

	// InsightMaxWords caps the length of advisory summaries
	InsightMaxWords = 100
)
