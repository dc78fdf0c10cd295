// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/plantation-analytics/pkg/analysis"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for plantation-analytics.
type Configuration struct {
	Logging   LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Output    OutputConfig  `json:"output,omitempty" yaml:"output,omitempty"`
	Insight   InsightConfig `json:"insight,omitempty" yaml:"insight,omitempty"`
	Scenarios []Scenario    `json:"scenarios" yaml:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`         // json, console
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // pretty, csv
}

// InsightConfig configures the narrative service used for advisory text.
type InsightConfig struct {
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKeyEnv string `json:"apiKeyEnv,omitempty" yaml:"apiKeyEnv,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Scenario is a named set of calculator inputs. Every module is optional;
// only the modules present are evaluated.
type Scenario struct {
	Name           string                         `json:"name" yaml:"name"`
	Active         bool                           `json:"active" yaml:"active"`
	Optimization   *analysis.OptimizationInputs   `json:"optimization,omitempty" yaml:"optimization,omitempty"`
	Inventory      *analysis.InventoryInputs      `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Financial      *analysis.FinancialInputs      `json:"financial,omitempty" yaml:"financial,omitempty"`
	Leverage       *analysis.LeverageInputs       `json:"leverage,omitempty" yaml:"leverage,omitempty"`
	Risk           *analysis.RiskInputs           `json:"risk,omitempty" yaml:"risk,omitempty"`
	ProductionCost *analysis.ProductionCostInputs `json:"productionCost,omitempty" yaml:"productionCost,omitempty"`
}

// Empty reports whether the scenario carries no module inputs.
func (s Scenario) Empty() bool {
	return s.Optimization == nil && s.Inventory == nil && s.Financial == nil &&
		s.Leverage == nil && s.Risk == nil && s.ProductionCost == nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Insight = configuration.Insight.WithDefaults()
	return &configuration, nil
}

// WithDefaults fills any unset insight option with its default.
func (c InsightConfig) WithDefaults() InsightConfig {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = constants.DefaultInsightModel
	}
	if strings.TrimSpace(c.APIKeyEnv) == "" {
		c.APIKeyEnv = constants.DefaultInsightAPIKeyEnv
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = constants.DefaultInsightLanguage
	}
	if strings.TrimSpace(c.Region) == "" {
		c.Region = constants.DefaultInsightRegion
	}
	return c
}

// APIKey reads the narrative service key from the configured environment
// variable.
func (c InsightConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.WithDefaults().APIKeyEnv))
}

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios configured - nothing will be evaluated")
	}

	seen := make(map[string]struct{})
	for _, scenario := range c.Scenarios {
		if _, dup := seen[scenario.Name]; dup {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once", scenario.Name))
		}
		seen[scenario.Name] = struct{}{}

		if !scenario.Active {
			continue
		}
		if strings.TrimSpace(scenario.Name) == "" {
			warnings = append(warnings, "Active scenario has no name")
		}
		if scenario.Empty() {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no module inputs", scenario.Name))
			continue
		}
		warnings = append(warnings, scenario.Warnings()...)
	}

	return warnings
}

// Warnings collects the input warnings for every module present in s.
func (s Scenario) Warnings() []string {
	var warnings []string
	label := func(module string) string {
		return fmt.Sprintf("Scenario '%s' %s", s.Name, module)
	}
	if s.Optimization != nil {
		warnings = append(warnings, validation.OptimizationWarnings(label("optimization"), *s.Optimization)...)
	}
	if s.Inventory != nil {
		warnings = append(warnings, validation.InventoryWarnings(label("inventory"), *s.Inventory)...)
	}
	if s.Financial != nil {
		warnings = append(warnings, validation.FinancialWarnings(label("financial"), *s.Financial)...)
	}
	if s.Leverage != nil {
		warnings = append(warnings, validation.LeverageWarnings(label("leverage"), *s.Leverage)...)
	}
	if s.Risk != nil {
		warnings = append(warnings, validation.RiskWarnings(label("risk"), *s.Risk)...)
	}
	if s.ProductionCost != nil {
		warnings = append(warnings, validation.ProductionCostWarnings(label("productionCost"), *s.ProductionCost)...)
	}
	return warnings
}
