package main

import (
	"fmt"

	"github.com/iwvelando/plantation-analytics/internal/config"
	"github.com/iwvelando/plantation-analytics/internal/engine"
	"github.com/iwvelando/plantation-analytics/pkg/constants"
	"github.com/iwvelando/plantation-analytics/pkg/output"
	"github.com/iwvelando/plantation-analytics/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configLocation   string
	outputFormatFlag string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate every active scenario in a configuration file",
	Args:  cobra.NoArgs,
	RunE:  runAnalysis,
}

func init() {
	runCmd.Flags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	runCmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv")
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	conf, err := config.LoadConfiguration(configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}

	logger, err = initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	outputFormat, err := validation.ResolveOutputFormat(conf.Output.Format, outputFormatFlag)
	if err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runAnalysis"),
		)
	}

	reports, err := engine.Evaluate(logger, *conf)
	if err != nil {
		logger.Error("failed to evaluate scenarios",
			zap.String("op", "main.runAnalysis"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(cmd.OutOrStdout(), reports)
	case constants.OutputFormatCSV:
		output.CsvFormat(cmd.OutOrStdout(), reports)
	}
	return nil
}
