// Package validation checks calculator inputs and CLI options before
// evaluation.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/plantation-analytics/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ResolveOutputFormat picks the report format for the run command. A
// non-empty override wins over the configured value, and an unset format
// falls back to pretty. Surrounding whitespace is ignored; case is not.
func ResolveOutputFormat(configured, override string) (string, error) {
	format := strings.TrimSpace(configured)
	if trimmed := strings.TrimSpace(override); trimmed != "" {
		format = trimmed
	}
	if format == "" {
		return constants.OutputFormatPretty, nil
	}
	if err := ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}
