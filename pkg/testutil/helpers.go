// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/plantation-analytics/internal/engine"
)

// FindReport finds a scenario report by name in the reports slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(reports []engine.Report, name string) *engine.Report {
	for i := range reports {
		if reports[i].Scenario == name {
			return &reports[i]
		}
	}
	return nil
}
