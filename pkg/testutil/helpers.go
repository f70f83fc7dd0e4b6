// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/salary-compare/pkg/tax"
)

// FindResult finds a jurisdiction's result in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []tax.Result, id tax.Jurisdiction) *tax.Result {
	for i := range results {
		if results[i].CountryID == id {
			return &results[i]
		}
	}
	return nil
}
