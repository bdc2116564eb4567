// internal/dataset/inputs.go
package dataset

import (
	"os"

	apperrors "ticket-classifier/internal/common/errors"
)

// CheckInputs verifies every path exists and returns a MissingInput error
// naming all that do not.
func CheckInputs(paths ...string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingInputError(missing...)
	}
	return nil
}
