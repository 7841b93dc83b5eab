package generator

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/shinji-kodama/cobalt/internal/model"
)

// ValidationError represents a specific validation failure in a manifest.
type ValidationError struct {
	// Field is the manifest field that failed validation (e.g., "variables[1].name").
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("generator manifest: %s: %s", e.Field, e.Message)
}

// Validate checks a manifest and returns every problem found
// (empty list = valid manifest).
//
// Checks performed:
//   - name follows the generator naming rules
//   - version, if set, is a semantic version
//   - requires, if set, is a semver constraint
//   - templates stays inside the generator directory
//   - variables have unique, non-empty names and required variables
//     carry no default
func Validate(m *Manifest) []ValidationError {
	var errs []ValidationError

	if err := model.ValidateName(m.Name); err != nil {
		errs = append(errs, ValidationError{Field: "name", Message: err.Error()})
	}

	if m.Version != "" {
		if _, err := semver.StrictNewVersion(m.Version); err != nil {
			errs = append(errs, ValidationError{
				Field:   "version",
				Message: fmt.Sprintf("%q is not a semantic version: %v", m.Version, err),
			})
		}
	}

	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			errs = append(errs, ValidationError{
				Field:   "requires",
				Message: fmt.Sprintf("%q is not a version constraint: %v", m.Requires, err),
			})
		}
	}

	if m.Templates != "" && !filepath.IsLocal(m.Templates) {
		errs = append(errs, ValidationError{
			Field:   "templates",
			Message: fmt.Sprintf("%q must be a relative path inside the generator directory", m.Templates),
		})
	}

	seen := make(map[string]bool)
	for i, v := range m.Variables {
		field := fmt.Sprintf("variables[%d]", i)
		if v.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "must not be empty"})
			continue
		}
		if seen[v.Name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("variable %q is declared more than once", v.Name),
			})
		}
		seen[v.Name] = true
		if v.Required && v.Default != "" {
			errs = append(errs, ValidationError{
				Field:   field + ".default",
				Message: fmt.Sprintf("required variable %q cannot have a default", v.Name),
			})
		}
	}

	return errs
}

// validationErr joins validation errors into one error, or returns nil.
func validationErr(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, 0, len(errs))
	for i := range errs {
		joined = append(joined, &errs[i])
	}
	return errors.Join(joined...)
}
