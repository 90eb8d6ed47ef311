// =============================================================================
// Order Summarizer - Configuration Validation
// =============================================================================
//
// This module validates a loaded configuration before any file is touched.
// Field rules are declared as `validate` struct tags on the config types and
// checked with go-playground/validator. Rules that span several fields are
// checked here by hand:
//   - The identifier and quantity columns are valid spreadsheet columns
//   - Group A and group B do not share a letter
//   - The CSV delimiter is one the parser can split on
//
// ERROR HANDLING:
//   - All problems are collected, not returned one at a time
//   - Each error names the YAML path of the offending field
//   - The `validate` command prints them with FormatErrors
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/csvparser"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single invalid configuration value.
type ValidationError struct {
	// Field is the YAML path of the field, e.g. "layout.group_a.letters[1]".
	Field string

	// Value is the offending value as text.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s (value: '%s')", e.Field, e.Message, e.Value)
}

// Errors is a list of validation errors returned as a single error.
type Errors []*ValidationError

// Error implements the error interface.
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// =============================================================================
// VALIDATOR
// =============================================================================

// newValidator builds a validator that reports YAML field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Register custom validators
	_ = v.RegisterValidation("column", isColumn)
	_ = v.RegisterValidation("delimiter", isDelimiter)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isColumn accepts spreadsheet column names such as "A", "I" or "AB".
func isColumn(fl validator.FieldLevel) bool {
	_, err := excelize.ColumnNameToNumber(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// isDelimiter accepts the delimiter names the CSV parser understands.
func isDelimiter(fl validator.FieldLevel) bool {
	return csvparser.IsDelimiter(fl.Field().String())
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateConfig checks cfg and returns every problem found.
//
// PARAMETERS:
//   - cfg: The configuration after defaults were applied.
//
// RETURNS:
//   - nil if the configuration is usable.
//   - An Errors value listing each invalid field otherwise.
func ValidateConfig(cfg *config.MainConfig) error {
	var errs Errors

	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate config: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ValidationError{
				Field:   fieldPath(fe),
				Value:   fmt.Sprint(fe.Value()),
				Rule:    fe.Tag(),
				Message: formatFieldError(fe),
			})
		}
	}

	errs = append(errs, checkDisjointGroups(cfg.Layout)...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// checkDisjointGroups reports letters claimed by both groups. Group A would
// always win, leaving the letter unreachable in group B.
func checkDisjointGroups(layout config.LayoutConfig) []*ValidationError {
	inA := make(map[rune]bool)
	for _, l := range layout.GroupA.Letters {
		if r, size := utf8.DecodeRuneInString(l); size > 0 {
			inA[unicode.ToUpper(r)] = true
		}
	}

	var errs []*ValidationError
	for i, l := range layout.GroupB.Letters {
		r, size := utf8.DecodeRuneInString(l)
		if size == 0 || !inA[unicode.ToUpper(r)] {
			continue
		}
		errs = append(errs, &ValidationError{
			Field:   fmt.Sprintf("layout.group_b.letters[%d]", i),
			Value:   l,
			Rule:    "disjoint",
			Message: "letter is already assigned to group_a",
		})
	}
	return errs
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// fieldPath strips the root type from the namespace:
// "MainConfig.layout.group_a.name" -> "layout.group_a.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatFieldError formats validation error messages.
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s character(s)", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "alpha":
		return "must be a letter"
	case "startswith":
		return fmt.Sprintf("must start with '%s'", fe.Param())
	case "column":
		return "must be a spreadsheet column name such as I or AB"
	case "delimiter":
		return "must be a single character or one of comma, tab, pipe, semicolon"
	default:
		return fmt.Sprintf("failed the '%s' rule", fe.Tag())
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - err: The error returned by ValidateConfig.
//
// RETURNS:
//   - A formatted string containing all errors, one per line.
func FormatErrors(err error) string {
	if err == nil {
		return "No validation errors."
	}

	var errs Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errs)))
	for i, e := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, e.Error()))
	}

	return builder.String()
}
