package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// ParseID extracts the "id" path value and requires a positive integer.
// On failure a 400 response is written and false is returned.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	return parsePathValue(w, r, logger, "id", gt(0))
}

func parsePathValue(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, pValidator ParamValidator) (int64, bool) {
	value := r.PathValue(key)
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, value))
		return 0, false
	}
	return intValue, true
}
