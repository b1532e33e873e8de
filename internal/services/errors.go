package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput          = errors.New("input error")
	ErrNoInput        = errors.New("no input selected")
	ErrBusy           = errors.New("conversion in progress")
	ErrEngineNotReady = errors.New("engine not ready")
	ErrConversion     = errors.New("conversion error")
	ErrDelivery       = errors.New("delivery error")
	ErrConfiguration  = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConversion
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Outcome maps an error to the label used in metrics and user-facing
// summaries. A nil error reports "ok".
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrNoInput):
		return "no_input"
	case errors.Is(err, ErrEngineNotReady):
		return "engine_not_ready"
	case errors.Is(err, ErrDelivery):
		return "delivery"
	case errors.Is(err, ErrConversion):
		return "conversion"
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
