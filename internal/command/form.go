package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"clipforge/internal/config"
	"clipforge/internal/services"
	"clipforge/internal/textutil"
)

// DefaultBaseName is used when neither the form nor the input supplies a name.
const DefaultBaseName = "output"

// Form holds the raw values submitted for a conversion. Empty strings mean
// the field was omitted.
type Form struct {
	Name  string
	Start string
	Time  string
	Kind  Kind
}

// Request is a validated conversion request.
type Request struct {
	OutputBaseName  string
	StartSeconds    float64
	DurationSeconds float64
	Kind            Kind
}

// Limits bounds and defaults the numeric form fields.
type Limits struct {
	DefaultDuration float64
	MaxDuration     float64
	EnforceMax      bool
}

// DefaultLimits mirrors the configuration defaults.
func DefaultLimits() Limits {
	return Limits{DefaultDuration: 10, MaxDuration: 30, EnforceMax: true}
}

// LimitsFromConfig reads the conversion section of cfg.
func LimitsFromConfig(cfg *config.Config) Limits {
	if cfg == nil {
		return DefaultLimits()
	}
	return Limits{
		DefaultDuration: cfg.Conversion.DefaultDurationSeconds,
		MaxDuration:     cfg.Conversion.MaxDurationSeconds,
		EnforceMax:      cfg.Conversion.EnforceMaxDuration,
	}
}

// ParseForm validates form and fills in defaults. displayName is the selected
// input's name; its extension is stripped to form the default output name.
func ParseForm(form Form, displayName string, limits Limits) (Request, error) {
	if !form.Kind.Valid() {
		return Request{}, services.Wrap(services.ErrInput, "command", "parse form", "output kind not selected", nil)
	}

	start, err := parseSeconds("start", form.Start, 0)
	if err != nil {
		return Request{}, err
	}
	duration, err := parseSeconds("time", form.Time, limits.DefaultDuration)
	if err != nil {
		return Request{}, err
	}
	if limits.EnforceMax && limits.MaxDuration > 0 && duration > limits.MaxDuration {
		return Request{}, services.Wrap(services.ErrInput, "command", "parse form",
			fmt.Sprintf("time %s exceeds the %s second limit", formatSeconds(duration), formatSeconds(limits.MaxDuration)), nil)
	}

	return Request{
		OutputBaseName:  baseName(form.Name, displayName),
		StartSeconds:    start,
		DurationSeconds: duration,
		Kind:            form.Kind,
	}, nil
}

func baseName(name, displayName string) string {
	if cleaned := outputBase(name); cleaned != "" {
		return cleaned
	}
	if cleaned := outputBase(textutil.StripExtension(strings.TrimSpace(displayName))); cleaned != "" {
		return cleaned
	}
	return DefaultBaseName
}

// outputBase sanitizes value for use as the output argument. Leading dashes
// are dropped so ffmpeg never reads the output name as an option.
func outputBase(value string) string {
	cleaned := textutil.SanitizeFileName(value)
	return textutil.SanitizeFileName(strings.TrimLeft(cleaned, "-"))
}

func parseSeconds(field, raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, services.Wrap(services.ErrInput, "command", "parse form",
			fmt.Sprintf("%s must be a number of seconds, got %q", field, raw), nil)
	}
	if value < 0 {
		return 0, services.Wrap(services.ErrInput, "command", "parse form",
			fmt.Sprintf("%s must not be negative, got %q", field, raw), nil)
	}
	return value, nil
}
