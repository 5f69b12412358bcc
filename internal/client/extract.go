package client

import (
	"errors"
	"fmt"

	"github.com/malambomutila/ai-weather-app/internal/models"
)

// ErrExtraction matches any *ExtractionError via errors.Is.
var ErrExtraction = errors.New("extraction failed")

// ExtractionError names the first required field that was absent or of the wrong kind.
type ExtractionError struct {
	Field  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Field, e.Reason)
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// Extract pulls the required fields out of a decoded provider payload.
// It is all-or-nothing: on error the returned Reading is the zero value.
// Values are returned as provided; no conversion happens here.
func Extract(payload map[string]any) (models.Reading, error) {
	main, err := object(payload, "main")
	if err != nil {
		return models.Reading{}, err
	}
	wind, err := object(payload, "wind")
	if err != nil {
		return models.Reading{}, err
	}
	sys, err := object(payload, "sys")
	if err != nil {
		return models.Reading{}, err
	}
	cond, err := firstCondition(payload)
	if err != nil {
		return models.Reading{}, err
	}

	var r models.Reading
	if r.TempK, err = number(main, "main.temp", "temp"); err != nil {
		return models.Reading{}, err
	}
	if r.FeelsLikeK, err = number(main, "main.feels_like", "feels_like"); err != nil {
		return models.Reading{}, err
	}
	if r.Humidity, err = number(main, "main.humidity", "humidity"); err != nil {
		return models.Reading{}, err
	}
	if r.WindSpeed, err = number(wind, "wind.speed", "speed"); err != nil {
		return models.Reading{}, err
	}
	if r.Description, err = str(cond, "weather[0].description", "description"); err != nil {
		return models.Reading{}, err
	}
	if r.Country, err = str(sys, "sys.country", "country"); err != nil {
		return models.Reading{}, err
	}
	if r.IconID, err = str(cond, "weather[0].icon", "icon"); err != nil {
		return models.Reading{}, err
	}
	return r, nil
}

func object(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, &ExtractionError{Field: key, Reason: "missing"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ExtractionError{Field: key, Reason: fmt.Sprintf("want object, got %s", kind(v))}
	}
	return obj, nil
}

func firstCondition(payload map[string]any) (map[string]any, error) {
	v, ok := payload["weather"]
	if !ok || v == nil {
		return nil, &ExtractionError{Field: "weather", Reason: "missing"}
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &ExtractionError{Field: "weather", Reason: fmt.Sprintf("want array, got %s", kind(v))}
	}
	if len(list) == 0 {
		return nil, &ExtractionError{Field: "weather", Reason: "empty array"}
	}
	obj, ok := list[0].(map[string]any)
	if !ok {
		return nil, &ExtractionError{Field: "weather[0]", Reason: fmt.Sprintf("want object, got %s", kind(list[0]))}
	}
	return obj, nil
}

func number(m map[string]any, path, key string) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, &ExtractionError{Field: path, Reason: "missing"}
	}
	f, ok := v.(float64)
	if !ok {
		return 0, &ExtractionError{Field: path, Reason: fmt.Sprintf("want number, got %s", kind(v))}
	}
	return f, nil
}

func str(m map[string]any, path, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", &ExtractionError{Field: path, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ExtractionError{Field: path, Reason: fmt.Sprintf("want string, got %s", kind(v))}
	}
	return s, nil
}

// kind names a decoded JSON value's type for error messages.
func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
