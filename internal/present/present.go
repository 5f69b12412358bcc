// Package present renders weather reports and query failures for people.
package present

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/speech"
	"github.com/malambomutila/ai-weather-app/internal/validation"
)

// Presenter shows the outcome of one query.
type Presenter interface {
	Present(ctx context.Context, report models.Report) error
	PresentError(ctx context.Context, err error) error
}

// Message turns a pipeline error into one sentence a user can act on.
// Provider and transport details stay out of it.
func Message(err error) string {
	var xe *client.ExtractionError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validation.ErrCityEmpty):
		return "Please enter a city name."
	case errors.Is(err, validation.ErrCityTooShort), errors.Is(err, validation.ErrCityTooLong):
		return "That city name is not a valid length."
	case errors.Is(err, validation.ErrCityInvalidChars):
		return "City names may only contain letters, digits, spaces and , - . ' ( )"
	case errors.Is(err, bufio.ErrTooLong):
		return "That input line is too long."
	case errors.Is(err, speech.ErrNothingHeard):
		return "No city was heard. Please try again."
	case errors.Is(err, speech.ErrUnavailable), errors.Is(err, speech.ErrNoCommand):
		return "Speech is not available. Check the speech settings."
	case errors.Is(err, client.ErrMissingCredential):
		return "No API key configured. Set WEATHER_API_KEY or create api_key.txt."
	case errors.Is(err, client.ErrCityNotFound):
		return "City not found. Check the spelling and try again."
	case errors.Is(err, client.ErrNetworkFailure):
		return "Could not reach the weather service. Check your connection and try again."
	case errors.Is(err, client.ErrMalformedResponse):
		return "The weather service sent a response that could not be read."
	case errors.As(err, &xe):
		return fmt.Sprintf("The weather service response is missing %s.", xe.Field)
	default:
		return "Something went wrong: " + err.Error()
	}
}

func formatHumidity(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// Multi fans out to every presenter in order and returns the first failure.
// Later presenters still run after an earlier one fails.
func Multi(ps ...Presenter) Presenter {
	return multi(ps)
}

type multi []Presenter

func (m multi) Present(ctx context.Context, r models.Report) error {
	var first error
	for _, p := range m {
		if err := p.Present(ctx, r); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multi) PresentError(ctx context.Context, err error) error {
	var first error
	for _, p := range m {
		if perr := p.PresentError(ctx, err); perr != nil && first == nil {
			first = perr
		}
	}
	return first
}
