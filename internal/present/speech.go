package present

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/speech"
)

// Speech narrates reports through a synthesizer.
type Speech struct {
	synth speech.Synthesizer
}

// NewSpeech returns a presenter that speaks through synth.
func NewSpeech(synth speech.Synthesizer) *Speech {
	return &Speech{synth: synth}
}

// Present speaks the narration for r.
func (s *Speech) Present(ctx context.Context, r models.Report) error {
	return s.synth.Speak(ctx, Narration(r))
}

// PresentError speaks the user-facing message for err.
func (s *Speech) PresentError(ctx context.Context, err error) error {
	return s.synth.Speak(ctx, Message(err))
}

// Narration is the spoken form of a report. Figures are rounded to whole numbers.
func Narration(r models.Report) string {
	rd := r.Reading
	var b strings.Builder
	fmt.Fprintf(&b, "Temperature in %s is %s degrees Celsius, or %s degrees Fahrenheit. ",
		rd.City, spoken(r.Temp.Celsius), spoken(r.Temp.Fahrenheit))
	fmt.Fprintf(&b, "It feels like %s degrees Celsius. ", spoken(r.FeelsLike.Celsius))
	fmt.Fprintf(&b, "The humidity is %s percent. ", spoken(rd.Humidity))
	if rd.Description != "" {
		fmt.Fprintf(&b, "The general weather is %s.", rd.Description)
	}
	return strings.TrimSpace(b.String())
}

// spoken rounds to an integer and avoids "minus 0".
func spoken(v float64) string {
	n := math.Round(v)
	if n == 0 {
		n = 0
	}
	if n < 0 {
		return fmt.Sprintf("minus %.0f", -n)
	}
	return fmt.Sprintf("%.0f", n)
}
