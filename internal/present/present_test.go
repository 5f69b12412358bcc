package present

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/models"
	"github.com/malambomutila/ai-weather-app/internal/speech"
	"github.com/malambomutila/ai-weather-app/internal/units"
	"github.com/malambomutila/ai-weather-app/internal/validation"
)

func sampleReport() models.Report {
	r := models.Reading{
		City:        "London",
		TempK:       293.15,
		FeelsLikeK:  292.0,
		Humidity:    56,
		WindSpeed:   4.1,
		Description: "scattered clouds",
		Country:     "GB",
		IconID:      "03d",
	}
	return models.Report{
		Reading:   r,
		Temp:      units.FromKelvin(r.TempK),
		FeelsLike: units.FromKelvin(r.FeelsLikeK),
		IconURL:   "https://openweathermap.org/img/wn/03d@2x.png",
		Timestamp: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestFormatReport(t *testing.T) {
	want := "Temperature in London is 20.00C / 68.00F / 293.15K\n" +
		"Despite a temperature of 20.00C, the temperature feels like 18.85C / 65.93F / 292.00K.\n" +
		"The humidity is 56%.\n" +
		"The general weather is scattered clouds.\n" +
		"Wind speed is 4.10 m/s.\n" +
		"Country: GB\n" +
		"Icon: https://openweathermap.org/img/wn/03d@2x.png\n"
	if got := FormatReport(sampleReport()); got != want {
		t.Errorf("FormatReport() =\n%s\nwant\n%s", got, want)
	}
}

// TestFormatReport_FreezingPoint checks the 273.15K reference point renders as 0.00C / 32.00F.
func TestFormatReport_FreezingPoint(t *testing.T) {
	r := sampleReport()
	r.Reading.TempK = 273.15
	r.Temp = units.FromKelvin(273.15)
	got := FormatReport(r)
	if !strings.HasPrefix(got, "Temperature in London is 0.00C / 32.00F / 273.15K\n") {
		t.Errorf("FormatReport() first line = %q", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestFormatReport_NoIcon(t *testing.T) {
	r := sampleReport()
	r.IconURL = ""
	if got := FormatReport(r); strings.Contains(got, "Icon:") {
		t.Errorf("FormatReport() printed an icon line without an icon URL:\n%s", got)
	}
}

func TestFormatReport_FractionalHumidity(t *testing.T) {
	r := sampleReport()
	r.Reading.Humidity = 56.5
	if got := FormatReport(r); !strings.Contains(got, "The humidity is 56.5%.") {
		t.Errorf("FormatReport() humidity line missing:\n%s", got)
	}
}

func TestConsole_PresentAndError(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsole(&out, &errOut)

	if err := c.Present(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if out.String() != FormatReport(sampleReport()) {
		t.Errorf("Present() wrote %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("Present() wrote to errOut: %q", errOut.String())
	}

	out.Reset()
	if err := c.PresentError(context.Background(), fmt.Errorf("fetch weather for atlantis: %w", client.ErrCityNotFound)); err != nil {
		t.Fatalf("PresentError() error = %v", err)
	}
	if got := errOut.String(); got != "Error: City not found. Check the spelling and try again.\n" {
		t.Errorf("PresentError() wrote %q", got)
	}
	if out.Len() != 0 {
		t.Errorf("PresentError() wrote to out: %q", out.String())
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty city", fmt.Errorf("validate city: %w", validation.ErrCityEmpty), "Please enter a city name."},
		{"too long", validation.ErrCityTooLong, "That city name is not a valid length."},
		{"not found", fmt.Errorf("x: %w", client.ErrCityNotFound), "City not found. Check the spelling and try again."},
		{"network", fmt.Errorf("%w: HTTP 500", client.ErrNetworkFailure), "Could not reach the weather service. Check your connection and try again."},
		{"malformed", client.ErrMalformedResponse, "The weather service sent a response that could not be read."},
		{"extraction", &client.ExtractionError{Field: "main.temp", Reason: "missing"}, "The weather service response is missing main.temp."},
		{"credential", client.ErrMissingCredential, "No API key configured. Set WEATHER_API_KEY or create api_key.txt."},
		{"line too long", fmt.Errorf("read city: %w", bufio.ErrTooLong), "That input line is too long."},
		{"nothing heard", fmt.Errorf("listen: %w", speech.ErrNothingHeard), "No city was heard. Please try again."},
		{"speech unavailable", fmt.Errorf("listen: %w", speech.ErrUnavailable), "Speech is not available. Check the speech settings."},
		{"other", errors.New("boom"), "Something went wrong: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestMessage_NoTransportDetail verifies wrapped causes (which may carry URLs) are not shown.
func TestMessage_NoTransportDetail(t *testing.T) {
	err := fmt.Errorf("%w: Get \"https://api.example.com/?appid=secret\": dial tcp: refused", client.ErrNetworkFailure)
	if got := Message(err); strings.Contains(got, "secret") || strings.Contains(got, "http") {
		t.Errorf("Message() leaked transport detail: %q", got)
	}
}

type recordingSynth struct {
	spoken []string
	err    error
}

func (r *recordingSynth) Speak(_ context.Context, text string) error {
	r.spoken = append(r.spoken, text)
	return r.err
}

func TestSpeech_Present(t *testing.T) {
	synth := &recordingSynth{}
	p := NewSpeech(synth)

	if err := p.Present(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	want := "Temperature in London is 20 degrees Celsius, or 68 degrees Fahrenheit. " +
		"It feels like 19 degrees Celsius. The humidity is 56 percent. " +
		"The general weather is scattered clouds."
	if len(synth.spoken) != 1 || synth.spoken[0] != want {
		t.Errorf("spoken = %q, want %q", synth.spoken, want)
	}
}

func TestSpeech_PresentError(t *testing.T) {
	synth := &recordingSynth{}
	p := NewSpeech(synth)

	if err := p.PresentError(context.Background(), client.ErrCityNotFound); err != nil {
		t.Fatalf("PresentError() error = %v", err)
	}
	if len(synth.spoken) != 1 || synth.spoken[0] != Message(client.ErrCityNotFound) {
		t.Errorf("spoken = %q", synth.spoken)
	}
}

func TestSpeech_SynthFailurePropagates(t *testing.T) {
	want := errors.New("no audio device")
	p := NewSpeech(&recordingSynth{err: want})
	if err := p.Present(context.Background(), sampleReport()); !errors.Is(err, want) {
		t.Errorf("Present() error = %v, want %v", err, want)
	}
}

func TestNarration_BelowZero(t *testing.T) {
	r := sampleReport()
	r.Temp = units.FromKelvin(263.15)
	r.FeelsLike = units.FromKelvin(273.0)
	got := Narration(r)
	if !strings.Contains(got, "is minus 10 degrees Celsius, or 14 degrees Fahrenheit") {
		t.Errorf("Narration() = %q", got)
	}
	if strings.Contains(got, "minus 0") || strings.Contains(got, "-0") {
		t.Errorf("Narration() rendered negative zero: %q", got)
	}
}

func TestWriteIndentedJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndentedJSON(&buf, []byte(`{"main":{"temp":293.15},"name":"London"}`)); err != nil {
		t.Fatalf("WriteIndentedJSON() error = %v", err)
	}
	want := "{\n  \"main\": {\n    \"temp\": 293.15\n  },\n  \"name\": \"London\"\n}\n"
	if buf.String() != want {
		t.Errorf("WriteIndentedJSON() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteIndentedJSON_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndentedJSON(&buf, []byte("<html>")); err == nil {
		t.Error("WriteIndentedJSON() error = nil for non-JSON body")
	}
	if buf.Len() != 0 {
		t.Errorf("WriteIndentedJSON() wrote %q for invalid body", buf.String())
	}
}

func TestMulti(t *testing.T) {
	var out, errOut bytes.Buffer
	failing := &recordingSynth{err: errors.New("no audio device")}
	p := Multi(NewSpeech(failing), NewConsole(&out, &errOut))

	err := p.Present(context.Background(), sampleReport())
	if err == nil || err.Error() != "no audio device" {
		t.Errorf("Present() error = %v, want first failure", err)
	}
	if out.String() != FormatReport(sampleReport()) {
		t.Error("console presenter skipped after speech failure")
	}

	_ = p.PresentError(context.Background(), client.ErrNetworkFailure)
	if len(failing.spoken) != 2 {
		t.Errorf("speech presenter calls = %d, want 2", len(failing.spoken))
	}
	if !strings.HasPrefix(errOut.String(), "Error: Could not reach") {
		t.Errorf("console error = %q", errOut.String())
	}
}
