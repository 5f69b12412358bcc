// Package input obtains city names from a person.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/malambomutila/ai-weather-app/internal/speech"
)

// ErrCancelled is returned when the user closes input (EOF) or interrupts before answering.
var ErrCancelled = errors.New("input cancelled")

// DefaultPrompt is shown before reading a city from the console.
const DefaultPrompt = "Enter City: "

// Source yields one city per call.
type Source interface {
	ReadCity(ctx context.Context) (string, error)
}

// Prompt reads cities line by line from a reader, writing a prompt before each.
type Prompt struct {
	prompt  string
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompt reads from in and writes the prompt to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{prompt: DefaultPrompt, out: out, scanner: bufio.NewScanner(in)}
}

// ReadCity returns the next line with surrounding whitespace removed. The result
// may be empty; validation is the caller's concern. EOF or a cancelled ctx yields
// ErrCancelled.
//
// The read itself cannot be interrupted; ctx is checked before prompting and
// after the line arrives.
func (p *Prompt) ReadCity(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if _, err := io.WriteString(p.out, p.prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read city: %w", err)
		}
		return "", ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Voice takes the city from a speech recognizer, optionally announcing the prompt first.
type Voice struct {
	rec    speech.Recognizer
	synth  speech.Synthesizer
	prompt string
}

// NewVoice listens through rec. When synth is non-nil the prompt is spoken before listening.
func NewVoice(rec speech.Recognizer, synth speech.Synthesizer) *Voice {
	return &Voice{rec: rec, synth: synth, prompt: "Which city?"}
}

// ReadCity returns the recognized transcript, trimmed.
func (v *Voice) ReadCity(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if v.synth != nil {
		if err := v.synth.Speak(ctx, v.prompt); err != nil {
			return "", fmt.Errorf("speak prompt: %w", err)
		}
	}
	text, err := v.rec.Listen(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return "", fmt.Errorf("listen: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Fixed is a Source that always yields the same city, for non-interactive runs.
type Fixed string

// ReadCity returns the city, trimmed.
func (f Fixed) ReadCity(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return strings.TrimSpace(string(f)), nil
}
