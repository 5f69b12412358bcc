// Package speech connects the pipeline to external text-to-speech and
// speech-to-text programs.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNoCommand is returned when a speech command line is empty.
	ErrNoCommand = errors.New("speech command not configured")
	// ErrUnavailable is returned when the configured program cannot be found or started.
	ErrUnavailable = errors.New("speech program unavailable")
	// ErrNothingHeard is returned when the recognizer produced no text.
	ErrNothingHeard = errors.New("no speech recognized")
)

// Synthesizer speaks text aloud.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Recognizer captures one utterance and returns its transcript.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// CommandSynthesizer runs an external program with the text appended as its last argument,
// e.g. ["espeak", "-s", "150"].
type CommandSynthesizer struct {
	argv []string
}

// NewCommandSynthesizer validates argv and resolves the program on PATH.
func NewCommandSynthesizer(argv []string) (*CommandSynthesizer, error) {
	if err := lookup(argv); err != nil {
		return nil, err
	}
	return &CommandSynthesizer{argv: append([]string(nil), argv...)}, nil
}

// Speak blocks until the program exits or ctx is done.
func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), s.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return commandError(s.argv[0], err, stderr.String())
	}
	return nil
}

// CommandRecognizer runs an external program that records one utterance and
// prints the transcript on stdout.
type CommandRecognizer struct {
	argv []string
}

// NewCommandRecognizer validates argv and resolves the program on PATH.
func NewCommandRecognizer(argv []string) (*CommandRecognizer, error) {
	if err := lookup(argv); err != nil {
		return nil, err
	}
	return &CommandRecognizer{argv: append([]string(nil), argv...)}, nil
}

// Listen returns the trimmed transcript. Blank output is ErrNothingHeard.
func (r *CommandRecognizer) Listen(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", commandError(r.argv[0], err, stderr.String())
	}
	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNothingHeard
	}
	return text, nil
}

func lookup(argv []string) error {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return ErrNoCommand
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func commandError(name string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			return fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
		}
		return fmt.Errorf("%s exited with status %d: %s", name, exitErr.ExitCode(), msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
}
