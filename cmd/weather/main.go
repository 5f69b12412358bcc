package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/malambomutila/ai-weather-app/internal/app"
	"github.com/malambomutila/ai-weather-app/internal/client"
	"github.com/malambomutila/ai-weather-app/internal/config"
	"github.com/malambomutila/ai-weather-app/internal/input"
	"github.com/malambomutila/ai-weather-app/internal/observability"
	"github.com/malambomutila/ai-weather-app/internal/present"
	"github.com/malambomutila/ai-weather-app/internal/service"
	"github.com/malambomutila/ai-weather-app/internal/speech"
)

func main() {
	// The prompt read cannot be interrupted, so an interrupt ends the process directly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stdout)
		os.Exit(1)
	}()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weather", flag.ContinueOnError)
	fs.SetOutput(stderr)
	city := fs.String("city", "", "city to look up instead of prompting")
	voice := fs.Bool("voice", false, "listen for the city and speak the report")
	raw := fs.Bool("raw", false, "also print the provider's JSON response")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := observability.NewLoggerWithDefault(zap.WarnLevel)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = observability.FlushTelemetry(context.Background(), logger) }()

	cfg, err := config.LoadOptional()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", present.Message(err))
		logger.Error("config", zap.Error(err))
		return 1
	}

	var rawBody []byte
	var opts []client.Option
	if *raw {
		opts = append(opts, client.WithBodyHook(func(b []byte) {
			rawBody = append([]byte(nil), b...)
		}))
	}
	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", present.Message(err))
		return 1
	}
	a := app.New(service.NewWeatherService(weatherClient, cfg.IconBaseURL, cfg.CityMinLength, cfg.CityMaxLength, logger))

	var src input.Source = input.NewPrompt(stdin, stdout)
	var p present.Presenter = present.NewConsole(stdout, stderr)
	if *voice {
		synth, err := speech.NewCommandSynthesizer(cfg.SpeechSynthesizer)
		if err != nil {
			fmt.Fprintf(stderr, "Error: speech output: %v\n", err)
			return 1
		}
		p = present.Multi(p, present.NewSpeech(synth))
		if *city == "" {
			rec, err := speech.NewCommandRecognizer(cfg.SpeechRecognizer)
			if err != nil {
				fmt.Fprintf(stderr, "Error: speech input: %v\n", err)
				return 1
			}
			src = input.NewVoice(rec, synth)
		}
	}
	if *city != "" {
		src = input.Fixed(*city)
	}

	err = a.RunOnce(ctx, src, p)
	if errors.Is(err, input.ErrCancelled) {
		fmt.Fprintln(stdout)
		return 1
	}
	if *raw && rawBody != nil {
		if werr := present.WriteIndentedJSON(stdout, rawBody); werr != nil {
			logger.Warn("raw response", zap.Error(werr))
		}
	}
	if err != nil {
		return 1
	}
	return 0
}
