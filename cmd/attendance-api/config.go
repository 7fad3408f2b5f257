// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/linuxfoundation/lfx-v2-zoom-attendance-service/internal/logging"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port string `env:"PORT" envDefault:"8080"`

	// NatsURL is the JetStream server backing the session and participant
	// stores. When unset the service runs stateless: events are verified and
	// forwarded but nothing is persisted.
	NatsURL string `env:"NATS_URL"`

	// ZoomWebhookSecretToken is the shared secret Zoom signs deliveries with.
	ZoomWebhookSecretToken string `env:"ZOOM_WEBHOOK_SECRET_TOKEN"`

	// SheetsWebhookURL is the forward sink. When unset forwarding is disabled.
	SheetsWebhookURL string `env:"SHEETS_WEBHOOK_URL"`

	// SheetsAuthToken, when set, is injected into forwarded bodies so the
	// sink can authenticate this service.
	SheetsAuthToken string `env:"SHEETS_AUTH_TOKEN"`

	// SignatureReplayToleranceSeconds is how old a delivery's timestamp may
	// be before it is rejected. Zero disables the age check.
	SignatureReplayToleranceSeconds int `env:"SIGNATURE_REPLAY_TOLERANCE_SECONDS" envDefault:"300"`
}

// parseFlags parses command line flags for the attendance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	cfg, err := env.ParseAs[environment]()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error parsing environment variables")
		os.Exit(1)
	}

	if cfg.ZoomWebhookSecretToken == "" {
		slog.Error("ZOOM_WEBHOOK_SECRET_TOKEN environment variable is required but not set")
		os.Exit(1)
	}

	return cfg
}
