// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the global zerolog logger. All diagnostics go
// to stderr so markdown output on stdout stays clean for piping.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options defines logger initialization parameters.
type Options struct {
	Level  string
	Pretty bool
}

// Init sets up the global logger. Unknown level names fall back to info.
func Init(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out = zerolog.New(os.Stderr)
	if opts.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	log.Logger = out.Level(lvl).With().Timestamp().Logger()
}
