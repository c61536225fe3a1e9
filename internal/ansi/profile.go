// Package ansi decides whether and how richly report output is colored.
package ansi

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode is the user's color preference.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// Env abstracts environment lookups and terminal detection for tests.
type Env struct {
	Getenv     func(string) string
	IsTerminal func() bool
}

// OSEnv inspects the process environment and whether f is a terminal.
func OSEnv(f *os.File) Env {
	return Env{
		Getenv: os.Getenv,
		IsTerminal: func() bool {
			return f != nil && term.IsTerminal(int(f.Fd()))
		},
	}
}

// ColorProfile returns the profile to render with. ModeNever and NO_COLOR force plain text; ModeAlways and
// CLICOLOR_FORCE force at least ANSI colors.
func ColorProfile(mode Mode, env Env) termenv.Profile {
	switch mode {
	case ModeNever:
		return termenv.Ascii
	case ModeAlways:
		return atLeastANSI(detect(env))
	}
	if env.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	forced := cliColorForced(env)
	if env.Getenv("CLICOLOR") == "0" && !forced {
		return termenv.Ascii
	}
	if !stdoutIsTTY(env) {
		if forced {
			return termenv.ANSI
		}
		return termenv.Ascii
	}
	p := detect(env)
	if forced {
		return atLeastANSI(p)
	}
	return p
}

func atLeastANSI(p termenv.Profile) termenv.Profile {
	if p == termenv.Ascii {
		return termenv.ANSI
	}
	return p
}

func cliColorForced(env Env) bool {
	forced := env.Getenv("CLICOLOR_FORCE")
	return forced != "" && forced != "0"
}

func stdoutIsTTY(env Env) bool {
	if env.Getenv("CI") != "" {
		return false
	}
	return env.IsTerminal != nil && env.IsTerminal()
}

// detect asks termenv for the profile TERM and COLORTERM support. The overrides above have already decided
// that output is a terminal, so termenv is told to assume one.
func detect(env Env) termenv.Profile {
	out := termenv.NewOutput(io.Discard,
		termenv.WithTTY(true),
		termenv.WithProfile(termenv.Ascii),
		termenv.WithEnvironment(environ{env}))
	return out.ColorProfile()
}

// environ adapts Env to termenv.Environ.
type environ struct{ env Env }

func (e environ) Getenv(key string) string {
	return e.env.Getenv(key)
}

func (e environ) Environ() []string {
	return nil
}
