package ansi

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string, tty bool) Env {
	return Env{
		Getenv:     func(k string) string { return vars[k] },
		IsTerminal: func() bool { return tty },
	}
}

func TestColorProfileModes(t *testing.T) {
	t.Parallel()

	env := fakeEnv(map[string]string{"TERM": "xterm-256color"}, true)
	require.Equal(t, termenv.Ascii, ColorProfile(ModeNever, env))
	require.Equal(t, termenv.ANSI256, ColorProfile(ModeAuto, env))
	require.Equal(t, termenv.ANSI256, ColorProfile(ModeAlways, env))

	dumb := fakeEnv(map[string]string{"TERM": "dumb"}, false)
	require.Equal(t, termenv.Ascii, ColorProfile(ModeAuto, dumb))
	require.Equal(t, termenv.ANSI, ColorProfile(ModeAlways, dumb))
}

func TestColorProfileEnvironment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		vars map[string]string
		tty  bool
		want termenv.Profile
	}{
		{name: "no tty", vars: map[string]string{"TERM": "xterm-256color"}, tty: false, want: termenv.Ascii},
		{name: "no color", vars: map[string]string{"NO_COLOR": "1", "TERM": "xterm-256color"}, tty: true, want: termenv.Ascii},
		{name: "clicolor off", vars: map[string]string{"CLICOLOR": "0", "TERM": "xterm"}, tty: true, want: termenv.Ascii},
		{name: "forced without tty", vars: map[string]string{"CLICOLOR_FORCE": "1"}, tty: false, want: termenv.ANSI},
		{name: "ci disables tty", vars: map[string]string{"CI": "true", "TERM": "xterm"}, tty: true, want: termenv.Ascii},
		{name: "truecolor", vars: map[string]string{"COLORTERM": "truecolor", "TERM": "xterm-256color"}, tty: true, want: termenv.TrueColor},
		{name: "screen truecolor", vars: map[string]string{"COLORTERM": "truecolor", "TERM": "screen"}, tty: true, want: termenv.ANSI256},
		{name: "kitty", vars: map[string]string{"TERM": "xterm-kitty"}, tty: true, want: termenv.TrueColor},
		{name: "xterm", vars: map[string]string{"TERM": "xterm"}, tty: true, want: termenv.ANSI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ColorProfile(ModeAuto, fakeEnv(tc.vars, tc.tty)))
		})
	}
}

func TestDetectIgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("COLORTERM", "truecolor")
	t.Setenv("TERM", "xterm-kitty")

	require.Equal(t, termenv.Ascii, detect(fakeEnv(map[string]string{"TERM": "dumb"}, true)))
	require.Equal(t, termenv.ANSI256, detect(fakeEnv(map[string]string{"TERM": "tmux-256color"}, true)))
}
