package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Toria ASCII banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _______         _       ", "#34d399"},
		{" |__   __|       (_)      ", "#2dd4bf"},
		{"    | | ___  _ __ _  __ _ ", "#22d3ee"},
		{"    | |/ _ \\| '__| |/ _` |", "#38bdf8"},
		{"    | | (_) | |  | | (_| |", "#60a5fa"},
		{"    |_|\\___/|_|  |_|\\__,_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("    your travel buddy · v"+version).Faint())
	fmt.Fprintln(w)
}
