package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the flowbench ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _                 _                     _     ", "#34d399"},
		{"  / _| | _____      __ | |__   ___ _ __   ___| |__  ", "#2dd4bf"},
		{" | |_| |/ _ \\ \\ /\\ / / | '_ \\ / _ \\ '_ \\ / __| '_ \\ ", "#22d3ee"},
		{" |  _| | (_) \\ V  V /  | |_) |  __/ | | | (__| | | |", "#38bdf8"},
		{" |_| |_|\\___/ \\_/\\_/   |_.__/ \\___|_| |_|\\___|_| |_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
