package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`      _           _             _ `, "#34d399"},
	{`   __| | ___  ___| | _____ __ _| |`, "#2dd4bf"},
	{`  / _' |/ _ \/ __| |/ / __/ _' | |`, "#22d3ee"},
	{` | (_| |  __/ (__|   < (_| (_| | |`, "#38bdf8"},
	{`  \__,_|\___|\___|_|\_\___\__,_|_|`, "#60a5fa"},
}

// PrintBanner writes the deckcal banner to w, colored when the terminal
// supports it.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
