package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/nguyentantai21042004/slide-flow/internal/keyframe"
)

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressPrinter redraws one status line on a terminal and otherwise
// prints a line per ten percent.
func progressPrinter(w io.Writer, label string) keyframe.ProgressFunc {
	if isTerminal(w) {
		return func(p keyframe.Progress) {
			fmt.Fprintf(w, "\r%s %5.1f%% (%d/%d) keyframes: %d", label, p.Percent, p.Position, p.Total, p.Keyframes)
			if p.Percent >= 100 {
				fmt.Fprintln(w)
			}
		}
	}

	next := 0.0
	return func(p keyframe.Progress) {
		if p.Percent < next {
			return
		}
		fmt.Fprintf(w, "%s %.0f%% keyframes: %d\n", label, p.Percent, p.Keyframes)
		for next <= p.Percent {
			next += 10
		}
	}
}
