package output

import (
	"fmt"
	"os"

	"github.com/bimmerbailey/credsift/internal/config"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w interface{}) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// ColorizeLine applies color to a preview line based on its category.
func ColorizeLine(cat config.Category, line string) string {
	switch cat {
	case config.CategoryValidCredential:
		return colorGreen + line + colorReset
	case config.CategoryHeader, config.CategoryFooter:
		return colorYellow + line + colorReset
	case config.CategoryComment, config.CategorySeparator:
		return colorGray + line + colorReset
	case config.CategoryGarbage:
		return colorRed + line + colorReset
	default:
		return line
	}
}

// Marker returns the preview marker for a category: a check for extractable
// credentials, a cross for everything else.
func Marker(cat config.Category) string {
	if cat == config.CategoryValidCredential {
		return "+"
	}
	return "-"
}

// WritePreviewLine writes one classified preview line, colorized when the
// underlying writer is a terminal (or when mode forces it).
func (wr *Writer) WritePreviewLine(lineNum int, cat config.Category, confidence float64, line string, mode ColorMode) error {
	if len(line) > 80 {
		line = line[:77] + "..."
	}

	text := line
	if shouldColorize(mode, wr.w) {
		text = ColorizeLine(cat, line)
	}

	_, err := fmt.Fprintf(wr.w, "%4d [%s] %-16s %.2f  %s\n", lineNum, Marker(cat), cat, confidence, text)
	return err
}
