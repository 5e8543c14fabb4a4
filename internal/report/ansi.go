// Package report formats fittings, summaries, and catalog listings as
// terminal text.
package report

import "fmt"

// ANSI escape codes used by the report.
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Palette applies ANSI styling when enabled and passes text through otherwise.
type Palette struct {
	Enabled bool
}

// Colorize wraps text with color and a reset suffix when p is enabled.
//
// Postcondition: Returns text unchanged when p is disabled.
func (p Palette) Colorize(color, text string) string {
	if !p.Enabled {
		return text
	}
	return color + text + Reset
}

// Colorf formats and colorizes in one step.
func (p Palette) Colorf(color, format string, args ...interface{}) string {
	return p.Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}
