package render

import (
	"os"
	"strings"
)

// TerminalCapabilities represents the features supported by the current terminal.
type TerminalCapabilities struct {
	Name          string
	Unicode       bool
	SupportsColor bool
}

// DetectCapabilities detects the current terminal's capabilities from the
// process environment.
func DetectCapabilities() TerminalCapabilities {
	return detectCapabilities(os.Getenv)
}

func detectCapabilities(getenv func(string) string) TerminalCapabilities {
	// Allow override via environment variable
	switch getenv("GRIDNAV_TERMINAL_MODE") {
	case "ascii":
		return ForceASCII()
	case "unicode":
		return ForceUnicode()
	}

	term := getenv("TERM")
	caps := TerminalCapabilities{Name: term}
	if caps.Name == "" {
		caps.Name = "unknown"
	}

	if term != "" && !strings.Contains(term, "dumb") {
		// Most modern terminals support color
		if strings.Contains(term, "color") ||
			strings.HasPrefix(term, "xterm") ||
			strings.HasPrefix(term, "screen") ||
			strings.HasPrefix(term, "tmux") {
			caps.SupportsColor = true
		}
	}
	if getenv("COLORTERM") != "" || getenv("WT_SESSION") != "" {
		caps.SupportsColor = true
	}

	// Check for NO_COLOR environment variable (https://no-color.org/)
	if getenv("NO_COLOR") != "" {
		caps.SupportsColor = false
	}

	caps.Unicode = detectUTF8Locale(getenv) && term != "linux" && term != "dumb"
	return caps
}

// detectUTF8Locale checks if the locale supports UTF-8.
func detectUTF8Locale(getenv func(string) string) bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := getenv(env)
		if value == "" {
			continue
		}
		upper := strings.ToUpper(value)
		// The first locale variable that is set decides.
		return strings.Contains(upper, "UTF-8") || strings.Contains(upper, "UTF8")
	}
	return false
}

// ForceASCII returns capabilities configured for ASCII-only output.
func ForceASCII() TerminalCapabilities {
	return TerminalCapabilities{Name: "ascii"}
}

// ForceUnicode returns capabilities configured for full Unicode support.
func ForceUnicode() TerminalCapabilities {
	return TerminalCapabilities{Name: "unicode", Unicode: true, SupportsColor: true}
}

// Renderer returns a renderer suited to these capabilities.
func (c TerminalCapabilities) Renderer() *Renderer {
	r := &Renderer{Glyphs: ASCIIGlyphs, Color: c.SupportsColor}
	if c.Unicode {
		r.Glyphs = UnicodeGlyphs
	}
	return r
}
