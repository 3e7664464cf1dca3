package formatter

import (
	"fmt"

	"github.com/alexanderramin/taxis/internal/langid"
)

// FormatGuess renders a language guess on one line.
func FormatGuess(g langid.Guess) string {
	code := g.Code
	if code == "" {
		code = "unknown"
	}
	reliability := StyleGreen.Render("reliable")
	if !g.Reliable {
		reliability = StyleYellow.Render("unreliable")
	}
	return fmt.Sprintf("%s  %s  %s %.2f  %s\n", Bold(code), g.Name, Dim("confidence"), g.Confidence, reliability)
}
