package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mhp: 20\033[0m", Colorf(Green, "hp: %d", 20))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", StripANSI(input))
	assert.Equal(t, "", StripANSI(""))
	assert.Equal(t, "plain", StripANSI("plain"))
}

// Property: StripANSI(Colorize(color, text)) == text for any ASCII text.
func TestProperty_StripANSIInversesColorize(t *testing.T) {
	colors := []string{Red, Green, Yellow, Cyan, Magenta, White, Bold, Dim, BrightRed}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := colors[rapid.IntRange(0, len(colors)-1).Draw(t, "color")]
		if got := StripANSI(Colorize(color, text)); got != text {
			t.Fatalf("StripANSI(Colorize(%q)) = %q", text, got)
		}
	})
}
