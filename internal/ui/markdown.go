package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

func uintPtr(u uint) *uint { return &u }
func boolPtr(b bool) *bool { return &b }

// GetMarkdownRenderer returns a glamour renderer using the form's palette,
// wrapping at width.
func GetMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig()),
		glamour.WithWordWrap(width),
	)
}

// markdownColors picks hex colors for the detected background.
func markdownColors() (text, heading, link, code string) {
	if IsDarkBackground() {
		return "#F9FAFB", "#C49BE0", "#60A5FA", "#D1D5DB"
	}
	return "#1F2937", "#9B4DCA", "#2563EB", "#374151"
}

// markdownStyleConfig styles only what the usage text contains: headings,
// bullet lists, strong text, links and inline code.
func markdownStyleConfig() ansi.StyleConfig {
	text, heading, link, code := markdownColors()
	plain := ansi.StylePrimitive{Color: &text}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{StylePrimitive: plain, Margin: uintPtr(0)},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       &heading,
				Bold:        boolPtr(true),
			},
		},
		List:      ansi.StyleList{StyleBlock: ansi.StyleBlock{StylePrimitive: plain}},
		Item:      ansi.StylePrimitive{BlockPrefix: "• ", Color: &text},
		Strong:    ansi.StylePrimitive{Bold: boolPtr(true), Color: &text},
		Link:      ansi.StylePrimitive{Color: &link, Underline: boolPtr(true)},
		LinkText:  ansi.StylePrimitive{Color: &link, Bold: boolPtr(true)},
		Code:      ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: &code}},
		Text:      plain,
		Paragraph: ansi.StyleBlock{StylePrimitive: plain},
	}
}

// toMarkdown renders content, falling back to the raw text if glamour fails.
func toMarkdown(content string, width int) string {
	r, err := GetMarkdownRenderer(width)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
