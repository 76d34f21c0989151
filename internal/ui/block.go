package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// blockRenderer holds the options for one panel render.
type blockRenderer struct {
	borderColor   color.Color
	noBorder      bool
	paddingTop    int
	paddingBottom int
	paddingLeft   int
	marginTop     int
	width         int
}

// renderingOption configures a panel render.
type renderingOption func(*blockRenderer)

// WithBorderColor sets the color of the left border bar.
func WithBorderColor(c color.Color) renderingOption {
	return func(br *blockRenderer) {
		br.borderColor = c
	}
}

// WithNoBorder disables the left border, leaving only padding.
func WithNoBorder() renderingOption {
	return func(br *blockRenderer) {
		br.noBorder = true
	}
}

// WithPaddingTop sets the blank lines between the border top and content.
func WithPaddingTop(padding int) renderingOption {
	return func(br *blockRenderer) {
		br.paddingTop = padding
	}
}

// WithPaddingBottom sets the blank lines below the content.
func WithPaddingBottom(padding int) renderingOption {
	return func(br *blockRenderer) {
		br.paddingBottom = padding
	}
}

// WithMarginTop adds empty lines above the panel.
func WithMarginTop(margin int) renderingOption {
	return func(br *blockRenderer) {
		br.marginTop = margin
	}
}

// renderContentBlock draws content as a full-width panel with a thick left
// border.
func renderContentBlock(content string, containerWidth int, options ...renderingOption) string {
	renderer := &blockRenderer{
		borderColor: lipgloss.NoColor{},
		paddingLeft: 2,
		width:       containerWidth,
	}
	for _, option := range options {
		option(renderer)
	}

	borderChars := 0
	style := lipgloss.NewStyle().
		PaddingLeft(renderer.paddingLeft).
		PaddingTop(renderer.paddingTop).
		PaddingBottom(renderer.paddingBottom).
		Foreground(GetTheme().Text)

	if !renderer.noBorder {
		borderChars = 1
		style = style.
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderLeftForeground(renderer.borderColor)
	}

	if renderer.width > borderChars {
		style = style.Width(renderer.width - borderChars)
	}

	rendered := style.Render(content)
	if renderer.marginTop > 0 {
		rendered = strings.Repeat("\n", renderer.marginTop) + rendered
	}
	return rendered
}
