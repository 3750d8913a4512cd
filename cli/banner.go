package cli

import (
	"strings"
	"unicode"
)

const (
	boxTopLeft     = "╒"
	boxBottomLeft  = "└"
	boxTopRight    = "╕"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	ellipsis       = "…"

	bannerPadding = 2

	// DefaultBannerWidth is the width of report banners.
	DefaultBannerWidth = 60
)

// Banner draws text left-aligned inside a box of the given total width.
// Text that does not fit is truncated with an ellipsis.
func Banner(text string, width int) string {
	if width <= bannerPadding {
		return text + "\n"
	}

	inner := width - bannerPadding

	var sb strings.Builder

	sb.WriteString(boxTopLeft + strings.Repeat(boxTop, inner) + boxTopRight + "\n")

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		sb.WriteString(boxSide + padLeft(line, inner) + boxSide + "\n")
	}

	sb.WriteString(boxBottomLeft + strings.Repeat(boxBottom, inner) + boxBottomRight + "\n")

	return sb.String()
}

func countGraphic(s string) int {
	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}
	}

	return count
}

func truncateGraphic(s string, n int) string {
	var sb strings.Builder

	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}

		if count > n {
			break
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

func padLeft(text string, width int) string {
	length := countGraphic(text)
	if length > width {
		text = truncateGraphic(text, width-1) + ellipsis
		length = width
	}

	return text + strings.Repeat(" ", width-length)
}
