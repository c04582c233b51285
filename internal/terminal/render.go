// Package terminal draws artwork cards as ANSI text.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcanaland/easel/internal/card"
	"github.com/arcanaland/easel/internal/log"
)

const (
	spacing      = 4
	leftPadding  = 2
	minTextWidth = 20
)

// ImageDrawer produces ANSI art for an image
type ImageDrawer interface {
	Render(ctx context.Context, imageURL string, aspectRatio float64, width int) (string, error)
}

// Renderer lays a card out with the image on the left and text on the right
type Renderer struct {
	Images     ImageDrawer
	ImageWidth int

	// Width of the terminal; zero means ask stdout
	Width int
}

var (
	textColor   = colorize.New(colorize.FgHiBlack)
	artistColor = colorize.New(colorize.FgHiBlack, colorize.Bold)
	titleColor  = colorize.New(colorize.FgHiBlack, colorize.Italic)
	iconColor   = colorize.New(colorize.FgYellow)
)

// Draw writes the card nodes to w
func (r *Renderer) Draw(ctx context.Context, w io.Writer, nodes []card.Node) error {
	var artLines []string
	var infoLines []string

	// Draw the image first; its width decides where the text starts
	artWidth := 0
	for _, n := range nodes {
		if n.Kind == card.NodeImage {
			artLines = r.image(ctx, n)
			for _, line := range artLines {
				artWidth = max(artWidth, visibleWidth(line))
			}
		}
	}

	// Calculate layout, leaving a small margin on the right
	infoStartCol := artWidth + spacing
	infoWidth := r.width() - leftPadding - infoStartCol - 2
	if infoWidth < minTextWidth {
		infoWidth = minTextWidth
	}

	// Wrap and style the text nodes
	for _, n := range nodes {
		if n.Kind == card.NodeImage {
			continue
		}
		infoLines = append(infoLines, styleNode(n, infoWidth)...)
	}

	// Print the header
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	// Print art and text side by side, padding the art to infoStartCol
	maxLines := max(len(artLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", leftPadding))

		if i < len(artLines) {
			line.WriteString(artLines[i])
			line.WriteString(strings.Repeat(" ", infoStartCol-visibleWidth(artLines[i])))
		} else {
			line.WriteString(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			line.WriteString(infoLines[i])
		}

		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func (r *Renderer) image(ctx context.Context, n card.Node) []string {
	width := r.ImageWidth
	if width <= 0 {
		width = 32
	}

	// Fall back to an empty frame when the image can't be drawn
	var art string
	var err error
	if r.Images != nil {
		art, err = r.Images.Render(ctx, n.ImageURL, n.AspectRatio, width)
	} else {
		err = fmt.Errorf("no image renderer")
	}
	if err != nil {
		log.Log().WithFields(log.Fields{
			"url": n.ImageURL,
			"err": err,
		}).Warn("drawing image placeholder")
		art = Placeholder(width, n.AspectRatio)
	}

	return strings.Split(strings.TrimSuffix(art, "\n"), "\n")
}

func (r *Renderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// word is a run of non-space text, possibly spanning styles ("Balloon" + ",")
type word []card.Span

func (wd word) width() int {
	n := 0
	for _, s := range wd {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// splitWords breaks spans into words; words never cross a space but may
// cross a span boundary.
func splitWords(spans []card.Span) []word {
	var words []word
	var current word

	flush := func() {
		if len(current) > 0 {
			words = append(words, current)
			current = nil
		}
	}

	for _, span := range spans {
		var run strings.Builder
		for _, c := range span.Text {
			if c == ' ' || c == '\t' || c == '\n' {
				if run.Len() > 0 {
					current = append(current, card.Span{Text: run.String(), Style: span.Style})
					run.Reset()
				}
				flush()
				continue
			}
			run.WriteRune(c)
		}
		if run.Len() > 0 {
			current = append(current, card.Span{Text: run.String(), Style: span.Style})
		}
	}
	flush()

	return words
}

// wrapWords packs words into lines no wider than width
func wrapWords(words []word, width int) [][]word {
	var lines [][]word
	var current []word
	currentWidth := 0

	for _, wd := range words {
		switch {
		case len(current) == 0:
			current = []word{wd}
			currentWidth = wd.width()
		case currentWidth+1+wd.width() <= width:
			current = append(current, wd)
			currentWidth += 1 + wd.width()
		default:
			lines = append(lines, current)
			current = []word{wd}
			currentWidth = wd.width()
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}

	return lines
}

func styleNode(n card.Node, width int) []string {
	iconWidth := 0
	if n.Icon != "" {
		iconWidth = utf8.RuneCountInString(n.Icon) + 1
	}

	lines := wrapWords(splitWords(n.Spans), width-iconWidth)

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		var b strings.Builder
		// Icon on the first line, indent on the rest
		if iconWidth > 0 {
			if i == 0 {
				b.WriteString(iconColor.Sprint(n.Icon) + " ")
			} else {
				b.WriteString(strings.Repeat(" ", iconWidth))
			}
		}
		for j, wd := range line {
			if j > 0 {
				b.WriteString(" ")
			}
			for _, s := range wd {
				b.WriteString(styleFor(n.Kind, s.Style).Sprint(s.Text))
			}
		}
		out = append(out, b.String())
	}
	return out
}

func styleFor(kind card.NodeKind, style card.Style) *colorize.Color {
	switch {
	case style.Bold || kind == card.NodeArtists:
		return artistColor
	case style.Italic:
		return titleColor
	default:
		return textColor
	}
}

func visibleWidth(s string) int {
	return utf8.RuneCountInString(StripAnsi(s))
}

// StripAnsi removes ANSI escape sequences from a string
func StripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}
