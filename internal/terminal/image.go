package terminal

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/xerrors"

	"github.com/arcanaland/easel/internal/log"
)

// MaxImageBytes caps how much of an image is read
const MaxImageBytes = 32 << 20

// ImageSource fetches image bytes from disk or over HTTP
type ImageSource struct {
	client   *http.Client
	timeout  time.Duration
	baseDir  string
	maxBytes int64
}

// NewImageSource creates a source whose HTTP fetches give up after timeout
func NewImageSource(client *http.Client, timeout time.Duration) *ImageSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageSource{client: client, timeout: timeout, maxBytes: MaxImageBytes}
}

// RelativeTo returns a copy of the source that resolves relative image
// paths against dir, usually the directory of the artwork record.
func (s *ImageSource) RelativeTo(dir string) *ImageSource {
	c := *s
	c.baseDir = dir
	return &c
}

// Resolve returns the location an image URL will be read from
func (s *ImageSource) Resolve(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil || u.Scheme != "" {
		return imageURL
	}
	if filepath.IsAbs(imageURL) || s.baseDir == "" {
		return imageURL
	}
	return filepath.Join(s.baseDir, imageURL)
}

// Get returns the raw bytes behind an image URL
func (s *ImageSource) Get(ctx context.Context, imageURL string) ([]byte, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return nil, xerrors.Errorf("invalid image url %q: %w", imageURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		return s.fetch(ctx, imageURL)
	case "file":
		return os.ReadFile(u.Path)
	case "":
		return os.ReadFile(s.Resolve(imageURL))
	default:
		return nil, xerrors.Errorf("unsupported image url scheme %q", u.Scheme)
	}
}

func (s *ImageSource) fetch(c context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(c, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		log.Log().WithField("url", imageURL).Warn("failed with request")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Log().WithFields(log.Fields{
			"url":        imageURL,
			"statusCode": resp.StatusCode,
		}).Error("resp.StatusCode != 200")
		return nil, xerrors.Errorf("fetching %s: status %d", imageURL, resp.StatusCode)
	}

	// read one byte past the cap so oversized bodies can be told apart
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBytes {
		log.Log().WithFields(log.Fields{
			"url":      imageURL,
			"maxBytes": s.maxBytes,
		}).Warn("image too large")
		return nil, xerrors.Errorf("image at %s is larger than %d bytes", imageURL, s.maxBytes)
	}

	return body, nil
}

// ImageRenderer turns artwork images into ANSI art, caching the result
type ImageRenderer struct {
	source   *ImageSource
	cacheDir string
}

// NewImageRenderer creates a renderer. An empty cacheDir disables caching.
func NewImageRenderer(source *ImageSource, cacheDir string) *ImageRenderer {
	return &ImageRenderer{source: source, cacheDir: cacheDir}
}

// Render returns ANSI art for the image at imageURL, width cells wide
func (r *ImageRenderer) Render(ctx context.Context, imageURL string, aspectRatio float64, width int) (string, error) {
	// Cache on the resolved location so equal relative names in different
	// directories don't collide
	cachePath := r.cachePath(r.source.Resolve(imageURL), aspectRatio, width)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			return string(data), nil
		}
	}

	data, err := r.source.Get(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	// Sniff the content before handing it to the decoders
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("not an image: %s is %s", imageURL, mt.String())
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	art := ToAnsi(img, width, aspectRatio)

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
			if err := os.WriteFile(cachePath, []byte(art), 0644); err != nil {
				log.Log().WithField("path", cachePath).Warn("failed to write ANSI cache")
			}
		}
	}

	return art, nil
}

func (r *ImageRenderer) cachePath(imageURL string, aspectRatio float64, width int) string {
	if r.cacheDir == "" {
		return ""
	}
	key := fmt.Sprintf("%s|%d|%.4f", imageURL, width, aspectRatio)
	return filepath.Join(r.cacheDir, "ansi_cache", fmt.Sprintf("%x.ansi", md5.Sum([]byte(key))))
}

// Rows returns how many text rows an image of the given width and aspect
// ratio needs. Each row holds two pixel rows.
func Rows(width int, aspectRatio float64) int {
	if aspectRatio <= 0 {
		aspectRatio = 1
	}
	rows := int(float64(width)/aspectRatio/2 + 0.5)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ToAnsi converts an image to 24-bit half block art
func ToAnsi(img image.Image, width int, aspectRatio float64) string {
	height := Rows(width, aspectRatio)

	// two pixels per cell horizontally and vertically
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < height*2; y += 2 {
		for x := 0; x < width*2; x += 2 {
			c1, _ := colorful.MakeColor(getColorAt(resized, x, y))
			c2, _ := colorful.MakeColor(getColorAt(resized, x+1, y))
			c3, _ := colorful.MakeColor(getColorAt(resized, x, y+1))
			c4, _ := colorful.MakeColor(getColorAt(resized, x+1, y+1))

			fg := colorfulToColor(averageColor(c1, c2))
			bg := colorfulToColor(averageColor(c3, c4))

			buffer.WriteString(ansiColorString('▀', fg, bg))
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}

// Placeholder draws an empty frame the size an image would take
func Placeholder(width int, aspectRatio float64) string {
	rows := Rows(width, aspectRatio)
	if width < 2 {
		width = 2
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		switch {
		case y == 0:
			b.WriteString("┌" + strings.Repeat("─", width-2) + "┐")
		case y == rows-1:
			b.WriteString("└" + strings.Repeat("─", width-2) + "┘")
		default:
			b.WriteString("│" + strings.Repeat(" ", width-2) + "│")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func colorfulToColor(c colorful.Color) color.Color {
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
}

func ansiColorString(char rune, fg, bg color.Color) string {
	r1, g1, b1, _ := fg.RGBA()
	r2, g2, b2, _ := bg.RGBA()

	// RGBA() is 16 bit per channel
	r1, g1, b1 = r1>>8, g1>>8, b1>>8
	r2, g2, b2 = r2>>8, g2>>8, b2>>8

	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
		r1, g1, b1, r2, g2, b2, char)
}
