package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/easel/internal/artwork"
	"github.com/arcanaland/easel/internal/log"
)

// AuctionClosed is shown instead of bids once the sale has ended
const AuctionClosed = "Auction Closed"

// PaddleGlyph prefixes bid amounts
const PaddleGlyph = "󰞎"

// ErrNoNavigator is returned by Tap when there is nowhere to send the tap
var ErrNoNavigator = errors.New("no navigator configured")

// Navigator presents the page for an href on behalf of a card
type Navigator interface {
	Navigate(from *Card, href string) error
}

// NodeKind identifies the region of the card a node fills
type NodeKind int

const (
	NodeImage NodeKind = iota
	NodeArtists
	NodeTitle
	NodePartner
	NodeSaleStatus
)

func (k NodeKind) String() string {
	switch k {
	case NodeImage:
		return "image"
	case NodeArtists:
		return "artists"
	case NodeTitle:
		return "title"
	case NodePartner:
		return "partner"
	case NodeSaleStatus:
		return "sale_status"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Style describes how a run of text should look
type Style struct {
	Bold   bool
	Italic bool
}

// Span is a styled run of text within a node
type Span struct {
	Text  string
	Style Style
}

// Node is one rendered element of a card
type Node struct {
	Kind  NodeKind
	Spans []Span
	Icon  string // glyph drawn before the text, if any

	// Only set on NodeImage
	ImageURL    string
	AspectRatio float64
}

// Text returns the node's text without styling
func (n Node) Text() string {
	var b strings.Builder
	for _, s := range n.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Card renders an artwork and routes taps on it
type Card struct {
	artwork   *artwork.Artwork
	onPress   func(artworkID string)
	navigator Navigator
	logger    log.Logger
}

// Option configures a Card
type Option func(*Card)

// WithOnPress hands taps back to the host with the artwork ID
func WithOnPress(fn func(artworkID string)) Option {
	return func(c *Card) {
		c.onPress = fn
	}
}

// WithNavigator sets where taps go when no callback takes them
func WithNavigator(n Navigator) Option {
	return func(c *Card) {
		c.navigator = n
	}
}

// WithLogger sets the sink for data defect diagnostics
func WithLogger(l log.Logger) Option {
	return func(c *Card) {
		c.logger = l
	}
}

// New creates a card for an artwork
func New(a *artwork.Artwork, opts ...Option) *Card {
	c := &Card{
		artwork: a,
		logger:  log.Log(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Artwork returns the artwork the card shows
func (c *Card) Artwork() *artwork.Artwork {
	return c.artwork
}

// Tap handles a tap on the card. The host callback wins when it is set and
// the artwork has an ID; otherwise the card navigates to the artwork href.
// Only the tapped artwork is forwarded, never its siblings in a grid.
func (c *Card) Tap() error {
	if c.onPress != nil && c.artwork.ID != "" {
		c.onPress(c.artwork.ID)
		return nil
	}

	if c.navigator == nil {
		return ErrNoNavigator
	}
	return c.navigator.Navigate(c, c.artwork.Href)
}

// Render returns the card's nodes top to bottom. Regions with nothing to
// show are left out.
func (c *Card) Render() []Node {
	a := c.artwork
	nodes := []Node{{
		Kind:        NodeImage,
		ImageURL:    a.Image.URL,
		AspectRatio: a.Image.AspectRatio,
	}}

	if n, ok := c.artists(); ok {
		nodes = append(nodes, n)
	}
	if n, ok := c.title(); ok {
		nodes = append(nodes, n)
	}
	if name, ok := a.PartnerName(); ok {
		nodes = append(nodes, Node{Kind: NodePartner, Spans: []Span{{Text: name}}})
	}
	if n, ok := c.saleStatus(); ok {
		nodes = append(nodes, n)
	}

	return nodes
}

func (c *Card) artists() (Node, bool) {
	names := c.artwork.ArtistNames()
	if len(names) == 0 {
		return Node{}, false
	}
	return Node{
		Kind:  NodeArtists,
		Spans: []Span{{Text: strings.Join(names, ", "), Style: Style{Bold: true}}},
	}, true
}

// title is only shown with a title; a lone date is dropped
func (c *Card) title() (Node, bool) {
	a := c.artwork
	if a.Title == nil || *a.Title == "" {
		return Node{}, false
	}

	spans := []Span{{Text: *a.Title, Style: Style{Italic: true}}}
	if a.Date != nil && *a.Date != "" {
		spans = append(spans, Span{Text: ", " + *a.Date})
	}
	return Node{Kind: NodeTitle, Spans: spans}, true
}

func (c *Card) saleStatus() (Node, bool) {
	a := c.artwork

	if !a.IsInAuction || a.SaleArtwork == nil {
		if a.SaleMessage == nil || *a.SaleMessage == "" {
			return Node{}, false
		}
		return Node{Kind: NodeSaleStatus, Spans: []Span{{Text: *a.SaleMessage}}}, true
	}

	sa := a.SaleArtwork
	if sa.Sale.IsClosed {
		return Node{Kind: NodeSaleStatus, Spans: []Span{{Text: AuctionClosed}}}, true
	}

	bids, err := sa.BidderPositions()
	if err != nil {
		c.logger.WithFields(log.Fields{
			"artworkID": a.ID,
			"artwork":   a.String(),
			"err":       err,
		}).Error("known upstream defect: bidder_positions_count unreadable on open lot")
		return Node{}, false
	}

	text := sa.OpeningBid.Display
	if bids > 0 {
		text = fmt.Sprintf("%s (%d %s)", sa.CurrentBid.Display, bids, pluralize("bid", bids))
	}
	return Node{Kind: NodeSaleStatus, Icon: PaddleGlyph, Spans: []Span{{Text: text}}}, true
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
