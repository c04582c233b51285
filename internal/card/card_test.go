package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arcanaland/easel/internal/artwork"
	"github.com/arcanaland/easel/internal/log"
)

func str(s string) *string {
	return &s
}

type fakeNavigator struct {
	calls []string
	from  *Card
	err   error
}

func (f *fakeNavigator) Navigate(from *Card, href string) error {
	f.calls = append(f.calls, href)
	f.from = from
	return f.err
}

func observedLogger() (log.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return log.New(zap.New(core)), logs
}

func baseArtwork() *artwork.Artwork {
	return &artwork.Artwork{
		ID:    "banksy-girl-with-balloon",
		Image: artwork.Image{URL: "https://example.com/balloon.jpg", AspectRatio: 0.75},
		Href:  "/artwork/banksy-girl-with-balloon",
	}
}

func openLot(count string) *artwork.Artwork {
	a := baseArtwork()
	a.IsInAuction = true
	a.SaleArtwork = &artwork.SaleArtwork{
		OpeningBid:           artwork.Bid{Display: "$1,000"},
		CurrentBid:           artwork.Bid{Display: "$2,400"},
		BidderPositionsCount: json.RawMessage(count),
	}
	return a
}

func findNode(nodes []Node, kind NodeKind) (Node, bool) {
	for _, n := range nodes {
		if n.Kind == kind {
			return n, true
		}
	}
	return Node{}, false
}

func texts(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Kind != NodeImage {
			out = append(out, n.Text())
		}
	}
	return out
}

func TestRenderAlwaysStartsWithImage(t *testing.T) {
	nodes := New(baseArtwork()).Render()

	require.Len(t, nodes, 1)
	assert.Equal(t, NodeImage, nodes[0].Kind)
	assert.Equal(t, "https://example.com/balloon.jpg", nodes[0].ImageURL)
	assert.Equal(t, 0.75, nodes[0].AspectRatio)
}

func TestRenderFullCardOrder(t *testing.T) {
	a := baseArtwork()
	a.Artists = []artwork.Artist{{Name: "Banksy"}, {Name: "Anonymous"}}
	a.Title = str("Girl with Balloon")
	a.Date = str("2006")
	a.Partner = &artwork.Partner{Name: str("Lazinc")}
	a.SaleMessage = str("Sold")

	nodes := New(a).Render()

	kinds := make([]NodeKind, 0, len(nodes))
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []NodeKind{NodeImage, NodeArtists, NodeTitle, NodePartner, NodeSaleStatus}, kinds)
	assert.Equal(t, []string{"Banksy, Anonymous", "Girl with Balloon, 2006", "Lazinc", "Sold"}, texts(nodes))
}

func TestRenderArtists(t *testing.T) {
	a := baseArtwork()
	a.Artists = []artwork.Artist{}
	_, ok := findNode(New(a).Render(), NodeArtists)
	assert.False(t, ok)

	a.Artists = []artwork.Artist{{Name: "Hilma af Klint"}}
	n, ok := findNode(New(a).Render(), NodeArtists)
	require.True(t, ok)
	assert.Equal(t, "Hilma af Klint", n.Text())
	assert.True(t, n.Spans[0].Style.Bold)
}

func TestRenderTitle(t *testing.T) {
	tests := []struct {
		desc  string
		title *string
		date  *string
		want  string
		shown bool
	}{
		{desc: "title and date", title: str("Nighthawks"), date: str("1942"), want: "Nighthawks, 1942", shown: true},
		{desc: "title only", title: str("Nighthawks"), want: "Nighthawks", shown: true},
		{desc: "empty date", title: str("Nighthawks"), date: str(""), want: "Nighthawks", shown: true},
		{desc: "date only", date: str("1942")},
		{desc: "empty title", title: str(""), date: str("1942")},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			a := baseArtwork()
			a.Title = tt.title
			a.Date = tt.date

			nodes := New(a).Render()
			n, ok := findNode(nodes, NodeTitle)
			require.Equal(t, tt.shown, ok)
			if !tt.shown {
				for _, s := range texts(nodes) {
					assert.NotContains(t, s, "1942")
				}
				return
			}
			assert.Equal(t, tt.want, n.Text())
			assert.True(t, n.Spans[0].Style.Italic)
		})
	}
}

func TestRenderPartner(t *testing.T) {
	a := baseArtwork()
	a.Partner = &artwork.Partner{}
	_, ok := findNode(New(a).Render(), NodePartner)
	assert.False(t, ok)

	a.Partner.Name = str("White Cube")
	n, ok := findNode(New(a).Render(), NodePartner)
	require.True(t, ok)
	assert.Equal(t, "White Cube", n.Text())
}

func TestRenderSaleStatus(t *testing.T) {
	tests := []struct {
		desc     string
		artwork  func() *artwork.Artwork
		want     string
		wantIcon bool
		shown    bool
	}{
		{
			desc: "closed auction",
			artwork: func() *artwork.Artwork {
				a := openLot("5")
				a.SaleArtwork.Sale.IsClosed = true
				return a
			},
			want:  AuctionClosed,
			shown: true,
		},
		{
			desc:     "no bids yet",
			artwork:  func() *artwork.Artwork { return openLot("0") },
			want:     "$1,000",
			wantIcon: true,
			shown:    true,
		},
		{
			desc:     "absent count",
			artwork:  func() *artwork.Artwork { return openLot("") },
			want:     "$1,000",
			wantIcon: true,
			shown:    true,
		},
		{
			desc:     "one bid",
			artwork:  func() *artwork.Artwork { return openLot("1") },
			want:     "$2,400 (1 bid)",
			wantIcon: true,
			shown:    true,
		},
		{
			desc:     "several bids",
			artwork:  func() *artwork.Artwork { return openLot("3") },
			want:     "$2,400 (3 bids)",
			wantIcon: true,
			shown:    true,
		},
		{
			desc: "in auction without sale artwork falls back to sale message",
			artwork: func() *artwork.Artwork {
				a := baseArtwork()
				a.IsInAuction = true
				a.SaleMessage = str("Contact for price")
				return a
			},
			want:  "Contact for price",
			shown: true,
		},
		{
			desc: "sale artwork ignored when not in auction",
			artwork: func() *artwork.Artwork {
				a := openLot("3")
				a.IsInAuction = false
				a.SaleMessage = str("$4,000")
				return a
			},
			want:  "$4,000",
			shown: true,
		},
		{
			desc:    "nothing to say",
			artwork: baseArtwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			n, ok := findNode(New(tt.artwork()).Render(), NodeSaleStatus)
			require.Equal(t, tt.shown, ok)
			if !tt.shown {
				return
			}
			assert.Equal(t, tt.want, n.Text())
			if tt.wantIcon {
				assert.Equal(t, PaddleGlyph, n.Icon)
			} else {
				assert.Empty(t, n.Icon)
			}
		})
	}
}

func TestRenderClosedAuctionShowsNoBids(t *testing.T) {
	a := openLot("7")
	a.SaleArtwork.Sale.IsClosed = true

	for _, s := range texts(New(a).Render()) {
		assert.NotContains(t, s, "$")
	}
}

func TestRenderUnreadableBidCount(t *testing.T) {
	logger, logs := observedLogger()
	a := openLot(`"lots"`)
	a.Title = str("Untitled")

	var nodes []Node
	require.NotPanics(t, func() {
		nodes = New(a, WithLogger(logger)).Render()
	})

	_, ok := findNode(nodes, NodeSaleStatus)
	assert.False(t, ok)
	_, ok = findNode(nodes, NodeTitle)
	assert.True(t, ok)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "bidder_positions_count")
	fields := entry.ContextMap()
	assert.Equal(t, a.ID, fields["artworkID"])
	assert.Contains(t, fields["artwork"], `"bidder_positions_count":"lots"`)
}

func TestRenderHealthyCardLogsNothing(t *testing.T) {
	logger, logs := observedLogger()
	New(openLot("2"), WithLogger(logger)).Render()
	assert.Equal(t, 0, logs.Len())
}

func TestTapPrefersCallback(t *testing.T) {
	nav := &fakeNavigator{}
	var pressed []string
	c := New(baseArtwork(), WithNavigator(nav), WithOnPress(func(id string) {
		pressed = append(pressed, id)
	}))

	require.NoError(t, c.Tap())
	assert.Equal(t, []string{"banksy-girl-with-balloon"}, pressed)
	assert.Empty(t, nav.calls)
}

func TestTapNavigatesWithoutCallback(t *testing.T) {
	nav := &fakeNavigator{}
	c := New(baseArtwork(), WithNavigator(nav))

	require.NoError(t, c.Tap())
	assert.Equal(t, []string{"/artwork/banksy-girl-with-balloon"}, nav.calls)
	assert.Same(t, c, nav.from)
}

func TestTapNavigatesWhenIDMissing(t *testing.T) {
	nav := &fakeNavigator{}
	a := baseArtwork()
	a.ID = ""
	called := false
	c := New(a, WithNavigator(nav), WithOnPress(func(string) { called = true }))

	require.NoError(t, c.Tap())
	assert.False(t, called)
	assert.Equal(t, []string{a.Href}, nav.calls)
}

func TestTapErrors(t *testing.T) {
	err := New(baseArtwork()).Tap()
	require.ErrorIs(t, err, ErrNoNavigator)

	nav := &fakeNavigator{err: assert.AnError}
	err = New(baseArtwork(), WithNavigator(nav)).Tap()
	require.ErrorIs(t, err, assert.AnError)
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "sale_status", NodeSaleStatus.String())
	assert.Equal(t, "NodeKind(42)", NodeKind(42).String())
}
