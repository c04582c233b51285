package artwork

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrBidderPositions marks a bidder_positions_count that cannot be read
var ErrBidderPositions = errors.New("bidder positions count unreadable")

// Artwork is the record a card renders. Fields mirror the Artwork_artwork
// GraphQL fragment, optional ones are pointers.
type Artwork struct {
	ID          string       `json:"id" validate:"required"`
	Title       *string      `json:"title,omitempty"`
	Date        *string      `json:"date,omitempty"`
	SaleMessage *string      `json:"sale_message,omitempty"`
	IsInAuction bool         `json:"is_in_auction"`
	SaleArtwork *SaleArtwork `json:"sale_artwork,omitempty"`
	Image       Image        `json:"image"`
	Artists     []Artist     `json:"artists"`
	Partner     *Partner     `json:"partner,omitempty"`
	Href        string       `json:"href" validate:"required"`
}

// Image is the artwork image reference
type Image struct {
	URL         string  `json:"url" validate:"required"`
	AspectRatio float64 `json:"aspect_ratio" validate:"gt=0"`
}

// Artist is a single credited artist
type Artist struct {
	Name string `json:"name"`
}

// Partner is the gallery or institution offering the work
type Partner struct {
	Name *string `json:"name,omitempty"`
}

// Bid is a preformatted money amount
type Bid struct {
	Display string `json:"display"`
}

// Sale is the auction an artwork belongs to
type Sale struct {
	IsClosed bool `json:"is_closed"`
}

// SaleArtwork holds the auction state of an artwork
type SaleArtwork struct {
	OpeningBid Bid  `json:"opening_bid"`
	CurrentBid Bid  `json:"current_bid"`
	Sale       Sale `json:"sale"`

	// Kept raw: upstream sometimes sends garbage here even for live lots.
	BidderPositionsCount json.RawMessage `json:"bidder_positions_count,omitempty"`
}

// BidderPositions reads the number of bids placed on the lot.
// An absent or null count reads as zero.
func (s *SaleArtwork) BidderPositions() (int, error) {
	if s == nil {
		return 0, fmt.Errorf("%w: no sale artwork", ErrBidderPositions)
	}

	raw := bytes.TrimSpace(s.BidderPositionsCount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBidderPositions, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d", ErrBidderPositions, n)
	}

	return n, nil
}

// ArtistNames returns the artist names in credit order
func (a *Artwork) ArtistNames() []string {
	names := make([]string, 0, len(a.Artists))
	for _, artist := range a.Artists {
		names = append(names, artist.Name)
	}
	return names
}

// PartnerName returns the partner name if there is one
func (a *Artwork) PartnerName() (string, bool) {
	if a.Partner == nil || a.Partner.Name == nil || *a.Partner.Name == "" {
		return "", false
	}
	return *a.Partner.Name, true
}

// Decode reads a single artwork record
func Decode(r io.Reader) (*Artwork, error) {
	var a Artwork
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("error decoding artwork: %w", err)
	}
	return &a, nil
}

// Load reads an artwork record from a JSON file
func Load(path string) (*Artwork, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening artwork: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// String returns the record as JSON, used when reporting bad upstream data
func (a *Artwork) String() string {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Sprintf("artwork %s (unencodable: %v)", a.ID, err)
	}
	return string(b)
}
