package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
	dir string
}

func (s *ValidatorTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *ValidatorTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *ValidatorTestSuite) TestValidArtwork() {
	path := s.write("ok.json", `{
		"id": "skull",
		"title": "Skull",
		"date": "1976",
		"is_in_auction": true,
		"sale_artwork": {
			"opening_bid": {"display": "$10,000"},
			"current_bid": {"display": "$12,500"},
			"bidder_positions_count": 2,
			"sale": {"is_closed": false}
		},
		"image": {"url": "https://example.com/skull.jpg", "aspect_ratio": 1.2},
		"artists": [{"name": "Andy Warhol"}],
		"href": "/artwork/skull"
	}`)

	results, err := NewValidator(path).Validate()
	s.Require().NoError(err)
	s.Empty(results.Errors)
	s.Empty(results.Warnings)
}

func (s *ValidatorTestSuite) TestMissingRequiredFields() {
	path := s.write("bare.json", `{"title": "Untitled"}`)

	results, err := NewValidator(path).Validate()
	s.Require().NoError(err)
	s.ElementsMatch([]string{
		"id is required",
		"href is required",
		"image.url is required",
		"image.aspect_ratio must be greater than 0",
	}, results.Errors)
}

func (s *ValidatorTestSuite) TestLocalImage() {
	s.write("art.png", "png")
	ok := s.write("local.json", `{"id": "a", "href": "/artwork/a", "image": {"url": "`+filepath.Join(s.dir, "art.png")+`", "aspect_ratio": 1}}`)
	missing := s.write("missing.json", `{"id": "a", "href": "/artwork/a", "image": {"url": "file://`+filepath.Join(s.dir, "gone.png")+`", "aspect_ratio": 1}}`)
	odd := s.write("odd.json", `{"id": "a", "href": "/artwork/a", "image": {"url": "ftp://example.com/a.png", "aspect_ratio": 1}}`)

	results, err := NewValidator(ok).Validate()
	s.Require().NoError(err)
	s.Empty(results.Errors)

	results, err = NewValidator(missing).Validate()
	s.Require().NoError(err)
	s.Require().Len(results.Errors, 1)
	s.Contains(results.Errors[0], "image not found")

	s.write("beside.png", "png")
	beside := s.write("beside.json", `{"id": "a", "href": "/artwork/a", "image": {"url": "beside.png", "aspect_ratio": 1}}`)
	results, err = NewValidator(beside).Validate()
	s.Require().NoError(err)
	s.Empty(results.Errors)

	results, err = NewValidator(odd).Validate()
	s.Require().NoError(err)
	s.Equal([]string{"unsupported image.url scheme: ftp"}, results.Errors)
}

func (s *ValidatorTestSuite) TestAuctionWarnings() {
	tests := []struct {
		desc string
		body string
		want string
	}{
		{
			desc: "in auction without sale artwork",
			body: `"is_in_auction": true`,
			want: "is_in_auction is true but sale_artwork is missing",
		},
		{
			desc: "unreadable bid count",
			body: `"is_in_auction": true, "sale_artwork": {"opening_bid": {"display": "$1"}, "bidder_positions_count": "many"}`,
			want: `sale_artwork.bidder_positions_count: bidder positions count unreadable: "\"many\"" is not an integer; sale status will be hidden`,
		},
		{
			desc: "sale artwork outside auction",
			body: `"is_in_auction": false, "sale_artwork": {}`,
			want: "sale_artwork is set but is_in_auction is false; sale_message will be shown instead",
		},
		{
			desc: "open lot without opening bid",
			body: `"is_in_auction": true, "sale_artwork": {}`,
			want: "sale_artwork.opening_bid.display is empty on an open lot",
		},
		{
			desc: "date without title",
			body: `"date": "1976"`,
			want: "date is set without a title and will not be shown",
		},
		{
			desc: "blank artist",
			body: `"artists": [{"name": "Andy Warhol"}, {"name": " "}]`,
			want: "artists[1].name is empty",
		},
	}

	for _, tt := range tests {
		s.Run(tt.desc, func() {
			path := s.write("w.json", `{"id": "a", "href": "/artwork/a", "image": {"url": "https://example.com/a.jpg", "aspect_ratio": 1}, `+tt.body+`}`)

			results, err := NewValidator(path).Validate()
			s.Require().NoError(err)
			s.Empty(results.Errors)
			s.Equal([]string{tt.want}, results.Warnings)
		})
	}
}

func (s *ValidatorTestSuite) TestUnreadableFile() {
	_, err := NewValidator(filepath.Join(s.dir, "nope.json")).Validate()
	s.Error(err)

	path := s.write("broken.json", `{"id": `)
	_, err = NewValidator(path).Validate()
	s.Error(err)
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
