package validator

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/arcanaland/easel/internal/artwork"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	ArtworkPath string
	Results     ValidationResults

	structs *playground.Validate
}

func NewValidator(artworkPath string) *Validator {
	structs := playground.New()
	structs.RegisterTagNameFunc(jsonName)

	return &Validator{
		ArtworkPath: artworkPath,
		Results:     ValidationResults{},
		structs:     structs,
	}
}

// Validate loads the artwork file and checks it. Only an unreadable file
// is returned as an error; problems with its content land in the results.
func (v *Validator) Validate() (ValidationResults, error) {
	a, err := artwork.Load(v.ArtworkPath)
	if err != nil {
		return v.Results, err
	}

	return v.ValidateArtwork(a), nil
}

// ValidateArtwork checks an already decoded artwork
func (v *Validator) ValidateArtwork(a *artwork.Artwork) ValidationResults {
	// Fields a card cannot render without
	v.validateRequiredFields(a)

	// Fields that render in a degraded way
	v.validateImage(a)
	v.validateArtists(a)
	v.validateTitle(a)
	v.validateAuction(a)

	return v.Results
}

func (v *Validator) validateRequiredFields(a *artwork.Artwork) {
	err := v.structs.Struct(a)
	if err == nil {
		return
	}

	var fieldErrors playground.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		v.Results.Errors = append(v.Results.Errors, err.Error())
		return
	}

	for _, fe := range fieldErrors {
		v.Results.Errors = append(v.Results.Errors, describe(fe))
	}
}

func describe(fe playground.FieldError) string {
	// drop the leading struct name: "Artwork.image.url" -> "image.url"
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// validateImage checks that local images exist; remote ones are not fetched
func (v *Validator) validateImage(a *artwork.Artwork) {
	if a.Image.URL == "" {
		return
	}

	u, err := url.Parse(a.Image.URL)
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("image.url is not a valid URL: %s", a.Image.URL))
		return
	}

	var path string
	switch u.Scheme {
	case "http", "https":
		// Remote images are only checked when drawn
		return
	case "file":
		path = u.Path
	case "":
		// Relative paths are relative to the artwork record
		path = a.Image.URL
		if !filepath.IsAbs(path) && v.ArtworkPath != "" {
			path = filepath.Join(filepath.Dir(v.ArtworkPath), path)
		}
	default:
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("unsupported image.url scheme: %s", u.Scheme))
		return
	}

	// Check that the image file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("image not found: %s", path))
	}
}

func (v *Validator) validateArtists(a *artwork.Artwork) {
	for i, artist := range a.Artists {
		if strings.TrimSpace(artist.Name) == "" {
			v.Results.Warnings = append(v.Results.Warnings,
				fmt.Sprintf("artists[%d].name is empty", i))
		}
	}
}

func (v *Validator) validateTitle(a *artwork.Artwork) {
	if a.Date != nil && *a.Date != "" && (a.Title == nil || *a.Title == "") {
		v.Results.Warnings = append(v.Results.Warnings,
			"date is set without a title and will not be shown")
	}
}

func (v *Validator) validateAuction(a *artwork.Artwork) {
	// Outside an auction only sale_message is shown
	if !a.IsInAuction {
		if a.SaleArtwork != nil {
			v.Results.Warnings = append(v.Results.Warnings,
				"sale_artwork is set but is_in_auction is false; sale_message will be shown instead")
		}
		return
	}

	if a.SaleArtwork == nil {
		v.Results.Warnings = append(v.Results.Warnings,
			"is_in_auction is true but sale_artwork is missing")
		return
	}

	// An unreadable bid count hides the sale status on the card
	if _, err := a.SaleArtwork.BidderPositions(); err != nil {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("sale_artwork.bidder_positions_count: %v; sale status will be hidden", err))
	}

	if !a.SaleArtwork.Sale.IsClosed && a.SaleArtwork.OpeningBid.Display == "" {
		v.Results.Warnings = append(v.Results.Warnings,
			"sale_artwork.opening_bid.display is empty on an open lot")
	}
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
