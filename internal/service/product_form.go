package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"atelier-catalog/internal/domain"
)

// DefaultCurrency is assumed when a submission carries no currency
const DefaultCurrency = "RON"

// ParseProductForm builds a ProductData from a raw form submission. It
// never fails: every submission produces a structurally valid record,
// and anything semantically wrong (a non-numeric price, an overlong
// name) is left for ValidateProductData to report.
func ParseProductForm(form url.Values) domain.ProductData {
	return domain.ProductData{
		Slug:          form.Get("slug"),
		Name:          form.Get("name"),
		NameEN:        optionalField(form, "name_en"),
		Description:   optionalField(form, "description"),
		DescriptionEN: optionalField(form, "description_en"),
		Price:         parsePrice(form),
		Currency:      currencyOrDefault(form.Get("currency")),
		ImageURL:      optionalField(form, "image_url"),
		ImageAlt:      optionalField(form, "image_alt"),
		Category:      optionalField(form, "category"),
		Tags:          parseTags(form.Get("tags")),
		Featured:      form.Get("featured") == "true",
		InStock:       form.Get("in_stock") == "true",
	}
}

// An empty submitted value is never a valid "present" value for
// optional fields; it collapses to absent, same as a missing field.
func optionalField(form url.Values, key string) *string {
	value := form.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

// A missing price defaults to 0. A present but unparsable price becomes
// NaN so validation can reject it; parsing itself never errors.
func parsePrice(form url.Values) float64 {
	if !form.Has("price") {
		return 0
	}
	price, err := strconv.ParseFloat(form.Get("price"), 64)
	if err != nil {
		return math.NaN()
	}
	return price
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

// Tags arrive as one comma-delimited string. Pieces are trimmed, empty
// pieces dropped, and the surviving order preserved.
func parseTags(raw string) []string {
	tags := []string{}
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			tags = append(tags, piece)
		}
	}
	return tags
}
