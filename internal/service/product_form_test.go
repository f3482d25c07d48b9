package service

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductForm_Defaults(t *testing.T) {
	data := ParseProductForm(url.Values{})

	assert.Equal(t, "", data.Slug)
	assert.Equal(t, "", data.Name)
	assert.Nil(t, data.NameEN)
	assert.Nil(t, data.Description)
	assert.Nil(t, data.DescriptionEN)
	assert.Equal(t, float64(0), data.Price)
	assert.Equal(t, "RON", data.Currency)
	assert.Nil(t, data.ImageURL)
	assert.Nil(t, data.ImageAlt)
	assert.Nil(t, data.Category)
	assert.Empty(t, data.Tags)
	assert.False(t, data.Featured)
	assert.False(t, data.InStock)
}

func TestParseProductForm_OptionalFieldsCollapseEmptyToAbsent(t *testing.T) {
	form := url.Values{
		"name_en":        {""},
		"description":    {""},
		"description_en": {""},
		"image_url":      {""},
		"image_alt":      {""},
		"category":       {""},
	}

	data := ParseProductForm(form)

	assert.Nil(t, data.NameEN)
	assert.Nil(t, data.Description)
	assert.Nil(t, data.DescriptionEN)
	assert.Nil(t, data.ImageURL)
	assert.Nil(t, data.ImageAlt)
	assert.Nil(t, data.Category)
}

func TestParseProductForm_OptionalFieldsPresent(t *testing.T) {
	form := url.Values{
		"name_en":     {"Lavender soap"},
		"description": {"Sapun natural"},
		"category":    {"cosmetice"},
	}

	data := ParseProductForm(form)

	require.NotNil(t, data.NameEN)
	assert.Equal(t, "Lavender soap", *data.NameEN)
	require.NotNil(t, data.Description)
	assert.Equal(t, "Sapun natural", *data.Description)
	require.NotNil(t, data.Category)
	assert.Equal(t, "cosmetice", *data.Category)
}

func TestParseProductForm_Price(t *testing.T) {
	t.Run("missing defaults to zero", func(t *testing.T) {
		data := ParseProductForm(url.Values{"slug": {"x"}})
		assert.Equal(t, float64(0), data.Price)
	})

	t.Run("decimal string parses", func(t *testing.T) {
		data := ParseProductForm(url.Values{"price": {"12.50"}})
		assert.Equal(t, 12.5, data.Price)
	})

	t.Run("non-numeric becomes NaN for validation to reject", func(t *testing.T) {
		data := ParseProductForm(url.Values{"price": {"abc"}})
		assert.True(t, math.IsNaN(data.Price))
	})

	t.Run("empty string becomes NaN", func(t *testing.T) {
		data := ParseProductForm(url.Values{"price": {""}})
		assert.True(t, math.IsNaN(data.Price))
	})
}

func TestParseProductForm_Currency(t *testing.T) {
	assert.Equal(t, "RON", ParseProductForm(url.Values{}).Currency)
	assert.Equal(t, "RON", ParseProductForm(url.Values{"currency": {""}}).Currency)
	assert.Equal(t, "EUR", ParseProductForm(url.Values{"currency": {"EUR"}}).Currency)
	// Unknown currencies pass through for validation to reject
	assert.Equal(t, "USD", ParseProductForm(url.Values{"currency": {"USD"}}).Currency)
}

func TestParseProductForm_Tags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty input yields empty sequence", "", []string{}},
		{"single tag", "lavanda", []string{"lavanda"}},
		{"empty and whitespace pieces dropped, order preserved", "a,,b, ", []string{"a", "b"}},
		{"pieces trimmed", " handmade , natural ", []string{"handmade", "natural"}},
		{"only separators", ", ,  ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := ParseProductForm(url.Values{"tags": {tt.raw}})
			assert.Equal(t, tt.want, data.Tags)
		})
	}
}

func TestParseProductForm_Booleans(t *testing.T) {
	// Only the exact string "true" switches the flags on
	for _, value := range []string{"true"} {
		data := ParseProductForm(url.Values{"featured": {value}, "in_stock": {value}})
		assert.True(t, data.Featured)
		assert.True(t, data.InStock)
	}

	for _, value := range []string{"TRUE", "True", "1", "yes", "on", "false", ""} {
		data := ParseProductForm(url.Values{"featured": {value}, "in_stock": {value}})
		assert.False(t, data.Featured, "featured should be false for %q", value)
		assert.False(t, data.InStock, "in_stock should be false for %q", value)
	}
}
