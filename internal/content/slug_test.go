package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"M&A Trends in 2024!", "ma-trends-in-2024"},
		{"multiple   spaces\tand\nlines", "multiple-spaces-and-lines"},
		{"already-slugified", "already-slugified"},
		{"--dashes -- everywhere--", "dashes-everywhere"},
		{"Café Société", "cafe-societe"},
		{"snake_case_title", "snakecasetitle"},
		{"!!!", ""},
		{"a - b", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyIsIdempotentAndWellFormed(t *testing.T) {
	inputs := []string{
		"",
		"-",
		"Climate Change Litigation: Emerging Trends",
		"  --Weird   ---  input__with  ünïcödé -- ",
		"日本語 title",
		"UPPER lower 123",
		"already-a-slug",
	}

	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
		assert.False(t, strings.HasPrefix(once, "-"), "leading hyphen for %q", in)
		assert.False(t, strings.HasSuffix(once, "-"), "trailing hyphen for %q", in)
		assert.NotContains(t, once, "--", "double hyphen for %q", in)
	}
}
