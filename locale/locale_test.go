package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocale(t *testing.T) {
	assert.True(t, IsLocale("en"))
	assert.True(t, IsLocale("it"))
	assert.False(t, IsLocale("IT"))
	assert.False(t, IsLocale("fr"))
	assert.False(t, IsLocale(""))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"en", English},
		{"it", Italian},
		{" IT ", Italian},
		{"de", English},
		{"", English},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), "Parse(%q)", tt.in)
	}
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, Italian, Opposite(English))
	assert.Equal(t, English, Opposite(Italian))
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Locale
	}{
		{"/it/projects/demo", Italian},
		{"/en", English},
		{"/projects/demo", English},
		{"/fr/projects", English},
		{"", English},
		{"//it//contact", Italian},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromPath(tt.path), "FromPath(%q)", tt.path)
	}
}

func TestStripPrefix(t *testing.T) {
	assert.Equal(t, "/projects/demo", StripPrefix("/it/projects/demo"))
	assert.Equal(t, "/", StripPrefix("/it"))
	assert.Equal(t, "/projects", StripPrefix("/projects"))
}

func TestWithLocale(t *testing.T) {
	assert.Equal(t, "/it/projects/demo", WithLocale("/projects/demo", Italian))
	assert.Equal(t, "/it/contact", WithLocale("/en/contact", Italian))
	assert.Equal(t, "/projects/demo", WithLocale("/it/projects/demo", English))
	assert.Equal(t, "/", WithLocale("/it", English))
	assert.Equal(t, "/it", WithLocale("/", Italian))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "", Prefix(English))
	assert.Equal(t, "/it", Prefix(Italian))
}
