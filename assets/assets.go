// Package assets resolves project assets and covers to bytes or redirects.
package assets

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

const (
	AssetCacheControl = "public, max-age=31536000, immutable"
	CoverCacheControl = "public, max-age=86400, immutable"
)

var (
	ErrNotFound  = errors.New("asset not found")
	ErrEmptyBlob = errors.New("asset has no binary data")
)

var localizedName = regexp.MustCompile(`(?i)^(.*)\.([a-z]{2})\.(png|jpg|jpeg|gif|svg|webp|mp4|webm)$`)

// ParseFilename splits a localized file name such as diagram.it.png into its
// slug (diagram.png) and locale (it). Other names are their own slug with no
// locale.
func ParseFilename(name string) (slug, loc string) {
	m := localizedName.FindStringSubmatch(name)
	if m == nil {
		return name, ""
	}
	return m[1] + "." + m[3], strings.ToLower(m[2])
}

// ID is the stable identifier of a published asset.
func ID(projectID, slug, loc string) string {
	id := projectID + "-" + slug
	if loc != "" {
		id += "-" + loc
	}
	return id
}

// Resolved is either a payload to serve or a redirect target.
type Resolved struct {
	Data         []byte
	MimeType     string
	CacheControl string
	Location     string
}

func (r Resolved) IsRedirect() bool {
	return r.Location != ""
}

// Store resolves assets and covers for the HTTP layer.
type Store interface {
	// Asset resolves slug for projectID, preferring the loc variant.
	Asset(ctx context.Context, projectID, slug, loc string) (Resolved, error)
	// Cover resolves the cover image of projectID.
	Cover(ctx context.Context, projectID string) (Resolved, error)
}
