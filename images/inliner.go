package images

import (
	"encoding/base64"
	"io/fs"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Inliner turns image paths into base64 data URLs and remembers the result
// for the process lifetime.
type Inliner struct {
	fsys  fs.FS
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]string
}

func NewInliner(fsys fs.FS) *Inliner {
	return &Inliner{
		fsys:  fsys,
		cache: make(map[string]string),
	}
}

// DataURL returns p as a data URL. External and empty paths come back
// unchanged, and so does a path that cannot be read.
func (in *Inliner) DataURL(p string) string {
	if p == "" || IsExternal(p) {
		return p
	}

	in.mu.RLock()
	cached, ok := in.cache[p]
	in.mu.RUnlock()
	if ok {
		return cached
	}

	v, _, _ := in.group.Do(p, func() (any, error) {
		data, mimeType, err := ReadFile(in.fsys, p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("unable to inline image")
			return p, nil
		}
		url := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

		in.mu.Lock()
		in.cache[p] = url
		in.mu.Unlock()
		return url, nil
	})
	return v.(string)
}

// Len is the number of cached paths.
func (in *Inliner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.cache)
}
