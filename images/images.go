// Package images reads static image files from the public directory.
package images

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const DefaultMimeType = "application/octet-stream"

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true,
}

var ErrExternal = errors.New("external URLs are not supported for file reads")

// MimeType maps a file extension, with or without the dot, to its MIME type.
func MimeType(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return DefaultMimeType
}

// MimeTypeOf returns the MIME type of a file name.
func MimeTypeOf(name string) string {
	return MimeType(path.Ext(name))
}

// IsImage reports whether name carries a still-image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}

// IsExternal reports whether p points outside the public directory.
func IsExternal(p string) bool {
	return strings.HasPrefix(p, "data:") || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Clean turns a site path such as /projects/x/cover.png into an fs.FS path.
func Clean(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// ReadFile loads a site-relative file and its MIME type from fsys.
func ReadFile(fsys fs.FS, p string) ([]byte, string, error) {
	if p == "" {
		return nil, "", fmt.Errorf("image path is required")
	}
	if IsExternal(p) {
		return nil, "", ErrExternal
	}
	rel := Clean(p)
	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return nil, "", err
	}
	return data, MimeTypeOf(rel), nil
}

// Exists reports whether p names a regular file in fsys.
func Exists(fsys fs.FS, p string) bool {
	if p == "" || IsExternal(p) {
		return false
	}
	info, err := fs.Stat(fsys, Clean(p))
	return err == nil && info.Mode().IsRegular()
}
