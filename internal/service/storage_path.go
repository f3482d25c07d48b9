package service

import "strings"

// storagePathMarker is the fixed segment public object URLs carry
// before the bucket-relative path. The URL format is an external
// convention of the hosted storage service; this resolver only
// depends on it.
const storagePathMarker = "/product-images/"

// ResolveStoragePath extracts the bucket-relative path from a full
// public object URL. It reports false for empty input, a URL without
// the marker, or a URL with nothing after the marker. The remainder is
// returned raw, without decoding or validation.
func ResolveStoragePath(url string) (string, bool) {
	if url == "" {
		return "", false
	}

	idx := strings.Index(url, storagePathMarker)
	if idx < 0 {
		return "", false
	}

	path := url[idx+len(storagePathMarker):]
	if path == "" {
		return "", false
	}

	return path, true
}
