package parser

import (
	"net/url"
	"strings"
)

// FlavorPathPrefix is the path prefix under which the source serves flavor
// detail pages.
const FlavorPathPrefix = "/tabacco/"

// BrandPathPrefix is the path prefix under which the source serves brand
// pages.
const BrandPathPrefix = "/brands/"

// ExtractSlug extracts the slug from a flavor URL by stripping the
// FlavorPathPrefix and retaining all remaining path segments (brand,
// brand/line and brand/line/item depths are all valid). An empty or absent
// input yields "". Applying ExtractSlug to an already-extracted slug
// returns the slug unchanged.
func ExtractSlug(raw string) string {
	return extractSlug(raw, FlavorPathPrefix)
}

// ExtractBrandSlug extracts the slug from a brand URL.
func ExtractBrandSlug(raw string) string {
	return extractSlug(raw, BrandPathPrefix)
}

func extractSlug(raw, prefix string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	}

	path = strings.Trim(path, "/")
	prefix = strings.Trim(prefix, "/") + "/"
	path = strings.TrimPrefix(path, prefix)

	return strings.Trim(path, "/")
}

// SlugURL is the inverse of ExtractSlug: it rebuilds the source path for a
// flavor slug.
func SlugURL(slug string) string {
	if slug == "" {
		return ""
	}
	return FlavorPathPrefix + slug
}
