package util

import (
	"net/url"
	"regexp"
	"strings"
)

var docExtRe = regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?|csv|zip)$`)

// ResolveURL joins ref onto base. Absolute refs come back unchanged and
// anything that fails to parse is returned as given.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return ref
	}
	return b.ResolveReference(r).String()
}

// LooksLikeDocument reports whether href ends in a document extension.
func LooksLikeDocument(href string) bool {
	return docExtRe.MatchString(href)
}
