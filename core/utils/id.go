package utils

import (
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// GenerateSlug builds a url-safe key from name with a short random suffix,
// so two calendars with the same owner name never collide.
func GenerateSlug(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "calendar"
	}
	suffix := GenerateID()
	if suffix == "" {
		return base
	}
	return strings.Join([]string{base, suffix}, "-")
}
