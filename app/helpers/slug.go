package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func(ctx context.Context, candidate string) (bool, error)

func Slugify(title string) string {
	return slug.Make(title)
}

// JoinSlug prefixes a local slug with its parent's slug. Roots pass an empty parent.
func JoinSlug(parent, local string) string {
	if parent == "" {
		return local
	}
	return parent + "/" + local
}

// UniqueSlug returns base if it is free, otherwise the first free of base-1, base-2, ...
func UniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
