package core

import (
	"fmt"
	"sort"
	"strings"
)

// SortField orders search results.
type SortField string

const (
	SortByName      SortField = "name"
	SortByDownloads SortField = "downloads" // most installed first
	SortByPublisher SortField = "publisher"
)

// ParseSortField validates a sort field name. Empty means downloads.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SortByDownloads, nil
	case SortByName, SortByDownloads, SortByPublisher:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q; available: name, downloads, publisher", s)
	}
}

// SortExtensions sorts exts in place. Ties keep marketplace order.
func SortExtensions(exts []Extension, field SortField, reverse bool) {
	less := func(a, b Extension) bool {
		switch field {
		case SortByName:
			return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
		case SortByPublisher:
			if !strings.EqualFold(a.Publisher, b.Publisher) {
				return strings.ToLower(a.Publisher) < strings.ToLower(b.Publisher)
			}
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		default:
			return a.Installs > b.Installs
		}
	}
	sort.SliceStable(exts, func(i, j int) bool {
		if reverse {
			return less(exts[j], exts[i])
		}
		return less(exts[i], exts[j])
	})
}
