package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Photos is an ordered list of photo URIs persisted as a JSON text column.
type Photos []string

// PhotosToString converts []string to JSON string (safe for DB)
func PhotosToString(photos []string) string {
	if len(photos) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(photos)
	return string(data)
}

// StringToPhotos converts DB string back to []string
func StringToPhotos(s string) []string {
	if s == "" || s == "[]" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(s), &photos); err != nil {
		// legacy rows stored comma-separated URIs
		return strings.Split(s, ",")
	}
	return photos
}

func (p Photos) Value() (driver.Value, error) {
	return PhotosToString(p), nil
}

func (p *Photos) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Photos{}
	case string:
		*p = StringToPhotos(v)
	case []byte:
		*p = StringToPhotos(string(v))
	default:
		return fmt.Errorf("photos: unsupported column type %T", src)
	}
	return nil
}

// Append returns p with uris added, skipping blanks and duplicates.
func (p Photos) Append(uris ...string) Photos {
	seen := make(map[string]bool, len(p))
	out := make(Photos, 0, len(p)+len(uris))
	for _, u := range p {
		seen[u] = true
		out = append(out, u)
	}
	for _, u := range uris {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
