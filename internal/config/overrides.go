package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

var overrideDecoder = schema.NewDecoder()

// ApplyOverrides applies `key=value` pairs (as given to --set) to opts and
// validates the result. Keys use the TOML names.
func ApplyOverrides(opts *Options, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	values := url.Values{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("override %q: expected key=value", p)
		}
		values.Set(key, strings.TrimSpace(value))
	}
	if err := overrideDecoder.Decode(opts, values); err != nil {
		return fmt.Errorf("override: %w", err)
	}
	return Validate(opts)
}
