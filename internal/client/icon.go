package client

import (
	"net/url"
	"strings"
)

// DefaultIconBaseURL serves the provider's condition icons.
const DefaultIconBaseURL = "https://openweathermap.org/img/wn/"

// IconURL resolves a provider icon id (e.g. "01d") to its 2x PNG on the default host.
func IconURL(iconID string) string {
	return IconURLWithBase(DefaultIconBaseURL, iconID)
}

// IconURLWithBase is IconURL against a custom base. Returns "" for an empty id.
func IconURLWithBase(base, iconID string) string {
	if iconID == "" {
		return ""
	}
	if base == "" {
		base = DefaultIconBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(iconID) + "@2x.png"
}
