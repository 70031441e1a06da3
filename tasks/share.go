package tasks

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"
)

// ShareURL appends text as the "text" query parameter of base. The text is
// escaped like JavaScript's encodeURIComponent, so spaces become %20.
func ShareURL(base, text string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share url: %w", err)
	}

	param := "text=" + EncodeURIComponent(text)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	return u.String(), nil
}

func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	// characters encodeURIComponent leaves alone
	for _, c := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(c), c)
	}
	return escaped
}

// BrowserOpener opens URLs in a new window of the default browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(rawURL string) error {
	return browser.OpenURL(rawURL)
}
