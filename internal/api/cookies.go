package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// LoadCookies primes the client's jar from a file previously written by
// SaveCookies, so a session established by one process survives into the
// next. A missing file just means no session exists yet.
func (c *Client) LoadCookies(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading cookie file %s: %w", path, err)
	}
	var cookies []*http.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return fmt.Errorf("parsing cookie file %s: %w", path, err)
	}
	c.http.Jar.SetCookies(c.base, cookies)
	return nil
}

// SaveCookies writes the cookies currently held for the backend. The file
// carries the session, so it is written user-only.
func (c *Client) SaveCookies(path string) error {
	cookies := c.http.Jar.Cookies(c.base)
	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("encoding cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing cookie file %s: %w", path, err)
	}
	return nil
}
