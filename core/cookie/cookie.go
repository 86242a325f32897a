package cookie

import (
	"net/http"
	"strings"
)

// Cookie is a single name/value pair plus the attributes used when it is written.
// Options are ignored for cookies parsed from a request.
type Cookie struct {
	Name    string
	Value   string
	Options Options
}

// Removal returns a cookie that instructs the browser to drop name.
func Removal(name string, opts Options) Cookie {
	opts.MaxAge = -1
	return Cookie{Name: name, Value: "", Options: opts}
}

// Removed reports whether writing c deletes the cookie.
func (c Cookie) Removed() bool {
	return c.Options.MaxAge < 0
}

// HTTP converts the cookie into a net/http cookie ready for http.SetCookie.
func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Options.Path,
		Domain:   c.Options.Domain,
		MaxAge:   c.Options.MaxAge,
		Secure:   c.Options.Secure,
		HttpOnly: c.Options.HttpOnly,
		SameSite: c.Options.SameSite,
	}
}

// String returns the Set-Cookie header value.
func (c Cookie) String() string {
	return c.HTTP().String()
}

// ParseHeader splits a Cookie request header into cookies, preserving order.
// Pairs without a name are skipped; duplicates are kept; surrounding
// double quotes are stripped from values. An empty header yields nil.
func ParseHeader(header string) []Cookie {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}

	parts := strings.Split(header, ";")
	cookies := make([]Cookie, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}

		cookies = append(cookies, Cookie{Name: name, Value: value})
	}

	return cookies
}

// ParseRequest parses every Cookie header on r.
func ParseRequest(r *http.Request) []Cookie {
	if r == nil {
		return nil
	}
	return ParseHeader(strings.Join(r.Header.Values("Cookie"), "; "))
}
