package supabase

import (
	"github.com/dmitrymomot/sbauth/core/cookie"
)

// cookieStorage keeps one value under key, chunked across cookies.
type cookieStorage struct {
	key      string
	methods  CookieMethods
	options  cookie.Options
	encoding cookie.Encoding
}

// getItem returns the decoded value or cookie.ErrCookieNotFound.
func (s *cookieStorage) getItem() (string, error) {
	values := make(map[string]string)
	for _, c := range s.methods.GetAll() {
		if !cookie.BelongsTo(c.Name, s.key) {
			continue
		}
		if _, seen := values[c.Name]; !seen {
			values[c.Name] = c.Value
		}
	}

	encoded, err := cookie.Combine(s.key, func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	})
	if err != nil {
		return "", err
	}
	return s.encoding.Decode(encoded)
}

// setItem writes value and removes chunks left over from a longer previous value.
func (s *cookieStorage) setItem(value string) {
	chunks := cookie.Chunk(s.key, s.encoding.Encode(value), s.options)

	keep := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		keep[c.Name] = struct{}{}
	}

	writes := s.removals(keep)
	writes = append(writes, chunks...)
	s.methods.SetAll(writes)
}

// removeItem deletes every cookie holding the value.
func (s *cookieStorage) removeItem() {
	if writes := s.removals(nil); len(writes) > 0 {
		s.methods.SetAll(writes)
	}
}

func (s *cookieStorage) removals(keep map[string]struct{}) []cookie.Cookie {
	var out []cookie.Cookie
	seen := make(map[string]struct{})
	for _, c := range s.methods.GetAll() {
		if !cookie.BelongsTo(c.Name, s.key) {
			continue
		}
		if _, ok := keep[c.Name]; ok {
			continue
		}
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, cookie.Removal(c.Name, s.options))
	}
	return out
}
