package cookie

import (
	"net/http"
	"slices"
	"sync"
)

// Jar is the request-scoped view of cookies.
// It starts from the request's Cookie header, applies writes made while the
// request is handled, and forwards every write as a Set-Cookie header on the
// bound response. Safe for concurrent use.
type Jar struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	cookies []Cookie
	pending []Cookie
}

// NewJar binds a jar to the request's cookies and the response headers.
// w may be nil, in which case writes are only recorded.
func NewJar(r *http.Request, w http.ResponseWriter) *Jar {
	return &Jar{
		w:       w,
		cookies: ParseRequest(r),
	}
}

// NewJarFromHeader builds a jar from a raw Cookie header value.
func NewJarFromHeader(header string, w http.ResponseWriter) *Jar {
	return &Jar{
		w:       w,
		cookies: ParseHeader(header),
	}
}

// GetAll returns a copy of the current cookies in request order.
func (j *Jar) GetAll() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.cookies)
}

// Get returns the first cookie called name.
func (j *Jar) Get(name string) (Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	i := slices.IndexFunc(j.cookies, func(c Cookie) bool { return c.Name == name })
	if i < 0 {
		return Cookie{}, false
	}
	return j.cookies[i], true
}

// SetAll applies cookie mutations in order: removals drop the cookie from the
// view, anything else replaces or appends it. Each mutation is written as a
// Set-Cookie header verbatim.
func (j *Jar) SetAll(cookies []Cookie) {
	if len(cookies) == 0 {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, c := range cookies {
		j.cookies = slices.DeleteFunc(j.cookies, func(existing Cookie) bool {
			return existing.Name == c.Name
		})
		if !c.Removed() {
			j.cookies = append(j.cookies, Cookie{Name: c.Name, Value: c.Value})
		}

		j.pending = append(j.pending, c)
		if j.w != nil {
			http.SetCookie(j.w, c.HTTP())
		}
	}
}

// Pending returns every mutation applied so far, in order.
func (j *Jar) Pending() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.pending)
}

// Dirty reports whether any cookie was written.
func (j *Jar) Dirty() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending) > 0
}
