package cookie

import (
	"strconv"
	"strings"
)

// MaxChunkSize is the largest value written into a single cookie.
// It leaves room for the name and attributes inside the 4KB browser limit.
const MaxChunkSize = 3180

// ChunkName returns the cookie name of the i-th chunk of key.
func ChunkName(key string, i int) string {
	return key + "." + strconv.Itoa(i)
}

// Chunk splits value into cookies named key (when it fits) or key.0, key.1, ...
// Every returned cookie carries opts.
func Chunk(key, value string, opts Options) []Cookie {
	return chunkWithSize(key, value, opts, MaxChunkSize)
}

func chunkWithSize(key, value string, opts Options, size int) []Cookie {
	if len(value) <= size {
		return []Cookie{{Name: key, Value: value, Options: opts}}
	}

	chunks := make([]Cookie, 0, len(value)/size+1)
	for i := 0; len(value) > 0; i++ {
		n := min(size, len(value))
		chunks = append(chunks, Cookie{Name: ChunkName(key, i), Value: value[:n], Options: opts})
		value = value[n:]
	}
	return chunks
}

// Combine reassembles the value stored under key.
// An unchunked cookie wins over chunks. Chunks are read from key.0 upwards
// and stop at the first gap. Returns ErrCookieNotFound if nothing exists.
func Combine(key string, lookup func(name string) (string, bool)) (string, error) {
	if v, ok := lookup(key); ok {
		return v, nil
	}

	var b strings.Builder
	found := false
	for i := 0; ; i++ {
		v, ok := lookup(ChunkName(key, i))
		if !ok {
			break
		}
		found = true
		b.WriteString(v)
	}

	if !found {
		return "", ErrCookieNotFound
	}
	return b.String(), nil
}

// BelongsTo reports whether name is key itself or one of its chunks.
func BelongsTo(name, key string) bool {
	if name == key {
		return true
	}
	suffix, ok := strings.CutPrefix(name, key+".")
	if !ok || suffix == "" {
		return false
	}
	_, err := strconv.Atoi(suffix)
	return err == nil
}
