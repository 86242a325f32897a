// Package cookie moves auth cookies between an incoming request and its response.
//
// It covers the pieces a server-side auth client needs and nothing more:
// tolerant parsing of the Cookie header, attribute options, value encoding,
// chunking of values larger than a single cookie can hold, and a request-scoped
// Jar that records writes and forwards them as Set-Cookie headers.
//
// # Jar
//
//	jar := cookie.NewJar(r, w)
//
//	all := jar.GetAll()                // cookies from the request
//	jar.SetAll([]cookie.Cookie{        // written to w immediately
//		{Name: "sb-abc-auth-token", Value: v, Options: cookie.DefaultOptions()},
//	})
//	jar.Get("sb-abc-auth-token")       // reflects the write above
//
// # Chunking
//
// Values longer than MaxChunkSize are split into name.0, name.1, ...:
//
//	chunks := cookie.Chunk("sb-abc-auth-token", encoded, opts)
//	value, err := cookie.Combine("sb-abc-auth-token", lookup)
//
// # Encoding
//
// EncodingBase64URL (default) writes "base64-" followed by unpadded base64url.
// EncodingRaw query-escapes the value. Decode accepts both forms.
package cookie
