// Package jwt decodes access tokens issued by the auth backend.
//
// The backend is the authority on token validity, so the common path only
// decodes claims without checking the signature:
//
//	claims, err := jwt.ParseUnverified(session.AccessToken)
//	if claims.ExpiresWithin(90*time.Second, time.Now()) {
//		// refresh
//	}
//
// Deployments that know the project's HS256 secret can validate locally:
//
//	claims, err := jwt.Verify(token, []byte(secret))
//	switch {
//	case errors.Is(err, jwt.ErrExpiredToken):
//	case errors.Is(err, jwt.ErrInvalidToken):
//	}
package jwt
