// Package auth verifies bearer credentials issued by the external identity
// provider and derives the request principal from them.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskfence/taskfence/internal/errs"
	"github.com/taskfence/taskfence/internal/model"
)

// expiryLeeway absorbs small clock skew between this service and the
// identity provider.
const expiryLeeway = 5 * time.Second

// claims is the token payload the identity provider signs. Subject carries
// the stable user id, Email is informational.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier validates HS256 tokens against the shared secret. It holds no
// mutable state and is safe for concurrent use.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier for the given shared secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// VerifyHeader converts a raw Authorization header value into a Principal.
// Every rejection wraps errs.ErrUnauthenticated; the concrete sentinel names
// the reason for logs and must never reach a response body.
func (v *Verifier) VerifyHeader(header string) (model.Principal, error) {
	raw, err := bearerToken(header)
	if err != nil {
		return model.Principal{}, err
	}

	var cl claims
	parsed, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithLeeway(expiryLeeway), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.Principal{}, errs.ErrExpiredCredential
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return model.Principal{}, errs.ErrInvalidSignature
		default:
			// structural problems, wrong alg, not-yet-valid and the like
			return model.Principal{}, errs.ErrMalformedCredential
		}
	}
	if !parsed.Valid {
		return model.Principal{}, errs.ErrInvalidSignature
	}
	if cl.Subject == "" || cl.Email == "" {
		return model.Principal{}, errs.ErrMalformedCredential
	}

	return model.Principal{ID: cl.Subject, Email: cl.Email}, nil
}

// bearerToken extracts the token from "Bearer <token>", case-insensitive on
// the scheme. Absent header or any other scheme is a missing credential.
func bearerToken(header string) (string, error) {
	h := strings.TrimSpace(header)
	if h == "" {
		return "", errs.ErrMissingCredential
	}
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", errs.ErrMissingCredential
	}
	t := strings.TrimSpace(h[7:])
	if t == "" {
		return "", errs.ErrMissingCredential
	}
	return t, nil
}
