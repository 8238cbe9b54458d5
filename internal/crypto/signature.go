package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"textbuddy/internal/domain"
)

// DefaultSignatureKey is the query parameter carrying the signature.
const DefaultSignatureKey = "sig"

var (
	// ErrNoSignatureKey is returned when the caller names no signature parameter.
	ErrNoSignatureKey = errors.New("signature key is empty")
	// ErrNoQuery is returned for a nil mapping.
	ErrNoQuery = errors.New("no query parameters")
	// ErrMissingSignature is returned when the mapping carries no signature.
	ErrMissingSignature = errors.New("signature parameter missing")
	// ErrSignatureMismatch is returned when the signature does not match.
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrUnencodable is returned for keys or values that cannot be percent-encoded.
	ErrUnencodable = errors.New("value cannot be encoded")
)

// Canonical builds the signing input for q: every key except sigKey, sorted
// by byte value, each key and value strictly percent-encoded, joined as
// k=v pairs separated by '&'.
func Canonical(q domain.Query, sigKey string) (string, error) {
	keys := make([]string, 0, len(q))
	for k := range q {
		if k != sigKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		ek, err := EscapeStrict(k)
		if err != nil {
			return "", fmt.Errorf("key: %w", err)
		}
		ev, err := EscapeStrict(q[k])
		if err != nil {
			return "", fmt.Errorf("value of %s: %w", ek, err)
		}
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(ek)
		b.WriteByte('=')
		b.WriteString(ev)
	}
	return b.String(), nil
}

// Sign returns the lowercase hex HMAC-SHA256 of q's canonical form under secret.
func Sign(q domain.Query, secret, sigKey string) (string, error) {
	if strings.TrimSpace(sigKey) == "" {
		return "", ErrNoSignatureKey
	}
	canon, err := Canonical(q, sigKey)
	if err != nil {
		return "", err
	}
	return mac(secret, canon), nil
}

// SignQuery returns a copy of q with its signature stored under sigKey.
func SignQuery(q domain.Query, secret, sigKey string) (domain.Query, error) {
	sig, err := Sign(q, secret, sigKey)
	if err != nil {
		return nil, err
	}
	out := q.Clone()
	if out == nil {
		out = domain.Query{}
	}
	out[sigKey] = sig
	return out, nil
}

// Verify checks the signature embedded in q under sigKey and reports why it
// failed. The comparison ignores hex case.
func Verify(q domain.Query, secret, sigKey string) error {
	if strings.TrimSpace(sigKey) == "" {
		return ErrNoSignatureKey
	}
	if q == nil {
		return ErrNoQuery
	}
	received, ok := q[sigKey]
	if !ok {
		return ErrMissingSignature
	}
	canon, err := Canonical(q, sigKey)
	if err != nil {
		return err
	}
	want := mac(secret, canon)
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(want)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Validate reports whether q carries a valid signature under sigKey.
func Validate(q domain.Query, secret, sigKey string) bool {
	return Verify(q, secret, sigKey) == nil
}

func mac(secret, msg string) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
