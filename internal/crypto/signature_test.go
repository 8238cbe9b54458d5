package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbuddy/internal/crypto"
	"textbuddy/internal/domain"
)

const apiKey = "test_secret_key"

func TestCanonical_SortedAndEncoded(t *testing.T) {
	q := domain.Query{
		"userID": "a b",
		"gameID": "x/y?z",
		"sig":    "ignored",
		"Zeta":   "~-._",
	}
	got, err := crypto.Canonical(q, crypto.DefaultSignatureKey)
	require.NoError(t, err)
	// Byte order puts upper-case keys first.
	assert.Equal(t, "Zeta=~-._&gameID=x%2Fy%3Fz&userID=a%20b", got)
}

func TestCanonical_EmptyMapping(t *testing.T) {
	got, err := crypto.Canonical(domain.Query{"sig": "x"}, "sig")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEscapeStrict(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"abcXYZ019":   "abcXYZ019",
		"a b":         "a%20b",
		"!*'();:@&=+": "%21%2A%27%28%29%3B%3A%40%26%3D%2B",
		"$,/?#[]":     "%24%2C%2F%3F%23%5B%5D",
		"é":           "%C3%A9",
		"100%":        "100%25",
	}
	for in, want := range cases {
		got, err := crypto.EscapeStrict(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := crypto.EscapeStrict("bad\xff")
	assert.ErrorIs(t, err, crypto.ErrUnencodable)
}

func TestValidate_RoundTrip(t *testing.T) {
	q := domain.Query{"userID": "123", "gameID": "abc"}
	signed, err := crypto.SignQuery(q, apiKey, crypto.DefaultSignatureKey)
	require.NoError(t, err)

	assert.True(t, crypto.Validate(signed, apiKey, crypto.DefaultSignatureKey))
	assert.False(t, crypto.Validate(signed, apiKey+"x", crypto.DefaultSignatureKey))
	assert.NotContains(t, q, "sig", "SignQuery must not mutate its input")
}

func TestValidate_InsertionOrderIrrelevant(t *testing.T) {
	a := domain.Query{}
	a["status"] = "success"
	a["id"] = "u42"
	a["extra"] = "x y"

	b := domain.Query{}
	b["extra"] = "x y"
	b["id"] = "u42"
	b["status"] = "success"

	sa, err := crypto.Sign(a, apiKey, "sig")
	require.NoError(t, err)
	sb, err := crypto.Sign(b, apiKey, "sig")
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
	assert.Len(t, sa, 64)
	assert.Equal(t, strings.ToLower(sa), sa)
}

func TestValidate_TamperDetected(t *testing.T) {
	signed, err := crypto.SignQuery(domain.Query{
		"status": "success",
		"id":     "u42",
	}, apiKey, "sig")
	require.NoError(t, err)

	for _, k := range []string{"status", "id"} {
		tampered := signed.Clone()
		tampered[k] += "x"
		assert.False(t, crypto.Validate(tampered, apiKey, "sig"), "value of %s", k)
	}

	renamed := signed.Clone()
	renamed["ID"] = renamed["id"]
	delete(renamed, "id")
	assert.False(t, crypto.Validate(renamed, apiKey, "sig"))

	added := signed.Clone()
	added["extra"] = ""
	assert.False(t, crypto.Validate(added, apiKey, "sig"))

	flipped := signed.Clone()
	sig := []byte(flipped["sig"])
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}
	flipped["sig"] = string(sig)
	assert.ErrorIs(t, crypto.Verify(flipped, apiKey, "sig"), crypto.ErrSignatureMismatch)
}

func TestValidate_UpperCaseSignatureAccepted(t *testing.T) {
	signed, err := crypto.SignQuery(domain.Query{"a": "1"}, apiKey, "sig")
	require.NoError(t, err)
	signed["sig"] = strings.ToUpper(signed["sig"])
	assert.True(t, crypto.Validate(signed, apiKey, "sig"))
}

func TestValidate_CustomSignatureKey(t *testing.T) {
	signed, err := crypto.SignQuery(domain.Query{"userID": "123", "gameID": "abc"}, apiKey, "signature")
	require.NoError(t, err)
	assert.True(t, crypto.Validate(signed, apiKey, "signature"))
	assert.False(t, crypto.Validate(signed, apiKey, "sig"))
}

func TestVerify_Failures(t *testing.T) {
	q := domain.Query{"userID": "123", "gameID": "abc", "sig": "anything"}

	assert.ErrorIs(t, crypto.Verify(q, apiKey, ""), crypto.ErrNoSignatureKey)
	assert.ErrorIs(t, crypto.Verify(q, apiKey, "  "), crypto.ErrNoSignatureKey)
	assert.ErrorIs(t, crypto.Verify(nil, apiKey, "sig"), crypto.ErrNoQuery)
	assert.ErrorIs(t, crypto.Verify(domain.Query{"userID": "123"}, apiKey, "sig"), crypto.ErrMissingSignature)
	assert.ErrorIs(t, crypto.Verify(q, apiKey, "sig"), crypto.ErrSignatureMismatch)
}

func TestVerify_UnencodableValueIsFailure(t *testing.T) {
	q := domain.Query{"userID": "\xc3\x28", "sig": strings.Repeat("0", 64)}
	err := crypto.Verify(q, apiKey, "sig")
	assert.ErrorIs(t, err, crypto.ErrUnencodable)
	assert.False(t, crypto.Validate(q, apiKey, "sig"))
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "", crypto.Fingerprint(""))
	fp := crypto.Fingerprint(apiKey)
	assert.Len(t, fp, 12)
	assert.NotEqual(t, fp, crypto.Fingerprint(apiKey+"1"))
}
