package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"testing"
)

// signRaw produces a correctly signed HS256 token over an arbitrary
// payload, bypassing Sign's input checks, so schema validation can be
// exercised in isolation.
func signRaw(t *testing.T, secret []byte, payload string) string {
	t.Helper()
	enc := base64.RawURLEncoding.EncodeToString
	signingInput := enc([]byte(`{"alg":"HS256","typ":"JWT"}`)) + "." + enc([]byte(payload))
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signingInput))
	return signingInput + "." + enc(mac.Sum(nil))
}

func payloadJSON(sub, tokenType, role, email string, iat, exp int64, iss string) string {
	m := map[string]any{"iat": iat, "exp": exp}
	if sub != "" {
		m["sub"] = sub
	}
	if tokenType != "" {
		m["token_type"] = tokenType
	}
	if role != "" {
		m["role"] = role
	}
	if email != "" {
		m["email"] = email
	}
	if iss != "" {
		m["iss"] = iss
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
