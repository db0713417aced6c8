package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader — заголовок Trakteer с HMAC-SHA256 тела запроса (hex).
const SignatureHeader = "X-Trakteer-Signature"

// Verifier проверяет подпись webhook общим секретом.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign считает подпись тела; нужна для тестов и ручной проверки.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify: без секрета любая подпись отклоняется.
func (v *Verifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
