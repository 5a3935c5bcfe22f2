package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrInvalidSignature はwebhookの署名不一致。401で返す。
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Verifier はwebhook本文のHMAC-SHA256署名を検証する。
// allowUnsignedは開発環境専用。本番ではconfigが必ずsecretを要求する。
type Verifier struct {
	secret        []byte
	allowUnsigned bool
}

func NewVerifier(secret string, allowUnsigned bool) *Verifier {
	return &Verifier{secret: []byte(secret), allowUnsigned: allowUnsigned}
}

// Verify は受信したraw bodyに対する署名を定数時間比較で検証する。
func (v *Verifier) Verify(body []byte, signature string) error {
	if len(v.secret) == 0 {
		if v.allowUnsigned {
			return nil
		}
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign はテストとローカル開発でwebhookを組み立てるための署名生成。
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
