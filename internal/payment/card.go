package payment

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

var (
	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrInvalidKey        = errors.New("encryption key must be 32 bytes base64")
)

// CardToken はカード番号のトークン化結果。
// 表示用の下4桁・照合用ハッシュ・ブランド・暗号化済み番号のみで、PANは持たない。
type CardToken struct {
	Last4      string
	Hash       string
	Brand      string
	Ciphertext string
}

// Masked は "Visa ****1111" 形式の表示用文字列。
func (t CardToken) Masked() string {
	return t.Brand + " ****" + t.Last4
}

// digitsOnly は数字以外（空白・ハイフン）を取り除く。
func digitsOnly(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidLuhn はLuhnチェックサムでカード番号を検証する。
// 13〜19桁の数字のみ受け付ける。
func ValidLuhn(number string) bool {
	digits := digitsOnly(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand はIINプレフィックスからブランドを判定する（固定テーブル、通信なし）。
func DetectBrand(number string) string {
	digits := digitsOnly(number)

	switch {
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return "Discover"
	case strings.HasPrefix(digits, "6062"):
		return "Hipercard"
	case strings.HasPrefix(digits, "5067"), strings.HasPrefix(digits, "4576"):
		return "Elo"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "Amex"
	case strings.HasPrefix(digits, "35"):
		return "JCB"
	case len(digits) > 1 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return "Mastercard"
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	default:
		return "Unknown"
	}
}

// Tokenizer はカード番号をsecretboxで暗号化して断片化する。
type Tokenizer struct {
	key [32]byte
}

func NewTokenizer(base64Key string) (*Tokenizer, error) {
	raw, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidKey
	}
	t := &Tokenizer{}
	copy(t.key[:], raw)
	return t, nil
}

// Tokenize は番号をトークン化する。Luhn検証は呼び出し側の責務。
func (t *Tokenizer) Tokenize(number string) (CardToken, error) {
	digits := digitsOnly(number)
	if len(digits) < 13 || len(digits) > 19 {
		return CardToken{}, ErrInvalidCardNumber
	}

	sum := sha256.Sum256([]byte(digits))

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return CardToken{}, err
	}
	sealed := secretbox.Seal(nonce[:], []byte(digits), &nonce, &t.key)

	return CardToken{
		Last4:      digits[len(digits)-4:],
		Hash:       hex.EncodeToString(sum[:]),
		Brand:      DetectBrand(digits),
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// GenerateKey は新しい32バイト鍵をbase64で返す（CLIのgen-encryption-key用）。
func GenerateKey() (string, error) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key[:]), nil
}
