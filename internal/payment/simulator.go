package payment

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// シミュレートPIXの固定受取先
const (
	simPixKey       = "contato@agrofeira.com.br"
	simMerchant     = "AgroFeira - Rede Organicos"
	simMerchantCity = "Joao Pessoa"
)

// SimulatedPix はゲートウェイ未設定・到達不能のときのローカル決済。
// 保存されるレコードでも本物と区別できるよう、IDはSIM-接頭辞を持つ。
type SimulatedPix struct {
	PaymentID    string
	Code         string
	QRCodeBase64 string
	ExpiresAt    time.Time
}

// SimulatePix は決定的なEMV風PIXコードを組み立てる。
// 同じ注文・金額・時刻なら必ず同じペイロードになる。
func SimulatePix(orderID int64, total decimal.Decimal, now time.Time) (SimulatedPix, error) {
	amount := total.StringFixed(2)
	payloadID := fmt.Sprintf("PEDIDO%08d", orderID)

	code := fmt.Sprintf(
		"00020126%02d%s52040000530398654%02d%s5802BR59%02d%s60%02d%s62%02d%s6304",
		len(simPixKey), simPixKey,
		len(amount), amount,
		len(simMerchant), simMerchant,
		len(simMerchantCity), simMerchantCity,
		len(payloadID), payloadID,
	)

	//チェックサム末尾（md5先頭4桁・大文字）
	sum := md5.Sum([]byte(code))
	code += strings.ToUpper(hex.EncodeToString(sum[:]))[:4]

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return SimulatedPix{}, err
	}

	return SimulatedPix{
		PaymentID:    fmt.Sprintf("SIM-%d-%d", orderID, now.UTC().Unix()),
		Code:         code,
		QRCodeBase64: base64.StdEncoding.EncodeToString(png),
		ExpiresAt:    now.UTC().Add(30 * time.Minute),
	}, nil
}

// IsSimulatedPaymentID はローカル生成の決済IDかどうか。
// ゲートウェイ照会の対象から外すために使う。
func IsSimulatedPaymentID(paymentID string) bool {
	return strings.HasPrefix(paymentID, "SIM-")
}
