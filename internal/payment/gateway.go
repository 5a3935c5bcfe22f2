package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrGateway はゲートウェイとの通信失敗。
// PIX作成ではシミュレータへフォールバックし、カード決済・照会ではそのまま呼び出し元へ返す。
var ErrGateway = errors.New("payment gateway error")

// ゲートウェイが返す決済ステータス
const (
	GatewayStatusApproved  = "approved"
	GatewayStatusPending   = "pending"
	GatewayStatusRejected  = "rejected"
	GatewayStatusCancelled = "cancelled"
	GatewayStatusRefunded  = "refunded"
)

// Payment はゲートウェイ上の決済1件。
type Payment struct {
	ID                string
	Status            string
	StatusDetail      string
	DateOfExpiration  *time.Time
	ExternalReference string
	// PIXのみ
	QRCode       string
	QRCodeBase64 string
}

type PixRequest struct {
	Amount            decimal.Decimal
	Description       string
	PayerEmail        string
	PayerName         string
	ExternalReference string
	NotificationURL   string
	ExpiresAt         time.Time
	IdempotencyKey    string
}

type CardRequest struct {
	Amount            decimal.Decimal
	Token             string
	Description       string
	Installments      int
	PaymentMethodID   string
	PayerEmail        string
	ExternalReference string
	NotificationURL   string
	IdempotencyKey    string
}

// Gateway は決済ゲートウェイとの契約。
// 本物のHTTPクライアントの他に、テスト用のスタブ実装がある。
type Gateway interface {
	Configured() bool
	CreatePixPayment(ctx context.Context, req PixRequest) (Payment, error)
	CreateCardPayment(ctx context.Context, req CardRequest) (Payment, error)
	GetPayment(ctx context.Context, paymentID string) (Payment, error)
}

// Client は決済ゲートウェイのHTTPクライアント。
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL string, accessToken string) *Client {
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			//ゲートウェイ呼び出しは10秒で打ち切る
			Timeout: 10 * time.Second,
		},
	}
}

// Configured はアクセストークンが設定されているか。
// 未設定ならPIX・カードともシミュレータで処理する。
func (c *Client) Configured() bool {
	return c.accessToken != ""
}

// ゲートウェイのレスポンス形。idは数値で返ってくる。
type gatewayPaymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	DateOfExpiration  string      `json:"date_of_expiration"`
	ExternalReference string      `json:"external_reference"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (r gatewayPaymentResponse) toPayment() Payment {
	p := Payment{
		ID:                r.ID.String(),
		Status:            r.Status,
		StatusDetail:      r.StatusDetail,
		ExternalReference: r.ExternalReference,
		QRCode:            r.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64:      r.PointOfInteraction.TransactionData.QRCodeBase64,
	}
	if r.DateOfExpiration != "" {
		if t, err := time.Parse(time.RFC3339, r.DateOfExpiration); err == nil {
			utc := t.UTC()
			p.DateOfExpiration = &utc
		}
	}
	return p
}

func (c *Client) CreatePixPayment(ctx context.Context, req PixRequest) (Payment, error) {
	payload := map[string]any{
		"transaction_amount": req.Amount.InexactFloat64(),
		"description":        req.Description,
		"payment_method_id":  "pix",
		"payer": map[string]any{
			"email":      req.PayerEmail,
			"first_name": firstName(req.PayerName),
			"last_name":  lastName(req.PayerName),
		},
		"notification_url":   req.NotificationURL,
		"external_reference": req.ExternalReference,
		"date_of_expiration": req.ExpiresAt.UTC().Format(time.RFC3339),
	}
	return c.postPayment(ctx, payload, req.IdempotencyKey)
}

func (c *Client) CreateCardPayment(ctx context.Context, req CardRequest) (Payment, error) {
	installments := req.Installments
	if installments < 1 {
		installments = 1
	}
	methodID := req.PaymentMethodID
	if methodID == "" {
		methodID = "visa"
	}
	payload := map[string]any{
		"transaction_amount": req.Amount.InexactFloat64(),
		//フロントでトークン化された値。生のカード番号は絶対に送らない。
		"token":              req.Token,
		"description":        req.Description,
		"installments":       installments,
		"payment_method_id":  methodID,
		"payer": map[string]any{
			"email": req.PayerEmail,
		},
		"notification_url":   req.NotificationURL,
		"external_reference": req.ExternalReference,
	}
	return c.postPayment(ctx, payload, req.IdempotencyKey)
}

func (c *Client) postPayment(ctx context.Context, payload map[string]any, idempotencyKey string) (Payment, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Payment{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return Payment{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	//リトライしても二重課金しないためのキー
	httpReq.Header.Set("X-Idempotency-Key", idempotencyKey)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Payment{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer res.Body.Close()

	return decodePaymentResponse(res)
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return Payment{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Payment{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer res.Body.Close()

	return decodePaymentResponse(res)
}

func decodePaymentResponse(res *http.Response) (Payment, error) {
	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Payment{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Payment{}, fmt.Errorf("%w: status %d", ErrGateway, res.StatusCode)
	}

	var decoded gatewayPaymentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Payment{}, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return decoded.toPayment(), nil
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "-"
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return "-"
	}
	return strings.Join(parts[1:], " ")
}
