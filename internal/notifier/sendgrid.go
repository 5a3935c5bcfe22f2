package notifier

import (
	"context"
	"fmt"

	"agrofeira/internal/domain/model"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier はSendGrid経由でメールを送る実装。
type SendGridNotifier struct {
	apiKey string
	from   string
}

func NewSendGridNotifier(apiKey string, from string) *SendGridNotifier {
	return &SendGridNotifier{apiKey: apiKey, from: from}
}

func (n *SendGridNotifier) PaymentConfirmed(ctx context.Context, order model.Order, customer model.Customer) error {
	subject := fmt.Sprintf("Pagamento confirmado - Pedido #%d", order.ID)
	body := fmt.Sprintf(
		"Olá %s,\n\nO pagamento do seu pedido #%d (R$ %s) foi confirmado.\nObrigado por comprar na AgroFeira!",
		customer.Name, order.ID, order.Total.StringFixed(2),
	)
	return n.send(customer, subject, body)
}

func (n *SendGridNotifier) OrderExpired(ctx context.Context, order model.Order, customer model.Customer) error {
	subject := fmt.Sprintf("Pedido #%d cancelado - pagamento PIX expirado", order.ID)
	body := fmt.Sprintf(
		"Olá %s,\n\nO pagamento PIX do pedido #%d não foi recebido dentro do prazo de 30 minutos e o pedido foi cancelado.\nOs itens voltaram ao estoque e você pode refazer o pedido quando quiser.",
		customer.Name, order.ID,
	)
	return n.send(customer, subject, body)
}

func (n *SendGridNotifier) OrderStatusChanged(ctx context.Context, order model.Order, customer model.Customer, newStatus model.OrderStatus) error {
	subject := fmt.Sprintf("Atualização do pedido #%d", order.ID)
	body := fmt.Sprintf(
		"Olá %s,\n\nO status do seu pedido #%d mudou para: %s.",
		customer.Name, order.ID, newStatus,
	)
	return n.send(customer, subject, body)
}

func (n *SendGridNotifier) send(customer model.Customer, subject string, body string) error {
	if n.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if customer.Email == "" {
		return fmt.Errorf("customer %d has no email", customer.ID)
	}

	from := mail.NewEmail("AgroFeira", n.from)
	to := mail.NewEmail(customer.Name, customer.Email)
	message := mail.NewSingleEmail(from, subject, to, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(n.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}
	return nil
}
