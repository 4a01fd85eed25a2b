package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/nick19y/PizzApp-sub001/internal/models"
)

// TelegramService sends order notifications to the admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// FormatPrice formats a price in reais.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("R$ %.2f", amount)
}

var paymentLabels = map[string]string{
	models.PaymentCash:       "Dinheiro",
	models.PaymentCreditCard: "Cartão de crédito",
	models.PaymentDebitCard:  "Cartão de débito",
	models.PaymentPix:        "Pix",
}

// NotifyNewOrder sends a new-order notification to the admin chat.
func (s *TelegramService) NotifyNewOrder(order models.Order, customer models.User) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, line := range order.Items {
		name := string(line.Size)
		if line.Item != nil {
			name = fmt.Sprintf("%s (%s)", line.Item.Name, line.Size)
		}
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			name,
			line.Quantity,
			FormatPrice(line.UnitPrice),
			FormatPrice(line.Subtotal),
		))
	}

	payment := paymentLabels[order.PaymentMethod]
	if payment == "" {
		payment = order.PaymentMethod
	}

	message := fmt.Sprintf(`<b>🍕 NOVO PEDIDO!</b>
<b>📋 Pedido:</b> %s
<b>👤 Cliente:</b> %s
<b>📞 Telefone:</b> %s
<b>📦 Itens:</b>
%s
<b>💰 Total:</b> %s
<b>💳 Pagamento:</b> %s
<b>📍 Endereço:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.ID,
		customer.Name,
		order.ContactPhone,
		itemsList.String(),
		FormatPrice(order.TotalAmount),
		payment,
		order.DeliveryAddress,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
