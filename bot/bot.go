package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"grocery-engine/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot pushes new-order cards to the staff chat and routes the acknowledge
// button back into the reminder loop.
type Bot struct {
	api         *tgbotapi.BotAPI
	staffChatID int64
	onAck       func(notificationID string) bool
}

func New(token string, staffChatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Bot{api: api, staffChatID: staffChatID}, nil
}

// SetOnAck registers the acknowledgment callback. Must be set before Start.
func (b *Bot) SetOnAck(fn func(notificationID string) bool) {
	b.onAck = fn
}

func orderCardText(prefix string, o *models.Order) string {
	text := fmt.Sprintf("%s Sipariş #%d\n\n", prefix, o.ID)
	for _, it := range o.Items {
		text += fmt.Sprintf("• %s x%d — %d\n", it.Name, it.Qty, it.Price*int64(it.Qty))
	}
	text += fmt.Sprintf("\n🛒 Ara toplam: %d\n", o.Subtotal)
	if o.Discount > 0 {
		text += fmt.Sprintf("💸 İndirim: %d\n", o.Discount)
	}
	text += fmt.Sprintf("💵 Toplam: %d\n", o.Total)
	if o.Phone != "" {
		text += "📞 " + o.Phone + "\n"
	}
	if o.Note != "" {
		text += "📝 " + o.Note + "\n"
	}
	return text
}

func (b *Bot) sendCard(prefix string, n models.StaffNotification, o *models.Order) {
	msg := tgbotapi.NewMessage(b.staffChatID, orderCardText(prefix, o))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Onayla", "ack:"+n.ID),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send staff card", "order_id", o.ID, "error", err)
	}
}

// NotifyNewOrder pushes the first card for a fresh order.
func (b *Bot) NotifyNewOrder(n models.StaffNotification, o *models.Order) {
	b.sendCard("🆕", n, o)
}

// Remind re-sends the card for a still-unacknowledged order.
func (b *Bot) Remind(n models.StaffNotification, o *models.Order) {
	b.sendCard("⏰", n, o)
}

// Start consumes updates until Stop. Only the acknowledge callback is
// handled; everything else is ignored.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for update := range b.api.GetUpdatesChan(u) {
		cb := update.CallbackQuery
		if cb == nil || !strings.HasPrefix(cb.Data, "ack:") {
			continue
		}
		id := strings.TrimPrefix(cb.Data, "ack:")
		acked := false
		if b.onAck != nil {
			acked = b.onAck(id)
		}
		answer := "Bildirim onaylandı."
		if !acked {
			answer = "Bildirim zaten onaylanmış."
		}
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, answer)); err != nil {
			slog.Error("answer callback", "error", err)
		}
		if cb.Message != nil {
			edit := tgbotapi.NewEditMessageReplyMarkup(cb.Message.Chat.ID, cb.Message.MessageID,
				tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
			if _, err := b.api.Request(edit); err != nil {
				slog.Error("clear keyboard", "error", err)
			}
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
