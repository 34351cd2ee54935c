package pfnotify

import (
	"fmt"
	"strings"
	"time"
)

// Telegram relaie les soumissions du formulaire de contact via un bot
type Telegram struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

func NewTelegram(botToken, chatID string) *Telegram {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Telegram{
		BotToken: botToken,
		ChatID:   chatID,
		BaseURL:  "https://api.telegram.org",
	}
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) SendContact(n ContactNotification) error {
	text := fmt.Sprintf(
		"📩 *Nouveau message de contact*\n\n"+
			"👤 *Nom:* %s\n"+
			"📧 *Email:* %s\n\n"+
			"💬 *Message:*\n%s\n\n"+
			"---\n_Reçu le %s_",
		escapeMarkdown(n.Name),
		escapeMarkdown(n.Email),
		escapeMarkdown(n.Message),
		time.Now().Format("02/01/2006 15:04:05"),
	)

	payload := map[string]any{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	var result struct {
		Ok          bool   `json:"ok"`
		Description string `json:"description"`
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	if err := postJSON(url, nil, payload, &result); err != nil {
		return err
	}
	if !result.Ok {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// escapeMarkdown échappe les caractères spéciaux du Markdown Telegram
func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return replacer.Replace(text)
}
