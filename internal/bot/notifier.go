// Package bot delivers study reminders through the Telegram Bot API.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

// Notifier sends HTML messages to a single chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New authorizes token against the public Telegram endpoint.
func New(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newNotifier(api, chatID), nil
}

// NewWithClient is New against a custom endpoint format and HTTP client.
func NewWithClient(token, endpoint string, client tgbotapi.HTTPClient, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newNotifier(api, chatID), nil
}

func newNotifier(api *tgbotapi.BotAPI, chatID int64) *Notifier {
	log.Printf("[info] bot authorized on account %s", api.Self.UserName)
	return &Notifier{api: api, chatID: chatID}
}

// Send delivers text, split into several messages when it is too long.
func (n *Notifier) Send(ctx context.Context, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := n.api.Send(msg); err != nil {
			return fmt.Errorf("send message to %d: %w", n.chatID, err)
		}
	}
	return nil
}

// splitMessage cuts text at line breaks so every part has at most limit runes.
// A single line longer than limit is cut hard.
func splitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
		}
		lineLen := utf8.RuneCountInString(line)
		sep := 0
		if curLen > 0 {
			sep = 1
		}
		if curLen+sep+lineLen > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
		curLen += sep + lineLen
	}
	flush()
	return parts
}
