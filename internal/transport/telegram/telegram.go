// Package telegram implements transport.Client on top of telebot.
//
// The bot is outbound-only: it never polls for updates, so the underlying
// telebot instance is created without a poller and Start() is never called.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	tele "gopkg.in/telebot.v4"

	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

type Config struct {
	Token string

	// Offline skips the getMe call on construction. Used by tests.
	Offline bool
}

type Adapter struct {
	cfg Config
	log logx.Logger
	bot *tele.Bot
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" && !cfg.Offline {
		return nil, errors.New("telegram token is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: cfg.Offline,
	})
	if err != nil {
		return nil, err
	}
	return &Adapter{cfg: cfg, log: log, bot: b}, nil
}

func (a *Adapter) SetLogger(log logx.Logger) { a.log = log }

func (a *Adapter) SendRich(ctx context.Context, to transport.ChatID, msg transport.RichMessage) error {
	if err := ctx.Err(); err != nil {
		return &transport.DeliveryError{Op: "send rich", Err: err}
	}
	_, err := a.bot.Send(chat(to), renderHTML(msg), &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return &transport.DeliveryError{Op: "send rich", Err: err}
	}
	return nil
}

func (a *Adapter) SendText(ctx context.Context, to transport.ChatID, text string) error {
	if err := ctx.Err(); err != nil {
		return &transport.DeliveryError{Op: "send text", Err: err}
	}
	if _, err := a.bot.Send(chat(to), text); err != nil {
		return &transport.DeliveryError{Op: "send text", Err: err}
	}
	return nil
}

// UploadSnapshot sends the blob as a document and pins it, so the latest
// snapshot is always reachable via the chat's pinned message after a restart.
func (a *Adapter) UploadSnapshot(ctx context.Context, to transport.ChatID, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: filename,
	}
	msg, err := a.bot.Send(chat(to), doc)
	if err != nil {
		return err
	}
	if err := a.bot.Pin(msg, tele.Silent); err != nil {
		// The document is delivered; a failed pin only degrades restarts.
		a.log.Warn("could not pin state snapshot", logx.Err(err))
	}
	return nil
}

func (a *Adapter) DownloadSnapshot(ctx context.Context, from transport.ChatID) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	ch, err := a.bot.ChatByID(int64(from))
	if err != nil {
		return nil, false, err
	}
	pinned := ch.PinnedMessage
	if pinned == nil || pinned.Document == nil {
		return nil, false, nil
	}
	rc, err := a.bot.File(&pinned.Document.File)
	if err != nil {
		return nil, false, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// SetPresence updates the bot's short description, the closest Telegram
// analog of a presence/activity line.
func (a *Adapter) SetPresence(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.bot.Raw("setMyShortDescription", map[string]string{
		"short_description": text,
	})
	return err
}

func chat(id transport.ChatID) *tele.Chat { return &tele.Chat{ID: int64(id)} }

// renderHTML flattens a RichMessage into Telegram HTML. Layout mirrors the
// embed shape: author line, linked title, bold category, body, date footer.
func renderHTML(m transport.RichMessage) string {
	var b strings.Builder
	if m.Author != "" {
		fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(m.Author))
	}
	if m.URL != "" {
		fmt.Fprintf(&b, "%s <b><a href=\"%s\">%s</a></b>\n", colorDot(m.Color), m.URL, html.EscapeString(m.Title))
	} else {
		fmt.Fprintf(&b, "%s <b>%s</b>\n", colorDot(m.Color), html.EscapeString(m.Title))
	}
	if m.Category != "" {
		fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(m.Category))
	}
	if m.Body != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(m.Body))
		b.WriteString("\n")
	}
	if m.Footer != "" {
		fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(m.Footer))
	}
	return b.String()
}

func colorDot(color int) string {
	switch color {
	case 0x5887ba:
		return "🔵"
	case 0xef775e:
		return "🟠"
	case 0x96aa44:
		return "🟢"
	default:
		return "⚪"
	}
}
