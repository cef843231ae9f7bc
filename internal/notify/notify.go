// Package notify turns accepted announcements into rich chat messages and
// delivers them to the public channel.
package notify

import (
	"context"

	"ecebot/internal/archive"
	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

// authorBanner is the fixed author line shown on every notification.
const authorBanner = "Μια ανακοίνωση να κάνουμε!"

type Notifier struct {
	client transport.Client
	chat   transport.ChatID
	log    logx.Logger
}

func New(client transport.Client, chat transport.ChatID, log logx.Logger) *Notifier {
	return &Notifier{client: client, chat: chat, log: log}
}

// Notify formats and delivers one announcement. A returned error is a
// delivery failure; the caller logs it and must not mark the id as seen, so
// the announcement is retried on the next scan until it ages out.
func (n *Notifier) Notify(ctx context.Context, a archive.Announcement) error {
	msg := Format(a)
	if err := n.client.SendRich(ctx, n.chat, msg); err != nil {
		return err
	}
	n.log.Info("announcement notified",
		logx.Int64("id", a.ID),
		logx.String("category", a.Category.String()),
		logx.String("title", a.Title),
	)
	return nil
}

// Format builds the rich message for an announcement: linked title, bold
// category plus description body, category color, fixed author banner, and
// the original date string as footer.
func Format(a archive.Announcement) transport.RichMessage {
	return transport.RichMessage{
		Title:    a.Title,
		URL:      a.URL,
		Category: a.Category.String(),
		Body:     a.Description,
		Color:    a.Category.Color(),
		Author:   authorBanner,
		Footer:   a.DateText,
	}
}
