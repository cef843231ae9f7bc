// Package transport defines the platform-neutral chat surface consumed by
// the rest of the bot. The concrete Telegram implementation lives in the
// telegram subpackage; tests inject fakes.
package transport

import (
	"context"
	"fmt"
)

// ChatID identifies a destination channel or chat.
type ChatID int64

// RichMessage is a formatted announcement notification. Adapters render it
// with whatever fidelity the platform allows (Telegram: HTML text with a
// colored dot standing in for the embed color).
type RichMessage struct {
	Title    string
	URL      string
	Category string
	Body     string
	Color    int // 0xRRGGBB
	Author   string
	Footer   string
}

// DeliveryError wraps a chat-platform send failure. Delivery failures are
// never fatal: the caller logs and moves on.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Client is the external chat collaborator.
//
// Snapshot operations back the dedupe-state store: UploadSnapshot replaces
// the previous snapshot (document send + pin), DownloadSnapshot returns the
// current one with ok=false when none exists yet.
type Client interface {
	SendRich(ctx context.Context, to ChatID, msg RichMessage) error
	SendText(ctx context.Context, to ChatID, text string) error
	UploadSnapshot(ctx context.Context, to ChatID, data []byte, filename string) error
	DownloadSnapshot(ctx context.Context, from ChatID) (data []byte, ok bool, err error)
	SetPresence(ctx context.Context, text string) error
}
