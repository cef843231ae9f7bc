package state

import (
	"context"
	"encoding/json"
	"errors"

	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

const defaultSnapshotName = "seen_ids.json"

// snapshotFile is the serialized form of the seen-id set. IDs are sorted by
// the caller, so save-then-load round-trips the identical set byte-for-byte.
type snapshotFile struct {
	IDs []int64 `json:"ids"`
}

// channelStore keeps the snapshot as a document in a private chat. The
// transport pins each upload so the latest snapshot is findable on restart.
type channelStore struct {
	client   transport.Client
	chat     transport.ChatID
	filename string
	log      logx.Logger
}

func newChannelStore(cfg Config, client transport.Client, log logx.Logger) (*channelStore, error) {
	if client == nil {
		return nil, errors.New("channel state driver requires a chat client")
	}
	if cfg.Chat == 0 {
		return nil, errors.New("channel state driver requires a state chat id")
	}
	name := cfg.Filename
	if name == "" {
		name = defaultSnapshotName
	}
	return &channelStore{client: client, chat: cfg.Chat, filename: name, log: log}, nil
}

func (s *channelStore) Load(ctx context.Context) ([]int64, bool, error) {
	data, ok, err := s.client.DownloadSnapshot(ctx, s.chat)
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Err: err}
	}
	if !ok {
		return nil, false, nil
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, &PersistenceError{Op: "load", Err: err}
	}
	return snap.IDs, true, nil
}

func (s *channelStore) Save(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(snapshotFile{IDs: ids})
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	if err := s.client.UploadSnapshot(ctx, s.chat, data, s.filename); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *channelStore) Close() error { return nil }
