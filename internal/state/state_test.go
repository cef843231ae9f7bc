package state

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"ecebot/internal/transport"
	"ecebot/pkg/logx"
)

func TestSeenIDsBasics(t *testing.T) {
	s := NewSeenIDs()
	if s.Contains(1) {
		t.Fatalf("empty set must not contain anything")
	}
	if !s.Add(1) {
		t.Fatalf("first Add must report newly added")
	}
	if s.Add(1) {
		t.Fatalf("second Add of same id must report false")
	}
	if !s.Contains(1) || s.Len() != 1 {
		t.Fatalf("set state wrong after adds")
	}
}

func TestSeenIDsSnapshotSorted(t *testing.T) {
	s := NewSeenIDs()
	for _, id := range []int64{30, 10, 20} {
		s.Add(id)
	}
	got := s.Snapshot()
	want := []int64{10, 20, 30}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
}

func TestSeenIDsReplace(t *testing.T) {
	s := NewSeenIDs()
	s.Add(1)
	s.Replace([]int64{5, 6})
	if s.Contains(1) || !s.Contains(5) || !s.Contains(6) || s.Len() != 2 {
		t.Fatalf("Replace did not swap the set: %v", s.Snapshot())
	}
}

// fakeChat implements just enough of transport.Client for the channel store.
type fakeChat struct {
	snapshot []byte
	filename string
	uploads  int
	failUp   error
	failDown error
}

func (f *fakeChat) SendRich(ctx context.Context, to transport.ChatID, msg transport.RichMessage) error {
	return nil
}

func (f *fakeChat) SendText(ctx context.Context, to transport.ChatID, text string) error {
	return nil
}

func (f *fakeChat) UploadSnapshot(ctx context.Context, to transport.ChatID, data []byte, filename string) error {
	if f.failUp != nil {
		return f.failUp
	}
	f.snapshot = append([]byte(nil), data...)
	f.filename = filename
	f.uploads++
	return nil
}

func (f *fakeChat) DownloadSnapshot(ctx context.Context, from transport.ChatID) ([]byte, bool, error) {
	if f.failDown != nil {
		return nil, false, f.failDown
	}
	if f.snapshot == nil {
		return nil, false, nil
	}
	return f.snapshot, true, nil
}

func (f *fakeChat) SetPresence(ctx context.Context, text string) error { return nil }

func openChannelStore(t *testing.T, chat *fakeChat) Store {
	t.Helper()
	st, err := Open(Config{Driver: "channel", Chat: 42}, chat, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

func TestChannelStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	chat := &fakeChat{}
	st := openChannelStore(t, chat)

	for _, ids := range [][]int64{{}, {1001}, {1001, 1002, 2000}} {
		if err := st.Save(ctx, ids); err != nil {
			t.Fatalf("Save(%v): %v", ids, err)
		}
		got, ok, err := st.Load(ctx)
		if err != nil || !ok {
			t.Fatalf("Load after Save(%v): ok=%v err=%v", ids, ok, err)
		}
		if len(got) != len(ids) {
			t.Fatalf("round-trip of %v gave %v", ids, got)
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("round-trip of %v gave %v", ids, got)
			}
		}
	}
	if chat.filename != defaultSnapshotName {
		t.Fatalf("snapshot filename = %q", chat.filename)
	}
}

func TestChannelStoreNoPriorSnapshot(t *testing.T) {
	st := openChannelStore(t, &fakeChat{})
	_, ok, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false with no snapshot")
	}
}

func TestChannelStoreWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	st := openChannelStore(t, &fakeChat{failUp: boom, failDown: boom})

	var pe *PersistenceError
	if err := st.Save(context.Background(), []int64{1}); !errors.As(err, &pe) {
		t.Fatalf("Save error = %v, want PersistenceError", err)
	}
	if _, _, err := st.Load(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("Load error = %v, want PersistenceError", err)
	}
}

func TestChannelStoreCorruptSnapshot(t *testing.T) {
	st := openChannelStore(t, &fakeChat{snapshot: []byte("not json")})
	var pe *PersistenceError
	if _, _, err := st.Load(context.Background()); !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError for corrupt snapshot, got %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	st, err := Open(Config{Driver: "sqlite", Path: path}, nil, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, ok, err := st.Load(ctx); err != nil || ok {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}

	want := []int64{1001, 1002, 5000}
	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Saving a superset again must be idempotent for existing ids.
	if err := st.Save(ctx, append(want, 1002)); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, ok, err := st.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %v, want %v", got, want)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis"}, nil, logx.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
