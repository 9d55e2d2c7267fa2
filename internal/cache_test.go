package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MacaquinhoPro/chatgpt2/testutil"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	cache, err := OpenCache(filepath.Join(dir, "nested", "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache_ConversationsRoundtrip(t *testing.T) {
	cache := openTestCache(t)

	created := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	convs := []Conversation{
		{ID: "conv-1", Title: "Hello", OwnerUID: "user-123", CreatedAt: created},
		{ID: "conv-2", Title: SentinelTitle, OwnerUID: "user-123"},
	}
	if err := cache.SaveConversations(convs); err != nil {
		t.Fatalf("SaveConversations() error = %v", err)
	}

	loaded, err := cache.LoadConversations()
	if err != nil {
		t.Fatalf("LoadConversations() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d conversations, want 2", len(loaded))
	}
	if loaded[0].ID != "conv-1" || loaded[1].ID != "conv-2" {
		t.Errorf("order = %q, %q", loaded[0].ID, loaded[1].ID)
	}
	if !loaded[0].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", loaded[0].CreatedAt, created)
	}

	// Save replaces, never merges.
	if err := cache.SaveConversations(convs[:1]); err != nil {
		t.Fatalf("SaveConversations() error = %v", err)
	}
	loaded, _ = cache.LoadConversations()
	if len(loaded) != 1 {
		t.Errorf("got %d conversations after replace, want 1", len(loaded))
	}
}

func TestCache_HistoryRoundtrip(t *testing.T) {
	cache := openTestCache(t)

	msgs := []Message{
		{ID: "m1", Text: "Hello world", Sender: SenderUser},
		{ID: "m2", Text: "Hi there", Sender: SenderBot},
	}
	if err := cache.SaveHistory("conv-1", msgs); err != nil {
		t.Fatalf("SaveHistory() error = %v", err)
	}

	loaded, err := cache.LoadHistory("conv-1")
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d messages, want 2", len(loaded))
	}
	if loaded[0].Text != "Hello world" || loaded[0].Sender != SenderUser {
		t.Errorf("loaded[0] = %+v", loaded[0])
	}
	if loaded[1].Text != "Hi there" || loaded[1].Sender != SenderBot {
		t.Errorf("loaded[1] = %+v", loaded[1])
	}

	// Histories are stored per conversation.
	other, err := cache.LoadHistory("conv-other")
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unknown conversation has %d cached messages, want 0", len(other))
	}
}

func TestCache_DeleteConversation(t *testing.T) {
	cache := openTestCache(t)

	if err := cache.SaveConversations([]Conversation{{ID: "conv-1", Title: "Hello"}}); err != nil {
		t.Fatal(err)
	}
	if err := cache.SaveHistory("conv-1", []Message{{ID: "m1", Text: "hi", Sender: SenderUser}}); err != nil {
		t.Fatal(err)
	}

	if err := cache.DeleteConversation("conv-1"); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}

	convs, _ := cache.LoadConversations()
	if len(convs) != 0 {
		t.Errorf("conversation still cached after delete")
	}
	msgs, _ := cache.LoadHistory("conv-1")
	if len(msgs) != 0 {
		t.Errorf("messages still cached after delete")
	}
}
