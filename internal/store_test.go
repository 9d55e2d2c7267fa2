package internal

import "testing"

func TestConversationStore_CreateConversation(t *testing.T) {
	store := NewConversationStore()

	id := store.CreateConversation()
	if id == "" {
		t.Fatal("CreateConversation() returned empty ID")
	}

	conv, ok := store.GetConversation(id)
	if !ok {
		t.Fatal("GetConversation() did not find the new conversation")
	}
	if conv.Title != SentinelTitle {
		t.Errorf("new conversation title = %q, want %q", conv.Title, SentinelTitle)
	}
	if got := store.History(id); len(got) != 0 {
		t.Errorf("new conversation history has %d messages, want 0", len(got))
	}
}

func TestConversationStore_UpdateConversationTitle(t *testing.T) {
	store := NewConversationStore()
	id := store.CreateConversation()

	store.UpdateConversationTitle(id, "Hello")
	conv, _ := store.GetConversation(id)
	if conv.Title != "Hello" {
		t.Errorf("title = %q, want %q", conv.Title, "Hello")
	}

	// Absent ID is a no-op.
	store.UpdateConversationTitle("missing", "Nope")
	if _, ok := store.GetConversation("missing"); ok {
		t.Error("UpdateConversationTitle created a conversation for an absent ID")
	}
}

func TestConversationStore_AddMessage(t *testing.T) {
	store := NewConversationStore()
	id := store.CreateConversation()

	store.AddMessage(id, Message{ID: "m1", Text: "first", Sender: SenderUser})
	store.AddMessage(id, Message{ID: "m2", Text: "second", Sender: SenderBot})

	history := store.History(id)
	if len(history) != 2 {
		t.Fatalf("history has %d messages, want 2", len(history))
	}
	if history[0].Text != "first" || history[1].Text != "second" {
		t.Errorf("history order wrong: %q then %q", history[0].Text, history[1].Text)
	}

	// Missing slot is created on first append.
	store.AddMessage("other", Message{ID: "m3", Text: "hi", Sender: SenderUser})
	if got := store.History("other"); len(got) != 1 {
		t.Errorf("history for fresh slot has %d messages, want 1", len(got))
	}
}

func TestConversationStore_UpdateConversationHistory(t *testing.T) {
	store := NewConversationStore()
	id := store.CreateConversation()
	store.AddMessage(id, Message{ID: "old", Text: "stale", Sender: SenderUser})

	replacement := []Message{
		{ID: "r1", Text: "one", Sender: SenderUser},
		{ID: "r2", Text: "two", Sender: SenderBot},
		{ID: "r3", Text: "three", Sender: SenderUser},
	}
	store.UpdateConversationHistory(id, replacement)

	history := store.History(id)
	if len(history) != 3 {
		t.Fatalf("history has %d messages, want 3 (full overwrite, no merge)", len(history))
	}
	for i, msg := range replacement {
		if history[i].ID != msg.ID {
			t.Errorf("history[%d].ID = %q, want %q", i, history[i].ID, msg.ID)
		}
	}
}

func TestConversationStore_RemoveConversation(t *testing.T) {
	store := NewConversationStore()
	id := store.CreateConversation()
	store.AddMessage(id, Message{ID: "m1", Text: "hi", Sender: SenderUser})

	store.RemoveConversation(id)

	if _, ok := store.GetConversation(id); ok {
		t.Error("conversation still present after RemoveConversation")
	}
	if got := store.History(id); len(got) != 0 {
		t.Errorf("history still has %d messages after RemoveConversation", len(got))
	}
}

func TestConversationStore_OnChange(t *testing.T) {
	store := NewConversationStore()
	calls := 0
	store.OnChange(func() { calls++ })

	id := store.CreateConversation()
	store.AddMessage(id, Message{ID: "m1", Text: "hi", Sender: SenderUser})
	store.UpdateConversationTitle(id, "Hi")

	if calls != 3 {
		t.Errorf("change callback ran %d times, want 3", calls)
	}
}

func TestConversationStore_HistoryReturnsCopy(t *testing.T) {
	store := NewConversationStore()
	id := store.CreateConversation()
	store.AddMessage(id, Message{ID: "m1", Text: "hi", Sender: SenderUser})

	history := store.History(id)
	history[0].Text = "mutated"

	if store.History(id)[0].Text != "hi" {
		t.Error("mutating the returned history changed the store")
	}
}
