package internal

import "sync"

// ConversationStore holds the in-memory conversation list and per-
// conversation message histories. It is the explicit application state
// object shared by every command; the remote document store is the durable
// copy and nothing enforces the two stay consistent (remote writes are
// fire-and-forget).
//
// All operations are last-writer-wins. A mutex guards the maps because the
// chat REPL and a background rehydration can touch the store concurrently.
type ConversationStore struct {
	mu            sync.Mutex
	conversations []Conversation
	histories     map[string][]Message
	listeners     []func()
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		histories: make(map[string][]Message),
	}
}

// OnChange registers a callback invoked after every mutation. Used by the
// chat REPL to re-render.
func (s *ConversationStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// CreateConversation inserts a new conversation with the sentinel title and
// an empty history, and returns its generated ID. The caller is responsible
// for creating the matching remote document; the two are not transactional.
func (s *ConversationStore) CreateConversation() string {
	s.mu.Lock()
	id := NewConversationID()
	s.conversations = append(s.conversations, Conversation{ID: id, Title: SentinelTitle})
	s.histories[id] = []Message{}
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return id
}

// RemoveConversation deletes both the metadata and the history entry for id.
func (s *ConversationStore) RemoveConversation(id string) {
	s.mu.Lock()
	for i, c := range s.conversations {
		if c.ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			break
		}
	}
	delete(s.histories, id)
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// UpdateConversationTitle overwrites the title for an existing id. No-op if
// the id is absent.
func (s *ConversationStore) UpdateConversationTitle(id, title string) {
	s.mu.Lock()
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations[i].Title = title
			break
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// AddMessage appends a message to the history for id, creating the slot if
// it does not exist yet.
func (s *ConversationStore) AddMessage(id string, msg Message) {
	s.mu.Lock()
	s.histories[id] = append(s.histories[id], msg)
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// UpdateConversationHistory replaces the whole history for id. Rehydration
// uses this: every reload is a full overwrite, never a merge.
func (s *ConversationStore) UpdateConversationHistory(id string, msgs []Message) {
	s.mu.Lock()
	s.histories[id] = append([]Message(nil), msgs...)
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// SetConversations replaces the whole conversation list, keeping histories.
// Used by conversation-list rehydration.
func (s *ConversationStore) SetConversations(convs []Conversation) {
	s.mu.Lock()
	s.conversations = append([]Conversation(nil), convs...)
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// GetConversation returns the conversation with the given id.
func (s *ConversationStore) GetConversation(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return Conversation{}, false
}

// Conversations returns a copy of the conversation list in insertion order.
func (s *ConversationStore) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Conversation(nil), s.conversations...)
}

// History returns a copy of the ordered message history for id.
func (s *ConversationStore) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.histories[id]...)
}
