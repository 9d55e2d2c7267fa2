package internal

import (
	"context"
	"strings"
	"time"
)

// Exchanger runs the send/reply cycle for a conversation: local append,
// fire-and-forget remote persistence, completion API call, reply append,
// persistence again.
type Exchanger struct {
	Store      *ConversationStore
	Docs       *DocStoreClient
	Completion *CompletionClient
}

// NewExchanger wires the exchange flow to its collaborators.
func NewExchanger(store *ConversationStore, docs *DocStoreClient, completion *CompletionClient) *Exchanger {
	return &Exchanger{Store: store, Docs: docs, Completion: completion}
}

// EnsureConversation returns convID, creating a fresh conversation locally
// and remotely when convID is empty. The remote create is best-effort; a
// failure leaves the local entry with no remote backing.
func (e *Exchanger) EnsureConversation(ctx context.Context, session *UserSession, convID string) string {
	if convID != "" {
		return convID
	}
	id := e.Store.CreateConversation()
	conv, _ := e.Store.GetConversation(id)
	if err := e.Docs.CreateConversationDoc(ctx, session, conv); err != nil {
		LogError("failed to create remote conversation: %v", err)
	}
	return id
}

// Send runs one full exchange for the given user input. It returns the bot
// reply on success. Remote-persistence failures are logged and dropped:
// they never block or revert the local state change. Completion-API
// failures abort the exchange with no bot message appended; the user
// message stays in the history and a retry is simply another Send.
func (e *Exchanger) Send(ctx context.Context, session *UserSession, convID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || convID == "" {
		return Message{}, nil
	}

	// Auto-title from the first word, exactly once.
	if conv, ok := e.Store.GetConversation(convID); ok && conv.Title == SentinelTitle {
		firstWord := FirstWord(text)
		e.Store.UpdateConversationTitle(convID, firstWord)
		if err := e.Docs.MergeConversationTitle(ctx, session, convID, firstWord); err != nil {
			LogError("failed to update remote title: %v", err)
		}
	}

	userMsg := Message{
		ID:        NewMessageID(),
		Text:      text,
		Sender:    SenderUser,
		CreatedAt: time.Now(),
	}
	e.Store.AddMessage(convID, userMsg)
	e.persistMessage(ctx, session, convID, userMsg)

	history := e.Store.History(convID)
	prompt := BuildPrompt(history)

	reply, err := e.Completion.GenerateReply(ctx, prompt)
	if err != nil {
		return Message{}, err
	}

	botMsg := Message{
		ID:        NewMessageID(),
		Text:      reply,
		Sender:    SenderBot,
		CreatedAt: time.Now(),
	}
	e.Store.AddMessage(convID, botMsg)
	e.persistMessage(ctx, session, convID, botMsg)

	return botMsg, nil
}

// persistMessage performs the dual remote write: an append-only message
// document plus the denormalized full-history snapshot on the conversation
// document. Both are fire-and-forget.
func (e *Exchanger) persistMessage(ctx context.Context, session *UserSession, convID string, msg Message) {
	if _, err := e.Docs.AddMessageDoc(ctx, session, convID, msg); err != nil {
		LogError("failed to persist message: %v", err)
	}
	if err := e.Docs.MergeConversationHistory(ctx, session, convID, e.Store.History(convID)); err != nil {
		LogError("failed to persist history snapshot: %v", err)
	}
}
