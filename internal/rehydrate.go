package internal

import "context"

// Rehydrator reloads local state wholesale from the remote document store.
// Every rehydration is a full overwrite; there is no merge and no
// incremental sync.
type Rehydrator struct {
	Store *ConversationStore
	Docs  *DocStoreClient
}

// NewRehydrator wires the rehydration path to its collaborators.
func NewRehydrator(store *ConversationStore, docs *DocStoreClient) *Rehydrator {
	return &Rehydrator{Store: store, Docs: docs}
}

// LoadConversations replaces the local conversation list with the remote
// one (filtered by owner, ordered by creation time ascending) and then
// reloads each conversation's history. A history load failure is logged
// and skipped; the list itself is already in place.
func (r *Rehydrator) LoadConversations(ctx context.Context, session *UserSession) ([]Conversation, error) {
	convs, err := r.Docs.ListConversations(ctx, session)
	if err != nil {
		return nil, err
	}
	r.Store.SetConversations(convs)

	for _, conv := range convs {
		if err := r.LoadHistory(ctx, session, conv.ID); err != nil {
			LogError("failed to load messages for conversation %s: %v", conv.ID, err)
		}
	}
	return convs, nil
}

// LoadHistory replaces the local history for one conversation with the
// remote messages subcollection, ordered by recorded creation time. The
// loaded messages carry store-assigned document IDs, which are never
// reconciled with locally generated ones.
func (r *Rehydrator) LoadHistory(ctx context.Context, session *UserSession, convID string) error {
	msgs, err := r.Docs.ListMessages(ctx, session, convID)
	if err != nil {
		return err
	}
	r.Store.UpdateConversationHistory(convID, msgs)
	return nil
}
