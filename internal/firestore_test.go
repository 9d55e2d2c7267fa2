package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/MacaquinhoPro/chatgpt2/testutil"
)

func newTestDocStore(t *testing.T) (*DocStoreClient, *testutil.DocStoreServer) {
	t.Helper()
	srv := testutil.NewDocStoreServer(t)
	c := NewDocStoreClient("test-project")
	c.SetBaseURL(srv.Server.URL)
	return c, srv
}

func TestDocStoreClient_CreateConversationDoc(t *testing.T) {
	c, srv := newTestDocStore(t)

	conv := Conversation{ID: "conv-1", Title: SentinelTitle}
	if err := c.CreateConversationDoc(context.Background(), testSession(), conv); err != nil {
		t.Fatalf("CreateConversationDoc() error = %v", err)
	}

	creates := srv.Creates()
	if len(creates) != 1 {
		t.Fatalf("got %d creates, want 1", len(creates))
	}
	if !strings.Contains(creates[0], "documentId=conv-1") {
		t.Errorf("create query = %q, want documentId=conv-1", creates[0])
	}
}

func TestDocStoreClient_CreateConversationDoc_FailureIsPersistError(t *testing.T) {
	c, srv := newTestDocStore(t)
	srv.FailWrites = true

	err := c.CreateConversationDoc(context.Background(), testSession(), Conversation{ID: "conv-1"})
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *PersistError", err)
	}
	if perr.Op != "create" {
		t.Errorf("Op = %q, want create", perr.Op)
	}
}

func TestDocStoreClient_MergeUpdatesUseFieldMask(t *testing.T) {
	c, srv := newTestDocStore(t)
	session := testSession()

	if err := c.MergeConversationTitle(context.Background(), session, "conv-1", "Hello"); err != nil {
		t.Fatalf("MergeConversationTitle() error = %v", err)
	}
	history := []Message{{ID: "m1", Text: "hi", Sender: SenderUser}}
	if err := c.MergeConversationHistory(context.Background(), session, "conv-1", history); err != nil {
		t.Fatalf("MergeConversationHistory() error = %v", err)
	}

	patches := srv.Patches()
	if len(patches) != 2 {
		t.Fatalf("got %d patches, want 2", len(patches))
	}
	if !strings.Contains(patches[0], "updateMask.fieldPaths=title") {
		t.Errorf("title patch = %q, want updateMask.fieldPaths=title", patches[0])
	}
	if !strings.Contains(patches[1], "updateMask.fieldPaths=history") {
		t.Errorf("history patch = %q, want updateMask.fieldPaths=history", patches[1])
	}
}

func TestDocStoreClient_AddMessageDoc_ReturnsStoreID(t *testing.T) {
	c, _ := newTestDocStore(t)

	msg := Message{ID: "local-1", Text: "hi", Sender: SenderUser}
	remoteID, err := c.AddMessageDoc(context.Background(), testSession(), "conv-1", msg)
	if err != nil {
		t.Fatalf("AddMessageDoc() error = %v", err)
	}
	if remoteID == "" {
		t.Fatal("AddMessageDoc() returned empty remote ID")
	}
	if remoteID == msg.ID {
		t.Error("remote ID should be store-assigned, not the local ID")
	}
}

func TestDocStoreClient_ListConversations(t *testing.T) {
	c, srv := newTestDocStore(t)

	srv.QueryResults["conversations"] = fmt.Sprintf("[%s,%s]",
		testutil.QueryDoc("conversations/conv-1",
			map[string]string{"title": "Hello", "userId": "user-123"},
			map[string]string{"createdAt": "2025-01-02T10:00:00Z"}),
		testutil.QueryDoc("conversations/conv-2",
			map[string]string{"userId": "user-123"},
			map[string]string{"createdAt": "2025-01-02T11:00:00Z"}),
	)

	convs, err := c.ListConversations(context.Background(), testSession())
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("got %d conversations, want 2", len(convs))
	}
	if convs[0].ID != "conv-1" || convs[0].Title != "Hello" {
		t.Errorf("convs[0] = %+v", convs[0])
	}
	if convs[1].Title != "Untitled" {
		t.Errorf("missing title should fall back to Untitled, got %q", convs[1].Title)
	}
	if convs[0].CreatedAt.IsZero() {
		t.Error("createdAt was not parsed")
	}
}

func TestDocStoreClient_ListConversations_MissingIndex(t *testing.T) {
	c, srv := newTestDocStore(t)
	srv.MissingIndex = true

	_, err := c.ListConversations(context.Background(), testSession())
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("error = %v, want *QueryError", err)
	}
	if !qerr.MissingIndex {
		t.Error("MissingIndex = false, want true for FAILED_PRECONDITION")
	}
}

func TestDocStoreClient_ListMessages(t *testing.T) {
	c, srv := newTestDocStore(t)

	srv.QueryResults["messages"] = fmt.Sprintf("[%s,%s]",
		testutil.QueryDoc("conversations/conv-1/messages/remote-a",
			map[string]string{"text": "Hello world", "sender": "user"},
			map[string]string{"createdAt": "2025-01-02T10:00:00Z"}),
		testutil.QueryDoc("conversations/conv-1/messages/remote-b",
			map[string]string{"text": "Hi there", "sender": "bot"},
			map[string]string{"createdAt": "2025-01-02T10:00:05Z"}),
	)

	msgs, err := c.ListMessages(context.Background(), testSession(), "conv-1")
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].ID != "remote-a" {
		t.Errorf("msgs[0].ID = %q, want the store-assigned document ID", msgs[0].ID)
	}
	if msgs[0].Sender != SenderUser || msgs[1].Sender != SenderBot {
		t.Errorf("senders = %q, %q", msgs[0].Sender, msgs[1].Sender)
	}
	if !msgs[1].CreatedAt.After(msgs[0].CreatedAt) {
		t.Error("messages out of creation order")
	}
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"projects/p/databases/(default)/documents/conversations/abc", "abc"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := documentID(tt.name); got != tt.want {
			t.Errorf("documentID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
