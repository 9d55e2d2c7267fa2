package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultFirestoreBaseURL = "https://firestore.googleapis.com/v1"

// DocStoreClient talks to the hosted document store's REST API. Documents
// live under a top-level "conversations" collection keyed by conversation
// ID, with a per-conversation "messages" subcollection.
type DocStoreClient struct {
	projectID  string
	baseURL    string
	httpClient *http.Client
}

// NewDocStoreClient creates a client for the given project.
func NewDocStoreClient(projectID string) *DocStoreClient {
	return &DocStoreClient{
		projectID:  projectID,
		baseURL:    defaultFirestoreBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL overrides the store endpoint. Used in tests.
func (c *DocStoreClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *DocStoreClient) documentsRoot() string {
	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents", c.baseURL, c.projectID)
}

// fsValue is the document store's tagged JSON value representation.
type fsValue struct {
	StringValue    *string       `json:"stringValue,omitempty"`
	TimestampValue *string       `json:"timestampValue,omitempty"`
	ArrayValue     *fsArrayValue `json:"arrayValue,omitempty"`
	MapValue       *fsMapValue   `json:"mapValue,omitempty"`
}

type fsArrayValue struct {
	Values []fsValue `json:"values,omitempty"`
}

type fsMapValue struct {
	Fields map[string]fsValue `json:"fields,omitempty"`
}

type fsDocument struct {
	Name   string             `json:"name,omitempty"`
	Fields map[string]fsValue `json:"fields,omitempty"`
}

type fsError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func stringValue(s string) fsValue {
	return fsValue{StringValue: &s}
}

func timestampValue(t time.Time) fsValue {
	s := t.UTC().Format(time.RFC3339Nano)
	return fsValue{TimestampValue: &s}
}

func (v fsValue) str() string {
	if v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

func (v fsValue) timestamp() time.Time {
	if v.TimestampValue == nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
	if err != nil {
		return time.Time{}
	}
	return t
}

// documentID extracts the last path segment of a document resource name.
func documentID(name string) string {
	idx := strings.LastIndex(name, "/")
	if idx < 0 {
		return name
	}
	return name[idx+1:]
}

func messageFields(msg Message) map[string]fsValue {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return map[string]fsValue{
		"text":      stringValue(msg.Text),
		"sender":    stringValue(string(msg.Sender)),
		"createdAt": timestampValue(createdAt),
	}
}

func historyValue(history []Message) fsValue {
	values := make([]fsValue, 0, len(history))
	for _, msg := range history {
		values = append(values, fsValue{MapValue: &fsMapValue{Fields: map[string]fsValue{
			"id":     stringValue(msg.ID),
			"text":   stringValue(msg.Text),
			"sender": stringValue(string(msg.Sender)),
		}}})
	}
	return fsValue{ArrayValue: &fsArrayValue{Values: values}}
}

func (c *DocStoreClient) do(ctx context.Context, method, url, idToken string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if idToken != "" {
		req.Header.Set("Authorization", "Bearer "+idToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fe fsError
		_ = json.NewDecoder(resp.Body).Decode(&fe)
		return &QueryError{
			Path:         url,
			MissingIndex: fe.Error.Status == "FAILED_PRECONDITION",
			Err:          fmt.Errorf("status %d: %s", resp.StatusCode, fe.Error.Message),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateConversationDoc creates the conversation document keyed by the
// locally generated ID, recording the sentinel title, creation time, owner
// UID, and an empty denormalized history.
func (c *DocStoreClient) CreateConversationDoc(ctx context.Context, session *UserSession, conv Conversation) error {
	url := fmt.Sprintf("%s/conversations?documentId=%s", c.documentsRoot(), conv.ID)
	doc := fsDocument{Fields: map[string]fsValue{
		"title":     stringValue(conv.Title),
		"createdAt": timestampValue(time.Now()),
		"history":   {ArrayValue: &fsArrayValue{}},
		"userId":    stringValue(session.UID),
	}}
	if err := c.do(ctx, http.MethodPost, url, session.IDToken, doc, nil); err != nil {
		return &PersistError{Path: "conversations/" + conv.ID, Op: "create", Err: err}
	}
	return nil
}

// MergeConversationTitle merge-updates only the title field of the
// conversation document.
func (c *DocStoreClient) MergeConversationTitle(ctx context.Context, session *UserSession, convID, title string) error {
	url := fmt.Sprintf("%s/conversations/%s?updateMask.fieldPaths=title", c.documentsRoot(), convID)
	doc := fsDocument{Fields: map[string]fsValue{"title": stringValue(title)}}
	if err := c.do(ctx, http.MethodPatch, url, session.IDToken, doc, nil); err != nil {
		return &PersistError{Path: "conversations/" + convID, Op: "merge", Err: err}
	}
	return nil
}

// MergeConversationHistory merge-updates the denormalized history snapshot
// on the conversation document. Kept alongside the per-message documents as
// an intentional dual write for simpler reads elsewhere.
func (c *DocStoreClient) MergeConversationHistory(ctx context.Context, session *UserSession, convID string, history []Message) error {
	url := fmt.Sprintf("%s/conversations/%s?updateMask.fieldPaths=history", c.documentsRoot(), convID)
	doc := fsDocument{Fields: map[string]fsValue{"history": historyValue(history)}}
	if err := c.do(ctx, http.MethodPatch, url, session.IDToken, doc, nil); err != nil {
		return &PersistError{Path: "conversations/" + convID, Op: "merge", Err: err}
	}
	return nil
}

// AddMessageDoc appends a message document to the conversation's messages
// subcollection and returns the store-assigned document ID.
func (c *DocStoreClient) AddMessageDoc(ctx context.Context, session *UserSession, convID string, msg Message) (string, error) {
	url := fmt.Sprintf("%s/conversations/%s/messages", c.documentsRoot(), convID)
	doc := fsDocument{Fields: messageFields(msg)}
	var created fsDocument
	if err := c.do(ctx, http.MethodPost, url, session.IDToken, doc, &created); err != nil {
		return "", &PersistError{Path: "conversations/" + convID + "/messages", Op: "add", Err: err}
	}
	return documentID(created.Name), nil
}

// DeleteConversationDoc removes the conversation document.
func (c *DocStoreClient) DeleteConversationDoc(ctx context.Context, session *UserSession, convID string) error {
	url := fmt.Sprintf("%s/conversations/%s", c.documentsRoot(), convID)
	if err := c.do(ctx, http.MethodDelete, url, session.IDToken, nil, nil); err != nil {
		return &PersistError{Path: "conversations/" + convID, Op: "delete", Err: err}
	}
	return nil
}

type fsQueryResult struct {
	Document *fsDocument `json:"document,omitempty"`
}

func (c *DocStoreClient) runQuery(ctx context.Context, session *UserSession, parent string, query map[string]interface{}) ([]fsDocument, error) {
	url := parent + ":runQuery"
	payload := map[string]interface{}{"structuredQuery": query}

	var results []fsQueryResult
	if err := c.do(ctx, http.MethodPost, url, session.IDToken, payload, &results); err != nil {
		return nil, err
	}

	docs := make([]fsDocument, 0, len(results))
	for _, r := range results {
		if r.Document != nil {
			docs = append(docs, *r.Document)
		}
	}
	return docs, nil
}

// ListConversations queries the conversation collection filtered by owner
// and ordered by creation time ascending. This composite query requires an
// index on (userId, createdAt); its absence is reported as a QueryError
// with MissingIndex set.
func (c *DocStoreClient) ListConversations(ctx context.Context, session *UserSession) ([]Conversation, error) {
	query := map[string]interface{}{
		"from": []map[string]interface{}{{"collectionId": "conversations"}},
		"where": map[string]interface{}{
			"fieldFilter": map[string]interface{}{
				"field": map[string]string{"fieldPath": "userId"},
				"op":    "EQUAL",
				"value": map[string]string{"stringValue": session.UID},
			},
		},
		"orderBy": []map[string]interface{}{{
			"field":     map[string]string{"fieldPath": "createdAt"},
			"direction": "ASCENDING",
		}},
	}

	docs, err := c.runQuery(ctx, session, c.documentsRoot(), query)
	if err != nil {
		return nil, err
	}

	convs := make([]Conversation, 0, len(docs))
	for _, doc := range docs {
		title := doc.Fields["title"].str()
		if title == "" {
			title = "Untitled"
		}
		convs = append(convs, Conversation{
			ID:        documentID(doc.Name),
			Title:     title,
			OwnerUID:  doc.Fields["userId"].str(),
			CreatedAt: doc.Fields["createdAt"].timestamp(),
		})
	}
	return convs, nil
}

// ListMessages queries the messages subcollection of a conversation
// ordered by creation time ascending. Message IDs are the store-assigned
// document IDs.
func (c *DocStoreClient) ListMessages(ctx context.Context, session *UserSession, convID string) ([]Message, error) {
	parent := fmt.Sprintf("%s/conversations/%s", c.documentsRoot(), convID)
	query := map[string]interface{}{
		"from": []map[string]interface{}{{"collectionId": "messages"}},
		"orderBy": []map[string]interface{}{{
			"field":     map[string]string{"fieldPath": "createdAt"},
			"direction": "ASCENDING",
		}},
	}

	docs, err := c.runQuery(ctx, session, parent, query)
	if err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(docs))
	for _, doc := range docs {
		msgs = append(msgs, Message{
			ID:        documentID(doc.Name),
			Text:      doc.Fields["text"].str(),
			Sender:    Sender(doc.Fields["sender"].str()),
			CreatedAt: doc.Fields["createdAt"].timestamp(),
		})
	}
	return msgs, nil
}
