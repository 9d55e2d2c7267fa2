package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CompletionReply builds the completion API success payload wrapping text
// at candidates[0].content.parts[0].text.
func CompletionReply(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			},
		}},
	}
}

// NewCompletionServer starts a mock completion API that always responds
// with status and body.
func NewCompletionServer(t *testing.T, status int, body interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// IdentityResponse is the token payload returned by the mock identity
// server for sign-in and sign-up.
func IdentityResponse(uid, email string) map[string]string {
	return map[string]string{
		"localId":      uid,
		"email":        email,
		"idToken":      "test-id-token",
		"refreshToken": "test-refresh-token",
		"expiresIn":    "3600",
	}
}

// NewIdentityServer starts a mock identity provider. When errCode is
// non-empty every request fails with it; otherwise sign-in/sign-up return
// a session for uid/email.
func NewIdentityServer(t *testing.T, uid, email, errCode string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if errCode != "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"message": errCode},
			})
			return
		}
		switch {
		case strings.Contains(r.URL.Path, "accounts:update"):
			var req struct {
				DisplayName string `json:"displayName"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(map[string]string{"displayName": req.DisplayName})
		case strings.Contains(r.URL.Path, "token"):
			_ = json.NewEncoder(w).Encode(map[string]string{
				"user_id":       uid,
				"id_token":      "refreshed-id-token",
				"refresh_token": "refreshed-refresh-token",
				"expires_in":    "3600",
			})
		default:
			_ = json.NewEncoder(w).Encode(IdentityResponse(uid, email))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// DocStoreServer is a mock of the remote document store. It records
// created documents and serves canned query results.
type DocStoreServer struct {
	Server *httptest.Server

	mu        sync.Mutex
	creates   []string
	patches   []string
	addedMsgs int

	// QueryResults maps a collection ID ("conversations" or "messages")
	// to the raw runQuery response body.
	QueryResults map[string]string
	// FailWrites makes every write return 503.
	FailWrites bool
	// MissingIndex makes conversation queries fail with
	// FAILED_PRECONDITION.
	MissingIndex bool
}

// NewDocStoreServer starts the mock document store.
func NewDocStoreServer(t *testing.T) *DocStoreServer {
	t.Helper()
	ds := &DocStoreServer{QueryResults: make(map[string]string)}
	ds.Server = httptest.NewServer(http.HandlerFunc(ds.handle))
	t.Cleanup(ds.Server.Close)
	return ds
}

func (ds *DocStoreServer) handle(w http.ResponseWriter, r *http.Request) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	if strings.HasSuffix(r.URL.Path, ":runQuery") {
		var req struct {
			StructuredQuery struct {
				From []struct {
					CollectionID string `json:"collectionId"`
				} `json:"from"`
			} `json:"structuredQuery"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		collection := ""
		if len(req.StructuredQuery.From) > 0 {
			collection = req.StructuredQuery.From[0].CollectionID
		}
		if ds.MissingIndex && collection == "conversations" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"code":400,"message":"The query requires an index.","status":"FAILED_PRECONDITION"}}`)
			return
		}
		if body, ok := ds.QueryResults[collection]; ok {
			fmt.Fprint(w, body)
			return
		}
		fmt.Fprint(w, "[]")
		return
	}

	if ds.FailWrites {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"code":503,"message":"unavailable","status":"UNAVAILABLE"}}`)
		return
	}

	switch r.Method {
	case http.MethodPost:
		if strings.Contains(r.URL.Path, "/messages") {
			ds.addedMsgs++
			fmt.Fprintf(w, `{"name":"projects/p/databases/(default)/documents%s/remote-msg-%d"}`, r.URL.Path, ds.addedMsgs)
			return
		}
		ds.creates = append(ds.creates, r.URL.RawQuery)
		fmt.Fprint(w, `{"name":"created"}`)
	case http.MethodPatch:
		ds.patches = append(ds.patches, r.URL.String())
		fmt.Fprint(w, `{"name":"patched"}`)
	case http.MethodDelete:
		fmt.Fprint(w, `{}`)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Creates returns the recorded create-document query strings.
func (ds *DocStoreServer) Creates() []string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return append([]string(nil), ds.creates...)
}

// Patches returns the recorded merge-update URLs.
func (ds *DocStoreServer) Patches() []string {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return append([]string(nil), ds.patches...)
}

// AddedMessages returns how many message documents were appended.
func (ds *DocStoreServer) AddedMessages() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.addedMsgs
}

// QueryDoc builds one runQuery result entry for a document with the given
// resource name suffix and string/timestamp fields.
func QueryDoc(name string, fields map[string]string, timestamps map[string]string) string {
	fieldJSON := make([]string, 0, len(fields)+len(timestamps))
	for k, v := range fields {
		fieldJSON = append(fieldJSON, fmt.Sprintf(`%q:{"stringValue":%q}`, k, v))
	}
	for k, v := range timestamps {
		fieldJSON = append(fieldJSON, fmt.Sprintf(`%q:{"timestampValue":%q}`, k, v))
	}
	return fmt.Sprintf(`{"document":{"name":"projects/p/databases/(default)/documents/%s","fields":{%s}}}`,
		name, strings.Join(fieldJSON, ","))
}
