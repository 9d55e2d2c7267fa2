package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeFile writes a test file, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

// testSession returns a valid signed-in session for tests.
func testSession() *UserSession {
	return &UserSession{
		UID:          "user-123",
		Email:        "test@example.com",
		IDToken:      "token",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}
