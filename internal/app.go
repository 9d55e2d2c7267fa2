package internal

import (
	"path/filepath"
)

// App bundles the application state and service clients shared by every
// command. It is built once per invocation and passed explicitly; there
// are no hidden singletons.
type App struct {
	ConfigDir string
	Config    *Config

	Store      *ConversationStore
	Identity   *IdentityClient
	Docs       *DocStoreClient
	Completion *CompletionClient
	Gate       *SessionGate
	Exchanger  *Exchanger
	Rehydrator *Rehydrator
	Theme      *Theme
}

// ConfigPath returns the config file path inside dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// SessionPath returns the session file path inside dir.
func SessionPath(dir string) string {
	return filepath.Join(dir, "session.json")
}

// CachePath returns the cache database path inside dir.
func CachePath(dir string) string {
	return filepath.Join(dir, "cache.db")
}

// NewApp loads configuration from configDir and wires up the clients, the
// store and the session gate.
func NewApp(configDir string) (*App, error) {
	cfg, err := LoadConfig(ConfigPath(configDir))
	if err != nil {
		return nil, err
	}

	store := NewConversationStore()
	identity := NewIdentityClient(cfg.Firebase.APIKey)
	docs := NewDocStoreClient(cfg.Firebase.ProjectID)
	completion := NewCompletionClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	gate := NewSessionGate(identity, SessionPath(configDir))

	return &App{
		ConfigDir:  configDir,
		Config:     cfg,
		Store:      store,
		Identity:   identity,
		Docs:       docs,
		Completion: completion,
		Gate:       gate,
		Exchanger:  NewExchanger(store, docs, completion),
		Rehydrator: NewRehydrator(store, docs),
		Theme:      NewTheme(cfg.DarkMode),
	}, nil
}

// OpenCacheDB opens the app's local cache database.
func (a *App) OpenCacheDB() (*Cache, error) {
	return OpenCache(CachePath(a.ConfigDir))
}
