package state

import (
	"sync"
	"time"

	"github.com/futig/examgenie/internal/workflow"
)

// ControllerFactory creates the controller of a new chat
type ControllerFactory func(chatID int64) *workflow.Controller

// Manager hands out one controller per chat
type Manager struct {
	mu      sync.Mutex
	storage Storage
	factory ControllerFactory
}

// NewManager creates a new state manager
func NewManager(storage Storage, factory ControllerFactory) *Manager {
	return &Manager{
		storage: storage,
		factory: factory,
	}
}

// Session returns the chat's session, creating it on first use or after expiry
func (m *Manager) Session(chatID int64) *ChatSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.storage.Get(chatID); ok {
		return session
	}

	session := &ChatSession{
		ChatID:     chatID,
		Controller: m.factory(chatID),
		CreatedAt:  time.Now(),
	}
	m.storage.Set(session)
	return session
}

// Controller is a shortcut for Session(chatID).Controller
func (m *Manager) Controller(chatID int64) *workflow.Controller {
	return m.Session(chatID).Controller
}

// Lookup returns the chat's session without creating one
func (m *Manager) Lookup(chatID int64) (*ChatSession, bool) {
	return m.storage.Get(chatID)
}

// Drop forgets the chat's session
func (m *Manager) Drop(chatID int64) {
	m.storage.Delete(chatID)
}

// Active returns the number of live chat sessions
func (m *Manager) Active() int {
	return m.storage.Count()
}
