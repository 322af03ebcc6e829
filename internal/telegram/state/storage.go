package state

import (
	"strconv"
	"time"

	"github.com/futig/examgenie/internal/workflow"
	"github.com/patrickmn/go-cache"
)

// ChatSession binds one chat to its workflow controller
type ChatSession struct {
	ChatID     int64
	Controller *workflow.Controller
	CreatedAt  time.Time
}

// Storage defines the interface for chat session persistence
type Storage interface {
	Get(chatID int64) (*ChatSession, bool)
	Set(session *ChatSession)
	Delete(chatID int64)
	Count() int
}

// CacheStorage keeps chat sessions in memory; a session expires after ttl without access.
type CacheStorage struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewCacheStorage(ttl, cleanupInterval time.Duration) *CacheStorage {
	return &CacheStorage{
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the session and extends its lifetime
func (s *CacheStorage) Get(chatID int64) (*ChatSession, bool) {
	key := cacheKey(chatID)
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	session := v.(*ChatSession)
	s.cache.Set(key, session, s.ttl)
	return session, true
}

func (s *CacheStorage) Set(session *ChatSession) {
	s.cache.Set(cacheKey(session.ChatID), session, s.ttl)
}

func (s *CacheStorage) Delete(chatID int64) {
	s.cache.Delete(cacheKey(chatID))
}

func (s *CacheStorage) Count() int {
	return s.cache.ItemCount()
}

func cacheKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
