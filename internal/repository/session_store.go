package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"simco_backend/internal/model"
	"simco_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// SessionStore 可注入的会话存储抽象。
// Get 返回快照；Update 对单个会话的变更必须原子可见。
// 实现可以是进程内map、redis等外部存储。
type SessionStore interface {
	Create(ctx context.Context, session *model.QuizSession) error
	Get(ctx context.Context, sessionID string) (*model.QuizSession, error)
	Update(ctx context.Context, sessionID string, fn func(*model.QuizSession) error) error
}

// MemorySessionStore 默认实现：RWMutex保护的进程内map
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.QuizSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*model.QuizSession),
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *model.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*model.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *MemorySessionStore) Update(ctx context.Context, sessionID string, fn func(*model.QuizSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return util.ErrSessionNotFound
	}
	return fn(session)
}

// RedisSessionStore 外部存储实现，整个会话JSON序列化。
// 每个会话由单个客户端顺序驱动，read-modify-write无需跨实例锁。
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "quiz:session:" + sessionID
}

func (s *RedisSessionStore) Create(ctx context.Context, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(session.ID), data, s.ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*model.QuizSession, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Update(ctx context.Context, sessionID string, fn func(*model.QuizSession) error) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sessionID), data, s.ttl).Err()
}
