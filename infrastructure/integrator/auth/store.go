package auth

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-gateway-api/internal/domain"
)

// ErrTokenNotFound indica que nenhum token foi persistido para a plataforma
var ErrTokenNotFound = errors.New("nenhum token armazenado para a plataforma")

// Store é o backend plugável de persistência de tokens e estados de
// autenticação, um registro por plataforma
type Store interface {
	Save(ctx context.Context, platform domain.Platform, token string, state *domain.AuthState) error
	Load(ctx context.Context, platform domain.Platform) (string, *domain.AuthState, error)
	Delete(ctx context.Context, platform domain.Platform) error
}

type memoryEntry struct {
	token string
	state domain.AuthState
}

// MemoryStore guarda tokens em memória. É o backend padrão quando nenhuma
// persistência externa está configurada.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[domain.Platform]memoryEntry
}

// NewMemoryStore cria um store em memória vazio
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[domain.Platform]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, platform domain.Platform, token string, state *domain.AuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[platform] = memoryEntry{token: token, state: *state}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, platform domain.Platform) (string, *domain.AuthState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[platform]
	if !ok {
		return "", nil, ErrTokenNotFound
	}

	state := entry.state
	return entry.token, &state, nil
}

func (s *MemoryStore) Delete(_ context.Context, platform domain.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, platform)
	return nil
}
