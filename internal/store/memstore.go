package store

import (
	"sync"

	"block-battle/internal/room"
)

// MemoryStore keeps live rooms keyed by join code. The hub's event loop
// is the only writer; the lock covers readers outside it.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*room.Room{},
	}
}

func (m *MemoryStore) GetRoom(code string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

func (m *MemoryStore) SaveRoom(r *room.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.Code] = r
}

func (m *MemoryStore) DeleteRoom(code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, code)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

func (m *MemoryStore) CountByStatus() map[room.Status]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[room.Status]int, 3)
	for _, r := range m.rooms {
		out[r.Status]++
	}
	return out
}
