package web

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/arbiterchess/arbiter/internal/rules"
)

// session is one hosted game. Its mutex serializes rule-engine access;
// the engine itself is not safe for concurrent mutation.
type session struct {
	ID string

	mu   sync.Mutex
	game *rules.Game
}

// Store holds every live game in memory, keyed by ID.
type Store struct {
	mu    sync.RWMutex
	games map[string]*session
}

func NewStore() *Store {
	return &Store{games: make(map[string]*session)}
}

// Create starts a new game, from fen if given or the standard starting
// position otherwise.
func (s *Store) Create(fen string) (*session, error) {
	var game *rules.Game
	if fen == "" {
		game = rules.NewGame()
	} else {
		var err error
		game, err = rules.NewGameFromFEN(fen)
		if err != nil {
			return nil, err
		}
	}

	sess := &session{ID: newGameID(), game: game}

	s.mu.Lock()
	s.games[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *Store) Get(id string) (*session, bool) {
	s.mu.RLock()
	sess, ok := s.games[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

func newGameID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
