package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/arbiterchess/arbiter/internal/auth"
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/rules"
)

type Service struct {
	store  *Store
	tokens *auth.Manager
	hub    *Hub
	config *config.Config
}

func NewService(tokens *auth.Manager, hub *Hub, config *config.Config) *Service {
	return &Service{
		store:  NewStore(),
		tokens: tokens,
		hub:    hub,
		config: config,
	}
}

// Routes attaches all API endpoints under /api.
func (s *Service) Routes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/games", s.CreateGameHandler).Methods("POST")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.LegalMovesHandler).Methods("GET")
	api.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	api.HandleFunc("/games/{id}/undo", s.UndoHandler).Methods("POST")
	api.HandleFunc("/games/{id}/reset", s.ResetHandler).Methods("POST")
	api.HandleFunc("/games/{id}/history", s.HistoryHandler).Methods("GET")
	if s.hub != nil {
		router.HandleFunc("/ws", s.WebSocketHandler(s.hub))
	}
}

// GameState is the wire form of a hosted game.
type GameState struct {
	ID       string `json:"id"`
	FEN      string `json:"fen"`
	Turn     string `json:"turn"`
	Status   string `json:"status"`
	LastMove string `json:"last_move,omitempty"`
}

func snapshot(sess *session) GameState {
	state := GameState{
		ID:     sess.ID,
		FEN:    sess.game.FEN(),
		Turn:   sess.game.Turn().String(),
		Status: sess.game.Status().String(),
	}
	if moves := sess.game.MoveHistory(); len(moves) > 0 {
		state.LastMove = moves[len(moves)-1]
	}
	return state
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"games":  s.store.Len(),
	})
}

type CreateGameRequest struct {
	FEN string `json:"fen,omitempty"`
}

type CreateGameResponse struct {
	GameState
	Token string `json:"token"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	sess, err := s.store.Create(req.FEN)
	if err != nil {
		log.Error().Err(err).Str("fen", req.FEN).Msg("Failed to create game")
		http.Error(w, fmt.Sprintf("Invalid position: %s", err.Error()), http.StatusBadRequest)
		return
	}

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		log.Error().Err(err).Str("gameID", sess.ID).Msg("Failed to issue game token")
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	log.Info().Str("gameID", sess.ID).Str("fen", sess.game.FEN()).Msg("Game created")

	sess.mu.Lock()
	resp := CreateGameResponse{GameState: snapshot(sess), Token: token}
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	sess.mu.Lock()
	state := snapshot(sess)
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

type MakeMoveRequest struct {
	Move string `json:"move"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	sess, ok := s.store.Get(gameID)
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	if !s.authorize(w, r, gameID) {
		return
	}

	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess.mu.Lock()
	err := sess.game.ApplyMove(req.Move)
	state := snapshot(sess)
	sess.mu.Unlock()

	if err != nil {
		log.Info().Err(err).Str("gameID", gameID).Str("move", req.Move).Msg("Move rejected")
		http.Error(w, fmt.Sprintf("Invalid move: %s", err.Error()), http.StatusBadRequest)
		return
	}

	log.Info().Str("gameID", gameID).Str("move", req.Move).Str("fen", state.FEN).Str("status", state.Status).Msg("Move executed")

	if s.hub != nil {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "move", Data: state})
		if state.Status == "checkmate" || state.Status == "stalemate" {
			s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "game_end", Data: state})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

func (s *Service) LegalMovesHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	from := r.URL.Query().Get("from")
	var origin rules.Square
	if from != "" {
		var err error
		origin, err = rules.ParseSquare(from)
		if err != nil {
			http.Error(w, "Invalid from square", http.StatusBadRequest)
			return
		}
	}

	sess.mu.Lock()
	var moves []rules.Move
	if from == "" {
		moves = sess.game.LegalMoves()
	} else {
		moves = sess.game.LegalMovesFrom(origin)
	}
	sess.mu.Unlock()

	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"moves": out})
}

func (s *Service) UndoHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	sess, ok := s.store.Get(gameID)
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	if !s.authorize(w, r, gameID) {
		return
	}

	sess.mu.Lock()
	err := sess.game.Undo()
	state := snapshot(sess)
	sess.mu.Unlock()

	if err != nil {
		http.Error(w, fmt.Sprintf("Cannot undo: %s", err.Error()), http.StatusBadRequest)
		return
	}

	log.Info().Str("gameID", gameID).Str("fen", state.FEN).Msg("Move undone")

	if s.hub != nil {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "undo", Data: state})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

type ResetRequest struct {
	FEN string `json:"fen,omitempty"`
}

func (s *Service) ResetHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	sess, ok := s.store.Get(gameID)
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	if !s.authorize(w, r, gameID) {
		return
	}

	var req ResetRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	sess.mu.Lock()
	err := sess.game.Reset(req.FEN)
	state := snapshot(sess)
	sess.mu.Unlock()

	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid position: %s", err.Error()), http.StatusBadRequest)
		return
	}

	log.Info().Str("gameID", gameID).Str("fen", state.FEN).Msg("Game reset")

	if s.hub != nil {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "reset", Data: state})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(state)
}

func (s *Service) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.store.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	sess.mu.Lock()
	moves := sess.game.MoveHistory()
	positions := sess.game.PositionHistory()
	sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"moves":     moves,
		"positions": positions,
	})
}

// authorize checks the bearer token against the game. Writes the error
// response itself and reports whether the request may proceed.
func (s *Service) authorize(w http.ResponseWriter, r *http.Request, gameID string) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		http.Error(w, "Missing bearer token", http.StatusUnauthorized)
		return false
	}

	if err := s.tokens.Verify(token, gameID); err != nil {
		if errors.Is(err, auth.ErrWrongGame) {
			http.Error(w, "Token not valid for this game", http.StatusForbidden)
			return false
		}
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return false
	}
	return true
}
