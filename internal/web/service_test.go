package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterchess/arbiter/internal/auth"
	"github.com/arbiterchess/arbiter/internal/config"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	svc := NewService(tokens, nil, &config.Config{})
	router := mux.NewRouter()
	svc.Routes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createGame(t *testing.T, router *mux.Router, fen string) CreateGameResponse {
	t.Helper()
	var body interface{}
	if fen != "" {
		body = CreateGameRequest{FEN: fen}
	}
	rec := doJSON(t, router, http.MethodPost, "/api/games", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp CreateGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateGameDefaults(t *testing.T) {
	router := newTestRouter(t)

	game := createGame(t, router, "")
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", game.FEN)
	assert.Equal(t, "white", game.Turn)
	assert.Equal(t, "normal", game.Status)
	assert.Empty(t, game.LastMove)
}

func TestCreateGameFromFEN(t *testing.T) {
	router := newTestRouter(t)

	fen := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	game := createGame(t, router, fen)
	assert.Equal(t, fen, game.FEN)
}

func TestCreateGameRejectsBadFEN(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/games", "", CreateGameRequest{FEN: "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGame(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodGet, "/api/games/"+game.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, game.ID, state.ID)
	assert.Equal(t, game.FEN, state.FEN)

	rec = doJSON(t, router, http.MethodGet, "/api/games/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMakeMove(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: "e2e4"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var state GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", state.FEN)
	assert.Equal(t, "black", state.Turn)
	assert.Equal(t, "e2e4", state.LastMove)
}

func TestMakeMoveRequiresToken(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", "", MakeMoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", "bogus.token.here", MakeMoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenBoundToGame(t *testing.T) {
	router := newTestRouter(t)
	first := createGame(t, router, "")
	second := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodPost, "/api/games/"+second.ID+"/moves", first.Token, MakeMoveRequest{Move: "e2e4"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIllegalMoveRejected(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: "e2e5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The game is untouched after a rejection.
	rec = doJSON(t, router, http.MethodGet, "/api/games/"+game.ID, "", nil)
	var state GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, game.FEN, state.FEN)
}

func TestLegalMovesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	rec := doJSON(t, router, http.MethodGet, "/api/games/"+game.ID+"/moves", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Moves []string `json:"moves"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Moves, 20)

	rec = doJSON(t, router, http.MethodGet, "/api/games/"+game.ID+"/moves?from=e2", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"e2e3", "e2e4"}, resp.Moves)

	rec = doJSON(t, router, http.MethodGet, "/api/games/"+game.ID+"/moves?from=zz", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUndoEndpoint(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: "e2e4"})
	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/undo", game.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, game.FEN, state.FEN)

	// Nothing left to undo.
	rec = doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/undo", game.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: "e2e4"})

	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/reset", game.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, game.FEN, state.FEN)
	assert.Empty(t, state.LastMove)
}

func TestHistoryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	for _, mv := range []string{"e2e4", "e7e5"} {
		rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: mv})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/games/"+game.ID+"/history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Moves     []string `json:"moves"`
		Positions []string `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"e2e4", "e7e5"}, resp.Moves)
	require.Len(t, resp.Positions, 3)
	assert.Equal(t, game.FEN, resp.Positions[0])
}

func TestCheckmateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	game := createGame(t, router, "")

	var state GameState
	for _, mv := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: mv})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	}

	assert.Equal(t, "checkmate", state.Status)

	// No move escapes checkmate.
	rec := doJSON(t, router, http.MethodPost, "/api/games/"+game.ID+"/moves", game.Token, MakeMoveRequest{Move: "e1f2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
