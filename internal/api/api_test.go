package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softpunk/emberfell/internal/api"
	"github.com/softpunk/emberfell/internal/api/response"
	"github.com/softpunk/emberfell/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	app.Start()
	t.Cleanup(func() { _ = app.Shutdown() })

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		CharacterController: app.CharacterController,
		Registry:            app.Registry,
		SyncHandler:         app.SyncHandler,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, playerID string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
		req.Header.Set("X-Player-Name", "Player "+playerID)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createCharacter(t *testing.T, playerID, name, gender, class string) response.Character {
	t.Helper()

	body := map[string]string{"name": name, "gender": gender, "class": class}
	rr := ts.request(http.MethodPost, "/api/v1/characters", body, playerID)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Character
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Players)
}

func TestCreateCharacter(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "player-1", created.OwnerID)
	assert.Equal(t, "Borin", created.Name)
	assert.Equal(t, "male", created.Gender)
	assert.Equal(t, "warrior", created.Class)
	assert.Equal(t, 1, created.Level)
}

func TestCreateCharacterRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"name": "Borin", "gender": "male", "class": "warrior"}
	rr := ts.request(http.MethodPost, "/api/v1/characters", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestCreateCharacterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode string
	}{
		{
			name:     "missing name",
			body:     map[string]string{"gender": "male", "class": "warrior"},
			wantCode: "INVALID_REQUEST",
		},
		{
			name:     "name too short",
			body:     map[string]string{"name": "X", "gender": "male", "class": "warrior"},
			wantCode: "INVALID_NAME",
		},
		{
			name:     "bad gender",
			body:     map[string]string{"name": "Borin", "gender": "robot", "class": "warrior"},
			wantCode: "INVALID_GENDER",
		},
		{
			name:     "bad class",
			body:     map[string]string{"name": "Borin", "gender": "male", "class": "bard"},
			wantCode: "INVALID_CLASS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/characters", tt.body, "player-1")
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantCode)
		})
	}
}

func TestListCharacters(t *testing.T) {
	ts := newTestServer(t)

	ts.createCharacter(t, "player-1", "Borin", "male", "warrior")
	ts.createCharacter(t, "player-1", "Lyra", "female", "mage")
	ts.createCharacter(t, "player-2", "Sable", "female", "ranger")

	rr := ts.request(http.MethodGet, "/api/v1/characters", nil, "player-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.CharacterList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Characters, 2)
}

func TestGetCharacter(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	rr := ts.request(http.MethodGet, "/api/v1/characters/"+created.ID, nil, "player-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Character
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "Borin", resp.Name)
}

func TestGetCharacterNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/characters/nonexistent", nil, "player-1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "CHARACTER_NOT_FOUND")
}

func TestRenameCharacter(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	body := map[string]string{"name": "Borin the Bold"}
	rr := ts.request(http.MethodPatch, "/api/v1/characters/"+created.ID, body, "player-1")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Character
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Borin the Bold", resp.Name)
}

func TestRenameCharacterWrongOwner(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	body := map[string]string{"name": "Stolen"}
	rr := ts.request(http.MethodPatch, "/api/v1/characters/"+created.ID, body, "player-2")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_OWNER")
}

func TestDeleteCharacter(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	rr := ts.request(http.MethodDelete, "/api/v1/characters/"+created.ID, nil, "player-1")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/characters/"+created.ID, nil, "player-1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteCharacterWrongOwner(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createCharacter(t, "player-1", "Borin", "male", "warrior")

	rr := ts.request(http.MethodDelete, "/api/v1/characters/"+created.ID, nil, "player-2")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestSyncEndpointRequiresWebsocket(t *testing.T) {
	ts := newTestServer(t)

	// A plain GET without upgrade headers must be rejected
	rr := ts.request(http.MethodGet, "/sync", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStaticAssetsServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/male.glb", []byte("glTF-binary"), 0o644))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown() })

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		CharacterController: app.CharacterController,
		Registry:            app.Registry,
		AssetDir:            dir,
	})

	req := httptest.NewRequest(http.MethodGet, "/assets/male.glb", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "glTF-binary", rr.Body.String())
}
