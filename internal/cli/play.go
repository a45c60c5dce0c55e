package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/softpunk/emberfell/internal/assetcache"
	"github.com/softpunk/emberfell/internal/dependencies/random"
	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/realtime"
)

func newPlayCmd() *cobra.Command {
	var characterID string
	var wander bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Bring a character online in the shared space",
		Long: `Connect to the presence sync channel as one of your characters.

Downloads the character's model assets, joins the shared space, and
streams presence events (joined, moved, left) until interrupted.

Press Ctrl+C to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if characterID == "" {
				return fmt.Errorf("--character is required")
			}
			return runPlay(characterID, wander)
		},
	}

	cmd.Flags().StringVar(&characterID, "character", "", "Character id to play as (required)")
	cmd.Flags().BoolVar(&wander, "wander", false, "Send random movement every 2s")
	_ = cmd.MarkFlagRequired("character")

	return cmd
}

func runPlay(characterID string, wander bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Resolve the character to play as
	var character Character
	if err := client.Get("/api/v1/characters/"+characterID, &character); err != nil {
		return err
	}

	// Prefetch the assets the browser client would need before spawning
	if err := prefetchAssets(ctx, model.Gender(character.Gender)); err != nil {
		return fmt.Errorf("failed to prefetch assets: %w", err)
	}

	conn, err := dialSync(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	out := &syncWriter{conn: conn}

	// Join as the character
	join := model.JoinPayload{
		ID:     model.PlayerID(cfg.PlayerID),
		Name:   character.Name,
		Gender: model.Gender(character.Gender),
	}
	if err := out.writeEvent(model.EventJoin, join); err != nil {
		return err
	}

	fmt.Printf("Online as %s. Press Ctrl+C to leave.\n", character.Name)

	if wander {
		go wanderLoop(ctx, out)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- streamEvents(conn) }()

	select {
	case <-ctx.Done():
		// Graceful leave; the server treats a dropped connection the
		// same way, this just avoids waiting out the read deadline
		leave := model.LeavePayload{ID: model.PlayerID(cfg.PlayerID)}
		_ = out.writeEvent(model.EventLeave, leave)
		_ = out.writeClose()
		return nil
	case err := <-errCh:
		return err
	}
}

// prefetchAssets warms the local asset cache the way the browser client
// does on spawn: the character's own model plus shared world assets.
func prefetchAssets(ctx context.Context, gender model.Gender) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	cache := assetcache.New(logger)
	catalog := assetcache.NewCatalog()

	keys := []string{
		assetcache.CharacterKey(gender),
		assetcache.KeyGroundTexture,
	}

	for _, key := range keys {
		path, err := catalog.Path(key)
		if err != nil {
			return err
		}

		asset, err := cache.Request(ctx, key, httpLoader(path))
		if err != nil {
			return err
		}
		if cfg.Verbose {
			if m, ok := asset.(*assetcache.ModelAsset); ok {
				fmt.Printf("fetched %s (%d bytes)\n", key, len(m.Data))
			}
		}
	}

	return nil
}

// httpLoader builds a cache loader that downloads an asset over the
// server's static asset route
func httpLoader(path string) assetcache.LoaderFunc {
	return func(ctx context.Context) (assetcache.Asset, error) {
		data, err := client.Download("/assets/" + path)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(path, "textures/") {
			return &assetcache.TextureAsset{Path: path, Data: data}, nil
		}
		return &assetcache.ModelAsset{Path: path, Data: data}, nil
	}
}

func dialSync(ctx context.Context) (*websocket.Conn, error) {
	wsURL := strings.TrimSuffix(cfg.ServerURL, "/")
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL += "/sync"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to %s: HTTP %d", wsURL, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	return conn, nil
}

// messageWriter is the write side of a websocket connection
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

// syncWriter serializes writes to the sync connection. The wander loop
// and the shutdown path both send, and the connection only tolerates one
// writer at a time.
type syncWriter struct {
	mu   sync.Mutex
	conn messageWriter
}

func (w *syncWriter) writeEvent(eventType model.EventType, payload any) error {
	data, err := realtime.EncodeEvent(eventType, payload)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *syncWriter) writeClose() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// streamEvents reads presence events and prints them until the
// connection drops
func streamEvents(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		envelope, err := realtime.DecodeEnvelope(data)
		if err != nil {
			continue
		}

		printEvent(envelope)
	}
}

func printEvent(envelope realtime.Envelope) {
	switch envelope.Type {
	case model.EventSnapshot:
		var p model.SnapshotPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return
		}
		fmt.Printf("[snapshot] %d player(s) online\n", len(p.Players))
		for _, player := range p.Players {
			fmt.Printf("  %s (%s) at (%.1f, %.1f, %.1f)\n",
				player.Name, player.ID, player.Position.X, player.Position.Y, player.Position.Z)
		}
	case model.EventJoined:
		var p model.JoinedPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return
		}
		fmt.Printf("[joined] %s (%s)\n", p.Player.Name, p.Player.ID)
	case model.EventMoved:
		var p model.MovedPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return
		}
		fmt.Printf("[moved] %s to (%.1f, %.1f, %.1f)\n",
			p.ID, p.Position.X, p.Position.Y, p.Position.Z)
	case model.EventLeft:
		var p model.LeftPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return
		}
		fmt.Printf("[left] %s\n", p.ID)
	case model.EventError:
		var p model.ErrorPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil {
			return
		}
		fmt.Printf("[error] %s: %s\n", p.Code, p.Message)
	}
}

// wanderLoop sends a random move every couple of seconds, useful for
// watching fan-out from a second terminal
func wanderLoop(ctx context.Context, out *syncWriter) {
	rnd := random.New()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			move := model.MovePayload{
				ID: model.PlayerID(cfg.PlayerID),
				Position: model.Vec3{
					X: float64(rnd.Intn(41)) - 20,
					Y: 0,
					Z: float64(rnd.Intn(41)) - 20,
				},
			}
			if err := out.writeEvent(model.EventMove, move); err != nil {
				return
			}
		}
	}
}
