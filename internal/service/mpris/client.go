package mpris

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/genricoloni/spotui/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
	backendName = "mpris"
)

var (
	_ domain.PlaybackService = (*Client)(nil)
	_ domain.ChangeNotifier  = (*Client)(nil)
	_ domain.Lifecycle       = (*Client)(nil)
)

// ErrStopped is returned when Start is called on a stopped client
var ErrStopped = errors.New("mpris client stopped")

// Client controls a desktop player through the MPRIS D-Bus interface
// and reports PropertiesChanged signals as change hints.
type Client struct {
	logger *zap.Logger
	// player is the bus name suffix, empty to follow the first player found
	player  string
	dial    func() (DBusClient, error)
	changes chan struct{}

	mu          sync.RWMutex
	running     bool
	stopped     bool
	cancel      context.CancelFunc
	conn        DBusClient        // Interface for testability
	wg          sync.WaitGroup    // Tracks the signal goroutine
	playerNames map[string]string // Maps unique bus names (:1.45) to well-known names (org.mpris.MediaPlayer2.spotify)
}

// NewClient creates a client for org.mpris.MediaPlayer2.<player> on the session bus
func NewClient(logger *zap.Logger, player string) *Client {
	return newClient(logger, player, func() (DBusClient, error) {
		return NewStdDBusClient()
	})
}

func newClient(logger *zap.Logger, player string, dial func() (DBusClient, error)) *Client {
	return &Client{
		logger:      logger,
		player:      player,
		dial:        dial,
		changes:     make(chan struct{}, 1),
		playerNames: make(map[string]string),
	}
}

// Start connects to the session bus and starts listening for player signals.
// It returns once the connection is ready.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	conn, err := c.dial()
	if err != nil {
		c.logger.Error("Failed to connect to session bus", zap.Error(err))
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	// Check if we were cancelled while connecting to D-Bus
	if err := ctx.Err(); err != nil {
		c.closeConn(conn)
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if err := c.detectPlayers(); err != nil {
		c.logger.Warn("Failed to detect existing players", zap.Error(err))
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		c.logger.Error("Failed to add match signal", zap.Error(err))
		c.closeConn(conn)
		c.mu.Lock()
		c.conn = nil
		c.running = false
		c.mu.Unlock()
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	// Player tracking is optional; without it a restarted player is picked up on the next fetch
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		c.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	monitorCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.monitorSignals(monitorCtx, signals)

	c.logger.Info("MPRIS client started", zap.String("player", c.target()))
	return nil
}

// Stop stops the signal goroutine, closes the change channel and the connection
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.running = false
	c.stopped = true
	c.mu.Unlock()

	// Wait for the producer before closing the channel it writes to
	c.logger.Debug("Waiting for signal goroutine to finish")
	c.wg.Wait()
	close(c.changes)

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	c.closeConn(conn)

	c.logger.Info("MPRIS client shutdown complete")
	return nil
}

// Changes returns a channel that receives a value whenever the player reports a change.
// Bursts of signals are coalesced into one value.
func (c *Client) Changes() <-chan struct{} {
	return c.changes
}

func (c *Client) closeConn(conn DBusClient) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		c.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
}

// notify is non-blocking; a pending hint already covers this change
func (c *Client) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// detectPlayers queries D-Bus for currently running MPRIS players
func (c *Client) detectPlayers() error {
	names, err := c.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	playerCount := 0
	for _, name := range names {
		if !strings.HasPrefix(name, busPrefix) {
			continue
		}
		playerCount++
		c.logger.Debug("Detected MPRIS player", zap.String("name", name))

		uniqueName, err := c.conn.GetNameOwner(name)
		if err != nil {
			continue
		}
		c.mu.Lock()
		c.playerNames[uniqueName] = name
		c.mu.Unlock()
	}

	c.logger.Info("Player detection complete", zap.Int("count", playerCount))
	return nil
}

// monitorSignals listens for D-Bus signals and processes them
func (c *Client) monitorSignals(ctx context.Context, signals <-chan *dbus.Signal) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("Signal monitoring goroutine stopped")
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig == nil {
				continue
			}
			if sig.Name == "org.freedesktop.DBus.NameOwnerChanged" {
				c.handleNameOwnerChanged(sig)
			} else {
				c.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged tracks players appearing and disappearing
func (c *Client) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, busPrefix) {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	c.mu.Lock()
	if oldOwner != "" {
		delete(c.playerNames, oldOwner)
	}
	if newOwner != "" {
		c.playerNames[newOwner] = name
	}
	c.mu.Unlock()

	c.logger.Info("MPRIS player changed owner",
		zap.String("player", name),
		zap.String("oldUnique", oldOwner),
		zap.String("newUnique", newOwner))

	if c.isTarget(name) {
		c.notify()
	}
}

// handleSignal turns PropertiesChanged on the followed player into a change hint
func (c *Client) handleSignal(sig *dbus.Signal) {
	// PropertiesChanged carries interface name, changed properties and invalidated properties
	if sig.Name != "org.freedesktop.DBus.Properties.PropertiesChanged" {
		return
	}
	if len(sig.Body) < 2 {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok || interfaceName != playerIface {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	playerName := c.getPlayerName(sig.Sender)
	if !c.isTarget(playerName) {
		return
	}

	c.logger.Debug("Received PropertiesChanged signal",
		zap.String("player", playerName),
		zap.Int("properties", len(changedProps)))
	c.notify()
}

// getPlayerName returns the well-known player name for a unique bus name
// Falls back to the unique name if no mapping exists
func (c *Client) getPlayerName(uniqueName string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if wellKnown, ok := c.playerNames[uniqueName]; ok {
		return wellKnown
	}
	return uniqueName
}

func (c *Client) isTarget(name string) bool {
	if c.player == "" {
		return strings.HasPrefix(name, busPrefix)
	}
	return name == busPrefix+c.player
}

// target returns the bus name commands are sent to, empty when no player is known
func (c *Client) target() string {
	if c.player != "" {
		return busPrefix + c.player
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.playerNames))
	for _, name := range c.playerNames {
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

// connection returns the live connection and the followed player
func (c *Client) connection(op string) (DBusClient, string, error) {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return nil, "", &domain.ServiceError{Kind: domain.KindNetwork, Op: op, Message: "not connected to the session bus"}
	}

	bus := c.target()
	if bus == "" {
		return nil, "", &domain.ServiceError{Kind: domain.KindNotFound, Op: op, Message: "no MPRIS player is running"}
	}
	return conn, bus, nil
}

// wrap converts a D-Bus failure into a ServiceError
func (c *Client) wrap(op, bus string, err error) error {
	switch dbusErrorName(err) {
	case "org.freedesktop.DBus.Error.ServiceUnknown", "org.freedesktop.DBus.Error.NameHasNoOwner":
		return &domain.ServiceError{
			Kind:    domain.KindNotFound,
			Op:      op,
			Message: fmt.Sprintf("player %s is not running", strings.TrimPrefix(bus, busPrefix)),
			Err:     err,
		}
	case "org.freedesktop.DBus.Error.UnknownMethod", "org.freedesktop.DBus.Error.NotSupported":
		return &domain.ServiceError{Kind: domain.KindUnsupported, Op: op, Err: err}
	}
	return domain.NewServiceError(op, "", err)
}

// dbusErrorName returns the D-Bus error name carried by err, if any
func dbusErrorName(err error) string {
	var value dbus.Error
	if errors.As(err, &value) {
		return value.Name
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name
	}
	return ""
}
