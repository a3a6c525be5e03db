package portal

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"murmur/log"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	shortcutsIface  = "org.freedesktop.portal.GlobalShortcuts"
	requestIface    = "org.freedesktop.portal.Request"
	changedMember   = "ShortcutsChanged"
	requestTimeout  = 5 * time.Second
	snapshotBacklog = 4
)

// Watcher keeps a State synchronized with the GlobalShortcuts portal
// over the session bus. Registration of shortcuts happens elsewhere;
// the watcher only listens.
type Watcher struct {
	state *State

	mu      sync.Mutex
	conn    *dbus.Conn
	session dbus.ObjectPath
	done    chan struct{}
	updates chan []ShortcutInfo
}

func NewWatcher(state *State) *Watcher {
	return &Watcher{
		state:   state,
		updates: make(chan []ShortcutInfo, snapshotBacklog),
	}
}

// Updates delivers each snapshot after it has been applied to the
// State, so the UI can redraw. Slow consumers drop snapshots; the
// State always holds the latest one.
func (w *Watcher) Updates() <-chan []ShortcutInfo {
	return w.updates
}

// Start connects to the session bus, creates a portal session, pulls
// the initial shortcut list and subscribes to changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		return fmt.Errorf("portal watcher already started")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}

	session, err := createSession(conn)
	if err != nil {
		conn.Close()
		return err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(shortcutsIface),
		dbus.WithMatchMember(changedMember),
	); err != nil {
		conn.Close()
		return fmt.Errorf("subscribe %s: %w", changedMember, err)
	}

	sigs := make(chan *dbus.Signal, 16)
	conn.Signal(sigs)

	w.conn = conn
	w.session = session
	w.done = make(chan struct{})

	go w.loop(sigs, w.done)
	go w.refresh()
	return nil
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	conn := w.conn
	done := w.done
	w.conn = nil
	w.mu.Unlock()
	if conn == nil {
		return
	}
	// Closing the connection closes the signal channel, which ends the
	// receive loop.
	conn.Close()
	<-done
}

// refresh asks the portal for the current shortcut list.
func (w *Watcher) refresh() {
	w.mu.Lock()
	conn := w.conn
	session := w.session
	w.mu.Unlock()
	if conn == nil {
		return
	}
	infos, err := listShortcuts(conn, session)
	if err != nil {
		log.Warnf("portal list shortcuts: %v", err)
		return
	}
	w.push(infos)
}

func (w *Watcher) loop(sigs chan *dbus.Signal, done chan struct{}) {
	defer close(done)
	for sig := range sigs {
		if sig.Name != shortcutsIface+"."+changedMember {
			continue
		}
		if len(sig.Body) < 2 {
			continue
		}
		raw, ok := sig.Body[1].([][]interface{})
		if !ok {
			log.Warnf("portal %s: unexpected body %T", changedMember, sig.Body[1])
			continue
		}
		w.push(decodeShortcuts(raw))
	}
}

func (w *Watcher) push(infos []ShortcutInfo) {
	w.state.Replace(infos)
	hazards := 0
	for _, info := range w.state.All() {
		if info.HasPrintableKey {
			hazards++
		}
	}
	log.PortalSnapshot(len(infos), hazards)
	select {
	case w.updates <- w.state.All():
	default:
	}
}

// createSession performs the portal request handshake: the method
// returns a Request object path, and the result arrives as a Response
// signal on that path.
func createSession(conn *dbus.Conn) (dbus.ObjectPath, error) {
	token := fmt.Sprintf("murmur%d", time.Now().UnixNano())
	sessionToken := token + "s"

	sender := strings.TrimPrefix(conn.Names()[0], ":")
	sender = strings.ReplaceAll(sender, ".", "_")
	requestPath := dbus.ObjectPath(fmt.Sprintf("/org/freedesktop/portal/desktop/request/%s/%s", sender, token))

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchObjectPath(requestPath),
	); err != nil {
		return "", fmt.Errorf("subscribe request: %w", err)
	}
	defer conn.RemoveMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchObjectPath(requestPath),
	)

	sigs := make(chan *dbus.Signal, 1)
	conn.Signal(sigs)
	defer conn.RemoveSignal(sigs)

	obj := conn.Object(portalDest, portalPath)
	opts := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(token),
		"session_handle_token": dbus.MakeVariant(sessionToken),
	}
	var reqPath dbus.ObjectPath
	if err := obj.Call(shortcutsIface+".CreateSession", 0, opts).Store(&reqPath); err != nil {
		return "", fmt.Errorf("CreateSession: %w", err)
	}

	results, err := awaitResponse(sigs, reqPath)
	if err != nil {
		return "", fmt.Errorf("CreateSession response: %w", err)
	}
	v, ok := results["session_handle"]
	if !ok {
		return "", fmt.Errorf("CreateSession response missing session_handle")
	}
	switch h := v.Value().(type) {
	case dbus.ObjectPath:
		return h, nil
	case string:
		return dbus.ObjectPath(h), nil
	default:
		return "", fmt.Errorf("unexpected session_handle type %T", v.Value())
	}
}

func listShortcuts(conn *dbus.Conn, session dbus.ObjectPath) ([]ShortcutInfo, error) {
	token := fmt.Sprintf("murmur%d", time.Now().UnixNano())

	sigs := make(chan *dbus.Signal, 1)
	conn.Signal(sigs)
	defer conn.RemoveSignal(sigs)

	obj := conn.Object(portalDest, portalPath)
	opts := map[string]dbus.Variant{"handle_token": dbus.MakeVariant(token)}
	var reqPath dbus.ObjectPath
	if err := obj.Call(shortcutsIface+".ListShortcuts", 0, session, opts).Store(&reqPath); err != nil {
		return nil, fmt.Errorf("ListShortcuts: %w", err)
	}

	results, err := awaitResponse(sigs, reqPath)
	if err != nil {
		return nil, fmt.Errorf("ListShortcuts response: %w", err)
	}
	v, ok := results["shortcuts"]
	if !ok {
		return nil, nil
	}
	raw, ok := v.Value().([][]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected shortcuts type %T", v.Value())
	}
	return decodeShortcuts(raw), nil
}

// awaitResponse waits for the Response signal on the given request
// path. Response code 0 means success.
func awaitResponse(sigs chan *dbus.Signal, reqPath dbus.ObjectPath) (map[string]dbus.Variant, error) {
	timeout := time.After(requestTimeout)
	for {
		select {
		case sig, ok := <-sigs:
			if !ok {
				return nil, fmt.Errorf("signal channel closed")
			}
			if sig.Path != reqPath || sig.Name != requestIface+".Response" {
				continue
			}
			if len(sig.Body) < 2 {
				return nil, fmt.Errorf("short response body")
			}
			code, _ := sig.Body[0].(uint32)
			if code != 0 {
				return nil, fmt.Errorf("portal request failed with code %d", code)
			}
			results, _ := sig.Body[1].(map[string]dbus.Variant)
			return results, nil
		case <-timeout:
			return nil, fmt.Errorf("timed out after %s", requestTimeout)
		}
	}
}

// decodeShortcuts unpacks the portal's a(sa{sv}) shortcut list.
func decodeShortcuts(raw [][]interface{}) []ShortcutInfo {
	infos := make([]ShortcutInfo, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			continue
		}
		id, ok := entry[0].(string)
		if !ok {
			continue
		}
		info := ShortcutInfo{ID: id}
		if props, ok := entry[1].(map[string]dbus.Variant); ok {
			if v, ok := props["trigger_description"]; ok {
				if s, ok := v.Value().(string); ok {
					info.Trigger = s
				}
			}
		}
		infos = append(infos, info)
	}
	return infos
}
