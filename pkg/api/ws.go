package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rubiojr/sitesearch/pkg/realtime"
	"github.com/rubiojr/sitesearch/pkg/report"
	"github.com/rubiojr/sitesearch/pkg/search"
)

// Websocket message types. MsgReloadFailed reports a failed reload while the
// previous index is still served.
const (
	MsgInit         = "init"
	MsgSearch       = "search"
	MsgPage         = "page"
	MsgNext         = "next"
	MsgPrev         = "prev"
	MsgHome         = "home"
	MsgRestore      = "restore"
	MsgNavigate     = "navigate"
	MsgReload       = "reload"
	MsgReloadFailed = "reload_failed"
	MsgError        = "error"
)

const (
	wsReadLimit    = 4096
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is served with a wildcard CORS policy; sessions carry no
	// credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string        `json:"type"`
	Query string        `json:"query,omitempty"`
	Page  int           `json:"page,omitempty"`
	Entry *search.Entry `json:"entry,omitempty"`
}

// ServerMessage is sent to the browser. Only the fields relevant to Type are
// set.
type ServerMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Status    *StatusResponse `json:"status,omitempty"`
	Page      *SearchResponse `json:"page,omitempty"`
	Entry     *search.Entry   `json:"entry,omitempty"`
	Count     int             `json:"count,omitempty"`
	LoadedAt  *time.Time      `json:"loaded_at,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	Redirect  string          `json:"redirect,omitempty"`
}

// wsConn serializes writes from the read loop and the hub forwarder.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// HandleWebSocket runs one search session over a websocket. Each connection
// gets its own search.Session; navigations are echoed back as navigate
// messages so the page can push browser history entries, and index reloads
// are pushed when a hub is configured.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	sessionID := uuid.NewString()
	ws := &wsConn{conn: conn}
	log := s.log

	session := search.NewSession(s.store, s.pagination, search.ObserverFunc(func(e search.Entry) {
		if err := ws.send(ServerMessage{Type: MsgNavigate, Entry: &e}); err != nil {
			log.Debugf("session %s: sending navigate: %v", sessionID, err)
		}
	}))

	status := s.status()
	if err := ws.send(ServerMessage{Type: MsgInit, SessionID: sessionID, Status: &status}); err != nil {
		log.Debugf("session %s: sending init: %v", sessionID, err)
		return
	}
	log.Debugf("session %s: connected", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if s.hub != nil {
		id, events := s.hub.Register()
		defer s.hub.Unregister(id)
		go s.forwardEvents(ctx, ws, events)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("session %s: read failed: %v", sessionID, err)
			}
			log.Debugf("session %s: closed", sessionID)
			return
		}

		var (
			msg   ClientMessage
			reply ServerMessage
		)
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = ServerMessage{Type: MsgError, Error: "Invalid message", Message: err.Error()}
		} else {
			reply = s.handleClientMessage(session, msg)
		}

		if err := ws.send(reply); err != nil {
			log.Debugf("session %s: write failed: %v", sessionID, err)
			return
		}
	}
}

func (s *Server) handleClientMessage(session *search.Session, msg ClientMessage) ServerMessage {
	var (
		page search.Page
		err  error
	)

	switch msg.Type {
	case MsgSearch:
		if f, blocked := s.blockingFailure(); blocked {
			return ServerMessage{
				Type:     MsgError,
				Error:    string(f.Code),
				Message:  f.Description,
				Redirect: report.ErrorURL(s.errorPage, f),
			}
		}
		var ok bool
		page, ok = session.DoSearch(msg.Query)
		if !ok {
			return ServerMessage{Type: MsgError, Error: "Missing query", Message: "Query must not be blank"}
		}
	case MsgPage:
		page, err = session.ShowPage(msg.Page)
	case MsgNext:
		page, err = session.NextPage()
	case MsgPrev:
		page, err = session.PrevPage()
	case MsgHome:
		session.GoHome()
		return ServerMessage{Type: MsgHome}
	case MsgRestore:
		if msg.Entry == nil {
			return ServerMessage{Type: MsgError, Error: "Invalid message", Message: "restore requires an entry"}
		}
		var ok bool
		page, ok = session.Restore(*msg.Entry)
		if !ok {
			return ServerMessage{Type: MsgHome}
		}
	default:
		return ServerMessage{Type: MsgError, Error: "Invalid message", Message: "unknown message type " + msg.Type}
	}

	if errors.Is(err, search.ErrNoSearch) {
		return ServerMessage{Type: MsgError, Error: "No active search", Message: err.Error()}
	}

	resp := NewSearchResponse(session.Query(), page)
	return ServerMessage{Type: MsgPage, Page: &resp}
}

func (s *Server) forwardEvents(ctx context.Context, ws *wsConn, events <-chan realtime.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var msg ServerMessage
			switch ev.Type {
			case realtime.TypeReload:
				loadedAt := ev.LoadedAt
				msg = ServerMessage{Type: MsgReload, Count: ev.Count, LoadedAt: &loadedAt}
			case realtime.TypeLoadFailed:
				msg = ServerMessage{Type: MsgError, Error: ev.ErrorCode, Message: ev.Message}
			case realtime.TypeReloadFailed:
				msg = ServerMessage{Type: MsgReloadFailed, Count: ev.Count, Error: ev.ErrorCode, Message: ev.Message}
			default:
				continue
			}
			if err := ws.send(msg); err != nil {
				s.log.Debugf("forwarding %s event: %v", ev.Type, err)
				return
			}
		}
	}
}
