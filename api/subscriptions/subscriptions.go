// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/api/utils"
	"github.com/vechain/lottery/co"
	"github.com/vechain/lottery/log"
	"github.com/vechain/lottery/metrics"
	"github.com/vechain/lottery/notify"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveConns = metrics.LazyLoadGauge("subscriptions_active_connections")
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	feed     *notify.Feed
	upgrader *websocket.Upgrader
	done     chan struct{}
	goes     co.Goes
}

// New creates the draw stream. Origins "*" or an empty list accept any origin.
func New(feed *notify.Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin:       checkOrigin(allowedOrigins),
		},
		done: make(chan struct{}),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin || o == u.Host {
				return true
			}
		}
		return false
	}
}

// parsePosition reads the optional pos query: the feed sequence to start from.
// Without it the stream starts with the next draw.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	pos := req.URL.Query().Get("pos")
	if pos == "" {
		return s.feed.Head(), nil
	}
	n, err := strconv.ParseUint(pos, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	return n, nil
}

// defaultRecentLimit is the backlog length served when limit is omitted.
const defaultRecentLimit = 10

// handleRecentDraws serves the latest retained draws, oldest first, so a client can
// fill its view before opening the stream.
func (s *Subscriptions) handleRecentDraws(w http.ResponseWriter, req *http.Request) error {
	limit := defaultRecentLimit
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return utils.BadRequest(errors.New("limit: must be a non-negative integer"))
		}
		limit = n
	}
	recs := s.feed.Recent(limit)
	if recs == nil {
		recs = []*notify.Record{}
	}
	return utils.WriteJSON(w, recs)
}

func (s *Subscriptions) handleDrawSub(w http.ResponseWriter, req *http.Request) error {
	cursor, err := s.parsePosition(req)
	if err != nil {
		return err
	}
	// the waiter must exist before the first read of the feed
	waiter := s.feed.NewWaiter()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.goes.Go(func() {
		metricActiveConns().Add(1)
		defer metricActiveConns().Add(-1)

		if err := s.pipe(conn, cursor, waiter); err != nil {
			logger.Debug("subscription closed", "remote", conn.RemoteAddr(), "err", err)
		}
	})
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, cursor uint64, waiter co.Waiter) error {
	defer conn.Close()

	// the read loop only handles control frames and notices the peer going away
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var recs []*notify.Record
		recs, cursor = s.feed.Since(cursor)
		for _, rec := range recs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(rec); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed"))
		case <-closed:
			return nil
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter.C():
		}
	}
}

// Close ends every open stream and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.goes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/draw").
		Methods(http.MethodGet).
		Name("WS /subscriptions/draw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleDrawSub))

	sub.Path("/draw/recent").
		Methods(http.MethodGet).
		Name("GET /subscriptions/draw/recent").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRecentDraws))
}
