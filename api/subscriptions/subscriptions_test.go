// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/lottery/notify"
)

func newServer(t *testing.T, feed *notify.Feed, origins []string) (*Subscriptions, *httptest.Server) {
	subs := New(feed, origins)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return subs, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/draw" + query
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	resp.Body.Close()
	return conn
}

func read(t *testing.T, conn *websocket.Conn) *notify.Record {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var rec notify.Record
	require.NoError(t, conn.ReadJSON(&rec))
	return &rec
}

func TestDrawStream(t *testing.T) {
	feed := notify.NewFeed(8)
	feed.Notify(&notify.Record{Identifier: "old", Requested: 1, Values: []uint32{1}})

	_, ts := newServer(t, feed, nil)
	conn := dial(t, ts, "")
	defer conn.Close()

	// let the server register the connection before publishing
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, feed.Notify(&notify.Record{Identifier: "ord-1", Requested: 2, Values: []uint32{5, 6}}))
	require.NoError(t, feed.Notify(&notify.Record{Identifier: "ord-2", Requested: 1, Values: []uint32{7}}))

	rec := read(t, conn)
	assert.Equal(t, "ord-1", rec.Identifier)
	assert.Equal(t, []uint32{5, 6}, rec.Values)
	assert.Equal(t, "ord-2", read(t, conn).Identifier)
}

func TestDrawStreamFromPosition(t *testing.T) {
	feed := notify.NewFeed(8)
	for _, id := range []string{"a", "b", "c"} {
		feed.Notify(&notify.Record{Identifier: id})
	}

	_, ts := newServer(t, feed, nil)
	conn := dial(t, ts, "?pos=1")
	defer conn.Close()

	assert.Equal(t, "b", read(t, conn).Identifier)
	assert.Equal(t, "c", read(t, conn).Identifier)
}

func TestDrawStreamBadPosition(t *testing.T) {
	_, ts := newServer(t, notify.NewFeed(1), nil)

	res, err := http.Get(ts.URL + "/subscriptions/draw?pos=abc")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRecentDraws(t *testing.T) {
	feed := notify.NewFeed(4)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		feed.Notify(&notify.Record{Identifier: id})
	}
	_, ts := newServer(t, feed, nil)

	get := func(query string) (int, []notify.Record) {
		res, err := http.Get(ts.URL + "/subscriptions/draw/recent" + query)
		require.NoError(t, err)
		defer res.Body.Close()
		var recs []notify.Record
		if res.StatusCode == http.StatusOK {
			require.NoError(t, json.NewDecoder(res.Body).Decode(&recs))
		}
		return res.StatusCode, recs
	}
	ids := func(recs []notify.Record) []string {
		out := []string{}
		for _, r := range recs {
			out = append(out, r.Identifier)
		}
		return out
	}

	code, recs := get("?limit=2")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"d", "e"}, ids(recs))

	// the ring only keeps four
	_, recs = get("")
	assert.Equal(t, []string{"b", "c", "d", "e"}, ids(recs))

	_, recs = get("?limit=0")
	assert.Equal(t, []string{}, ids(recs))

	code, _ = get("?limit=-1")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCheckOrigin(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}
	assert.True(t, checkOrigin(nil)(req("http://any.example")))
	assert.True(t, checkOrigin([]string{"example.org"})(req("")))
	assert.True(t, checkOrigin([]string{"example.org"})(req("https://example.org")))
	assert.False(t, checkOrigin([]string{"example.org"})(req("https://evil.example")))
	assert.True(t, checkOrigin([]string{"*"})(req("https://evil.example")))
}

func TestCloseEndsStreams(t *testing.T) {
	subs, ts := newServer(t, notify.NewFeed(1), nil)
	conn := dial(t, ts, "")
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		subs.Close()
		close(done)
	}()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "%v", err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not return")
	}
}
