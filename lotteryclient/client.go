// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lotteryclient talks to a running lottery service over HTTP and websocket.
package lotteryclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/vechain/lottery/api/draws"
	"github.com/vechain/lottery/api/node"
	"github.com/vechain/lottery/auth"
	"github.com/vechain/lottery/notify"
)

var ErrNot200Status = errors.New("not 200 status code")

// StatusError carries the status and body of a non 200 response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error - status code %d - %s", e.Code, strings.TrimSpace(e.Body))
}

func (e *StatusError) Unwrap() error { return ErrNot200Status }

// Client is a lottery API client.
type Client struct {
	url string
	c   *http.Client
}

// New creates a client for the service at url.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{url: strings.TrimSuffix(url, "/"), c: c}
}

// Draw submits a signed request and returns the published record.
func (c *Client) Draw(req *auth.Request) (*notify.Record, error) {
	body, err := c.httpPOST(c.url+"/draws", draws.NewDrawRequest(req))
	if err != nil {
		return nil, errors.WithMessage(err, "unable to request draw")
	}
	var rec notify.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.WithMessage(err, "unable to unmarshal record")
	}
	return &rec, nil
}

// Verify asks the service to replay a record.
func (c *Client) Verify(rec *notify.Record) (*draws.VerifyResult, error) {
	body, err := c.httpPOST(c.url+"/draws/verify", rec)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to verify record")
	}
	var res draws.VerifyResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.WithMessage(err, "unable to unmarshal verify result")
	}
	return &res, nil
}

// NodeInfo returns the deployment description.
func (c *Client) NodeInfo() (*node.Info, error) {
	body, err := c.httpGET(c.url + "/node/info")
	if err != nil {
		return nil, errors.WithMessage(err, "unable to get node info")
	}
	var info node.Info
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.WithMessage(err, "unable to unmarshal node info")
	}
	return &info, nil
}

// RecentDraws returns up to limit of the latest draws the service retains, oldest first.
func (c *Client) RecentDraws(limit int) ([]*notify.Record, error) {
	body, err := c.httpGET(c.url + "/subscriptions/draw/recent?limit=" + strconv.Itoa(limit))
	if err != nil {
		return nil, errors.WithMessage(err, "unable to get recent draws")
	}
	var recs []*notify.Record
	if err := json.Unmarshal(body, &recs); err != nil {
		return nil, errors.WithMessage(err, "unable to unmarshal draws")
	}
	return recs, nil
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "perform request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewReader(data))
}

// Event is one item of a subscription: a record or the error that ended the stream.
type Event struct {
	Record *notify.Record
	Error  error
}

// SubscribeDraws streams records from the service. A nil pos starts with the next draw.
// The channel is closed after the first error.
func (c *Client) SubscribeDraws(pos *uint64) (<-chan Event, func(), error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse url")
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return nil, nil, errors.Errorf("invalid url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/subscriptions/draw"
	if pos != nil {
		u.RawQuery = "pos=" + strconv.FormatUint(*pos, 10)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to connect")
	}

	events := make(chan Event)
	done := make(chan struct{})
	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var rec notify.Record
			if err := conn.ReadJSON(&rec); err != nil {
				select {
				case events <- Event{Error: err}:
				case <-done:
				}
				return
			}
			select {
			case events <- Event{Record: &rec}:
			case <-done:
				return
			}
		}
	}()

	var closed bool
	stop := func() {
		if !closed {
			closed = true
			close(done)
			conn.Close()
		}
	}
	return events, stop, nil
}
