package hubcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/nexushub/nexushub/common"
)

// Client is a connection to the nexushub daemon over the framed socket
// protocol. One client holds one connection; method calls serialize on
// it, and Listen turns the connection into an update stream.
type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon, spawning it first if nothing is
// listening.
func NewClient() (*Client, error) {
	if err := ensureDaemon(); err != nil {
		return nil, err
	}
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to daemon: %s", err.Error())
	}
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{Handlers: make(map[common.UpdateType]Handler)},
	}, nil
}

// Dispatcher exposes the update dispatcher so callers can register
// handlers before Listen.
func (c *Client) Dispatcher() *Dispatcher {
	return c.d
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Listen blocks reading pushed updates, routing each through the
// dispatcher, until the connection drops or a handler returns
// ErrDisconnect.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			return fmt.Errorf("error reading: %s", err.Error())
		}
		err = c.d.process(buf)
		c.mu.RUnlock()
		if err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %s", err.Error())
		}
	}
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// block the updates listener while invoking a method so the reply
	// is consumed here instead
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	if err = write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	if err = json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, nil
	}
	return res.Update.Message, nil
}
