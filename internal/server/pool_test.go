package server

import (
	"io"
	"log"
	"net"
	"sync"
	"testing"
)

func poolLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestPoolAttachDetach(t *testing.T) {
	p := NewPool(poolLogger())
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	conn := NewSyncConn(a)
	p.Attach(conn)
	p.Attach(conn)
	if p.Count() != 1 {
		t.Errorf("double attach must count once, got %d", p.Count())
	}
	p.Detach(conn)
	if p.Count() != 0 {
		t.Errorf("expected empty pool, got %d", p.Count())
	}
	// Detaching an unattached connection is fine.
	p.Detach(conn)
}

func TestPoolBroadcast(t *testing.T) {
	p := NewPool(poolLogger())
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	p.Attach(NewSyncConn(serverSide))

	var wg sync.WaitGroup
	wg.Add(1)
	var got []byte
	go func() {
		defer wg.Done()
		var mu sync.Mutex
		b, err := read(&mu, clientSide)
		if err != nil {
			t.Error(err)
			return
		}
		got = b
	}()

	p.Broadcast([]byte(`{"ok":true}`))
	wg.Wait()
	if string(got) != `{"ok":true}` {
		t.Errorf("unexpected broadcast payload: %s", got)
	}
}

func TestPoolBroadcastDropsDeadConnections(t *testing.T) {
	p := NewPool(poolLogger())
	a, b := net.Pipe()
	conn := NewSyncConn(a)
	p.Attach(conn)
	a.Close()
	b.Close()

	p.Broadcast([]byte("hello"))
	if p.Count() != 0 {
		t.Errorf("dead connection not dropped, pool size %d", p.Count())
	}
}
