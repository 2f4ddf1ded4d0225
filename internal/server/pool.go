package server

import (
	"log"
	"sync"
)

// Pool holds the connections of clients that attached for events.
// Attached clients receive every update the daemon broadcasts, such as
// items-updated after a successful poll.
type Pool struct {
	mu       sync.RWMutex
	l        *log.Logger
	attached map[*SyncConn]struct{}
}

func NewPool(l *log.Logger) *Pool {
	return &Pool{
		l:        l,
		attached: make(map[*SyncConn]struct{}),
	}
}

// Attach subscribes a connection to broadcasts. Attaching twice is a
// no-op.
func (p *Pool) Attach(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attached[conn] = struct{}{}
}

// Detach unsubscribes a connection. Called on every disconnect,
// attached or not.
func (p *Pool) Detach(conn *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.attached, conn)
}

// Broadcast writes one framed message to every attached client.
// Clients that fail to receive are dropped from the pool.
func (p *Pool) Broadcast(data []byte) {
	p.mu.RLock()
	conns := make([]*SyncConn, 0, len(p.attached))
	for conn := range p.attached {
		conns = append(conns, conn)
	}
	p.mu.RUnlock()

	var failed []*SyncConn
	for _, conn := range conns {
		if err := conn.Write(data); err != nil {
			p.l.Println("broadcast:", err.Error())
			failed = append(failed, conn)
		}
	}
	if len(failed) > 0 {
		p.mu.Lock()
		for _, conn := range failed {
			delete(p.attached, conn)
			_ = conn.Conn.Close()
		}
		p.mu.Unlock()
	}
}

// Count returns the number of attached clients.
func (p *Pool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.attached)
}
