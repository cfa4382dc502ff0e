package transport

import (
	"net"
	"sync"

	"github.com/connhold/connhold/errs"
)

// connection implements the Connection interface on top of net.Conn.
type connection struct {
	net.Conn
	transport Transport

	sync.Mutex
	closed bool
}

// NewConnection wrap a net.Conn as a transport Connection.
func NewConnection(t Transport, c net.Conn) (Connection, error) {
	return &connection{
		Conn:      c,
		transport: t,
	}, nil
}

func (conn *connection) Transport() Transport {
	return conn.transport
}

func (conn *connection) LocalAddress() string {
	return conn.transport.Scheme() + "://" + conn.Conn.LocalAddr().String()
}

func (conn *connection) RemoteAddress() string {
	return conn.transport.Scheme() + "://" + conn.Conn.RemoteAddr().String()
}

func (conn *connection) Close() error {
	conn.Lock()
	if conn.closed {
		conn.Unlock()
		return errs.ErrClosed
	}
	conn.closed = true
	conn.Unlock()

	return conn.Conn.Close()
}
