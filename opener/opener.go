// Package opener opens a number of concurrent connections to one endpoint
// and holds them open until the peer drops them or the opener is closed.
package opener

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/options"
	"github.com/connhold/connhold/transport"
)

type (
	// Opener dials connections toward a fixed endpoint and keeps them open.
	Opener struct {
		addr string
		d    transport.Dialer

		active *atomic.Int64
		failed *atomic.Int64

		wg sync.WaitGroup

		sync.Mutex
		next    int
		conns   map[int]transport.Connection
		closedq chan struct{}
	}
)

// New create an Opener for the given endpoint address. Option values are
// applied to the underlying transport dialer.
func New(addr string, ovs options.OptionValues) (*Opener, error) {
	t := transport.GetTransportFromAddr(addr)
	if t == nil {
		return nil, errs.ErrBadTransport
	}

	d, err := t.NewDialer(addr)
	if err != nil {
		return nil, err
	}
	for opt, val := range ovs {
		if err := d.SetOption(opt, val); err != nil {
			return nil, err
		}
	}

	return &Opener{
		addr:    addr,
		d:       d,
		active:  atomic.NewInt64(0),
		failed:  atomic.NewInt64(0),
		next:    1,
		conns:   make(map[int]transport.Connection),
		closedq: make(chan struct{}),
	}, nil
}

// Open issue n concurrent connection attempts, one goroutine each. It blocks
// until every attempt has resolved and returns how many connected. The
// connections stay open in the background; use Wait to join them.
func (o *Opener) Open(n int) int {
	var (
		dialwg sync.WaitGroup
		opened = atomic.NewInt64(0)
	)

	o.Lock()
	first := o.next
	o.next += n
	o.Unlock()

DIALING:
	for i := first; i < first+n; i++ {
		select {
		case <-o.closedq:
			break DIALING
		default:
		}

		dialwg.Add(1)
		o.wg.Add(1)
		go func(index int) {
			defer o.wg.Done()

			conn, err := o.d.Dial()
			if err != nil {
				o.failed.Inc()
				dialwg.Done()
				log.WithFields(log.Fields{"index": index, "addr": o.addr}).
					WithError(err).
					Error("connection failed")
				return
			}

			o.Lock()
			select {
			case <-o.closedq:
				o.Unlock()
				dialwg.Done()
				conn.Close()
				return
			default:
			}
			o.conns[index] = conn
			o.Unlock()

			opened.Inc()
			count := o.active.Inc()
			log.WithFields(log.Fields{
				"index":         index,
				"localAddress":  conn.LocalAddress(),
				"remoteAddress": conn.RemoteAddress(),
				"active":        count,
			}).Info("connection started")
			dialwg.Done()

			o.hold(index, conn)
		}(i)
	}

	dialwg.Wait()
	return int(opened.Load())
}

// hold block on the connection until the peer closes it, an error occurs,
// or the opener is closed. Inbound bytes are discarded.
func (o *Opener) hold(index int, conn transport.Connection) {
	buf := make([]byte, 128)
	for {
		if _, err := conn.Read(buf); err != nil {
			break
		}
	}

	o.Lock()
	delete(o.conns, index)
	o.Unlock()
	conn.Close()

	count := o.active.Dec()
	log.WithFields(log.Fields{"index": index, "active": count}).Debug("connection finished")
}

// Wait block until every connection-holding goroutine has terminated.
func (o *Opener) Wait() {
	o.wg.Wait()
}

// Active the number of currently open connections.
func (o *Opener) Active() int64 {
	return o.active.Load()
}

// Failed the number of failed connection attempts.
func (o *Opener) Failed() int64 {
	return o.failed.Load()
}

// Close close all held connections, releasing Wait.
func (o *Opener) Close() error {
	o.Lock()
	select {
	case <-o.closedq:
		o.Unlock()
		return errs.ErrClosed
	default:
		close(o.closedq)
	}
	conns := o.conns
	o.conns = make(map[int]transport.Connection)
	o.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	return nil
}
