// Package server implements a connection sink: it accepts connections up to
// a configured cap, discards whatever the peers send, and keeps an
// active-connection gauge.
package server

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/transport"
)

type (
	// Server accepts and holds inbound connections.
	Server struct {
		config Config
		l      transport.Listener

		// slots gate intake: one token per admitted connection.
		slots  chan struct{}
		active *atomic.Int64
		served *atomic.Int64

		wg sync.WaitGroup

		sync.Mutex
		conns   map[transport.Connection]struct{}
		closedq chan struct{}
	}
)

// New create a Server from config.
func New(config Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	t := transport.GetTransportFromAddr(config.Addr)
	if t == nil {
		return nil, errs.ErrBadTransport
	}
	l, err := t.NewListener(config.Addr)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:  config,
		l:       l,
		slots:   make(chan struct{}, config.MaxConnections),
		active:  atomic.NewInt64(0),
		served:  atomic.NewInt64(0),
		conns:   make(map[transport.Connection]struct{}),
		closedq: make(chan struct{}),
	}, nil
}

// Run listen and serve until Close. While the connection cap is reached,
// intake pauses and resumes as connections finish.
func (s *Server) Run() error {
	if err := s.l.Listen(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"addr":     s.l.Address(),
		"maxConns": s.config.MaxConnections,
	}).Info("listening")

	go s.reportLoop()

	for {
		// take a slot before accepting; blocks at the cap
		select {
		case s.slots <- struct{}{}:
		case <-s.closedq:
			return nil
		}

		conn, err := s.l.Accept()
		if err != nil {
			<-s.slots
			select {
			case <-s.closedq:
				return nil
			default:
			}
			log.WithError(err).Error("accept")
			// Debounce a little bit, to avoid thrashing the CPU.
			time.Sleep(time.Second / 100)
			continue
		}

		s.Lock()
		select {
		case <-s.closedq:
			s.Unlock()
			<-s.slots
			conn.Close()
			return nil
		default:
		}
		s.conns[conn] = struct{}{}
		s.Unlock()

		s.wg.Add(1)
		go s.serve(conn)
	}
}

// serve discard inbound bytes until the peer goes away, then release the slot.
func (s *Server) serve(conn transport.Connection) {
	defer s.wg.Done()

	count := s.active.Inc()
	s.served.Inc()
	log.WithFields(log.Fields{
		"remoteAddress": conn.RemoteAddress(),
		"active":        count,
	}).Info("connection accepted")

	buf := make([]byte, 4096)
	for {
		if s.config.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout)); err != nil {
				break
			}
		}
		if _, err := conn.Read(buf); err != nil {
			break
		}
	}

	s.Lock()
	delete(s.conns, conn)
	s.Unlock()
	conn.Close()
	<-s.slots

	count = s.active.Dec()
	log.WithFields(log.Fields{
		"remoteAddress": conn.RemoteAddress(),
		"active":        count,
	}).Info("connection finished")
}

// reportLoop log the active-connection gauge once per second.
func (s *Server) reportLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.WithFields(log.Fields{
				"active": s.active.Load(),
				"served": s.served.Load(),
			}).Info("connections")
		case <-s.closedq:
			return
		}
	}
}

// Active the number of currently served connections.
func (s *Server) Active() int64 {
	return s.active.Load()
}

// Served the total number of connections accepted so far.
func (s *Server) Served() int64 {
	return s.served.Load()
}

// Address the listening address; valid after Run has started listening.
func (s *Server) Address() string {
	return s.l.Address()
}

// Close stop listening, drop live connections and join the handlers.
func (s *Server) Close() error {
	s.Lock()
	select {
	case <-s.closedq:
		s.Unlock()
		return errs.ErrClosed
	default:
		close(s.closedq)
	}
	conns := s.conns
	s.conns = make(map[transport.Connection]struct{})
	s.Unlock()

	s.l.Close()
	for conn := range conns {
		conn.Close()
	}
	s.wg.Wait()

	log.WithField("active", s.active.Load()).Info("server closed")
	return nil
}
