package opener_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/opener"
	"github.com/connhold/connhold/options"
	"github.com/connhold/connhold/transport"
	_ "github.com/connhold/connhold/transport/tcp"
)

// sink accepts and parks connections, counting them.
type sink struct {
	l net.Listener

	sync.Mutex
	conns []net.Conn
}

func startSink(t *testing.T) *sink {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %s", err)
	}
	s := &sink{l: l}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			s.Lock()
			s.conns = append(s.conns, conn)
			s.Unlock()
		}
	}()
	t.Cleanup(s.close)
	return s
}

func (s *sink) addr() string {
	return "tcp://" + s.l.Addr().String()
}

func (s *sink) count() int {
	s.Lock()
	defer s.Unlock()
	return len(s.conns)
}

func (s *sink) close() {
	s.l.Close()
	s.Lock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.Unlock()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestOpenCount(t *testing.T) {
	s := startSink(t)

	o, err := opener.New(s.addr(), nil)
	if err != nil {
		t.Fatalf("New error: %s", err)
	}
	defer o.Close()

	opened := o.Open(3)
	if opened != 3 {
		t.Errorf("expected 3 opened, got %d", opened)
	}
	if active := o.Active(); active != 3 {
		t.Errorf("expected 3 active, got %d", active)
	}
	if failed := o.Failed(); failed != 0 {
		t.Errorf("expected 0 failed, got %d", failed)
	}
	waitFor(t, "sink connections", func() bool { return s.count() == 3 })
}

func TestOpenZero(t *testing.T) {
	s := startSink(t)

	o, err := opener.New(s.addr(), nil)
	if err != nil {
		t.Fatalf("New error: %s", err)
	}
	defer o.Close()

	if opened := o.Open(0); opened != 0 {
		t.Errorf("expected 0 opened, got %d", opened)
	}
	// must not block
	o.Wait()
	if count := s.count(); count != 0 {
		t.Errorf("expected no connections, got %d", count)
	}
}

func TestOpenFailed(t *testing.T) {
	// an endpoint nothing listens on
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %s", err)
	}
	addr := "tcp://" + l.Addr().String()
	l.Close()

	o, err := opener.New(addr, options.OptionValues{
		transport.OptionDialTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("New error: %s", err)
	}
	defer o.Close()

	if opened := o.Open(2); opened != 0 {
		t.Errorf("expected 0 opened, got %d", opened)
	}
	if failed := o.Failed(); failed != 2 {
		t.Errorf("expected 2 failed, got %d", failed)
	}
	// failed attempts hold nothing
	o.Wait()
}

func TestBadTransport(t *testing.T) {
	if _, err := opener.New("foo://127.0.0.1:6379", nil); err != errs.ErrBadTransport {
		t.Errorf("expected ErrBadTransport, got %v", err)
	}
}

func TestWaitUntilClosed(t *testing.T) {
	s := startSink(t)

	o, err := opener.New(s.addr(), nil)
	if err != nil {
		t.Fatalf("New error: %s", err)
	}

	if opened := o.Open(2); opened != 2 {
		t.Fatalf("expected 2 opened, got %d", opened)
	}

	waited := make(chan struct{})
	go func() {
		o.Wait()
		close(waited)
	}()

	// connections are held, so the join must still be pending
	select {
	case <-waited:
		t.Fatalf("Wait returned while connections were held")
	case <-time.After(100 * time.Millisecond):
	}

	if err := o.Close(); err != nil {
		t.Fatalf("Close error: %s", err)
	}
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatalf("Wait did not return after Close")
	}
	if active := o.Active(); active != 0 {
		t.Errorf("expected 0 active after Close, got %d", active)
	}

	if err := o.Close(); err != errs.ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestPeerCloseReleasesHold(t *testing.T) {
	s := startSink(t)

	o, err := opener.New(s.addr(), nil)
	if err != nil {
		t.Fatalf("New error: %s", err)
	}
	defer o.Close()

	if opened := o.Open(1); opened != 1 {
		t.Fatalf("expected 1 opened, got %d", opened)
	}
	waitFor(t, "sink connection", func() bool { return s.count() == 1 })

	// peer drops the connection; the holder must notice and finish
	s.Lock()
	s.conns[0].Close()
	s.Unlock()

	o.Wait()
	if active := o.Active(); active != 0 {
		t.Errorf("expected 0 active, got %d", active)
	}
}
