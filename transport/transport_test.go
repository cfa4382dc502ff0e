package transport_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/transport"
	_ "github.com/connhold/connhold/transport/all"
)

func TestParseScheme(t *testing.T) {
	cases := []struct {
		addr   string
		scheme string
	}{
		{"tcp://127.0.0.1:6379", "tcp"},
		{"ipc:///tmp/test.sock", "ipc"},
		{"ws://127.0.0.1:6379/hold", "ws"},
		{"127.0.0.1:6379", ""},
	}
	for _, c := range cases {
		if scheme := transport.ParseScheme(c.addr); scheme != c.scheme {
			t.Errorf("ParseScheme(%q): expected %q, got %q", c.addr, c.scheme, scheme)
		}
	}
}

func TestGetTransport(t *testing.T) {
	for _, scheme := range []string{"tcp", "ipc", "ws"} {
		tp := transport.GetTransport(scheme)
		if tp == nil {
			t.Fatalf("transport %q not registered", scheme)
		}
		if tp.Scheme() != scheme {
			t.Errorf("expected scheme %q, got %q", scheme, tp.Scheme())
		}
	}

	if tp := transport.GetTransportFromAddr("foo://xxx"); tp != nil {
		t.Errorf("unexpected transport for unknown scheme")
	}
}

func TestStripScheme(t *testing.T) {
	tp := transport.GetTransport("tcp")

	addr, err := transport.StripScheme(tp, "tcp://127.0.0.1:6379")
	if err != nil {
		t.Fatalf("StripScheme error: %s", err)
	}
	if addr != "127.0.0.1:6379" {
		t.Errorf("expected stripped address, got %q", addr)
	}

	if _, err = transport.StripScheme(tp, "ipc:///tmp/x.sock"); err != errs.ErrBadTransport {
		t.Errorf("expected ErrBadTransport, got %v", err)
	}
}

func TestResolveTCPAddr(t *testing.T) {
	addr, err := transport.ResolveTCPAddr("*:6379")
	if err != nil {
		t.Fatalf("ResolveTCPAddr error: %s", err)
	}
	if addr.Port != 6379 {
		t.Errorf("expected port 6379, got %d", addr.Port)
	}
}

func TestConnectionRoundTrip(t *testing.T) {
	transports := []struct {
		name string
		addr func(t *testing.T) string
	}{
		{"tcp", func(t *testing.T) string { return "tcp://127.0.0.1:0" }},
		{"ipc", func(t *testing.T) string { return "ipc://" + t.TempDir() + "/test.sock" }},
		{"ws", func(t *testing.T) string { return "ws://127.0.0.1:0/hold" }},
	}
	for idx := range transports {
		tp := transports[idx]
		t.Run(tp.name, func(t *testing.T) {
			testConnectionRoundTrip(t, tp.addr(t))
		})
	}
}

func testConnectionRoundTrip(t *testing.T, addr string) {
	tp := transport.GetTransportFromAddr(addr)
	if tp == nil {
		t.Fatalf("no transport for %q", addr)
	}

	l, err := tp.NewListener(addr)
	if err != nil {
		t.Fatalf("NewListener error: %s", err)
	}
	if err = l.Listen(); err != nil {
		t.Fatalf("Listen error: %s", err)
	}
	defer l.Close()

	accepted := make(chan transport.Connection, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	d, err := tp.NewDialer(l.Address())
	if err != nil {
		t.Fatalf("NewDialer error: %s", err)
	}
	cli, err := d.Dial()
	if err != nil {
		t.Fatalf("Dial error: %s", err)
	}
	defer cli.Close()

	srv := <-accepted
	defer srv.Close()

	if !strings.HasPrefix(cli.RemoteAddress(), tp.Scheme()+"://") {
		t.Errorf("remote address %q lacks scheme prefix", cli.RemoteAddress())
	}
	if !strings.HasPrefix(srv.LocalAddress(), tp.Scheme()+"://") {
		t.Errorf("local address %q lacks scheme prefix", srv.LocalAddress())
	}

	// client to server
	sent := []byte("hold on")
	if _, err = cli.Write(sent); err != nil {
		t.Fatalf("Write error: %s", err)
	}
	buf := make([]byte, len(sent))
	if _, err = srv.Read(buf); err != nil {
		t.Fatalf("Read error: %s", err)
	}
	if !bytes.Equal(sent, buf) {
		t.Errorf("expected %q, got %q", sent, buf)
	}

	// server to client
	if _, err = srv.Write(sent); err != nil {
		t.Fatalf("Write error: %s", err)
	}
	if _, err = cli.Read(buf); err != nil {
		t.Fatalf("Read error: %s", err)
	}
	if !bytes.Equal(sent, buf) {
		t.Errorf("expected %q, got %q", sent, buf)
	}

	// double close reports closed
	if err = cli.Close(); err != nil {
		t.Fatalf("Close error: %s", err)
	}
	if err = cli.Close(); err != errs.ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
