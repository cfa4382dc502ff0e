// Package ws implements the websocket transport. To enable it simply
// import it.
package ws

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/options"
	"github.com/connhold/connhold/transport"
)

type (
	wsTran string

	dialer struct {
		options.Options
		addr string
		url  *url.URL
	}

	// Listener websocket listener, exported for self serving
	Listener struct {
		options.Options
		addr     string
		URL      *url.URL
		upgrader websocket.Upgrader
		*http.ServeMux
		htsvr    *http.Server
		listener net.Listener
		pending  chan *wsConn
		sync.Mutex
		closedq chan struct{}
	}

	wsConn struct {
		*websocket.Conn
		laddr net.Addr
		raddr net.Addr
		r     io.Reader
	}

	address string
)

const (
	// Transport is a transport.Transport for Websocket.
	Transport = wsTran("ws")

	subprotocol = "connhold.binary"
)

func init() {
	transport.RegisterTransport(Transport)
}

func noCheckOrigin(r *http.Request) bool {
	return true
}

// address
func (a address) Network() string {
	return string(Transport)
}

func (a address) String() string {
	return string(a)
}

// wsConn presents a websocket binary-message stream as a net.Conn.
func (c *wsConn) LocalAddr() net.Addr {
	return c.laddr
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.raddr
}

func (c *wsConn) Read(b []byte) (n int, err error) {
	if c.r == nil {
		if _, c.r, err = c.Conn.NextReader(); err != nil {
			return
		}
	}
	n, err = c.r.Read(b)
	if err == io.EOF {
		c.r = nil
		if n == 0 {
			return c.Read(b)
		}
		err = nil
	}
	return
}

func (c *wsConn) Write(b []byte) (n int, err error) {
	err = c.Conn.WriteMessage(websocket.BinaryMessage, b)
	n = len(b)
	return
}

func (c *wsConn) SetDeadline(t time.Time) (err error) {
	if err = c.Conn.SetReadDeadline(t); err != nil {
		return
	}
	return c.Conn.SetWriteDeadline(t)
}

// dialer

func (d *dialer) Dial() (_ transport.Connection, err error) {
	var ws *websocket.Conn

	wd := &websocket.Dialer{
		Subprotocols:     []string{subprotocol},
		HandshakeTimeout: transport.OptionDialTimeout.ValueFrom(d.Options),
	}
	// config
	if val, ok := d.GetOption(OptionReadBufferSize); ok {
		wd.ReadBufferSize = OptionReadBufferSize.Value(val)
	}
	if val, ok := d.GetOption(OptionWriteBufferSize); ok {
		wd.WriteBufferSize = OptionWriteBufferSize.Value(val)
	}

	if ws, _, err = wd.Dial(d.url.String(), nil); err != nil {
		return nil, err
	}

	if ws.Subprotocol() != subprotocol {
		ws.Close()
		return nil, errs.ErrBadProtocol
	}

	c := &wsConn{
		Conn:  ws,
		laddr: ws.LocalAddr(),
		raddr: address(d.addr),
	}

	return transport.NewConnection(Transport, c)
}

// listener

// Listen start listen
func (l *Listener) Listen() (err error) {
	select {
	case <-l.closedq:
		return errs.ErrClosed
	default:
	}

	l.pending = make(chan *wsConn, ListenerOptionPendingSize.ValueFrom(l.Options))
	// config
	if val, ok := l.GetOption(OptionReadBufferSize); ok {
		l.upgrader.ReadBufferSize = OptionReadBufferSize.Value(val)
	}
	if val, ok := l.GetOption(OptionWriteBufferSize); ok {
		l.upgrader.WriteBufferSize = OptionWriteBufferSize.Value(val)
	}
	if !ListenerOptionCheckOrigin.ValueFrom(l.Options) {
		l.upgrader.CheckOrigin = noCheckOrigin
	}

	var taddr *net.TCPAddr
	if taddr, err = transport.ResolveTCPAddr(l.URL.Host); err != nil {
		return err
	}

	if l.listener, err = net.ListenTCP("tcp", taddr); err != nil {
		return
	}
	l.htsvr = &http.Server{Handler: l.ServeMux}
	go l.htsvr.Serve(l.listener)
	return nil
}

// Accept accept a pending connection
func (l *Listener) Accept() (transport.Connection, error) {
	if l.listener == nil {
		return nil, errs.ErrBadOperateState
	}

	select {
	case c := <-l.pending:
		return transport.NewConnection(Transport, c)
	case <-l.closedq:
		return nil, errs.ErrClosed
	}
}

// Address the listening address
func (l *Listener) Address() string {
	if l.listener != nil {
		u := *l.URL
		u.Host = l.listener.Addr().String()
		return u.String()
	}
	return l.URL.String()
}

// Close stop listen
func (l *Listener) Close() error {
	l.Lock()
	select {
	case <-l.closedq:
		l.Unlock()
		return errs.ErrClosed
	default:
		close(l.closedq)
	}
	l.Unlock()

	if l.listener != nil {
		l.listener.Close()
	}

CLOSING:
	for {
		select {
		case c := <-l.pending:
			c.Close()
		default:
			break CLOSING
		}
	}
	return nil
}

func (l *Listener) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	ws, err := l.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		return
	}

	select {
	case <-l.closedq:
		ws.Close()
		return
	default:
	}

	if ws.Subprotocol() != subprotocol {
		ws.Close()
		return
	}

	c := &wsConn{
		Conn:  ws,
		laddr: address(l.addr),
		raddr: ws.RemoteAddr(),
	}

	l.pending <- c
}

func (t wsTran) Scheme() string {
	return string(t)
}

func (t wsTran) NewDialer(addr string) (transport.Dialer, error) {
	var (
		err error
		url *url.URL
	)
	if url, addr, err = parseAddressToURL(t, addr); err != nil {
		return nil, err
	}

	d := &dialer{
		Options: options.NewOptions(),
		addr:    addr,
		url:     url,
	}
	return d, nil
}

func (t wsTran) NewListener(addr string) (transport.Listener, error) {
	var (
		err error
		url *url.URL
	)
	if url, addr, err = parseAddressToURL(t, addr); err != nil {
		return nil, err
	}
	if url.Path == "" {
		url.Path = "/"
	}

	l := &Listener{
		Options: options.NewOptions(),
		addr:    addr,
		URL:     url,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{subprotocol},
		},
		closedq: make(chan struct{}),
	}
	l.ServeMux = http.NewServeMux()
	l.ServeMux.Handle(l.URL.Path, l)

	return l, nil
}

func parseAddressToURL(t transport.Transport, address string) (u *url.URL, addr string, err error) {
	if addr, err = transport.StripScheme(t, address); err != nil {
		return
	}
	u, err = url.Parse(address)
	return
}
