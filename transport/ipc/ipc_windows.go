//go:build windows

// Package ipc implements the IPC transport on top of Windows Named Pipes.
package ipc

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/connhold/connhold/errs"
	"github.com/connhold/connhold/options"
	"github.com/connhold/connhold/transport"
)

type (
	dialer struct {
		options.Options
		path string
	}

	listener struct {
		options.Options
		path     string
		listener net.Listener
	}
)

func (d *dialer) Dial() (_ transport.Connection, err error) {
	var timeout *time.Duration
	if t := transport.OptionDialTimeout.ValueFrom(d.Options); t > 0 {
		timeout = &t
	}
	conn, err := winio.DialPipe("\\\\.\\pipe\\"+d.path, timeout)
	if err != nil {
		return nil, err
	}
	return transport.NewConnection(Transport, conn)
}

func (l *listener) Listen() error {
	config := &winio.PipeConfig{
		InputBufferSize:    int32(ListenerOptionInputBufferSize.ValueFrom(l.Options)),
		OutputBufferSize:   int32(ListenerOptionOutputBufferSize.ValueFrom(l.Options)),
		SecurityDescriptor: ListenerOptionSecurityDescriptor.ValueFrom(l.Options),
		MessageMode:        false,
	}

	listener, err := winio.ListenPipe("\\\\.\\pipe\\"+l.path, config)
	if err != nil {
		return err
	}
	l.listener = listener
	return nil
}

func (l *listener) Accept() (transport.Connection, error) {
	if l.listener == nil {
		return nil, errs.ErrBadOperateState
	}

	conn, err := l.listener.Accept()
	if err != nil {
		return nil, err
	}
	return transport.NewConnection(Transport, conn)
}

func (l *listener) Address() string {
	return "ipc://" + l.path
}

func (l *listener) Close() error {
	if l.listener == nil {
		return nil
	}
	return l.listener.Close()
}

func (t ipcTran) NewDialer(address string) (transport.Dialer, error) {
	var err error
	if address, err = transport.StripScheme(t, address); err != nil {
		return nil, err
	}

	d := &dialer{
		Options: options.NewOptions(),
		path:    address,
	}

	return d, nil
}

// NewListener implements the Transport NewListener method.
func (t ipcTran) NewListener(address string) (transport.Listener, error) {
	var err error
	if address, err = transport.StripScheme(t, address); err != nil {
		return nil, err
	}

	l := &listener{
		Options: options.NewOptions(),
		path:    address,
	}

	return l, nil
}
