package transport

import (
	"net"

	"github.com/connhold/connhold/options"
)

type (
	// Connection is a raw stream connection between peers. No framing is
	// imposed; bytes pass through as the underlying transport delivers them.
	Connection interface {
		net.Conn

		Transport() Transport
		LocalAddress() string
		RemoteAddress() string
	}

	// Dialer is dialer
	Dialer interface {
		options.Options

		Dial() (Connection, error)
	}

	// Listener is listener
	Listener interface {
		options.Options

		Listen() error
		Accept() (Connection, error)
		Close() error
		Address() string
	}

	// Transport is transport
	Transport interface {
		Scheme() string
		NewDialer(address string) (Dialer, error)
		NewListener(address string) (Listener, error)
	}
)
