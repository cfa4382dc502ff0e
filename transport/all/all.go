// Package all is used to register all transports. This allows a program
// to support all known transports with a single import.
package all

import (
	// import transports
	_ "github.com/connhold/connhold/transport/ipc"
	_ "github.com/connhold/connhold/transport/tcp"
	_ "github.com/connhold/connhold/transport/ws"
)
