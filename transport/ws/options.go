package ws

import (
	"github.com/connhold/connhold/options"
)

// options
var (
	// OptionReadBufferSize sets the websocket read buffer size.
	OptionReadBufferSize = options.NewIntOption("ws.readBufferSize", 0)
	// OptionWriteBufferSize sets the websocket write buffer size.
	OptionWriteBufferSize = options.NewIntOption("ws.writeBufferSize", 0)
	// ListenerOptionPendingSize sets the accept queue size of a listener.
	ListenerOptionPendingSize = options.NewIntOption("ws.listener.pendingSize", 16)
	// ListenerOptionCheckOrigin enables request origin checking.
	ListenerOptionCheckOrigin = options.NewBoolOption("ws.listener.checkOrigin", false)
)
