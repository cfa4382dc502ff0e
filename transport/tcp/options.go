package tcp

import (
	"github.com/connhold/connhold/options"
)

// options
var (
	// OptionNoDelay disables Nagle's algorithm on the connection.
	OptionNoDelay = options.NewBoolOption("tcp.noDelay", true)
	// OptionKeepAlive enables TCP keep-alive probes.
	OptionKeepAlive = options.NewBoolOption("tcp.keepAlive", true)
	// OptionKeepAliveTime sets the keep-alive probe period.
	OptionKeepAliveTime = options.NewTimeDurationOption("tcp.keepAliveTime", 0)
)
