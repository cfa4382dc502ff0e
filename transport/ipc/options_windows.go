//go:build windows

package ipc

import (
	"github.com/connhold/connhold/options"
)

// Options
var (
	// ListenerOptionSecurityDescriptor represents a Windows security
	// descriptor in SDDL format (string). This can only be set on a
	// Listener, and must be set before the Listen routine is called.
	ListenerOptionSecurityDescriptor = options.NewStringOption("ipc.listener.securityDescriptor", "")

	// ListenerOptionInputBufferSize represents the Windows Named Pipe
	// input buffer size in bytes. Must be set before the Listener is
	// started.
	ListenerOptionInputBufferSize = options.NewIntOption("ipc.listener.inputBufferSize", 4096)

	// ListenerOptionOutputBufferSize represents the Windows Named Pipe
	// output buffer size in bytes. Must be set before the Listener is
	// started.
	ListenerOptionOutputBufferSize = options.NewIntOption("ipc.listener.outputBufferSize", 4096)
)
