package ipc

import (
	"github.com/connhold/connhold/transport"
)

type ipcTran int

const (
	// Transport is a transport.Transport for IPC.
	Transport = ipcTran(0)
)

func init() {
	transport.RegisterTransport(Transport)
}

func (t ipcTran) Scheme() string {
	return "ipc"
}
