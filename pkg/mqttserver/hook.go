package mqttserver

import (
	"net"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	"github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

// StationHook handles connection bookkeeping and access control for
// the driver station broker.
type StationHook struct {
	mqtt.HookBase

	l hclog.Logger

	clientPrefix string
	tablePrefix  string

	peers int64
}

func newHook(l hclog.Logger, clientPrefix, table string) *StationHook {
	sh := new(StationHook)
	sh.l = l
	sh.clientPrefix = clientPrefix
	sh.tablePrefix = table + "/"
	return sh
}

// Provides flags which methods the server will invoke this hook for.
// Adding or removing methods in this file requires updating this
// value!
func (sh *StationHook) Provides(b byte) bool {
	provides := map[byte]struct{}{
		mqtt.OnACLCheck:            struct{}{},
		mqtt.OnConnectAuthenticate: struct{}{},
		mqtt.OnConnect:             struct{}{},
		mqtt.OnDisconnect:          struct{}{},
		mqtt.OnSessionEstablished:  struct{}{},
		mqtt.OnStarted:             struct{}{},
		mqtt.OnSubscribed:          struct{}{},
	}
	_, ok := provides[b]
	return ok
}

// ID identifies this hook in the listing.
func (sh *StationHook) ID() string {
	return "StationHook"
}

// OnStarted happens after the listeners are bound and the server is
// ready to process connections.
func (sh *StationHook) OnStarted() {
	sh.l.Info("Ready for connections")
}

// OnSessionEstablished happens after a client is completely connected
// and ready to send and receive data.
func (sh *StationHook) OnSessionEstablished(cl *mqtt.Client, pk packets.Packet) {
	n := atomic.AddInt64(&sh.peers, 1)
	sh.l.Info("Client Connected", "client", cl.ID, "remote", cl.Net.Remote, "peers", n)
}

// OnConnect fires when a client connects, and we use this to forcibly
// clear all state for clients connecting to the server.
func (sh *StationHook) OnConnect(cl *mqtt.Client, pk packets.Packet) error {
	sh.l.Debug("Client Connect", "client", cl.ID)
	cl.ClearInflights()
	return nil
}

// OnDisconnect fires when a client is disconnected for any reason.
func (sh *StationHook) OnDisconnect(cl *mqtt.Client, err error, expire bool) {
	n := atomic.AddInt64(&sh.peers, -1)
	if n < 0 {
		atomic.StoreInt64(&sh.peers, 0)
		n = 0
	}
	sh.l.Info("Client Disconnected", "client", cl.ID, "expired", expire, "peers", n)
}

// OnConnectAuthenticate allows anyone to connect, but what they can
// then do is limited by the OnACLCheck below.
func (sh *StationHook) OnConnectAuthenticate(cl *mqtt.Client, pk packets.Packet) bool {
	return true
}

// OnACLCheck gets called to work out if a client should be allowed to
// do things or not.  Anyone may read, and anyone may write outside the
// driver station table.  Writes into the table are only accepted from
// the local machine or from clients identifying as a driver station.
func (sh *StationHook) OnACLCheck(cl *mqtt.Client, topic string, write bool) bool {
	if !write || !strings.HasPrefix(topic, sh.tablePrefix) {
		return true
	}

	if strings.HasPrefix(cl.ID, sh.clientPrefix) {
		return true
	}

	host, _, err := net.SplitHostPort(cl.Net.Remote)
	if err != nil {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// OnSubscribed logs subscriptions as they come in for a given client.
// Useful for debugging and normally a noop.
func (sh *StationHook) OnSubscribed(cl *mqtt.Client, pk packets.Packet, reasonCodes []byte) {
	s := cl.State.Subscriptions.GetAll()
	subs := []string{}
	for k := range s {
		subs = append(subs, k)
	}
	sh.l.Debug("Subscribed", "client", cl.ID, "subscriptions", subs)
}

// Peers returns the number of clients currently connected.
func (sh *StationHook) Peers() int {
	return int(atomic.LoadInt64(&sh.peers))
}
