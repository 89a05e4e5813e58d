// Package mdns advertises the embedded broker so that a robot can
// find the driver station without a fixed address.
package mdns

import (
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-sockaddr"
	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service the broker is advertised under.
const ServiceType = "_gizmo-ds._tcp"

// Server wraps the underlying mDNS implementation to provide a
// simplified interface.
type Server struct {
	*mdns.Server
}

// NewServer advertises the broker bound at bind.  The instance is
// named after the team so that several stations can share a network.
func NewServer(team int, bind string) (*Server, error) {
	service, err := newService(team, bind)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, err
	}

	return &Server{server}, nil
}

func newService(team int, bind string) (*mdns.MDNSService, error) {
	host, portStr, err := net.SplitHostPort(bind)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ip := net.ParseIP(host)
	if ip == nil || ip.IsUnspecified() {
		// We throw away this error because the worst case is
		// that no address record is published.
		lAddr, _ := sockaddr.GetPrivateIP()
		ip = net.ParseIP(lAddr)
	}
	ips := []net.IP{}
	if ip != nil {
		ips = append(ips, ip)
	}

	instance := fmt.Sprintf("gizmo-ds-%d", team)
	info := []string{"Gizmo Driver Station", fmt.Sprintf("team=%d", team)}
	return mdns.NewMDNSService(instance, ServiceType, "", instance+".local.", port, ips, info)
}
