package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Instance is a Home Assistant server found on the network.
type Instance struct {
	// Name is the mDNS instance name, usually the location name
	Name string

	// Hostname is the mDNS hostname (e.g., "homeassistant.local.")
	Hostname string

	// IP is the first IPv4 address, or the first IPv6 address when there is none
	IP string

	// Port is the HTTP port (8123 unless the server says otherwise)
	Port int

	// Advertised TXT fields
	BaseURL      string
	InternalURL  string
	Version      string
	LocationName string
	UUID         string

	// Metadata holds every TXT record, including the ones above
	Metadata map[string]string

	DiscoveredAt time.Time
}

// URL returns the address to put in HA_URL: the advertised internal URL, then
// the base URL, then one built from the resolved address.
func (i *Instance) URL() string {
	for _, u := range []string{i.InternalURL, i.BaseURL} {
		if u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	return "http://" + net.JoinHostPort(i.IP, strconv.Itoa(i.Port))
}

// DisplayName prefers the configured location name over the mDNS instance name.
func (i *Instance) DisplayName() string {
	if i.LocationName != "" {
		return i.LocationName
	}
	return i.Name
}

// key identifies an instance across interfaces and address families.
func (i *Instance) key() string {
	if i.UUID != "" {
		return i.UUID
	}
	return i.Name
}

// String returns a human-readable description of the instance
func (i *Instance) String() string {
	version := i.Version
	if version == "" {
		version = "unknown version"
	}
	return fmt.Sprintf("%s (%s) at %s", i.DisplayName(), version, i.URL())
}
