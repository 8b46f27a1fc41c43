// Package discovery finds Home Assistant servers on the local network.
//
// Home Assistant's zeroconf integration registers a "_home-assistant._tcp"
// service whose TXT records carry the location name, version, instance UUID
// and the configured internal and base URLs. The scanner browses for that
// service for a fixed time and returns one Instance per server.
//
// # Usage Example
//
//	instances, err := discovery.Discover(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, inst := range instances {
//	    fmt.Printf("%s -> HA_URL=%s\n", inst.DisplayName(), inst.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - The server must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
