package discovery

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/hatui/internal/logging"
)

const (
	// ServiceType is the service Home Assistant registers through its zeroconf integration
	ServiceType = "_home-assistant._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the Home Assistant HTTP port
	DefaultPort = 8123
)

// BrowseFunc starts an mDNS browse that delivers entries until ctx is done.
// It has the shape of (*zeroconf.Resolver).Browse.
type BrowseFunc func(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error

// Scanner handles mDNS discovery
type Scanner struct {
	// Timeout is how long to listen for announcements
	Timeout time.Duration

	// Browse defaults to a zeroconf resolver on all interfaces
	Browse BrowseFunc
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Browse:  browseAll,
	}
}

func browseAll(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	return resolver.Browse(ctx, service, domain, entries)
}

// Scan listens for Timeout and returns every instance heard, sorted by name.
// An instance announced on several interfaces is reported once.
func (s *Scanner) Scan(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	browse := s.Browse
	if browse == nil {
		browse = browseAll
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(map[string]*Instance)
	done := make(chan struct{})

	// found is only touched by this goroutine until done is closed.
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				inst := parseServiceEntry(entry)
				if inst == nil {
					continue
				}
				if _, dup := found[inst.key()]; dup {
					continue
				}
				found[inst.key()] = inst
				logging.Debug("Discovered Home Assistant instance",
					zap.String("name", inst.Name),
					zap.String("url", inst.URL()))
			}
		}
	}()

	if err := browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	instances := make([]*Instance, 0, len(found))
	for _, inst := range found {
		instances = append(instances, inst)
	}
	slices.SortFunc(instances, func(a, b *Instance) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())),
			strings.Compare(a.URL(), b.URL()),
		)
	})
	return instances, nil
}

// parseServiceEntry converts a zeroconf entry to an Instance, or nil when the
// entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	metadata := make(map[string]string, len(entry.Text))
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	inst := &Instance{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		BaseURL:      metadata["base_url"],
		InternalURL:  metadata["internal_url"],
		Version:      metadata["version"],
		LocationName: metadata["location_name"],
		UUID:         metadata["uuid"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
	if inst.Port == 0 {
		inst.Port = DefaultPort
	}

	// Without an address the instance is only reachable through an advertised URL.
	if ip == "" && inst.BaseURL == "" && inst.InternalURL == "" {
		return nil
	}
	return inst
}

// Discover scans with the given timeout.
func Discover(ctx context.Context, timeout time.Duration) ([]*Instance, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
