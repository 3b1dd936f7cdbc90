package tools

import (
	"net"
	"strings"

	"github.com/miekg/dns"

	"trustcheck/internal/errs"
	"trustcheck/pkg/models"
)

const (
	// DefaultResolvConf is where the system resolver configuration is read from.
	DefaultResolvConf = "/etc/resolv.conf"

	// FallbackResolver answers queries when the system has no resolver configured.
	FallbackResolver = "8.8.8.8:53"

	dnsPort = "53"
)

// ResolverSelection is the set of servers a lookup goes to and the label
// reported back to the caller.
type ResolverSelection struct {
	Servers  []string
	Reported string
}

// SystemConfigLoader returns the system resolver configuration.
type SystemConfigLoader func() (*dns.ClientConfig, error)

// LoadResolvConf reads DefaultResolvConf.
func LoadResolvConf() (*dns.ClientConfig, error) {
	return dns.ClientConfigFromFile(DefaultResolvConf)
}

// SelectResolver picks the custom nameserver when one is given, otherwise the
// system resolvers. A custom nameserver must be an IP literal; port 53 is implied.
func SelectResolver(nameserver string, loadSystem SystemConfigLoader) (ResolverSelection, error) {
	nameserver = strings.TrimSpace(nameserver)
	if nameserver != "" {
		ip := net.ParseIP(nameserver)
		if ip == nil {
			return ResolverSelection{}, errs.Validation("invalid DNS server address: %s", nameserver)
		}
		return ResolverSelection{
			Servers:  []string{net.JoinHostPort(ip.String(), dnsPort)},
			Reported: nameserver,
		}, nil
	}

	return systemResolvers(loadSystem), nil
}

func systemResolvers(loadSystem SystemConfigLoader) ResolverSelection {
	fallback := ResolverSelection{
		Servers:  []string{FallbackResolver},
		Reported: models.SystemDefaultNameserver,
	}
	if loadSystem == nil {
		return fallback
	}

	cfg, err := loadSystem()
	if err != nil || cfg == nil || len(cfg.Servers) == 0 {
		return fallback
	}

	port := cfg.Port
	if port == "" {
		port = dnsPort
	}

	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(s, port))
	}

	return ResolverSelection{
		Servers:  servers,
		Reported: strings.Join(cfg.Servers, ", "),
	}
}
