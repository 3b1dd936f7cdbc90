package tools

import (
	"errors"
	"reflect"
	"testing"

	"github.com/miekg/dns"

	"trustcheck/internal/errs"
)

func TestSelectResolver(t *testing.T) {
	system := func() (*dns.ClientConfig, error) {
		return &dns.ClientConfig{Servers: []string{"192.0.2.1", "2001:db8::1"}, Port: "53"}, nil
	}

	tests := []struct {
		name         string
		nameserver   string
		loader       SystemConfigLoader
		wantServers  []string
		wantReported string
		wantErr      bool
	}{
		{
			name:         "custom IPv4 nameserver",
			nameserver:   "1.1.1.1",
			loader:       system,
			wantServers:  []string{"1.1.1.1:53"},
			wantReported: "1.1.1.1",
		},
		{
			name:         "custom IPv6 nameserver",
			nameserver:   "2606:4700:4700::1111",
			loader:       system,
			wantServers:  []string{"[2606:4700:4700::1111]:53"},
			wantReported: "2606:4700:4700::1111",
		},
		{
			name:         "surrounding whitespace is ignored",
			nameserver:   "  8.8.4.4 ",
			loader:       system,
			wantServers:  []string{"8.8.4.4:53"},
			wantReported: "8.8.4.4",
		},
		{
			name:         "empty uses system resolvers",
			nameserver:   "",
			loader:       system,
			wantServers:  []string{"192.0.2.1:53", "[2001:db8::1]:53"},
			wantReported: "192.0.2.1, 2001:db8::1",
		},
		{
			name:       "system loader error falls back",
			nameserver: "",
			loader: func() (*dns.ClientConfig, error) {
				return nil, errors.New("no resolv.conf")
			},
			wantServers:  []string{FallbackResolver},
			wantReported: "System Default",
		},
		{
			name:       "system without servers falls back",
			nameserver: "",
			loader: func() (*dns.ClientConfig, error) {
				return &dns.ClientConfig{}, nil
			},
			wantServers:  []string{FallbackResolver},
			wantReported: "System Default",
		},
		{
			name:         "nil loader falls back",
			nameserver:   "",
			loader:       nil,
			wantServers:  []string{FallbackResolver},
			wantReported: "System Default",
		},
		{
			name:       "hostname is rejected",
			nameserver: "dns.google",
			loader:     system,
			wantErr:    true,
		},
		{
			name:       "address with port is rejected",
			nameserver: "1.1.1.1:53",
			loader:     system,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectResolver(tt.nameserver, tt.loader)

			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got.Servers, tt.wantServers) {
				t.Errorf("Servers = %v, want %v", got.Servers, tt.wantServers)
			}
			if got.Reported != tt.wantReported {
				t.Errorf("Reported = %q, want %q", got.Reported, tt.wantReported)
			}
		})
	}
}

func TestSelectResolver_CustomPortFromSystemConfig(t *testing.T) {
	got, err := SelectResolver("", func() (*dns.ClientConfig, error) {
		return &dns.ClientConfig{Servers: []string{"127.0.0.1"}, Port: "5353"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Servers) != 1 || got.Servers[0] != "127.0.0.1:5353" {
		t.Errorf("Servers = %v", got.Servers)
	}
	if got.Reported != "127.0.0.1" {
		t.Errorf("Reported = %q", got.Reported)
	}
}
