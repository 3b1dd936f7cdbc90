package tools

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"trustcheck/internal/errs"
	"trustcheck/pkg/models"
)

const (
	ednsUDPSize = 4096

	// SignatureTimeLayout renders RRSIG inception and expiration.
	SignatureTimeLayout = "2006-01-02 15:04:05 UTC"
)

// ErrNoRecords is returned when a lookup succeeds but carries no records of the
// requested type.
var ErrNoRecords = errors.New("no records found")

// Exchanger sends a single DNS message. *dns.Client satisfies it.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// DNSQuerier sends DNSSEC-aware queries over UDP, repeating a truncated answer over TCP.
type DNSQuerier struct {
	udp Exchanger
	tcp Exchanger
}

func NewDNSQuerier(timeout time.Duration) *DNSQuerier {
	return &DNSQuerier{
		udp: &dns.Client{Net: "udp", Timeout: timeout, UDPSize: ednsUDPSize},
		tcp: &dns.Client{Net: "tcp", Timeout: timeout},
	}
}

// NewDNSQuerierWith builds a querier on top of custom exchangers. tcp may be nil.
func NewDNSQuerierWith(udp, tcp Exchanger) *DNSQuerier {
	return &DNSQuerier{udp: udp, tcp: tcp}
}

// Query asks each server in turn until one answers with NOERROR.
func (q *DNSQuerier) Query(ctx context.Context, servers []string, domain string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), qtype)
	msg.SetEdns0(ednsUDPSize, true)

	lastErr := fmt.Errorf("no DNS servers to query")
	for _, server := range servers {
		resp, _, err := q.udp.ExchangeContext(ctx, msg, server)
		if err == nil && resp != nil && resp.Truncated && q.tcp != nil {
			resp, _, err = q.tcp.ExchangeContext(ctx, msg, server)
		}
		if err != nil {
			lastErr = fmt.Errorf("%s query to %s failed: %w", dns.TypeToString[qtype], server, err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		if resp == nil {
			lastErr = fmt.Errorf("no response received from %s", server)
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			return nil, fmt.Errorf("%s query returned %s", dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
		}
		return resp, nil
	}

	return nil, lastErr
}

// LookupDNSKEY returns the DNSKEY records in the answer section.
func (q *DNSQuerier) LookupDNSKEY(ctx context.Context, servers []string, domain string) ([]*dns.DNSKEY, error) {
	resp, err := q.Query(ctx, servers, domain, dns.TypeDNSKEY)
	if err != nil {
		return nil, err
	}
	return extractRecords[*dns.DNSKEY](resp.Answer)
}

// LookupDS returns the DS records in the answer section.
func (q *DNSQuerier) LookupDS(ctx context.Context, servers []string, domain string) ([]*dns.DS, error) {
	resp, err := q.Query(ctx, servers, domain, dns.TypeDS)
	if err != nil {
		return nil, err
	}
	return extractRecords[*dns.DS](resp.Answer)
}

// LookupSOASignatures queries the SOA record set and returns the RRSIG and
// legacy SIG records that accompany it.
func (q *DNSQuerier) LookupSOASignatures(ctx context.Context, servers []string, domain string) ([]*dns.RRSIG, error) {
	resp, err := q.Query(ctx, servers, domain, dns.TypeSOA)
	if err != nil {
		return nil, err
	}

	var sigs []*dns.RRSIG
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.RRSIG:
			sigs = append(sigs, v)
		case *dns.SIG:
			sigs = append(sigs, &v.RRSIG)
		}
	}
	if len(sigs) == 0 {
		return nil, ErrNoRecords
	}

	return sigs, nil
}

func extractRecords[T dns.RR](answer []dns.RR) ([]T, error) {
	var records []T
	for _, rr := range answer {
		if v, ok := rr.(T); ok {
			records = append(records, v)
		}
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// KeyType classifies a DNSKEY by its flags.
func KeyType(flags uint16) string {
	switch {
	case flags&dns.SEP != 0:
		return "KSK"
	case flags&dns.ZONE != 0:
		return "ZSK"
	default:
		return fmt.Sprintf("Unknown (flags=%d)", flags)
	}
}

// ConvertDNSKEY turns a DNSKEY into its result form.
func ConvertDNSKEY(key *dns.DNSKEY) (models.DnskeyRecord, error) {
	publicKey, err := canonicalBase64(key.PublicKey)
	if err != nil {
		return models.DnskeyRecord{}, errs.Parse("DNSKEY public key", err)
	}

	return models.DnskeyRecord{
		Flags:         key.Flags,
		Protocol:      3,
		Algorithm:     key.Algorithm,
		AlgorithmName: AlgorithmName(key.Algorithm),
		PublicKey:     publicKey,
		KeyTag:        key.KeyTag(),
		KeyType:       KeyType(key.Flags),
	}, nil
}

// ConvertDS turns a DS record into its result form with a lowercase hex digest.
func ConvertDS(ds *dns.DS) (models.DsRecord, error) {
	digest, err := hex.DecodeString(ds.Digest)
	if err != nil {
		return models.DsRecord{}, errs.Parse("DS digest", err)
	}

	return models.DsRecord{
		KeyTag:         ds.KeyTag,
		Algorithm:      ds.Algorithm,
		AlgorithmName:  AlgorithmName(ds.Algorithm),
		DigestType:     ds.DigestType,
		DigestTypeName: DigestTypeName(ds.DigestType),
		Digest:         hex.EncodeToString(digest),
	}, nil
}

// ConvertRRSIG turns an RRSIG (or the RRSIG body of a SIG) into its result form.
func ConvertRRSIG(sig *dns.RRSIG) (models.RrsigRecord, error) {
	signature, err := canonicalBase64(sig.Signature)
	if err != nil {
		return models.RrsigRecord{}, errs.Parse("RRSIG signature", err)
	}

	return models.RrsigRecord{
		TypeCovered:         dns.Type(sig.TypeCovered).String(),
		Algorithm:           sig.Algorithm,
		AlgorithmName:       AlgorithmName(sig.Algorithm),
		Labels:              sig.Labels,
		OriginalTTL:         sig.OrigTtl,
		SignatureExpiration: FormatSignatureTime(sig.Expiration),
		SignatureInception:  FormatSignatureTime(sig.Inception),
		KeyTag:              sig.KeyTag,
		SignerName:          sig.SignerName,
		Signature:           signature,
	}, nil
}

// FormatSignatureTime renders a 32-bit Unix timestamp in UTC. Every uint32
// value falls inside the range time.Time can format.
func FormatSignatureTime(ts uint32) string {
	return time.Unix(int64(ts), 0).UTC().Format(SignatureTimeLayout)
}

// canonicalBase64 re-encodes presentation base64 (which may contain spaces)
// with the standard padded alphabet.
func canonicalBase64(s string) (string, error) {
	s = strings.Join(strings.Fields(s), "")
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
