package renderer

import (
	"fmt"
	"io"
	"strings"

	"trustcheck/pkg/models"
)

type Renderer interface {
	RenderDNSSEC(w io.Writer, result *models.DnssecResult) error
	RenderSSL(w io.Writer, result *models.SslCheckResult) error
}

type ANSIRenderer struct{}

func NewANSIRenderer() *ANSIRenderer {
	return &ANSIRenderer{}
}

func (a *ANSIRenderer) RenderDNSSEC(w io.Writer, result *models.DnssecResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	fmt.Fprintf(w, "═══ trustcheck ═══\n")
	fmt.Fprintf(w, "Target: %s\n", result.Domain)
	fmt.Fprintf(w, "Resolver: %s (%d ms)\n\n", result.Nameserver, result.ResponseTimeMs)

	fmt.Fprintf(w, "[ DNSSEC ]\n")
	switch result.ValidationStatus {
	case models.StatusSecure:
		fmt.Fprintf(w, "  Status: ✓ Secure\n")
	case models.StatusIndeterminate:
		fmt.Fprintf(w, "  Status: ⚠ Indeterminate\n")
	default:
		if result.DNSSECEnabled {
			fmt.Fprintf(w, "  Status: ⚠ Insecure (signatures without keys or delegation)\n")
		} else {
			fmt.Fprintf(w, "  Status: ✗ Not Enabled\n")
		}
	}
	if result.Error != nil {
		fmt.Fprintf(w, "  Error: %s\n", *result.Error)
	}
	fmt.Fprintf(w, "\n")

	if len(result.DNSKEYRecords) > 0 {
		fmt.Fprintf(w, "[ DNSKEY ]\n")
		for _, key := range result.DNSKEYRecords {
			fmt.Fprintf(w, "  • %s  tag=%d  flags=%d  %s\n", key.KeyType, key.KeyTag, key.Flags, key.AlgorithmName)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(result.DSRecords) > 0 {
		fmt.Fprintf(w, "[ DS ]\n")
		for _, ds := range result.DSRecords {
			fmt.Fprintf(w, "  • tag=%d  %s  %s\n", ds.KeyTag, ds.AlgorithmName, ds.DigestTypeName)
			fmt.Fprintf(w, "    %s\n", ds.Digest)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(result.RRSIGRecords) > 0 {
		fmt.Fprintf(w, "[ RRSIG ]\n")
		for _, sig := range result.RRSIGRecords {
			fmt.Fprintf(w, "  • %s  tag=%d  signer=%s  %s\n", sig.TypeCovered, sig.KeyTag, sig.SignerName, sig.AlgorithmName)
			fmt.Fprintf(w, "    Valid: %s → %s\n", sig.SignatureInception, sig.SignatureExpiration)
		}
		fmt.Fprintf(w, "\n")
	}

	return nil
}

func (a *ANSIRenderer) RenderSSL(w io.Writer, result *models.SslCheckResult) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	fmt.Fprintf(w, "═══ trustcheck ═══\n")
	fmt.Fprintf(w, "Target: %s:%d\n\n", result.Domain, result.Port)

	fmt.Fprintf(w, "[ CONNECTION ]\n")
	switch result.ConnectionStatus {
	case models.ConnectionHTTPS:
		fmt.Fprintf(w, "  Protocol: ✓ HTTPS\n")
	case models.ConnectionHTTP:
		fmt.Fprintf(w, "  Protocol: ⚠ Plain HTTP (no TLS)\n")
	default:
		fmt.Fprintf(w, "  Protocol: ✗ Unreachable\n")
	}
	if result.Error != nil {
		fmt.Fprintf(w, "  Error: %s\n", *result.Error)
	}
	fmt.Fprintf(w, "\n")

	if result.CertInfo != nil {
		a.renderCertificate(w, result.CertInfo)
	}

	return nil
}

func (a *ANSIRenderer) renderCertificate(w io.Writer, info *models.SslCertInfo) {
	fmt.Fprintf(w, "[ CERTIFICATE ]\n")
	fmt.Fprintf(w, "  Domain: %s\n", info.Domain)
	fmt.Fprintf(w, "  Subject: %s\n", info.Subject)
	fmt.Fprintf(w, "  Issuer: %s\n", info.Issuer)
	fmt.Fprintf(w, "  Serial: %s\n", info.SerialNumber)
	fmt.Fprintf(w, "  Signature: %s\n", info.SignatureAlgorithm)
	fmt.Fprintf(w, "  Valid From: %s\n", info.ValidFrom)
	fmt.Fprintf(w, "  Valid To: %s\n", info.ValidTo)

	status := models.ExpirationStatus(info.DaysRemaining)
	if status == models.StatusActive {
		fmt.Fprintf(w, "  Status: %s (%d days)\n", status, info.DaysRemaining)
	} else {
		fmt.Fprintf(w, "  ⚠ Status: %s (%d days)\n", status, info.DaysRemaining)
	}

	if info.IsValid {
		fmt.Fprintf(w, "  Verdict: ✓ Valid for this host\n")
	} else if !info.IsExpired {
		fmt.Fprintf(w, "  ⚠ Hostname Mismatch\n")
	} else {
		fmt.Fprintf(w, "  Verdict: ✗ Invalid\n")
	}

	if len(info.SAN) > 0 {
		fmt.Fprintf(w, "  Subject Alt Names:\n")
		for _, san := range info.SAN {
			fmt.Fprintf(w, "    • %s\n", san)
		}
	}

	if len(info.CertificateChain) > 0 {
		fmt.Fprintf(w, "  Chain:\n")
		for i, item := range info.CertificateChain {
			marker := ""
			if item.IsCA {
				marker = " (CA)"
			}
			fmt.Fprintf(w, "    %s%d. %s%s\n", strings.Repeat("  ", i), i, item.Subject, marker)
		}
	}

	fmt.Fprintf(w, "\n")
}
