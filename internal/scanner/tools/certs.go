package tools

import (
	"crypto/x509"
	"encoding/asn1"
	"errors"
	"strings"
	"time"

	"trustcheck/internal/errs"
	"trustcheck/pkg/models"
)

// ValidityTimeLayout renders certificate validity dates (RFC 2822, UTC).
const ValidityTimeLayout = "Mon, 2 Jan 2006 15:04:05 -0700"

var oidCommonName = asn1.ObjectIdentifier{2, 5, 4, 3}

// ErrNoCertificate is returned when the peer presented no certificate.
var ErrNoCertificate = errors.New("no certificate found")

// ParseLeaf parses the first certificate of a presented chain.
func ParseLeaf(chain [][]byte) (*x509.Certificate, error) {
	if len(chain) == 0 {
		return nil, ErrNoCertificate
	}
	cert, err := x509.ParseCertificate(chain[0])
	if err != nil {
		return nil, errs.Parse("leaf certificate", err)
	}
	return cert, nil
}

// BuildChain summarizes every parseable certificate in the presented chain,
// leaf first. The already parsed leaf is passed in to avoid parsing it twice.
func BuildChain(leaf *x509.Certificate, chain [][]byte) []models.CertChainItem {
	items := []models.CertChainItem{chainItem(leaf)}
	for _, der := range chain[1:] {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			continue
		}
		items = append(items, chainItem(cert))
	}
	return items
}

func chainItem(cert *x509.Certificate) models.CertChainItem {
	return models.CertChainItem{
		Subject: cert.Subject.String(),
		Issuer:  cert.Issuer.String(),
		IsCA:    cert.BasicConstraintsValid && cert.IsCA,
	}
}

// FirstCommonName returns the first CN attribute of the certificate subject.
func FirstCommonName(cert *x509.Certificate) (string, bool) {
	for _, attr := range cert.Subject.Names {
		if !attr.Type.Equal(oidCommonName) {
			continue
		}
		if cn, ok := attr.Value.(string); ok {
			return cn, true
		}
	}
	return "", false
}

// ResolvedDomain picks the name the certificate identifies: its Common Name,
// then its first DNS SAN, then the queried name.
func ResolvedDomain(cert *x509.Certificate, queried string) string {
	if cn, ok := FirstCommonName(cert); ok {
		return cn
	}
	if len(cert.DNSNames) > 0 {
		return cert.DNSNames[0]
	}
	return queried
}

// MatchesDomain compares a hostname with a certificate name, ignoring case.
// A "*.suffix" pattern covers exactly one extra label.
func MatchesDomain(domain, pattern string) bool {
	domain = strings.ToLower(domain)
	pattern = strings.ToLower(pattern)

	if domain == pattern {
		return true
	}

	suffix, ok := strings.CutPrefix(pattern, "*.")
	if !ok {
		return false
	}

	label, ok := strings.CutSuffix(domain, "."+suffix)
	if !ok {
		return false
	}
	return label != "" && !strings.Contains(label, ".")
}

// CertificateMatches reports whether the queried name matches the Common Name
// or any DNS SAN of the certificate.
func CertificateMatches(cert *x509.Certificate, queried string) bool {
	if cn, ok := FirstCommonName(cert); ok && MatchesDomain(queried, cn) {
		return true
	}
	for _, san := range cert.DNSNames {
		if MatchesDomain(queried, san) {
			return true
		}
	}
	return false
}

// BuildCertInfo assembles the report for a parsed leaf certificate.
func BuildCertInfo(leaf *x509.Certificate, chain [][]byte, queried string, now time.Time) *models.SslCertInfo {
	days := models.CalculateDaysUntilExpiration(leaf.NotAfter, now.UTC())
	expired := days < 0

	san := make([]string, len(leaf.DNSNames))
	copy(san, leaf.DNSNames)

	return &models.SslCertInfo{
		Domain:             ResolvedDomain(leaf, queried),
		Issuer:             leaf.Issuer.String(),
		Subject:            leaf.Subject.String(),
		ValidFrom:          leaf.NotBefore.UTC().Format(ValidityTimeLayout),
		ValidTo:            leaf.NotAfter.UTC().Format(ValidityTimeLayout),
		DaysRemaining:      days,
		IsExpired:          expired,
		IsValid:            !expired && CertificateMatches(leaf, queried),
		SAN:                san,
		SerialNumber:       strings.ToUpper(leaf.SerialNumber.Text(16)),
		SignatureAlgorithm: leaf.SignatureAlgorithm.String(),
		CertificateChain:   BuildChain(leaf, chain),
	}
}
