// Package helpertest builds certificates and listeners for tests.
package helpertest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

// CertSpec describes a certificate to generate. Zero validity fields mean
// "valid from an hour ago for a year".
type CertSpec struct {
	CommonName string
	DNSNames   []string
	Serial     int64
	NotBefore  time.Time
	NotAfter   time.Time
	IsCA       bool
}

// Issuer is a CA able to sign leaf certificates.
type Issuer struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

// NewCA creates a self-signed CA.
func NewCA(t testing.TB, commonName string) *Issuer {
	t.Helper()

	key := newKey(t)
	spec := CertSpec{CommonName: commonName, Serial: 1, IsCA: true}
	der := createCert(t, template(spec), nil, key, key)

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse CA certificate: %v", err)
	}

	return &Issuer{Cert: cert, Key: key}
}

// Issue signs a certificate for spec and returns it with the CA appended to the chain.
func (ca *Issuer) Issue(t testing.TB, spec CertSpec) tls.Certificate {
	t.Helper()

	key := newKey(t)
	der := createCert(t, template(spec), ca.Cert, key, ca.Key)

	return tls.Certificate{
		Certificate: [][]byte{der, ca.Cert.Raw},
		PrivateKey:  key,
	}
}

// SelfSigned returns a self-signed certificate for spec.
func SelfSigned(t testing.TB, spec CertSpec) tls.Certificate {
	t.Helper()

	key := newKey(t)
	der := createCert(t, template(spec), nil, key, key)

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}

// ParseLeaf returns the first certificate of a tls.Certificate.
func ParseLeaf(t testing.TB, cert tls.Certificate) *x509.Certificate {
	t.Helper()

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	return leaf
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func template(spec CertSpec) *x509.Certificate {
	notBefore := spec.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	notAfter := spec.NotAfter
	if notAfter.IsZero() {
		notAfter = notBefore.AddDate(1, 0, 0)
	}
	serial := spec.Serial
	if serial == 0 {
		serial = 0x2A
	}

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(serial),
		Subject:               pkix.Name{CommonName: spec.CommonName, Organization: []string{"Trustcheck Test"}},
		DNSNames:              spec.DNSNames,
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  spec.IsCA,
	}
	if spec.IsCA {
		tmpl.KeyUsage |= x509.KeyUsageCertSign
		tmpl.ExtKeyUsage = nil
	}

	return tmpl
}

func createCert(t testing.TB, tmpl, parent *x509.Certificate, key, signer *ecdsa.PrivateKey) []byte {
	t.Helper()

	if parent == nil {
		parent = tmpl
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, signer)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return der
}
