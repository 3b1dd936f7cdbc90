package models

// ConnectionStatus is the top-level outcome of a TLS inspection.
type ConnectionStatus string

const (
	ConnectionHTTPS  ConnectionStatus = "https"
	ConnectionHTTP   ConnectionStatus = "http"
	ConnectionFailed ConnectionStatus = "failed"
)

type SslCheckResult struct {
	Domain           string           `json:"domain"`
	Port             uint16           `json:"port"`
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	CertInfo         *SslCertInfo     `json:"cert_info,omitempty"`
	Error            *string          `json:"error,omitempty"`
}

type SslCertInfo struct {
	Domain             string          `json:"domain"`
	Issuer             string          `json:"issuer"`
	Subject            string          `json:"subject"`
	ValidFrom          string          `json:"valid_from"`
	ValidTo            string          `json:"valid_to"`
	DaysRemaining      int64           `json:"days_remaining"`
	IsExpired          bool            `json:"is_expired"`
	IsValid            bool            `json:"is_valid"`
	SAN                []string        `json:"san"`
	SerialNumber       string          `json:"serial_number"`
	SignatureAlgorithm string          `json:"signature_algorithm"`
	CertificateChain   []CertChainItem `json:"certificate_chain"`
}

type CertChainItem struct {
	Subject string `json:"subject"`
	Issuer  string `json:"issuer"`
	IsCA    bool   `json:"is_ca"`
}

// StringPtr is a helper for the optional error fields.
func StringPtr(s string) *string {
	return &s
}
