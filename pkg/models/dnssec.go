package models

// ValidationStatus is the presence-based DNSSEC verdict.
type ValidationStatus string

const (
	StatusSecure        ValidationStatus = "secure"
	StatusInsecure      ValidationStatus = "insecure"
	StatusIndeterminate ValidationStatus = "indeterminate"
)

// SystemDefaultNameserver is reported when no system resolver could be discovered.
const SystemDefaultNameserver = "System Default"

type DnssecResult struct {
	Domain           string           `json:"domain"`
	DNSSECEnabled    bool             `json:"dnssec_enabled"`
	DNSKEYRecords    []DnskeyRecord   `json:"dnskey_records"`
	DSRecords        []DsRecord       `json:"ds_records"`
	RRSIGRecords     []RrsigRecord    `json:"rrsig_records"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	Nameserver       string           `json:"nameserver"`
	ResponseTimeMs   uint64           `json:"response_time_ms"`
	Error            *string          `json:"error,omitempty"`
}

type DnskeyRecord struct {
	Flags         uint16 `json:"flags"`
	Protocol      uint8  `json:"protocol"`
	Algorithm     uint8  `json:"algorithm"`
	AlgorithmName string `json:"algorithm_name"`
	PublicKey     string `json:"public_key"`
	KeyTag        uint16 `json:"key_tag"`
	KeyType       string `json:"key_type"`
}

type DsRecord struct {
	KeyTag         uint16 `json:"key_tag"`
	Algorithm      uint8  `json:"algorithm"`
	AlgorithmName  string `json:"algorithm_name"`
	DigestType     uint8  `json:"digest_type"`
	DigestTypeName string `json:"digest_type_name"`
	Digest         string `json:"digest"`
}

type RrsigRecord struct {
	TypeCovered         string `json:"type_covered"`
	Algorithm           uint8  `json:"algorithm"`
	AlgorithmName       string `json:"algorithm_name"`
	Labels              uint8  `json:"labels"`
	OriginalTTL         uint32 `json:"original_ttl"`
	SignatureExpiration string `json:"signature_expiration"`
	SignatureInception  string `json:"signature_inception"`
	KeyTag              uint16 `json:"key_tag"`
	SignerName          string `json:"signer_name"`
	Signature           string `json:"signature"`
}

// DeriveValidationStatus applies the presence heuristic once all lookups have finished.
// It is not a cryptographic verdict.
func DeriveValidationStatus(enabled, hasDNSKEY, hasDS bool) ValidationStatus {
	if !enabled {
		return StatusInsecure
	}

	switch {
	case hasDNSKEY && hasDS:
		return StatusSecure
	case hasDNSKEY != hasDS:
		return StatusIndeterminate
	default:
		// signatures seen without any key or delegation material
		return StatusInsecure
	}
}
