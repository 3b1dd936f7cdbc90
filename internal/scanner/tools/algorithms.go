package tools

import "fmt"

// Names for DNSSEC algorithm numbers (RFC 8624).
var algorithmNames = map[uint8]string{
	1:  "RSA/MD5 (deprecated)",
	3:  "DSA/SHA-1 (deprecated)",
	5:  "RSA/SHA-1",
	6:  "DSA-NSEC3-SHA1 (deprecated)",
	7:  "RSASHA1-NSEC3-SHA1",
	8:  "RSA/SHA-256",
	10: "RSA/SHA-512",
	12: "GOST R 34.10-2001",
	13: "ECDSAP256SHA256",
	14: "ECDSAP384SHA384",
	15: "Ed25519",
	16: "Ed448",
}

// Names for DS digest types.
var digestTypeNames = map[uint8]string{
	1: "SHA-1",
	2: "SHA-256",
	3: "GOST R 34.11-94",
	4: "SHA-384",
}

// AlgorithmName returns the label for a DNSSEC algorithm number.
func AlgorithmName(algorithm uint8) string {
	if name, ok := algorithmNames[algorithm]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", algorithm)
}

// DigestTypeName returns the label for a DS digest type.
func DigestTypeName(digestType uint8) string {
	if name, ok := digestTypeNames[digestType]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", digestType)
}
