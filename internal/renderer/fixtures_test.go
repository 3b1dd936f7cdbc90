package renderer

import "trustcheck/pkg/models"

func secureResult() *models.DnssecResult {
	return &models.DnssecResult{
		Domain:        "example.com",
		DNSSECEnabled: true,
		DNSKEYRecords: []models.DnskeyRecord{
			{Flags: 257, Protocol: 3, Algorithm: 13, AlgorithmName: "ECDSAP256SHA256", PublicKey: "AQID", KeyTag: 2371, KeyType: "KSK"},
		},
		DSRecords: []models.DsRecord{
			{KeyTag: 2371, Algorithm: 13, AlgorithmName: "ECDSAP256SHA256", DigestType: 2, DigestTypeName: "SHA-256", Digest: "abcdef"},
		},
		RRSIGRecords: []models.RrsigRecord{
			{TypeCovered: "SOA", Algorithm: 13, AlgorithmName: "ECDSAP256SHA256", Labels: 2, OriginalTTL: 3600,
				SignatureExpiration: "2024-01-01 00:00:00 UTC", SignatureInception: "2023-12-01 00:00:00 UTC",
				KeyTag: 34505, SignerName: "example.com.", Signature: "ZGVm"},
		},
		ValidationStatus: models.StatusSecure,
		Nameserver:       "1.1.1.1",
		ResponseTimeMs:   42,
	}
}

func httpsResult() *models.SslCheckResult {
	return &models.SslCheckResult{
		Domain:           "example.com",
		Port:             443,
		ConnectionStatus: models.ConnectionHTTPS,
		CertInfo: &models.SslCertInfo{
			Domain:             "example.com",
			Issuer:             "CN=Test CA,O=Test",
			Subject:            "CN=example.com",
			ValidFrom:          "Mon, 1 Jan 2024 00:00:00 +0000",
			ValidTo:            "Tue, 1 Apr 2025 00:00:00 +0000",
			DaysRemaining:      81,
			IsValid:            true,
			SAN:                []string{"example.com", "www.example.com"},
			SerialNumber:       "0A1B",
			SignatureAlgorithm: "SHA256-RSA",
			CertificateChain: []models.CertChainItem{
				{Subject: "CN=example.com", Issuer: "CN=Test CA,O=Test"},
				{Subject: "CN=Test CA,O=Test", Issuer: "CN=Test CA,O=Test", IsCA: true},
			},
		},
	}
}
