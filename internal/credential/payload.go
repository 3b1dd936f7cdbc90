package credential

// Payload is the persisted form of an encrypted secret.
type Payload struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

func Seal(plaintext []byte, password string) (Payload, error) {
	salt, nonce, ciphertext, err := Encrypt(plaintext, password)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

func (p Payload) Open(password string) ([]byte, error) {
	return Decrypt(p.Ciphertext, password, p.Salt, p.Nonce)
}
