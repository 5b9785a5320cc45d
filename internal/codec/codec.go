// Package codec derives symmetric keys from tenant codes and performs the
// whole-state and field-level encryption used by the local cache and the
// remote store.
//
// Decryption deliberately does not return errors: the login flow tries
// candidate codes routinely, so a failed decrypt is an expected branch.
// DecryptBlob yields nil; DecryptField yields its input unchanged so
// legacy or foreign-keyed values degrade to display-as-is.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/smartclass/classvault/internal/models"
)

// systemSalt is fixed and hard-coded: the tenant code is the entire
// secret, so the salt only separates this application's key space from
// other uses of the same passphrase.
const systemSalt = "classvault-system-salt-v1"

// ciphertextPrefix versions the wire format: prefix + base64(nonce||ct).
const ciphertextPrefix = "cv1:"

const nonceSize = 12

// Codec performs key derivation and encryption. Derived keys are memoized
// per code, so decrypting every credential field on login runs the KDF
// once, not once per row. Safe for concurrent use.
type Codec struct {
	mu   sync.Mutex
	keys map[string][]byte
}

func New() *Codec {
	return &Codec{keys: make(map[string][]byte)}
}

// DeriveKey derives the 32-byte AES key for a tenant code. Deterministic:
// the same code always yields the same key.
func (c *Codec) DeriveKey(code string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k, ok := c.keys[code]; ok {
		return k
	}
	k := argon2.IDKey([]byte(code), []byte(systemSalt), 1, 64*1024, 4, 32)
	c.keys[code] = k
	return k
}

// EncryptBlob serializes state to canonical JSON and encrypts it with the
// key derived from code, returning an opaque string.
func (c *Codec) EncryptBlob(state *models.State, code string) (string, error) {
	plaintext, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return c.seal(plaintext, code)
}

// DecryptBlob attempts decryption and deserialization. It returns nil on
// wrong key, tampered or corrupt data; never an error.
func (c *Codec) DecryptBlob(ciphertext, code string) *models.State {
	plaintext, ok := c.open(ciphertext, code)
	if !ok {
		return nil
	}
	var state models.State
	if err := json.Unmarshal(plaintext, &state); err != nil {
		return nil
	}
	return &state
}

// EncryptField encrypts a single string for remote storage. Empty input
// maps to empty output without touching the KDF.
func (c *Codec) EncryptField(text, code string) (string, error) {
	if text == "" {
		return "", nil
	}
	return c.seal([]byte(text), code)
}

// DecryptField decrypts a field ciphertext. On any failure the original
// input is returned unchanged.
func (c *Codec) DecryptField(ciphertext, code string) string {
	if ciphertext == "" {
		return ""
	}
	plaintext, ok := c.open(ciphertext, code)
	if !ok {
		return ciphertext
	}
	return string(plaintext)
}

func (c *Codec) seal(plaintext []byte, code string) (string, error) {
	aead, err := c.aead(code)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return ciphertextPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Codec) open(ciphertext, code string) ([]byte, bool) {
	if !strings.HasPrefix(ciphertext, ciphertextPrefix) {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, ciphertextPrefix))
	if err != nil || len(raw) < nonceSize {
		return nil, false
	}
	aead, err := c.aead(code)
	if err != nil {
		return nil, false
	}
	plaintext, err := aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, false
	}
	return plaintext, true
}

func (c *Codec) aead(code string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.DeriveKey(code))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
