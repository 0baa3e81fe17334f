// Package cryptox contains the key handling used by flipkeeper: password
// based protection of the identity key, AES-GCM sealing of flip payloads,
// ed25519 challenge signatures and content hashes of published flips.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

const (
	// KeySize is the AES-256 key length produced by DeriveMasterKey and FlipKey.
	KeySize = 32
	// SaltSize is the length of a freshly generated argon2 salt.
	SaltSize = 32

	authDomain = "flipkeeper-auth"
	flipDomain = "flipkeeper/flips"
)

var ErrInvalidPrivateKey = errors.New("invalid private key")

// MakeVerifier returns a one-way fingerprint of masterKey used to check a
// password without storing the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches password with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with AES-GCM under key and a fresh random nonce.
func Seal(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open reverses Seal.
func Open(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce size %d", len(nonce))
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// EncryptJSON marshals v to JSON and seals it with key.
func EncryptJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return Seal(plaintext, key)
}

// DecryptJSON opens ciphertext and unmarshals the JSON into v.
func DecryptJSON(ciphertext, nonce, key []byte, v any) error {
	plaintext, err := Open(ciphertext, nonce, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// GenerateKey creates a new identity key pair.
func GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// ParsePrivateKey validates raw key bytes as an ed25519 private key.
func ParsePrivateKey(b []byte) (ed25519.PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}
	return ed25519.PrivateKey(b), nil
}

// Address derives the 20-byte network address of a public key, hex encoded
// with a 0x prefix.
func Address(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(pub)
	return "0x" + hex.EncodeToString(sum[12:])
}

// FlipKey derives the symmetric key that protects an identity's flips, both
// in the local store and in submitted payloads.
func FlipKey(priv ed25519.PrivateKey) []byte {
	sum := blake2b.Sum256(append([]byte(flipDomain), priv.Seed()...))
	return sum[:]
}

// FlipHash is the content address of a published flip payload.
func FlipHash(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return "0x" + hex.EncodeToString(sum[:])
}

// AuthMessage is the challenge an identity signs to obtain a node session.
func AuthMessage(address string, timestamp int64) []byte {
	return []byte(authDomain + ":" + address + ":" + strconv.FormatInt(timestamp, 10))
}

// SignAuth signs the auth challenge for the key's own address.
func SignAuth(priv ed25519.PrivateKey, timestamp int64) (address string, signature []byte) {
	pub := priv.Public().(ed25519.PublicKey)
	address = Address(pub)
	return address, ed25519.Sign(priv, AuthMessage(address, timestamp))
}

// VerifyAuth checks that signature was produced by pub for address and that
// address belongs to pub.
func VerifyAuth(pub ed25519.PublicKey, address string, timestamp int64, signature []byte) bool {
	if len(pub) != ed25519.PublicKeySize || Address(pub) != address {
		return false
	}
	return ed25519.Verify(pub, AuthMessage(address, timestamp), signature)
}
