// Package cryptox implements the cryptographic core of the vault engine:
// password-based key derivation, authenticated encryption of the vault
// payload, password verifiers, strength scoring and password generation.
//
// All functions are stateless. Key derivation is PBKDF2-SHA256 with a
// fixed iteration count; payload protection is AES-256-GCM. An encrypted
// blob is a single base64 string laid out as
//
//	salt(16) ‖ nonce(12) ‖ ciphertext+tag
//
// so the blob carries everything needed to re-derive its key except the
// password itself. Every call to Encrypt draws a fresh salt and a fresh
// nonce; a nonce is never reused under the same key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/hzh666kevin-hue/spc/internal/common"
)

const (
	// KeyLen is the derived AES key length (AES-256).
	KeyLen = 32
	// SaltLen is the KDF salt length prepended to every blob.
	SaltLen = 16
	// NonceLen is the standard GCM nonce length.
	NonceLen = 12
	// TagLen is the GCM authentication tag length.
	TagLen = 16
	// VerifierSaltLen is the salt length used by password verifiers.
	VerifierSaltLen = 32

	// Iterations is the fixed PBKDF2 iteration count, per current OWASP
	// guidance for PBKDF2-HMAC-SHA256.
	Iterations = 600_000
)

// DeriveKey derives a 256-bit key from a password and salt using
// PBKDF2-SHA256 with the fixed iteration count. Deterministic for
// identical inputs; the salt is the sole source of per-vault uniqueness.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, KeyLen, sha256.New)
}

// Encrypt seals plaintext under a key derived from password with a fresh
// random salt and nonce, and returns the blob as base64 text. The
// plaintext may be empty; the password may not.
func Encrypt(plaintext []byte, password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}

	salt := common.GenerateRandByteArray(SaltLen)
	nonce := common.GenerateRandByteArray(NonceLen)
	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)

	raw := make([]byte, 0, SaltLen+NonceLen+len(ciphertext))
	raw = append(raw, salt...)
	raw = append(raw, nonce...)
	raw = append(raw, ciphertext...)

	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt decodes a blob produced by Encrypt, re-derives the key from the
// embedded salt and the supplied password, and opens the ciphertext.
//
// A blob that cannot be decoded, is too short, or fails the tag check
// reports common.ErrAuthFailed. A wrong password and tampered data are
// indistinguishable here; the GCM open itself provides the timing
// resistance and no partial tag comparison happens on this path.
func Decrypt(blob string, password string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, common.ErrAuthFailed
	}
	if len(raw) < SaltLen+NonceLen+TagLen {
		return nil, common.ErrAuthFailed
	}

	salt := raw[:SaltLen]
	nonce := raw[SaltLen : SaltLen+NonceLen]
	ciphertext := raw[SaltLen+NonceLen:]

	key := DeriveKey(password, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, common.ErrAuthFailed
	}
	return plaintext, nil
}

// MakeVerifier produces base64(salt32 ‖ sha256(salt32 ‖ sha256(password))),
// a value that proves password knowledge without touching the main
// ciphertext. The verifier salt is independent of any encryption salt.
func MakeVerifier(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}

	salt := common.GenerateRandByteArray(VerifierSaltLen)
	digest := verifierDigest(password, salt)

	raw := make([]byte, 0, VerifierSaltLen+sha256.Size)
	raw = append(raw, salt...)
	raw = append(raw, digest...)

	return base64.StdEncoding.EncodeToString(raw), nil
}

// CheckVerifier recomputes the digest for password against the salt
// embedded in verifier and compares in constant time. Malformed
// verifiers simply report false.
func CheckVerifier(password string, verifier string) bool {
	raw, err := base64.StdEncoding.DecodeString(verifier)
	if err != nil || len(raw) != VerifierSaltLen+sha256.Size {
		return false
	}

	salt := raw[:VerifierSaltLen]
	stored := raw[VerifierSaltLen:]
	candidate := verifierDigest(password, salt)

	return subtle.ConstantTimeCompare(stored, candidate) == 1
}

func verifierDigest(password string, salt []byte) []byte {
	inner := sha256.Sum256([]byte(password))
	h := sha256.New()
	h.Write(salt)
	h.Write(inner[:])
	return h.Sum(nil)
}
