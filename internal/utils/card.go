package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

const maskedPrefix = "**** **** **** "

// CardCipher encrypts card numbers at rest and derives their lookup hash.
type CardCipher struct {
	key        []byte
	hmacSecret []byte
}

// NewCardCipher validates the AES key length and returns a cipher.
func NewCardCipher(key, hmacSecret string) (*CardCipher, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	if hmacSecret == "" {
		return nil, fmt.Errorf("hmac secret is required")
	}
	return &CardCipher{key: []byte(key), hmacSecret: []byte(hmacSecret)}, nil
}

// Hash returns the HMAC-SHA256 of a card number, stable across encryptions
func (c *CardCipher) Hash(cardNumber string) string {
	h := hmac.New(sha256.New, c.hmacSecret)
	h.Write([]byte(cardNumber))
	return hex.EncodeToString(h.Sum(nil))
}

// Encrypt seals a card number with AES-CBC under a fresh random IV.
// The result is base64(IV || ciphertext).
func (c *CardCipher) Encrypt(number string) (string, error) {
	if number == "" {
		return "", fmt.Errorf("card number is empty")
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(number), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt.
func (c *CardCipher) Decrypt(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode card number: %w", err)
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("sealed card number has invalid length %d", len(raw))
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plain := make([]byte, len(raw)-aes.BlockSize)
	cipher.NewCBCDecrypter(block, raw[:aes.BlockSize]).CryptBlocks(plain, raw[aes.BlockSize:])
	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	for range n {
		out = append(out, byte(n))
	}
	return out
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, fmt.Errorf("invalid padding length %d", n)
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}

// MaskCardNumber keeps only the last four digits: "**** **** **** 1234".
func MaskCardNumber(cardNumber string) string {
	cardNumber = strings.ReplaceAll(cardNumber, " ", "")
	if len(cardNumber) < 4 {
		return maskedPrefix + "****"
	}
	return maskedPrefix + cardNumber[len(cardNumber)-4:]
}
