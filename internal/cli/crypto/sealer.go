package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// keyLen - длина ключа для AES‑256 (в байтах).
const keyLen = 32

// ErrInvalidKey is returned when the key file exists but does not hold a 256-bit key.
var ErrInvalidKey = errors.New("invalid key length")

// Sealer шифрует значения сессии AES‑GCM ключом, хранящимся в локальном файле.
type Sealer struct {
	aead cipher.AEAD
}

// LoadOrCreateKey загружает ключ из path или создаёт новый случайный с правами 0600.
func LoadOrCreateKey(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("empty key path")
	}
	if b, err := os.ReadFile(path); err == nil {
		if len(b) != keyLen {
			return nil, ErrInvalidKey
		}
		return b, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

// NewSealer builds a Sealer from a raw 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != keyLen {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: gcm}, nil
}

// NewSealerFromFile is LoadOrCreateKey followed by NewSealer.
func NewSealerFromFile(path string) (*Sealer, error) {
	key, err := LoadOrCreateKey(path)
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}
	return NewSealer(key)
}

// Seal возвращает шифртекст и nonce. additional связывает шифртекст с ключом записи.
func (s *Sealer) Seal(plain, additional []byte) ([]byte, []byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	return s.aead.Seal(nil, nonce, plain, additional), nonce, nil
}

// Open расшифровывает значение, запечатанное Seal с тем же additional.
func (s *Sealer) Open(ciphertext, nonce, additional []byte) ([]byte, error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}
	return s.aead.Open(nil, nonce, ciphertext, additional)
}
