package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	keyLen  = 64
	saltLen = 16
)

// HashPassword derives a scrypt key and encodes it as "hex(key).hex(salt)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", hex.EncodeToString(key), hex.EncodeToString(salt)), nil
}

// ComparePassword re-derives the key for supplied and compares it against the
// stored hash in constant time.
func ComparePassword(supplied, stored string) (bool, error) {
	parts := strings.SplitN(stored, ".", 2)
	if len(parts) != 2 {
		return false, errors.New("auth: malformed password hash")
	}
	storedKey, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, err
	}
	key, err := scrypt.Key([]byte(supplied), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(storedKey, key) == 1, nil
}
