package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"
)

// HashPrefix marks the hash scheme in postfix-accounts.cf entries. Docker
// Mailserver expects it in front of the raw crypt(3) output.
const HashPrefix = "{SHA512-CRYPT}"

var ErrWrongPassword = errors.New("wrong password")

// HashPassword produces a {SHA512-CRYPT}-prefixed crypt(3) hash with a
// random salt.
func HashPassword(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("password is required")
	}
	hash, err := crypt.SHA512.New().Generate([]byte(raw), nil)
	if err != nil {
		return "", fmt.Errorf("generate sha512-crypt hash: %w", err)
	}
	return HashPrefix + hash, nil
}

// VerifyPassword checks raw against a stored hash, with or without the
// scheme prefix.
func VerifyPassword(hash, raw string) (err error) {
	h := strings.TrimPrefix(hash, HashPrefix)
	if h == "" {
		return fmt.Errorf("empty password hash")
	}
	// crypt.NewFromHash panics on an unknown hash function.
	defer func() {
		if rcvr := recover(); rcvr != nil {
			err = fmt.Errorf("%v", rcvr)
		}
	}()
	if err := crypt.NewFromHash(h).Verify(h, []byte(raw)); err != nil {
		if errors.Is(err, crypt.ErrKeyMismatch) {
			return ErrWrongPassword
		}
		return err
	}
	return nil
}
