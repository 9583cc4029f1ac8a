// Package wallet validates and normalizes wallet addresses and transaction hashes.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrBadChecksum    = errors.New("wallet address checksum mismatch")
	ErrInvalidTxHash  = errors.New("invalid transaction hash")
)

var (
	addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashPattern  = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
)

// Normalize returns the canonical form used for every comparison and for
// storage: trimmed and lower-cased. It does not validate.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Equal compares two addresses case-insensitively.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Validate checks the 0x + 40 hex format. Mixed-case addresses must carry a
// valid EIP-55 checksum; all-lower and all-upper addresses are accepted.
func Validate(address string) error {
	address = strings.TrimSpace(address)
	if !addressPattern.MatchString(address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}
	if Checksum(address) != address {
		return fmt.Errorf("%w: %s", ErrBadChecksum, address)
	}
	return nil
}

// Parse validates address and returns its normalized form.
func Parse(address string) (string, error) {
	if err := Validate(address); err != nil {
		return "", err
	}
	return Normalize(address), nil
}

// Checksum returns the EIP-55 mixed-case encoding of a well-formed address.
// The result is undefined for malformed input.
func Checksum(address string) string {
	lower := strings.TrimPrefix(Normalize(address), "0x")

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

// Short renders an address as 0x1234...abcd for log lines and labels.
func Short(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// ValidateTxHash checks the 0x + 64 hex format of a transaction hash.
func ValidateTxHash(hash string) error {
	if !txHashPattern.MatchString(strings.TrimSpace(hash)) {
		return fmt.Errorf("%w: %q", ErrInvalidTxHash, hash)
	}
	return nil
}
