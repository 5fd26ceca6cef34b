package wallet

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/ravkun27/nftix/internal/domain"
)

// ChecksumAddress applies the EIP-55 mixed-case checksum to a 0x address
func ChecksumAddress(address string) (string, error) {
	body, err := addressBody(address)
	if err != nil {
		return "", err
	}

	lower := strings.ToLower(body)
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lower)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out), nil
}

// NormalizeAddress validates address and returns its checksummed form.
// All-lowercase and all-uppercase inputs carry no checksum and are accepted
// as is; mixed-case input must match its checksum.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)

	checksummed, err := ChecksumAddress(address)
	if err != nil {
		return "", err
	}

	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return checksummed, nil
	}
	if "0x"+body != checksummed {
		return "", domain.ErrChecksumMismatch
	}
	return checksummed, nil
}

func addressBody(address string) (string, error) {
	if len(address) != 42 || !(strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X")) {
		return "", domain.ErrInvalidAddress
	}
	body := address[2:]
	if _, err := hex.DecodeString(body); err != nil {
		return "", domain.ErrInvalidAddress
	}
	return body, nil
}

// ShortAddress abbreviates an address for display, e.g. 0x5aAe…eAed
func ShortAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "…" + address[len(address)-4:]
}
