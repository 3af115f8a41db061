package tor

import (
	"encoding/base32"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// OnionSuffix is the top-level domain of onion services.
	OnionSuffix = ".onion"

	// onionV3Version is the trailing version byte of a v3 address.
	onionV3Version = 0x03
)

var (
	onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)
	onionV2Pattern = regexp.MustCompile(`^[a-z2-7]{16}\.onion$`)
)

var checksumPrefix = []byte(".onion checksum")

// IsOnionHost reports whether host (without port) is in the .onion domain.
// Subdomains of an onion service count.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSuffix(host, ".")), OnionSuffix)
}

// IsValidV3Address reports whether address is a v3 onion address with a
// correct version byte and checksum. Letter case is ignored.
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, OnionSuffix)))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// pubkey (32) || checksum (2) || version (1)
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionV3Version {
		return false
	}
	want := v3Checksum(pubkey, version)
	return checksum[0] == want[0] && checksum[1] == want[1]
}

// v3Checksum returns the first two bytes of
// SHA3-256(".onion checksum" || pubkey || version).
func v3Checksum(pubkey []byte, version byte) [2]byte {
	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)

	sum := sha3.Sum256(data)
	return [2]byte{sum[0], sum[1]}
}

// IsV2Address reports whether address has the deprecated 16 character form.
func IsV2Address(address string) bool {
	return onionV2Pattern.MatchString(strings.ToLower(address))
}

// ValidateHost checks a seed host before any request is made.
// Hosts outside .onion are always accepted. An onion host requires Tor and
// must end in a valid v3 service address (subdomains are allowed).
func ValidateHost(host string, torEnabled bool) error {
	if !IsOnionHost(host) {
		return nil
	}
	if !torEnabled {
		return fmt.Errorf("%w: %s", ErrOnionRequiresTor, host)
	}

	labels := strings.Split(strings.ToLower(strings.TrimSuffix(host, ".")), ".")
	if len(labels) < 2 {
		return fmt.Errorf("%w: %s", ErrInvalidOnionAddress, host)
	}
	service := labels[len(labels)-2] + OnionSuffix

	switch {
	case IsValidV3Address(service):
		return nil
	case IsV2Address(service):
		return fmt.Errorf("%w: %s", ErrV2AddressDeprecated, host)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOnionAddress, host)
	}
}
