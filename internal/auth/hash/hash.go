// Package hash derives and verifies argon2id password hashes in PHC
// string form. This is the only password hashing in dashd; there is
// deliberately no fast-hash fallback.
package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	timeCost = 3
	memCost  = 64 * 1024 // KiB
	threads  = 1
	saltLen  = 16
	keyLen   = 32
)

var errBadPHC = errors.New("malformed phc string")

// Password derives an argon2id hash of plain and encodes it as
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash> with unpadded base64.
func Password(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(plain), salt, timeCost, memCost, threads, keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memCost, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether plain matches the PHC-encoded hash, honoring
// the parameters recorded in the string and comparing in constant time.
func Verify(phc, plain string) bool {
	m, t, p, salt, sum, err := parse(phc)
	if err != nil {
		return false
	}
	calc := argon2.IDKey([]byte(plain), salt, t, m, p, uint32(len(sum)))
	return subtle.ConstantTimeCompare(calc, sum) == 1
}

func parse(phc string) (m, t uint32, p uint8, salt, sum []byte, err error) {
	parts := strings.Split(phc, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	if m == 0 || t == 0 || p == 0 {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	sum, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return 0, 0, 0, nil, nil, errBadPHC
	}
	return m, t, p, salt, sum, nil
}
