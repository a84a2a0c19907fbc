package commands

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	entryCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	entryCodeGroups   = 3
	entryCodeGroupLen = 4
)

// GenerateEntryCode returns a random code such as "AB12-CD34-EF56".
func GenerateEntryCode() (string, error) {
	groups := make([]string, entryCodeGroups)
	max := big.NewInt(int64(len(entryCodeAlphabet)))
	for g := range groups {
		var b strings.Builder
		for i := 0; i < entryCodeGroupLen; i++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", err
			}
			b.WriteByte(entryCodeAlphabet[n.Int64()])
		}
		groups[g] = b.String()
	}
	return strings.Join(groups, "-"), nil
}
