package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const staffPasswordLen = 12

// every generated password draws at least one character from each class
var passwordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnopqrstuvwxyz",
	"23456789",
	"!@#$%&*",
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// GenerateStaffPassword returns a random password for the hash-password
// command. Do not log the returned string.
func GenerateStaffPassword() (string, error) {
	all := ""
	for _, c := range passwordClasses {
		all += c
	}
	out := make([]byte, staffPasswordLen)
	for i := range out {
		set := all
		if i < len(passwordClasses) {
			set = passwordClasses[i]
		}
		j, err := randIndex(len(set))
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}
		out[i] = set[j]
	}
	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}
