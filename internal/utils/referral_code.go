package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// ReferralCodeBytes is the entropy of a referral code; the code is twice as long.
const ReferralCodeBytes = 4

// GenerateReferralCode creates a random uppercase hex code such as "9F03A1BC"
func GenerateReferralCode() (string, error) {
	b := make([]byte, ReferralCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
