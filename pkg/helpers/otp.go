package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
)

// OTPLength is the number of digits in a verification code.
const OTPLength = 6

var tenDigits = big.NewInt(10)

// GenOTPCode generates a 6-digit numeric code. Each position is drawn
// independently from crypto/rand, so leading zeros are possible.
func GenOTPCode() (string, error) {
	code := make([]byte, OTPLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, tenDigits)
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// CompareOTP reports whether received matches the stored code.
// A cleared (nil) code never matches.
func CompareOTP(received string, stored *string) bool {
	if stored == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(received), []byte(*stored)) == 1
}
