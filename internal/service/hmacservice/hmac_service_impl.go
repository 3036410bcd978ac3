package hmacservice

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type HMACSHA256 struct {
	key []byte
}

func NewHMACSHA256(key string) *HMACSHA256 {
	return &HMACSHA256{key: []byte(key)}
}

// Sign returns the hex HMAC-SHA256 of data.
func (s *HMACSHA256) Sign(data []byte) string {
	return hex.EncodeToString(s.sum(data))
}

func (s *HMACSHA256) Verify(data []byte, expectedHash string) bool {
	expected, err := hex.DecodeString(expectedHash)
	if err != nil {
		return false
	}
	return hmac.Equal(s.sum(data), expected)
}

func (s *HMACSHA256) sum(data []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return mac.Sum(nil)
}
