package hmacservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256_Sign(t *testing.T) {
	t.Run("matches the RFC 4231 vector", func(t *testing.T) {
		signer := NewHMACSHA256("Jefe")
		got := signer.Sign([]byte("what do ya want for nothing?"))
		assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
	})

	t.Run("same data produces same hash", func(t *testing.T) {
		signer := NewHMACSHA256("k")
		assert.Equal(t, signer.Sign([]byte("data")), signer.Sign([]byte("data")))
	})

	t.Run("different keys produce different hashes", func(t *testing.T) {
		data := []byte("same data")
		assert.NotEqual(t, NewHMACSHA256("key1").Sign(data), NewHMACSHA256("key2").Sign(data))
	})
}

func TestHMACSHA256_Verify(t *testing.T) {
	signer := NewHMACSHA256("verify_key")
	data := []byte("body")
	good := signer.Sign(data)

	tests := []struct {
		name string
		hash string
		want bool
	}{
		{name: "valid", hash: good, want: true},
		{name: "uppercase hex", hash: strings.ToUpper(good), want: true},
		{name: "other data", hash: signer.Sign([]byte("other")), want: false},
		{name: "not hex", hash: "zz", want: false},
		{name: "truncated", hash: good[:10], want: false},
		{name: "other key", hash: NewHMACSHA256("k2").Sign(data), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, signer.Verify(data, tt.hash))
		})
	}
}
