package serializer

import (
	"bytes"
	"errors"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"golang.org/x/crypto/cryptobyte"
)

// hash(1) + signature(1) + length(2)
const envelopeHeaderLength = 4

var (
	ErrInputTooShort             = errors.New("input too short")
	ErrInputTooLong              = errors.New("input too long")
	ErrInvalidHashAlgorithm      = errors.New("invalid hash algorithm")
	ErrInvalidSignatureAlgorithm = errors.New("invalid signature algorithm")
)

// DeserializeDigitallySigned decodes a wire envelope. The whole input must be
// consumed; trailing bytes are reported as ErrInputTooLong.
func DeserializeDigitallySigned(in []byte) (ct.DigitallySigned, error) {
	var ds ct.DigitallySigned
	if len(in) < envelopeHeaderLength {
		return ds, ErrInputTooShort
	}

	s := cryptobyte.String(in)

	var hash, sig uint8
	s.ReadUint8(&hash)
	if !ct.HashAlgorithm(hash).Known() {
		return ds, ErrInvalidHashAlgorithm
	}
	s.ReadUint8(&sig)
	if !ct.SignatureAlgorithm(sig).Known() {
		return ds, ErrInvalidSignatureAlgorithm
	}

	var raw cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&raw) {
		return ds, ErrInputTooShort
	}
	if !s.Empty() {
		return ds, ErrInputTooLong
	}

	ds.Algorithm = ct.SignatureAndHashAlgorithm{
		Hash:      ct.HashAlgorithm(hash),
		Signature: ct.SignatureAlgorithm(sig),
	}
	ds.Signature = bytes.Clone(raw)
	return ds, nil
}
