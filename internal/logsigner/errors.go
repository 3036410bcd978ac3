package logsigner

import (
	"errors"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/serializer"
)

// SignError enumerates every way a signing call can fail. All members come
// from canonicalization of the signing input.
type SignError int

const (
	SignInvalidEntryType SignError = iota + 1
	SignEmptyCertificate
	SignCertificateTooLong
	SignInvalidHashLength
)

func (e SignError) String() string {
	switch e {
	case SignInvalidEntryType:
		return "INVALID_ENTRY_TYPE"
	case SignEmptyCertificate:
		return "EMPTY_CERTIFICATE"
	case SignCertificateTooLong:
		return "CERTIFICATE_TOO_LONG"
	case SignInvalidHashLength:
		return "INVALID_HASH_LENGTH"
	default:
		return "UNKNOWN"
	}
}

func (e SignError) Error() string {
	return "logsigner: sign: " + e.String()
}

// VerifyError enumerates every way a verification call can fail.
type VerifyError int

const (
	VerifyInvalidEntryType VerifyError = iota + 1
	VerifyEmptyCertificate
	VerifyCertificateTooLong
	VerifyInvalidHashLength
	VerifySignatureTooShort
	VerifySignatureTooLong
	VerifyInvalidHashAlgorithm
	VerifyInvalidSignatureAlgorithm
	VerifyHashAlgorithmMismatch
	VerifySignatureAlgorithmMismatch
	VerifyInvalidSignature
)

// VerifyErrors lists every VerifyError, in declaration order.
func VerifyErrors() []VerifyError {
	return []VerifyError{
		VerifyInvalidEntryType,
		VerifyEmptyCertificate,
		VerifyCertificateTooLong,
		VerifyInvalidHashLength,
		VerifySignatureTooShort,
		VerifySignatureTooLong,
		VerifyInvalidHashAlgorithm,
		VerifyInvalidSignatureAlgorithm,
		VerifyHashAlgorithmMismatch,
		VerifySignatureAlgorithmMismatch,
		VerifyInvalidSignature,
	}
}

func (e VerifyError) String() string {
	switch e {
	case VerifyInvalidEntryType:
		return "INVALID_ENTRY_TYPE"
	case VerifyEmptyCertificate:
		return "EMPTY_CERTIFICATE"
	case VerifyCertificateTooLong:
		return "CERTIFICATE_TOO_LONG"
	case VerifyInvalidHashLength:
		return "INVALID_HASH_LENGTH"
	case VerifySignatureTooShort:
		return "SIGNATURE_TOO_SHORT"
	case VerifySignatureTooLong:
		return "SIGNATURE_TOO_LONG"
	case VerifyInvalidHashAlgorithm:
		return "INVALID_HASH_ALGORITHM"
	case VerifyInvalidSignatureAlgorithm:
		return "INVALID_SIGNATURE_ALGORITHM"
	case VerifyHashAlgorithmMismatch:
		return "HASH_ALGORITHM_MISMATCH"
	case VerifySignatureAlgorithmMismatch:
		return "SIGNATURE_ALGORITHM_MISMATCH"
	case VerifyInvalidSignature:
		return "INVALID_SIGNATURE"
	default:
		return "UNKNOWN"
	}
}

func (e VerifyError) Error() string {
	return "logsigner: verify: " + e.String()
}

// ResultName returns "OK" for a nil error and the enumeration name for a
// SignError or VerifyError. Anything else is reported as "INTERNAL".
func ResultName(err error) string {
	if err == nil {
		return "OK"
	}
	var se SignError
	if errors.As(err, &se) {
		return se.String()
	}
	var ve VerifyError
	if errors.As(err, &ve) {
		return ve.String()
	}
	return "INTERNAL"
}

func signErrorFor(err error) (SignError, bool) {
	switch {
	case errors.Is(err, serializer.ErrInvalidEntryType):
		return SignInvalidEntryType, true
	case errors.Is(err, serializer.ErrEmptyCertificate):
		return SignEmptyCertificate, true
	case errors.Is(err, serializer.ErrCertificateTooLong):
		return SignCertificateTooLong, true
	case errors.Is(err, serializer.ErrInvalidHashLength):
		return SignInvalidHashLength, true
	}
	return 0, false
}

func verifyErrorFor(err error) (VerifyError, bool) {
	switch {
	case errors.Is(err, serializer.ErrInvalidEntryType):
		return VerifyInvalidEntryType, true
	case errors.Is(err, serializer.ErrEmptyCertificate):
		return VerifyEmptyCertificate, true
	case errors.Is(err, serializer.ErrCertificateTooLong):
		return VerifyCertificateTooLong, true
	case errors.Is(err, serializer.ErrInvalidHashLength):
		return VerifyInvalidHashLength, true
	case errors.Is(err, serializer.ErrInputTooShort):
		return VerifySignatureTooShort, true
	case errors.Is(err, serializer.ErrInputTooLong):
		return VerifySignatureTooLong, true
	case errors.Is(err, serializer.ErrInvalidHashAlgorithm):
		return VerifyInvalidHashAlgorithm, true
	case errors.Is(err, serializer.ErrInvalidSignatureAlgorithm):
		return VerifyInvalidSignatureAlgorithm, true
	}
	return 0, false
}
