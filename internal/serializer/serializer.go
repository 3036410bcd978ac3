// Package serializer produces the canonical TLS-encoded byte strings that a
// CT log signs, and encodes/decodes the DigitallySigned envelope.
package serializer

import (
	"errors"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"golang.org/x/crypto/cryptobyte"
)

const (
	// MaxCertificateLength is the largest opaque ASN.1Cert<1..2^24-1>.
	MaxCertificateLength = 1<<24 - 1
	// MaxSignatureLength is the largest opaque signature<0..2^16-1>.
	MaxSignatureLength = 1<<16 - 1
	SHA256HashLength   = 32
)

var (
	ErrInvalidEntryType   = errors.New("invalid log entry type")
	ErrEmptyCertificate   = errors.New("empty certificate")
	ErrCertificateTooLong = errors.New("certificate too long")
	ErrInvalidHashLength  = errors.New("invalid root hash length")
	ErrSignatureTooLong   = errors.New("signature too long")
)

// SerializeSCTSignatureInput encodes the certificate_timestamp structure for
// a leaf certificate or precertificate observed at timestamp.
func SerializeSCTSignatureInput(timestamp uint64, entryType ct.LogEntryType, certificate []byte) ([]byte, error) {
	if err := checkCertificate(entryType, certificate); err != nil {
		return nil, err
	}

	b := cryptobyte.NewBuilder(make([]byte, 0, 14+3+len(certificate)))
	b.AddUint8(uint8(ct.V1))
	b.AddUint8(uint8(ct.CertificateTimestampSignatureType))
	b.AddUint64(timestamp)
	b.AddUint16(uint16(entryType))
	b.AddUint24LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(certificate)
	})
	// CtExtensions, always empty for v1 logs.
	b.AddUint16(0)

	return b.Bytes()
}

// SerializeSCTSignatureInputEntry is SerializeSCTSignatureInput with the
// certificate taken from entry.
func SerializeSCTSignatureInputEntry(timestamp uint64, entry *ct.LogEntry) ([]byte, error) {
	if entry == nil {
		return nil, ErrEmptyCertificate
	}
	return SerializeSCTSignatureInput(timestamp, entry.Type, EntryCertificate(entry))
}

// EntryCertificate returns the bytes that are signed for entry: the leaf
// certificate for X509 entries and the precertificate for precert entries.
func EntryCertificate(entry *ct.LogEntry) []byte {
	switch entry.Type {
	case ct.X509LogEntryType:
		if entry.X509Entry != nil {
			return entry.X509Entry.LeafCertificate
		}
	case ct.PrecertLogEntryType:
		if entry.PrecertEntry != nil {
			return entry.PrecertEntry.PreCertificate
		}
	}
	return nil
}

// SerializeSTHSignatureInput encodes the tree_hash structure.
func SerializeSTHSignatureInput(timestamp, treeSize uint64, rootHash []byte) ([]byte, error) {
	if len(rootHash) != SHA256HashLength {
		return nil, ErrInvalidHashLength
	}

	b := cryptobyte.NewBuilder(make([]byte, 0, 18+SHA256HashLength))
	b.AddUint8(uint8(ct.V1))
	b.AddUint8(uint8(ct.TreeHashSignatureType))
	b.AddUint64(timestamp)
	b.AddUint64(treeSize)
	b.AddBytes(rootHash)

	return b.Bytes()
}

func SerializeSTHSignatureInputTreeHead(sth *ct.SignedTreeHead) ([]byte, error) {
	return SerializeSTHSignatureInput(sth.Timestamp, sth.TreeSize, sth.SHA256RootHash)
}

// SerializeDigitallySigned encodes ds as hash(1) signature(1) opaque<0..2^16-1>.
func SerializeDigitallySigned(ds ct.DigitallySigned) ([]byte, error) {
	if len(ds.Signature) > MaxSignatureLength {
		return nil, ErrSignatureTooLong
	}

	b := cryptobyte.NewBuilder(make([]byte, 0, envelopeHeaderLength+len(ds.Signature)))
	b.AddUint8(uint8(ds.Algorithm.Hash))
	b.AddUint8(uint8(ds.Algorithm.Signature))
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(ds.Signature)
	})

	return b.Bytes()
}

func checkCertificate(entryType ct.LogEntryType, certificate []byte) error {
	if entryType != ct.X509LogEntryType && entryType != ct.PrecertLogEntryType {
		return ErrInvalidEntryType
	}
	if len(certificate) == 0 {
		return ErrEmptyCertificate
	}
	if len(certificate) > MaxCertificateLength {
		return ErrCertificateTooLong
	}
	return nil
}
