// Package ct holds the Certificate Transparency protocol objects that the
// log signs and verifies.
package ct

import "fmt"

type Version uint8

const V1 Version = 0

// SignatureType distinguishes the two structures a log signs.
type SignatureType uint8

const (
	CertificateTimestampSignatureType SignatureType = 0
	TreeHashSignatureType             SignatureType = 1
)

type LogEntryType uint16

const (
	X509LogEntryType    LogEntryType = 0
	PrecertLogEntryType LogEntryType = 1
)

func (t LogEntryType) String() string {
	switch t {
	case X509LogEntryType:
		return "X509_ENTRY"
	case PrecertLogEntryType:
		return "PRECERT_ENTRY"
	default:
		return fmt.Sprintf("UNKNOWN_ENTRY_TYPE(%d)", uint16(t))
	}
}

// HashAlgorithm is the TLS HashAlgorithm registry value.
type HashAlgorithm uint8

const (
	None   HashAlgorithm = 0
	MD5    HashAlgorithm = 1
	SHA1   HashAlgorithm = 2
	SHA224 HashAlgorithm = 3
	SHA256 HashAlgorithm = 4
	SHA384 HashAlgorithm = 5
	SHA512 HashAlgorithm = 6
)

// Known reports whether h is a registered value.
func (h HashAlgorithm) Known() bool {
	return h <= SHA512
}

func (h HashAlgorithm) String() string {
	switch h {
	case None:
		return "NONE"
	case MD5:
		return "MD5"
	case SHA1:
		return "SHA1"
	case SHA224:
		return "SHA224"
	case SHA256:
		return "SHA256"
	case SHA384:
		return "SHA384"
	case SHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("UNKNOWN_HASH(%d)", uint8(h))
	}
}

// SignatureAlgorithm is the TLS SignatureAlgorithm registry value.
type SignatureAlgorithm uint8

const (
	Anonymous SignatureAlgorithm = 0
	RSA       SignatureAlgorithm = 1
	DSA       SignatureAlgorithm = 2
	ECDSA     SignatureAlgorithm = 3
)

func (s SignatureAlgorithm) Known() bool {
	return s <= ECDSA
}

func (s SignatureAlgorithm) String() string {
	switch s {
	case Anonymous:
		return "ANONYMOUS"
	case RSA:
		return "RSA"
	case DSA:
		return "DSA"
	case ECDSA:
		return "ECDSA"
	default:
		return fmt.Sprintf("UNKNOWN_SIGNATURE(%d)", uint8(s))
	}
}

type SignatureAndHashAlgorithm struct {
	Hash      HashAlgorithm
	Signature SignatureAlgorithm
}

// DigitallySigned is the algorithm-tagged signature attached to SCTs and STHs.
type DigitallySigned struct {
	Algorithm SignatureAndHashAlgorithm
	Signature []byte
}

type X509ChainEntry struct {
	LeafCertificate  []byte
	CertificateChain [][]byte
}

type PrecertChainEntry struct {
	PreCertificate      []byte
	PrecertificateChain [][]byte
}

// LogEntry carries exactly one of X509Entry or PrecertEntry, selected by Type.
type LogEntry struct {
	Type         LogEntryType
	X509Entry    *X509ChainEntry
	PrecertEntry *PrecertChainEntry
}

// SignedCertificateTimestamp is the log's promise to incorporate an entry.
// Timestamp is milliseconds since the epoch; zero means it has not been set.
type SignedCertificateTimestamp struct {
	Version    Version
	LogID      [32]byte
	Timestamp  uint64
	// Extensions is always empty for v1; signatures cover an empty field.
	Extensions []byte
	Signature  DigitallySigned
}

type SignedTreeHead struct {
	Version           Version
	Timestamp         uint64
	TreeSize          uint64
	SHA256RootHash    []byte
	TreeHeadSignature DigitallySigned
}
