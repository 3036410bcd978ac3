// Package logsigner signs and verifies Signed Certificate Timestamps and
// Signed Tree Heads under a single fixed hash/signature algorithm pair.
//
// Bad external input is reported through SignError and VerifyError. Caller
// bugs and misconfiguration (unsupported key types, unset SCT timestamps,
// failing crypto primitives) are fatal and go through the injected logger's
// Fatal.
package logsigner

import (
	"crypto"
	"crypto/rand"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/serializer"
	"go.uber.org/zap"
)

type Signer struct {
	key       crypto.Signer
	family    keyFamily
	algorithm ct.SignatureAndHashAlgorithm
	log       *zap.Logger
}

// NewSigner takes ownership of key. The algorithm pair is fixed from the key
// type; an unsupported key is fatal.
func NewSigner(key crypto.Signer, log *zap.Logger) *Signer {
	if log == nil {
		log = zap.NewNop()
	}
	if key == nil {
		log.Fatal("logsigner: nil signing key")
		return nil
	}

	family := familyOf(key.Public())
	if family == familyUnsupported {
		log.Fatal("logsigner: unsupported key type", zap.String("key", describeKey(key.Public())))
		return nil
	}

	return &Signer{
		key:       key,
		family:    family,
		algorithm: family.algorithm(),
		log:       log,
	}
}

func (s *Signer) Algorithm() ct.SignatureAndHashAlgorithm {
	return s.algorithm
}

func (s *Signer) Public() crypto.PublicKey {
	return s.key.Public()
}

// SignSCT signs the certificate_timestamp structure for certificate.
func (s *Signer) SignSCT(timestamp uint64, entryType ct.LogEntryType, certificate []byte) (ct.DigitallySigned, error) {
	input, err := serializer.SerializeSCTSignatureInput(timestamp, entryType, certificate)
	if err != nil {
		return ct.DigitallySigned{}, s.serializeError(err)
	}
	return s.sign(input), nil
}

// SignSCTWire is SignSCT with the envelope in its TLS wire encoding.
func (s *Signer) SignSCTWire(timestamp uint64, entryType ct.LogEntryType, certificate []byte) ([]byte, error) {
	ds, err := s.SignSCT(timestamp, entryType, certificate)
	if err != nil {
		return nil, err
	}
	return s.marshal(ds), nil
}

// SignSCTEntry signs entry at sct.Timestamp and stores the result in
// sct.Signature. The timestamp must already be set.
func (s *Signer) SignSCTEntry(entry *ct.LogEntry, sct *ct.SignedCertificateTimestamp) error {
	if sct.Timestamp == 0 {
		s.log.Fatal("logsigner: attempt to sign an SCT with a missing timestamp")
		return nil
	}

	input, err := serializer.SerializeSCTSignatureInputEntry(sct.Timestamp, entry)
	if err != nil {
		return s.serializeError(err)
	}
	sct.Signature = s.sign(input)
	return nil
}

// SignSTH signs the tree_hash structure.
func (s *Signer) SignSTH(timestamp, treeSize uint64, rootHash []byte) (ct.DigitallySigned, error) {
	input, err := serializer.SerializeSTHSignatureInput(timestamp, treeSize, rootHash)
	if err != nil {
		return ct.DigitallySigned{}, s.serializeError(err)
	}
	return s.sign(input), nil
}

func (s *Signer) SignSTHWire(timestamp, treeSize uint64, rootHash []byte) ([]byte, error) {
	ds, err := s.SignSTH(timestamp, treeSize, rootHash)
	if err != nil {
		return nil, err
	}
	return s.marshal(ds), nil
}

// SignTreeHead signs the populated fields of sth and stores the result in
// sth.TreeHeadSignature.
func (s *Signer) SignTreeHead(sth *ct.SignedTreeHead) error {
	input, err := serializer.SerializeSTHSignatureInputTreeHead(sth)
	if err != nil {
		return s.serializeError(err)
	}
	sth.TreeHeadSignature = s.sign(input)
	return nil
}

func (s *Signer) sign(input []byte) ct.DigitallySigned {
	return ct.DigitallySigned{
		Algorithm: s.algorithm,
		Signature: s.rawSign(input),
	}
}

func (s *Signer) rawSign(input []byte) []byte {
	sig, err := s.key.Sign(rand.Reader, s.family.digest(input), s.family.hash())
	if err != nil {
		s.log.Fatal("logsigner: signing primitive failed", zap.Error(err))
	}
	return sig
}

func (s *Signer) marshal(ds ct.DigitallySigned) []byte {
	out, err := serializer.SerializeDigitallySigned(ds)
	if err != nil {
		s.log.Fatal("logsigner: cannot encode signature", zap.Error(err))
	}
	return out
}

func (s *Signer) serializeError(err error) error {
	code, ok := signErrorFor(err)
	if !ok {
		s.log.Fatal("logsigner: unknown serializer error", zap.Error(err))
	}
	return code
}
