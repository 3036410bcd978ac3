package logsigner

import (
	"crypto"
	"crypto/ecdsa"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/serializer"
	"go.uber.org/zap"
)

type Verifier struct {
	ecdsaKey  *ecdsa.PublicKey
	family    keyFamily
	algorithm ct.SignatureAndHashAlgorithm
	log       *zap.Logger
}

// NewVerifier takes ownership of key. An unsupported key type is fatal.
func NewVerifier(key crypto.PublicKey, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}

	family := familyOf(key)
	v := &Verifier{
		family:    family,
		algorithm: family.algorithm(),
		log:       log,
	}

	switch family {
	case familyECDSAP256:
		v.ecdsaKey = key.(*ecdsa.PublicKey)
	default:
		log.Fatal("logsigner: unsupported key type", zap.String("key", describeKey(key)))
		return nil
	}
	return v
}

func (v *Verifier) Algorithm() ct.SignatureAndHashAlgorithm {
	return v.algorithm
}

// VerifySCT checks a wire-encoded signature over the certificate_timestamp
// structure. The envelope is decoded before the input is canonicalized.
func (v *Verifier) VerifySCT(timestamp uint64, entryType ct.LogEntryType, certificate, wireSignature []byte) error {
	ds, err := serializer.DeserializeDigitallySigned(wireSignature)
	if err != nil {
		return v.resultFor(err)
	}

	input, err := serializer.SerializeSCTSignatureInput(timestamp, entryType, certificate)
	if err != nil {
		return v.resultFor(err)
	}
	return v.verify(input, ds)
}

// VerifySCTEntry checks sct.Signature over entry at sct.Timestamp.
func (v *Verifier) VerifySCTEntry(entry *ct.LogEntry, sct *ct.SignedCertificateTimestamp) error {
	input, err := serializer.SerializeSCTSignatureInputEntry(sct.Timestamp, entry)
	if err != nil {
		return v.resultFor(err)
	}
	return v.verify(input, sct.Signature)
}

func (v *Verifier) VerifySTH(timestamp, treeSize uint64, rootHash, wireSignature []byte) error {
	ds, err := serializer.DeserializeDigitallySigned(wireSignature)
	if err != nil {
		return v.resultFor(err)
	}

	input, err := serializer.SerializeSTHSignatureInput(timestamp, treeSize, rootHash)
	if err != nil {
		return v.resultFor(err)
	}
	return v.verify(input, ds)
}

func (v *Verifier) VerifyTreeHead(sth *ct.SignedTreeHead) error {
	input, err := serializer.SerializeSTHSignatureInputTreeHead(sth)
	if err != nil {
		return v.resultFor(err)
	}
	return v.verify(input, sth.TreeHeadSignature)
}

// verify compares the hash id, then the signature id, and only then checks
// the signature bytes.
func (v *Verifier) verify(input []byte, ds ct.DigitallySigned) error {
	if ds.Algorithm.Hash != v.algorithm.Hash {
		return VerifyHashAlgorithmMismatch
	}
	if ds.Algorithm.Signature != v.algorithm.Signature {
		return VerifySignatureAlgorithmMismatch
	}
	if !v.rawVerify(input, ds.Signature) {
		return VerifyInvalidSignature
	}
	return nil
}

func (v *Verifier) rawVerify(input, signature []byte) bool {
	switch v.family {
	case familyECDSAP256:
		return ecdsa.VerifyASN1(v.ecdsaKey, v.family.digest(input), signature)
	}
	return false
}

func (v *Verifier) resultFor(err error) error {
	code, ok := verifyErrorFor(err)
	if !ok {
		v.log.Fatal("logsigner: unknown serializer error", zap.Error(err))
	}
	return code
}
