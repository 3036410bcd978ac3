package logsigner

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/internal/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// fatalLogger turns Fatal into a panic so aborts can be asserted.
func fatalLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.WithFatalHook(zapcore.WriteThenPanic)))
}

func newKeyPair(t *testing.T) (*Signer, *Verifier) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	log := fatalLogger(t)
	return NewSigner(key, log), NewVerifier(&key.PublicKey, log)
}

var (
	testCert = []byte("leaf certificate DER")
	zeroRoot = make([]byte, 32)
)

func TestNewSigner_FixesAlgorithm(t *testing.T) {
	signer, verifier := newKeyPair(t)

	want := ct.SignatureAndHashAlgorithm{Hash: ct.SHA256, Signature: ct.ECDSA}
	assert.Equal(t, want, signer.Algorithm())
	assert.Equal(t, want, verifier.Algorithm())
}

func TestNewSigner_UnsupportedKeyIsFatal(t *testing.T) {
	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	assert.Panics(t, func() { NewSigner(edKey, fatalLogger(t)) })
	assert.Panics(t, func() { NewSigner(p384, fatalLogger(t)) })
	assert.Panics(t, func() { NewSigner(nil, fatalLogger(t)) })
}

func TestNewVerifier_UnsupportedKeyIsFatal(t *testing.T) {
	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	assert.Panics(t, func() { NewVerifier(edPub, fatalLogger(t)) })
	assert.Panics(t, func() { NewVerifier(&p384.PublicKey, fatalLogger(t)) })
	assert.Panics(t, func() { NewVerifier(nil, fatalLogger(t)) })
}

func TestSCT_RoundTrip(t *testing.T) {
	signer, verifier := newKeyPair(t)

	for _, entryType := range []ct.LogEntryType{ct.X509LogEntryType, ct.PrecertLogEntryType} {
		t.Run(entryType.String(), func(t *testing.T) {
			wire, err := signer.SignSCTWire(1234, entryType, testCert)
			require.NoError(t, err)

			assert.NoError(t, verifier.VerifySCT(1234, entryType, testCert, wire))
			assert.ErrorIs(t, verifier.VerifySCT(1235, entryType, testCert, wire), VerifyInvalidSignature)
			assert.ErrorIs(t, verifier.VerifySCT(1234, entryType, []byte("other"), wire), VerifyInvalidSignature)
		})
	}
}

func TestSCT_SigningTwiceBothVerify(t *testing.T) {
	signer, verifier := newKeyPair(t)

	first, err := signer.SignSCTWire(99, ct.X509LogEntryType, testCert)
	require.NoError(t, err)
	second, err := signer.SignSCTWire(99, ct.X509LogEntryType, testCert)
	require.NoError(t, err)

	assert.NoError(t, verifier.VerifySCT(99, ct.X509LogEntryType, testCert, first))
	assert.NoError(t, verifier.VerifySCT(99, ct.X509LogEntryType, testCert, second))
}

func TestSCTEntry_RoundTrip(t *testing.T) {
	signer, verifier := newKeyPair(t)

	entry := &ct.LogEntry{
		Type:      ct.X509LogEntryType,
		X509Entry: &ct.X509ChainEntry{LeafCertificate: testCert},
	}
	sct := &ct.SignedCertificateTimestamp{Timestamp: 1_700_000_000_000}

	require.NoError(t, signer.SignSCTEntry(entry, sct))
	assert.Equal(t, signer.Algorithm(), sct.Signature.Algorithm)
	assert.NotEmpty(t, sct.Signature.Signature)
	assert.NoError(t, verifier.VerifySCTEntry(entry, sct))

	// The structured and flat forms sign the same bytes.
	wire, err := serializer.SerializeDigitallySigned(sct.Signature)
	require.NoError(t, err)
	assert.NoError(t, verifier.VerifySCT(sct.Timestamp, ct.X509LogEntryType, testCert, wire))

	sct.Timestamp++
	assert.ErrorIs(t, verifier.VerifySCTEntry(entry, sct), VerifyInvalidSignature)
}

func TestSignSCTEntry_MissingTimestampIsFatal(t *testing.T) {
	signer, _ := newKeyPair(t)
	entry := &ct.LogEntry{
		Type:      ct.X509LogEntryType,
		X509Entry: &ct.X509ChainEntry{LeafCertificate: testCert},
	}

	assert.Panics(t, func() {
		_ = signer.SignSCTEntry(entry, &ct.SignedCertificateTimestamp{})
	})
}

func TestSign_CanonicalizationErrors(t *testing.T) {
	signer, _ := newKeyPair(t)

	_, err := signer.SignSCT(1, ct.X509LogEntryType, nil)
	assert.Equal(t, SignEmptyCertificate, err)

	_, err = signer.SignSCT(1, ct.X509LogEntryType, make([]byte, serializer.MaxCertificateLength+1))
	assert.Equal(t, SignCertificateTooLong, err)

	_, err = signer.SignSCTWire(1, ct.LogEntryType(3), testCert)
	assert.Equal(t, SignInvalidEntryType, err)

	_, err = signer.SignSTH(1, 1, make([]byte, 31))
	assert.Equal(t, SignInvalidHashLength, err)

	_, err = signer.SignSTHWire(1, 1, nil)
	assert.Equal(t, SignInvalidHashLength, err)

	sth := &ct.SignedTreeHead{Timestamp: 1, TreeSize: 1, SHA256RootHash: []byte{1}}
	assert.Equal(t, SignInvalidHashLength, signer.SignTreeHead(sth))
	assert.Empty(t, sth.TreeHeadSignature.Signature)

	sct := &ct.SignedCertificateTimestamp{Timestamp: 1}
	assert.Equal(t, SignEmptyCertificate, signer.SignSCTEntry(&ct.LogEntry{Type: ct.PrecertLogEntryType}, sct))
	assert.Empty(t, sct.Signature.Signature)
}

type countingSigner struct {
	crypto.Signer
	calls int
}

func (c *countingSigner) Sign(r io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	c.calls++
	return c.Signer.Sign(r, digest, opts)
}

func TestSign_CanonicalizationFailureDoesNotUseKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	counting := &countingSigner{Signer: key}
	signer := NewSigner(counting, fatalLogger(t))

	_, err = signer.SignSCT(1, ct.X509LogEntryType, nil)
	require.Error(t, err)
	assert.Zero(t, counting.calls)

	_, err = signer.SignSCT(1, ct.X509LogEntryType, testCert)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.calls)
}

type failingSigner struct {
	pub crypto.PublicKey
}

func (f failingSigner) Public() crypto.PublicKey { return f.pub }

func (f failingSigner) Sign(io.Reader, []byte, crypto.SignerOpts) ([]byte, error) {
	return nil, errors.New("hsm unavailable")
}

func TestSign_PrimitiveFailureIsFatal(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signer := NewSigner(failingSigner{pub: &key.PublicKey}, fatalLogger(t))

	assert.Panics(t, func() {
		_, _ = signer.SignSTH(1, 1, zeroRoot)
	})
}

func TestSTH_Scenario(t *testing.T) {
	signer, verifier := newKeyPair(t)

	wire, err := signer.SignSTHWire(1000, 42, zeroRoot)
	require.NoError(t, err)

	assert.NoError(t, verifier.VerifySTH(1000, 42, zeroRoot, wire))
	assert.Equal(t, VerifyInvalidSignature, verifier.VerifySTH(1000, 43, zeroRoot, wire))
}

func TestTreeHead_RoundTrip(t *testing.T) {
	signer, verifier := newKeyPair(t)

	sth := &ct.SignedTreeHead{Timestamp: 1000, TreeSize: 42, SHA256RootHash: zeroRoot}
	require.NoError(t, signer.SignTreeHead(sth))
	assert.NoError(t, verifier.VerifyTreeHead(sth))

	sth.SHA256RootHash = append([]byte{0x01}, zeroRoot[1:]...)
	assert.Equal(t, VerifyInvalidSignature, verifier.VerifyTreeHead(sth))

	sth.SHA256RootHash = zeroRoot[:16]
	assert.Equal(t, VerifyInvalidHashLength, verifier.VerifyTreeHead(sth))
}

func TestVerify_AnyBitFlipIsInvalidSignature(t *testing.T) {
	signer, verifier := newKeyPair(t)

	sth := &ct.SignedTreeHead{Timestamp: 7, TreeSize: 3, SHA256RootHash: zeroRoot}
	require.NoError(t, signer.SignTreeHead(sth))
	original := sth.TreeHeadSignature.Signature

	for i := range original {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), original...)
			tampered[i] ^= 1 << bit
			sth.TreeHeadSignature.Signature = tampered
			require.Equal(t, VerifyInvalidSignature, verifier.VerifyTreeHead(sth), "byte %d bit %d", i, bit)
		}
	}
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	signer, verifier := newKeyPair(t)

	ds, err := signer.SignSTH(1000, 42, zeroRoot)
	require.NoError(t, err)

	t.Run("hash mismatch with valid signature bytes", func(t *testing.T) {
		sth := &ct.SignedTreeHead{Timestamp: 1000, TreeSize: 42, SHA256RootHash: zeroRoot, TreeHeadSignature: ds}
		sth.TreeHeadSignature.Algorithm.Hash = ct.SHA1
		assert.Equal(t, VerifyHashAlgorithmMismatch, verifier.VerifyTreeHead(sth))
	})

	t.Run("hash mismatch with garbage signature bytes", func(t *testing.T) {
		sth := &ct.SignedTreeHead{
			Timestamp:      1000,
			TreeSize:       42,
			SHA256RootHash: zeroRoot,
			TreeHeadSignature: ct.DigitallySigned{
				Algorithm: ct.SignatureAndHashAlgorithm{Hash: ct.SHA512, Signature: ct.ECDSA},
				Signature: []byte("garbage"),
			},
		}
		assert.Equal(t, VerifyHashAlgorithmMismatch, verifier.VerifyTreeHead(sth))
	})

	t.Run("hash mismatch reported before signature mismatch", func(t *testing.T) {
		bad := ds
		bad.Algorithm = ct.SignatureAndHashAlgorithm{Hash: ct.SHA384, Signature: ct.RSA}
		wire, err := serializer.SerializeDigitallySigned(bad)
		require.NoError(t, err)
		assert.Equal(t, VerifyHashAlgorithmMismatch, verifier.VerifySTH(1000, 42, zeroRoot, wire))
	})

	t.Run("signature mismatch", func(t *testing.T) {
		bad := ds
		bad.Algorithm.Signature = ct.DSA
		wire, err := serializer.SerializeDigitallySigned(bad)
		require.NoError(t, err)
		assert.Equal(t, VerifySignatureAlgorithmMismatch, verifier.VerifySTH(1000, 42, zeroRoot, wire))
	})
}

func TestVerify_WireDecodeErrors(t *testing.T) {
	_, verifier := newKeyPair(t)

	tests := []struct {
		name string
		wire []byte
		want VerifyError
	}{
		{name: "shorter than header", wire: []byte{0x04, 0x03}, want: VerifySignatureTooShort},
		{name: "truncated signature", wire: []byte{0x04, 0x03, 0x00, 0x10, 0x01}, want: VerifySignatureTooShort},
		{name: "trailing bytes", wire: []byte{0x04, 0x03, 0x00, 0x00, 0xff}, want: VerifySignatureTooLong},
		{name: "unknown hash", wire: []byte{0x09, 0x03, 0x00, 0x00}, want: VerifyInvalidHashAlgorithm},
		{name: "unknown signature", wire: []byte{0x04, 0x09, 0x00, 0x00}, want: VerifyInvalidSignatureAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verifier.VerifySCT(1, ct.X509LogEntryType, testCert, tt.wire))
			assert.Equal(t, tt.want, verifier.VerifySTH(1, 1, zeroRoot, tt.wire))
		})
	}
}

func TestVerify_StepOrder(t *testing.T) {
	_, verifier := newKeyPair(t)

	// A decode failure wins over a canonicalization failure.
	assert.Equal(t, VerifySignatureTooShort, verifier.VerifySCT(1, ct.X509LogEntryType, nil, []byte{0x04}))
	assert.Equal(t, VerifySignatureTooShort, verifier.VerifySTH(1, 1, nil, nil))

	// A canonicalization failure wins over an algorithm mismatch.
	mismatched, err := serializer.SerializeDigitallySigned(ct.DigitallySigned{
		Algorithm: ct.SignatureAndHashAlgorithm{Hash: ct.SHA1, Signature: ct.RSA},
	})
	require.NoError(t, err)
	assert.Equal(t, VerifyEmptyCertificate, verifier.VerifySCT(1, ct.X509LogEntryType, nil, mismatched))
	assert.Equal(t, VerifyInvalidEntryType, verifier.VerifySCT(1, 5, testCert, mismatched))
	assert.Equal(t, VerifyCertificateTooLong,
		verifier.VerifySCT(1, ct.X509LogEntryType, make([]byte, serializer.MaxCertificateLength+1), mismatched))
	assert.Equal(t, VerifyInvalidHashLength, verifier.VerifySTH(1, 1, []byte{1, 2}, mismatched))

	// Entry-based verification has no decode step.
	sct := &ct.SignedCertificateTimestamp{Timestamp: 1}
	assert.Equal(t, VerifyEmptyCertificate, verifier.VerifySCTEntry(&ct.LogEntry{Type: ct.X509LogEntryType}, sct))
}

func TestVerify_WrongKey(t *testing.T) {
	signer, _ := newKeyPair(t)
	_, otherVerifier := newKeyPair(t)

	wire, err := signer.SignSTHWire(1000, 42, zeroRoot)
	require.NoError(t, err)
	assert.Equal(t, VerifyInvalidSignature, otherVerifier.VerifySTH(1000, 42, zeroRoot, wire))
}

func TestResultName(t *testing.T) {
	assert.Equal(t, "OK", ResultName(nil))
	assert.Equal(t, "EMPTY_CERTIFICATE", ResultName(SignEmptyCertificate))
	assert.Equal(t, "HASH_ALGORITHM_MISMATCH", ResultName(VerifyHashAlgorithmMismatch))
	assert.Equal(t, "INTERNAL", ResultName(errors.New("boom")))

	names := make(map[string]struct{})
	for _, e := range VerifyErrors() {
		assert.NotEqual(t, "UNKNOWN", e.String())
		names[e.String()] = struct{}{}
	}
	assert.Len(t, names, len(VerifyErrors()))
}
