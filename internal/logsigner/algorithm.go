package logsigner

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/kazakovdmitriy/go-ct-logsigner/internal/ct"
	"github.com/kazakovdmitriy/go-ct-logsigner/pkg/objpool"
)

// keyFamily is the closed set of key types a log may sign with.
type keyFamily int

const (
	familyUnsupported keyFamily = iota
	familyECDSAP256
)

var sha256Pool = objpool.New(func() hash.Hash { return sha256.New() })

func familyOf(pub crypto.PublicKey) keyFamily {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		if k != nil && k.Curve == elliptic.P256() {
			return familyECDSAP256
		}
	}
	return familyUnsupported
}

func (f keyFamily) algorithm() ct.SignatureAndHashAlgorithm {
	switch f {
	case familyECDSAP256:
		return ct.SignatureAndHashAlgorithm{Hash: ct.SHA256, Signature: ct.ECDSA}
	}
	return ct.SignatureAndHashAlgorithm{}
}

func (f keyFamily) hash() crypto.Hash {
	switch f {
	case familyECDSAP256:
		return crypto.SHA256
	}
	return 0
}

func (f keyFamily) digest(data []byte) []byte {
	var out []byte
	sha256Pool.With(func(h hash.Hash) {
		h.Write(data)
		out = h.Sum(nil)
	})
	return out
}

func describeKey(pub crypto.PublicKey) string {
	if k, ok := pub.(*ecdsa.PublicKey); ok && k != nil && k.Curve != nil {
		return "ecdsa/" + k.Curve.Params().Name
	}
	return fmt.Sprintf("%T", pub)
}
