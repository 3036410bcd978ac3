package raw_ecdsa

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
)

func SignDigest(digest []byte) ([]byte, bool, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, false, err
	}
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest) // want `ecdsa.SignASN1\(\) should only be called from the logsigner package`
	if err != nil {
		return nil, false, err
	}
	return sig, ecdsa.VerifyASN1(&key.PublicKey, digest, sig), nil // want `ecdsa.VerifyASN1\(\) should only be called from the logsigner package`
}
