package hashauth

// Hasher keys a body digest with a shared secret.
type Hasher interface {
	Sign(data []byte) string
	Verify(data []byte, expectedHash string) bool
}
