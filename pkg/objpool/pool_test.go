package objpool

import (
	"crypto/sha256"
	"hash"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_ReturnsResetHashers(t *testing.T) {
	p := New(func() hash.Hash { return sha256.New() })

	h := p.Get()
	h.Write([]byte("dirty"))
	p.Put(h)

	empty := sha256.Sum256(nil)
	p.With(func(h hash.Hash) {
		assert.Equal(t, empty[:], h.Sum(nil))
	})
}

func TestPool_ConcurrentUse(t *testing.T) {
	p := New(func() hash.Hash { return sha256.New() })
	want := sha256.Sum256([]byte("payload"))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.With(func(h hash.Hash) {
				h.Write([]byte("payload"))
				assert.Equal(t, want[:], h.Sum(nil))
			})
		}()
	}
	wg.Wait()
}
