package crypto

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sort"

	"github.com/dchest/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

/*
	A Hasher absorbs bytes incrementally and is finalized exactly once into a 32 byte digest.
	The tree only depends on this capability, so any algorithm with a 32 byte output may be
	substituted by passing a different HasherFactory at the call site.
*/

const (
	HashSize = H256Size

	// Blake2bPersonalization separates tree digests from any other blake2b usage of the same input
	Blake2bPersonalization = "sparsemerkletree"

	Blake2bAlgorithm   = "blake2b"
	SHA256Algorithm    = "sha256"
	Blake3Algorithm    = "blake3"
	Keccak256Algorithm = "keccak256"
)

// Hasher is the one-shot incremental hashing capability used by the tree
type Hasher interface {
	WriteBytes(b []byte) // absorb bytes
	Finish() H256        // finalize into a digest, the hasher must not be used afterward
}

// HasherFactory creates a fresh Hasher
type HasherFactory func() Hasher

// hashers is the registry of named HasherFactories
var hashers = map[string]HasherFactory{
	Blake2bAlgorithm:   NewBlake2bHasher,
	SHA256Algorithm:    NewSHA256Hasher,
	Blake3Algorithm:    NewBlake3Hasher,
	Keccak256Algorithm: NewKeccak256Hasher,
}

// HasherByName() returns the HasherFactory registered under name
func HasherByName(name string) (HasherFactory, error) {
	factory, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q, expected one of %v", name, HasherNames())
	}
	return factory, nil
}

// HasherNames() returns the sorted registered algorithm names
func HasherNames() (names []string) {
	for name := range hashers {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// HashBytes() absorbs each part in order and returns the digest
func HashBytes(newHasher HasherFactory, parts ...[]byte) H256 {
	h := newHasher()
	for _, p := range parts {
		h.WriteBytes(p)
	}
	return h.Finish()
}

// NewBlake2bHasher() is the default tree hasher: blake2b-256 with an empty key and the tree personalization
func NewBlake2bHasher() Hasher {
	h, err := blake2b.New(&blake2b.Config{
		Size:   HashSize,
		Person: []byte(Blake2bPersonalization),
	})
	if err != nil {
		// the configuration is constant, an error here is a programming bug
		panic(err)
	}
	return &digestHasher{h: h}
}

// NewSHA256Hasher() is a sha256 Hasher
func NewSHA256Hasher() Hasher { return &digestHasher{h: sha256.New()} }

// NewBlake3Hasher() is an unkeyed 32 byte blake3 Hasher
func NewBlake3Hasher() Hasher { return &digestHasher{h: blake3.New(HashSize, nil)} }

// NewKeccak256Hasher() is a legacy keccak-256 Hasher
func NewKeccak256Hasher() Hasher { return &digestHasher{h: sha3.NewLegacyKeccak256()} }

var _ Hasher = &digestHasher{}

// digestHasher adapts a standard hash.Hash with a 32 byte output to the Hasher capability
type digestHasher struct {
	h        hash.Hash
	finished bool
}

// WriteBytes() absorbs b
func (d *digestHasher) WriteBytes(b []byte) {
	d.mustNotBeFinished()
	// hash.Hash never returns an error on write
	_, _ = d.h.Write(b)
}

// Finish() consumes the hasher and returns the digest
func (d *digestHasher) Finish() (out H256) {
	d.mustNotBeFinished()
	d.finished = true
	copy(out[:], d.h.Sum(nil))
	return
}

func (d *digestHasher) mustNotBeFinished() {
	if d.finished {
		panic("hasher used after Finish()")
	}
}
