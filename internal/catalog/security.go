package catalog

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// digests maps upper-cased algorithm names to hash constructors.
var digests = map[string]func() hash.Hash{
	"MD5":         md5.New,
	"SHA-1":       sha1.New,
	"SHA-256":     sha256.New,
	"SHA-512":     sha512.New,
	"SHA3-256":    sha3.New256,
	"SHA3-512":    sha3.New512,
	"BLAKE2B-256": blake2b256,
	"BLAKE2B-512": blake2b512,
}

// Unkeyed blake2b never fails.
func blake2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func blake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

// DigestAlgorithms lists the names java.security.MessageDigest accepts.
func DigestAlgorithms() []string {
	names := make([]string, 0, len(digests))
	for n := range digests {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MessageDigest accumulates input and hashes it with one algorithm.
type MessageDigest struct {
	algorithm string
	h         hash.Hash
}

// NewMessageDigest looks algorithm up case-insensitively.
func NewMessageDigest(algorithm string) (*MessageDigest, error) {
	name := strings.ToUpper(algorithm)
	mk, ok := digests[name]
	if !ok {
		return nil, fmt.Errorf("NoSuchAlgorithmException: %s MessageDigest not available", algorithm)
	}
	return &MessageDigest{algorithm: name, h: mk()}, nil
}

func (m *MessageDigest) String() string {
	return m.algorithm + " Message Digest"
}

// Digest returns the hex digest and resets the state.
func (m *MessageDigest) Digest() string {
	sum := hex.EncodeToString(m.h.Sum(nil))
	m.h.Reset()
	return sum
}

func registerSecurity(r *Registry, b *Builtins) {
	c := NewClass("java.security.MessageDigest", b.Object)
	b.MessageDigest = c

	c.Ctor(func(args []any) (any, error) {
		name, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		return NewMessageDigest(name)
	}, b.String)

	c.Method("update", nil, func(recv any, args []any) (any, error) {
		s, err := argChars(args, 0)
		if err != nil {
			return nil, err
		}
		recv.(*MessageDigest).h.Write([]byte(s))
		return nil, nil
	}, b.CharSequence)
	c.Method("update", nil, func(recv any, args []any) (any, error) {
		n, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		recv.(*MessageDigest).h.Write([]byte{byte(n)})
		return nil, nil
	}, Int)
	c.Method("digest", b.String, func(recv any, _ []any) (any, error) {
		return recv.(*MessageDigest).Digest(), nil
	})
	c.Method("digest", b.String, func(recv any, args []any) (any, error) {
		s, err := argChars(args, 0)
		if err != nil {
			return nil, err
		}
		m := recv.(*MessageDigest)
		m.h.Write([]byte(s))
		return m.Digest(), nil
	}, b.CharSequence)
	c.Method("reset", nil, func(recv any, _ []any) (any, error) {
		recv.(*MessageDigest).h.Reset()
		return nil, nil
	})
	c.Method("getAlgorithm", b.String, func(recv any, _ []any) (any, error) {
		return recv.(*MessageDigest).algorithm, nil
	})
	c.Method("getDigestLength", Int, func(recv any, _ []any) (any, error) {
		return int64(recv.(*MessageDigest).h.Size()), nil
	})

	r.Register(c, typeOf[*MessageDigest]())
}
