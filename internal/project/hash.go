package project

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
)

// Digest - фиксированный 256 битный хеш.
type Digest [32]byte

// Combine hashes content followed by deps: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ModuleDigest hashes a module's identity and source text.
// Каждое поле пишется с префиксом длины, границы полей однозначны.
func ModuleDigest(m *ParsedModule) Digest {
	_, deps := m.DepsForGraph()
	h := sha256.New()
	writeField(h, m.Name)
	writeField(h, m.Package)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(deps)))
	_, _ = h.Write(n[:])
	for _, dep := range deps {
		writeField(h, dep)
	}
	writeField(h, m.Code)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func writeField(w io.Writer, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	_, _ = w.Write(n[:])
	_, _ = io.WriteString(w, s)
}

// Digest identifies the whole module set: same modules, same imports and
// same sources give the same digest.
func (p *ParsedModules) Digest() Digest {
	digests := make([]Digest, 0, p.Len())
	for _, m := range p.All() {
		digests = append(digests, ModuleDigest(m))
	}
	return Combine(Digest{}, digests...)
}
