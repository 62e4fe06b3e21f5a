package term

import "github.com/cespare/xxhash/v2"

// cspell:words xxhash

// Hash returns a structural hash of this term.
//
// Hashes are deterministic across processes and stores.
// For triple terms, Hash is exactly Combine(subject.Hash(), predicate.Hash(), object.Hash()).
func (t Term) Hash() uint64 {
	switch t.kind {
	case Missing:
		return 0
	case TripleTerm:
		return t.triple.Hash()
	}

	digest := xxhash.New()
	digest.Write([]byte{byte(t.kind)})
	digest.WriteString(t.value)
	if t.kind == Literal {
		digest.Write([]byte{0})
		digest.WriteString(t.datatype)
		digest.Write([]byte{0})
		digest.WriteString(t.language)
	}
	return digest.Sum64()
}

// Combine folds a sequence of hashes into one, order sensitive.
func Combine(hashes ...uint64) uint64 {
	result := uint64(1)
	for _, hash := range hashes {
		result = 31*result + hash
	}
	return result
}
