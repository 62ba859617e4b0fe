package codec

// Key is the shared key material. It's immutable once created.
type Key struct {
	material []byte
}

// NewKey creates a Key from a copy of b.
func NewKey(b []byte) (Key, error) {
	if len(b) == 0 {
		return Key{}, ErrEmptyKey
	}
	return Key{material: append([]byte(nil), b...)}, nil
}

// MustNewKey creates a Key and panics if b is empty.
func MustNewKey(b []byte) Key {
	k, err := NewKey(b)
	if err != nil {
		panic(err)
	}
	return k
}

// Len returns the length of the key material.
func (k Key) Len() int {
	return len(k.material)
}

// IsValid indicates the key was created with non-empty material.
func (k Key) IsValid() bool {
	return len(k.material) > 0
}

// At returns the key byte used at position i of a message.
func (k Key) At(i int) byte {
	return k.material[i%len(k.material)]
}

// Equal reports whether both keys hold the same material.
func (k Key) Equal(o Key) bool {
	if len(k.material) != len(o.material) {
		return false
	}
	for i, b := range k.material {
		if o.material[i] != b {
			return false
		}
	}
	return true
}

func (k Key) mustBeValid() {
	if !k.IsValid() {
		panic(ErrEmptyKey)
	}
}
