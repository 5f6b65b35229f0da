package io

// Serializable defines the binary encoding/decoding interface. Errors are
// returned via the reader/writer Err field, so implementations can chain
// field reads/writes without checking after every one.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}

type decodable interface {
	DecodeBinary(*BinReader)
}

type encodable interface {
	EncodeBinary(*BinWriter)
}

// ToByteArray serializes a to a byte slice.
func ToByteArray(a Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	a.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromByteArray deserializes a from a byte slice.
func FromByteArray(a Serializable, b []byte) error {
	r := NewBinReaderFromBuf(b)
	a.DecodeBinary(r)
	return r.Err
}
