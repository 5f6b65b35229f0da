package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSer struct {
	A uint32
	B []byte
}

func (s *testSer) EncodeBinary(w *BinWriter) {
	w.WriteU32LE(s.A)
	w.WriteVarBytes(s.B)
}

func (s *testSer) DecodeBinary(r *BinReader) {
	s.A = r.ReadU32LE()
	s.B = r.ReadVarBytes()
}

func TestWriteReadU64LE(t *testing.T) {
	var (
		val uint64 = 0xbadc0de15a11dead
		bin        = []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU64LE(val)
	require.NoError(t, bw.Err)
	require.Equal(t, bin, bw.Bytes())

	br := NewBinReaderFromBuf(bin)
	require.Equal(t, val, br.ReadU64LE())
	require.NoError(t, br.Err)
}

func TestVarUint(t *testing.T) {
	for _, val := range []uint64{0, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000} {
		bw := NewBufBinWriter()
		bw.WriteVarUint(val)
		require.NoError(t, bw.Err)

		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, val, br.ReadVarUint())
		require.NoError(t, br.Err)
	}
}

func TestVarBytes(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	bw := NewBufBinWriter()
	bw.WriteVarBytes(b)
	require.NoError(t, bw.Err)

	br := NewBinReaderFromBuf(bw.Bytes())
	require.Equal(t, b, br.ReadVarBytes())
	require.NoError(t, br.Err)
}

func TestReadOnEmptyBuffer(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{})
	_ = br.ReadU32LE()
	require.Error(t, br.Err)
	// The error must stick.
	err := br.Err
	_ = br.ReadB()
	require.Equal(t, err, br.Err)
}

func TestWriteReadArray(t *testing.T) {
	arr := []*testSer{{A: 1, B: []byte{2}}, {A: 3, B: []byte{4, 5}}}
	bw := NewBufBinWriter()
	bw.WriteArray(arr)
	require.NoError(t, bw.Err)

	var got []*testSer
	br := NewBinReaderFromBuf(bw.Bytes())
	br.ReadArray(&got)
	require.NoError(t, br.Err)
	require.Equal(t, arr, got)
}

func TestReadArrayMaxSize(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteArray([]*testSer{{A: 1}, {A: 2}})
	require.NoError(t, bw.Err)

	var got []*testSer
	br := NewBinReaderFromBuf(bw.Bytes())
	br.ReadArray(&got, 1)
	assert.Error(t, br.Err)
}

func TestBufBinWriterReset(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteB(1)
	_ = bw.Bytes()
	require.Equal(t, ErrDrained, bw.Err)
	bw.Reset()
	require.NoError(t, bw.Err)
	bw.WriteB(2)
	require.Equal(t, []byte{2}, bw.Bytes())
}

func TestToFromByteArray(t *testing.T) {
	s := &testSer{A: 42, B: []byte{1, 2, 3}}
	b, err := ToByteArray(s)
	require.NoError(t, err)

	got := new(testSer)
	require.NoError(t, FromByteArray(got, b))
	require.Equal(t, s, got)
}
