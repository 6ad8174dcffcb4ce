package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256KnownVector(t *testing.T) {
	svc := NewService()

	// keccak256("") 的标准向量
	empty := svc.Keccak256()
	assert.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(empty),
	)

	// keccak256("abc")
	abc := svc.Keccak256([]byte("abc"))
	assert.Equal(t,
		"4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		hex.EncodeToString(abc),
	)
}

func TestKeccak256MultiSegmentEqualsConcat(t *testing.T) {
	svc := NewService()

	joined := svc.Keccak256([]byte("hello world"))
	split := svc.Keccak256([]byte("hello"), []byte(" "), []byte("world"))
	assert.Equal(t, joined, split)

	h := svc.Keccak256Hash([]byte("hello world"))
	assert.Equal(t, joined, h.Bytes())
}

func TestSHA256(t *testing.T) {
	svc := NewService()

	sum := svc.SHA256([]byte("abc"))
	require.Len(t, sum, 32)
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(sum),
	)
}
