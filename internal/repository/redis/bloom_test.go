package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomAddSetsEveryOffset(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bf := NewArticleBloomFilter(client, 1024)

	for _, off := range bf.offsets(42) {
		mock.ExpectSetBit(KeyArticleBloom, int64(off), 1).SetVal(0)
	}

	require.NoError(t, bf.Add(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomExists(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bf := NewArticleBloomFilter(client, 1024)
	offs := bf.offsets(7)

	for _, off := range offs {
		mock.ExpectGetBit(KeyArticleBloom, int64(off)).SetVal(1)
	}
	ok, err := bf.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectGetBit(KeyArticleBloom, int64(offs[0])).SetVal(1)
	mock.ExpectGetBit(KeyArticleBloom, int64(offs[1])).SetVal(0)
	mock.ExpectGetBit(KeyArticleBloom, int64(offs[2])).SetVal(1)
	ok, err = bf.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomExistsPropagatesErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	bf := NewArticleBloomFilter(client, 1024)

	offs := bf.offsets(7)
	mock.ExpectGetBit(KeyArticleBloom, int64(offs[0])).SetErr(errors.New("connection reset"))
	mock.ExpectGetBit(KeyArticleBloom, int64(offs[1])).SetVal(1)
	mock.ExpectGetBit(KeyArticleBloom, int64(offs[2])).SetVal(1)

	_, err := bf.Exists(context.Background(), 7)
	assert.Error(t, err)
}

func TestBloomOffsetsStayInRange(t *testing.T) {
	bf := NewArticleBloomFilter(nil, 97)
	for id := int64(0); id < 500; id++ {
		for _, off := range bf.offsets(id) {
			assert.Less(t, off, uint64(97))
		}
	}
	assert.Equal(t, bf.offsets(12345), bf.offsets(12345))
}
