package redis

import (
	"context"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/social-blog/domain"
)

const (
	KeyArticleBloom = "bloom:article:ids"

	bloomHashes = 3
)

// bloomFilter is a bitmap bloom filter over int64 ids stored under one redis key.
type bloomFilter struct {
	client  *redis.Client
	key     string
	bitSize uint64
}

var _ domain.BloomRepository = (*bloomFilter)(nil)

func NewArticleBloomFilter(client *redis.Client, bitSize uint64) *bloomFilter {
	return &bloomFilter{
		client:  client,
		key:     KeyArticleBloom,
		bitSize: max(bitSize, 1),
	}
}

func (b *bloomFilter) Add(ctx context.Context, id int64) error {
	return b.BulkAdd(ctx, []int64{id})
}

func (b *bloomFilter) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := b.client.Pipeline()
	for _, id := range ids {
		for _, offset := range b.offsets(id) {
			pipe.SetBit(ctx, b.key, int64(offset), 1)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *bloomFilter) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := b.client.Pipeline()
	for _, offset := range b.offsets(id) {
		pipe.GetBit(ctx, b.key, int64(offset))
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		val, err := cmd.(*redis.IntCmd).Result()
		if err != nil {
			return false, err
		}
		if val == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (b *bloomFilter) offsets(id int64) [bloomHashes]uint64 {
	data := fmt.Appendf(nil, "%d", id)
	var res [bloomHashes]uint64

	res[0] = uint64(crc32.ChecksumIEEE(data)) % b.bitSize

	h := fnv.New64()
	h.Write(data)
	res[1] = h.Sum64() % b.bitSize

	// 线性混合
	res[2] = (res[0] + res[1] + 0xABC) % b.bitSize
	return res
}
