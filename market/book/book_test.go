package book

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/journal"
)

type key struct {
	maker      common.Address
	collection common.Address
}

var (
	colA = common.HexToAddress("0x0000000000000000000000000000000000000c01")
	colB = common.HexToAddress("0x0000000000000000000000000000000000000c02")
	m1   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	m2   = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	m3   = common.HexToAddress("0x00000000000000000000000000000000000000a3")
	t0   = time.Unix(1700000000, 0)
)

func commitment(maker, collection common.Address, expires time.Duration) Commitment {
	return Commitment{
		Maker:        maker,
		Collection:   collection,
		Price:        big.NewInt(100),
		PriceWithFee: big.NewInt(103),
		CreatedAt:    t0,
		ExpiresAt:    t0.Add(expires),
	}
}

func insert(t *testing.T, b *Book[key, common.Address], maker, collection common.Address) uint64 {
	id, err := b.Insert(key{maker, collection}, collection, commitment(maker, collection, time.Hour))
	require.NoError(t, err)
	return id
}

func TestInsertAssignsIDsFromOne(t *testing.T) {
	b := New[key, common.Address](journal.New())
	assert.EqualValues(t, 1, insert(t, b, m1, colA))
	assert.EqualValues(t, 2, insert(t, b, m2, colA))
	assert.EqualValues(t, 3, insert(t, b, m1, colB))
	assert.Equal(t, 2, b.Len(colA))
	assert.Equal(t, 3, b.Count())
	require.NoError(t, b.Check())
}

func TestInsertDuplicateKey(t *testing.T) {
	b := New[key, common.Address](journal.New())
	id := insert(t, b, m1, colA)

	_, err := b.Insert(key{m1, colA}, colA, commitment(m1, colA, time.Hour))
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	c, ok := b.Get(id)
	require.True(t, ok)
	assert.Equal(t, m1, c.Maker)
	assert.Equal(t, 1, b.Count())
}

func TestRemoveSwapAndPop(t *testing.T) {
	b := New[key, common.Address](journal.New())
	id1 := insert(t, b, m1, colA)
	insert(t, b, m2, colA)
	id3 := insert(t, b, m3, colA)

	removed, err := b.Remove(id1)
	require.NoError(t, err)
	assert.Equal(t, m1, removed.Maker)

	first, err := b.At(colA, 0)
	require.NoError(t, err)
	assert.Equal(t, id3, first.ID)
	assert.Equal(t, 2, b.Len(colA))
	require.NoError(t, b.Check())

	_, err = b.At(colA, 2)
	assert.ErrorIs(t, err, errs.ErrInvalidIndex)
	_, err = b.Remove(id1)
	assert.ErrorIs(t, err, errs.ErrNoActiveCommitment)

	// 键释放后可以重新挂单, id 不复用
	assert.EqualValues(t, 4, insert(t, b, m1, colA))
}

func TestRemoveLastOfGroupDropsGroup(t *testing.T) {
	b := New[key, common.Address](journal.New())
	id := insert(t, b, m1, colA)
	_, err := b.Remove(id)
	require.NoError(t, err)
	assert.Zero(t, b.Len(colA))
	assert.Empty(t, b.Group(colA))
	require.NoError(t, b.Check())
}

func TestRevertRestoresOrder(t *testing.T) {
	j := journal.New()
	b := New[key, common.Address](j)
	id1 := insert(t, b, m1, colA)
	id2 := insert(t, b, m2, colA)
	id3 := insert(t, b, m3, colA)
	j.Commit()

	snap := j.Snapshot()
	_, err := b.Remove(id1)
	require.NoError(t, err)
	_, err = b.Remove(id3)
	require.NoError(t, err)
	insert(t, b, m1, colB)
	j.RevertToSnapshot(snap)

	require.NoError(t, b.Check())
	var ids []uint64
	for _, c := range b.Group(colA) {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []uint64{id1, id2, id3}, ids)
	assert.Zero(t, b.Len(colB))
	assert.EqualValues(t, 4, insert(t, b, m1, colB))
}

func TestExpired(t *testing.T) {
	b := New[key, common.Address](journal.New())
	_, err := b.Insert(key{m1, colA}, colA, commitment(m1, colA, 100*time.Second))
	require.NoError(t, err)
	_, err = b.Insert(key{m2, colA}, colA, commitment(m2, colA, time.Hour))
	require.NoError(t, err)
	_, err = b.Insert(key{m3, colA}, colA, commitment(m3, colA, 50*time.Second))
	require.NoError(t, err)

	assert.Empty(t, b.Expired(t0.Add(50*time.Second), 0))
	got := b.Expired(t0.Add(101*time.Second), 0)
	require.Len(t, got, 2)
	assert.Equal(t, m1, got[0].Maker)
	assert.Equal(t, m3, got[1].Maker)
	assert.Len(t, b.Expired(t0.Add(101*time.Second), 1), 1)
}

func TestGetByKey(t *testing.T) {
	b := New[key, common.Address](journal.New())
	id := insert(t, b, m2, colB)
	c, ok := b.GetByKey(key{m2, colB})
	require.True(t, ok)
	assert.Equal(t, id, c.ID)
	_, ok = b.GetByKey(key{m1, colB})
	assert.False(t, ok)
}
