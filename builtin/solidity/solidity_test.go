// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/lvldb"
	"github.com/vechain/nftstaker/state"
	"github.com/vechain/nftstaker/thor"
)

type TestStruct struct {
	Field1 uint64
	Addr1  thor.Address
	Amount *uint256.Int
}

// newTestContext returns a fresh Context over an in-memory db.
func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)
	return NewContext(thor.Address{1}, stater.NewState())
}

func TestMappingStruct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{1})

	key := thor.Bytes32{0xaa}
	empty, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty, "pointer values are allocated on miss")
	assert.Equal(t, uint64(0), empty.Field1)

	val := &TestStruct{Field1: 7, Addr1: thor.Address{2}, Amount: uint256.NewInt(1e18)}
	require.NoError(t, m.Set(key, val))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val.Field1, got.Field1)
	assert.Equal(t, val.Addr1, got.Addr1)
	assert.Equal(t, val.Amount, got.Amount)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingIsolation(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{2})

	require.NoError(t, a.Set(thor.Address{9}, 1))
	require.NoError(t, b.Set(thor.Address{9}, 2))

	va, _ := a.Get(thor.Address{9})
	vb, _ := b.Get(thor.Address{9})
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.BytesToBytes32([]byte("total")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, u.Add(uint256.NewInt(10)))
	require.NoError(t, u.Sub(uint256.NewInt(3)))
	v, _ = u.Get()
	assert.Equal(t, uint64(7), v.Uint64())

	assert.ErrorIs(t, u.Sub(uint256.NewInt(8)), reverts.ErrArithmeticOverflow)
	v, _ = u.Get()
	assert.Equal(t, uint64(7), v.Uint64(), "failed sub leaves value")

	max := new(uint256.Int).SetAllOne()
	assert.ErrorIs(t, u.Add(max), reverts.ErrArithmeticOverflow)

	u.Set(max)
	v, _ = u.Get()
	assert.Equal(t, max, v)
}

func TestUint64(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint64(ctx, thor.BytesToBytes32([]byte("finish")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Zero(t, v)

	u.Set(1_700_000_000)
	v, _ = u.Get()
	assert.Equal(t, uint64(1_700_000_000), v)
}

func TestAddressAndBool(t *testing.T) {
	ctx := newTestContext(t)

	addr := NewAddress(ctx, thor.BytesToBytes32([]byte("owner")))
	owner := thor.BytesToAddress([]byte("owner"))
	addr.Set(owner)
	got, err := addr.Get()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	flag := NewBool(ctx, thor.BytesToBytes32([]byte("paused")))
	b, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, b)
	flag.Set(true)
	b, _ = flag.Get()
	assert.True(t, b)
	flag.Set(false)
	b, _ = flag.Get()
	assert.False(t, b)
}
