// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/genesis"
	"github.com/vechain/nftstaker/logdb"
	"github.com/vechain/nftstaker/lvldb"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/state"
)

func newRuntime(t *testing.T) (*runtime.Runtime, *logdb.LogDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)

	rt, err := runtime.New(stater, logDB, genesis.DevConfig().Addresses(), runtime.NewManualClock(1_700_000_000))
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt, logDB
}

func TestHealth_Bootstrap(t *testing.T) {
	rt, logDB := newRuntime(t)
	defer logDB.Close()

	h := New(rt)
	defer h.Close()

	status, err := h.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.False(t, status.Bootstrapped)
	assert.True(t, status.LogDB)
	assert.Nil(t, status.LastOperation)

	cfg := genesis.DevConfig()
	_, err = genesis.Build(rt, cfg)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, err := h.Status(context.Background())
		return err == nil && status.LastOperation != nil
	}, time.Second, 10*time.Millisecond)

	status, err = h.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, "genesis", status.LastOperation.Op)
	assert.Equal(t, uint64(1), status.LastOperation.Seq)
	assert.Equal(t, cfg.Owner, status.LastOperation.Caller)
}

func TestHealth_LogDBDown(t *testing.T) {
	rt, logDB := newRuntime(t)
	_, err := genesis.Build(rt, genesis.DevConfig())
	require.NoError(t, err)

	h := New(rt)
	defer h.Close()

	require.NoError(t, logDB.Close())

	status, err := h.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.True(t, status.Bootstrapped)
	assert.False(t, status.LogDB)
}

func TestHealth_CloseStopsLoop(t *testing.T) {
	rt, logDB := newRuntime(t)
	defer logDB.Close()

	h := New(rt)
	done := make(chan struct{})
	go func() {
		h.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close blocked")
	}
}
