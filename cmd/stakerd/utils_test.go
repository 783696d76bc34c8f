// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaker/genesis"
)

func TestFullVersion(t *testing.T) {
	version, gitCommit, gitTag = "1.0.0", "abcdef", ""
	assert.Equal(t, "1.0.0-abcdef-dev", fullVersion())

	gitTag = "v1.0.0"
	assert.Equal(t, "1.0.0-abcdef-release", fullVersion())
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Contains(t, defaultDataDir(), "/home/tester")
}

func TestServeShutdown(t *testing.T) {
	url, srv := listen("127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv) }()

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewRuntimeSolo(t *testing.T) {
	dbs := openMemDatabases()
	defer dbs.Close()

	cfg := genesis.DevConfig()
	rt := newRuntime(dbs, cfg)
	ov := loadOverview(rt)
	assert.Equal(t, cfg.Owner, ov.owner)
	assert.Equal(t, cfg.RewardToken, ov.rewardToken)
	assert.Equal(t, "0", ov.totalStaked)
	seq := ov.seq
	rt.Close()

	// reopening keeps the deployment and does not run genesis again
	rt = newRuntime(dbs, cfg)
	defer rt.Close()
	assert.Equal(t, seq, rt.Seq())
}
