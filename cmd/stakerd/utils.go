// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nftstaker/genesis"
	stakerRuntime "github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

// maxClockOffset is how far the local clock may drift before a warning; rewards accrue by wall time.
const maxClockOffset = 5 * time.Second

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.nftstaker")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.nftstaker")
		}
		return filepath.Join(home, ".org.vechain.nftstaker")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

type overview struct {
	owner       thor.Address
	rewardToken thor.Address
	totalStaked string
	finish      uint64
	seq         uint64
}

func loadOverview(rt *stakerRuntime.Runtime) overview {
	ov := overview{seq: rt.Seq()}
	if err := rt.View(func(env *stakerRuntime.Env) error {
		var err error
		if ov.owner, err = env.Staker.Owner(); err != nil {
			return err
		}
		if ov.rewardToken, err = env.Staker.RewardToken(); err != nil {
			return err
		}
		sched, err := env.Staker.Schedule()
		if err != nil {
			return err
		}
		ov.totalStaked = sched.TotalStaked.Dec()
		ov.finish = sched.PeriodFinish
		return nil
	}); err != nil {
		fatal(fmt.Sprintf("load overview: %v", err))
	}
	return ov
}

func printStartupMessage(rt *stakerRuntime.Runtime, dataDir, apiURL string) {
	ov := loadOverview(rt)
	addrs := rt.Addresses()

	fmt.Printf(`Starting %v
    Staker      [ %v ]
    Collection  [ %v ]
    Reward      [ %v ]
    Owner       [ %v ]
    Staked      [ %v units, period ends @%v ]
    Sequence    [ #%v ]
    Data dir    [ %v ]
    API portal  [ %v ]
`,
		"stakerd/"+fullVersion(),
		addrs.Staker,
		addrs.Collection,
		ov.rewardToken,
		ov.owner,
		ov.totalStaked, time.Unix(int64(ov.finish), 0),
		ov.seq,
		dataDir,
		apiURL)
}

func printSoloStartupMessage(rt *stakerRuntime.Runtime, cfg *genesis.Config, dataDir, apiURL string) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────┐
│                   Address                  │     Assets     │`
	tableContent := `
├────────────────────────────────────────────┼────────────────┤
│ %v │ %14v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────┘`

	printStartupMessage(rt, dataDir, apiURL)

	info := tableHead
	for _, a := range cfg.Assets {
		if len(a.IDs) == 0 {
			continue
		}
		info += fmt.Sprintf(tableContent, a.Holder, fmt.Sprintf("#%d..#%d", a.IDs[0], a.IDs[len(a.IDs)-1]))
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}
