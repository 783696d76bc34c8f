// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaker/builtin/reverts"
	"github.com/vechain/nftstaker/builtin/solidity"
	"github.com/vechain/nftstaker/builtin/staker"
	"github.com/vechain/nftstaker/builtin/token"
	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/logdb"
	"github.com/vechain/nftstaker/state"
	"github.com/vechain/nftstaker/thor"
	"github.com/vechain/nftstaker/tx"
)

var logger = log.WithContext("pkg", "runtime")

var (
	metaAddress   = thor.BytesToAddress([]byte("runtime"))
	slotSequence  = thor.BytesToBytes32([]byte("sequence"))
	slotTimestamp = thor.BytesToBytes32([]byte("timestamp"))
)

// Addresses locates the contracts of one deployment.
type Addresses struct {
	Staker     thor.Address
	Collection thor.Address
	Ledger     thor.Address
}

// Env is what an operation runs against. It is only valid during the operation.
type Env struct {
	State      *state.State
	Staker     *staker.Staker
	Collection *token.Collection
	Tokens     *token.Ledger
	Caller     thor.Address
	Now        uint64
}

// Receipt describes a committed operation.
type Receipt struct {
	Seq       uint64
	Op        string
	Caller    thor.Address
	Timestamp uint64
	Events    tx.Events
}

// Runtime executes operations one at a time and commits each as a whole.
type Runtime struct {
	mu     sync.Mutex
	stater *state.Stater
	logDB  *logdb.LogDB
	addrs  Addresses
	clock  Clock

	seq      uint64
	lastTime uint64

	feed  event.Feed
	scope event.SubscriptionScope
}

// New create a runtime over committed state, resuming its sequence.
func New(stater *state.Stater, logDB *logdb.LogDB, addrs Addresses, clock Clock) (*Runtime, error) {
	st := stater.NewState()
	seq, err := st.GetStorage(metaAddress, slotSequence)
	if err != nil {
		return nil, errors.Wrap(err, "load sequence")
	}
	last, err := st.GetStorage(metaAddress, slotTimestamp)
	if err != nil {
		return nil, errors.Wrap(err, "load timestamp")
	}
	r := &Runtime{
		stater:   stater,
		logDB:    logDB,
		addrs:    addrs,
		clock:    clock,
		seq:      bytes32ToUint64(seq),
		lastTime: bytes32ToUint64(last),
	}
	logger.Debug("runtime loaded", "seq", r.seq, "last", r.lastTime)
	return r, nil
}

func bytes32ToUint64(b thor.Bytes32) uint64 {
	var v uint64
	for _, c := range b[24:] {
		v = v<<8 | uint64(c)
	}
	return v
}

func uint64ToBytes32(v uint64) thor.Bytes32 {
	var b thor.Bytes32
	for i := 31; i >= 24; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// Addresses returns the deployment addresses.
func (r *Runtime) Addresses() Addresses {
	return r.addrs
}

// LogDB returns the event log db.
func (r *Runtime) LogDB() *logdb.LogDB {
	return r.logDB
}

// Seq returns the sequence of the last committed operation.
func (r *Runtime) Seq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// now reads the clock, never going back behind the last committed operation.
func (r *Runtime) now() uint64 {
	now := r.clock.Now()
	if now < r.lastTime {
		return r.lastTime
	}
	return now
}

func (r *Runtime) newEnv(st *state.State, caller thor.Address, now uint64) *Env {
	collection := token.NewCollection(solidity.NewContext(r.addrs.Collection, st))
	tokens := token.NewLedger(solidity.NewContext(r.addrs.Ledger, st))
	return &Env{
		State:      st,
		Staker:     staker.New(r.addrs.Staker, st, collection, tokens),
		Collection: collection,
		Tokens:     tokens,
		Caller:     caller,
		Now:        now,
	}
}

// Execute runs fn as the operation op of caller. Nothing is written unless fn succeeds.
func (r *Runtime) Execute(op string, caller thor.Address, fn func(env *Env) error) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	receipt, err := r.execute(op, caller, fn)

	res := "success"
	if err != nil {
		res = "error"
		if reverts.IsRevertErr(err) {
			res = "revert"
		}
	}
	metricExecDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op, "result": res})
	if err != nil {
		return nil, err
	}

	r.feed.Send(receipt)
	return receipt, nil
}

func (r *Runtime) execute(op string, caller thor.Address, fn func(env *Env) error) (*Receipt, error) {
	now := r.now()
	st := r.stater.NewState()
	env := r.newEnv(st, caller, now)
	if err := fn(env); err != nil {
		return nil, err
	}

	seq := r.seq + 1
	st.SetStorage(metaAddress, slotSequence, uint64ToBytes32(seq))
	st.SetStorage(metaAddress, slotTimestamp, uint64ToBytes32(now))
	if err := r.stater.Commit(st.Stage()); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	r.seq = seq
	r.lastTime = now

	receipt := &Receipt{
		Seq:       seq,
		Op:        op,
		Caller:    caller,
		Timestamp: now,
		Events:    env.Staker.Events(),
	}
	if err := r.logDB.Prepare(seq, now, caller).Insert(receipt.Events).Commit(); err != nil {
		// state is already durable, the event index lags behind
		logger.Error("failed to index events", "seq", seq, "op", op, "err", err)
	}

	metricSequence().Set(int64(seq))
	if total, err := env.Staker.TotalStaked(); err == nil {
		metricTotalStaked().Set(int64(total.Uint64()))
	}
	logger.Debug("operation committed", "seq", seq, "op", op, "caller", caller, "events", len(receipt.Events))
	return receipt, nil
}

// View runs fn against committed state. Changes made by fn are discarded.
func (r *Runtime) View(fn func(env *Env) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fn(r.newEnv(r.stater.NewState(), thor.Address{}, r.now()))
}

// SubscribeReceipts delivers the receipt of every committed operation to ch.
func (r *Runtime) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return r.scope.Track(r.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (r *Runtime) Close() {
	r.scope.Close()
}
