// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/nftstaker/log"
	"github.com/vechain/nftstaker/runtime"
	"github.com/vechain/nftstaker/thor"
)

var logger = log.WithContext("pkg", "health")

type Operation struct {
	Seq        uint64       `json:"seq"`
	Op         string       `json:"op"`
	Caller     thor.Address `json:"caller"`
	Timestamp  uint64       `json:"timestamp"`
	ReceivedAt time.Time    `json:"receivedAt"`
}

type Status struct {
	Healthy       bool       `json:"healthy"`
	Bootstrapped  bool       `json:"bootstrapped"`
	LogDB         bool       `json:"logDB"`
	LastOperation *Operation `json:"lastOperation"`
}

// Health follows the receipts of a runtime and reports whether it can serve.
type Health struct {
	lock sync.RWMutex
	rt   *runtime.Runtime
	last *Operation

	sub  event.Subscription
	done chan struct{}
}

func New(rt *runtime.Runtime) *Health {
	h := &Health{
		rt:   rt,
		done: make(chan struct{}),
	}
	ch := make(chan *runtime.Receipt, 16)
	h.sub = rt.SubscribeReceipts(ch)
	go h.loop(ch)
	return h
}

func (h *Health) loop(ch <-chan *runtime.Receipt) {
	defer close(h.done)
	for {
		select {
		case r := <-ch:
			h.NewOperation(r)
		case <-h.sub.Err():
			return
		}
	}
}

func (h *Health) NewOperation(r *runtime.Receipt) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.last = &Operation{
		Seq:        r.Seq,
		Op:         r.Op,
		Caller:     r.Caller,
		Timestamp:  r.Timestamp,
		ReceivedAt: time.Now(),
	}
}

// Status is healthy once genesis is written and the log database answers queries.
func (h *Health) Status(ctx context.Context) (*Status, error) {
	bootstrapped := h.rt.Seq() > 0

	logDBUp := true
	if _, err := h.rt.LogDB().NewestSeq(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("log database unavailable", "err", err)
		logDBUp = false
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	var last *Operation
	if h.last != nil {
		cpy := *h.last
		last = &cpy
	}
	return &Status{
		Healthy:       bootstrapped && logDBUp,
		Bootstrapped:  bootstrapped,
		LogDB:         logDBUp,
		LastOperation: last,
	}, nil
}

func (h *Health) Close() {
	h.sub.Unsubscribe()
	<-h.done
}
