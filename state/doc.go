// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
// Package state manages contract storage of the staking ledger.
//
// Storage is a flat map of (address, slot) to rlp encoded values, kept in a kv store.
// Changes are layered on a stackedmap, so a failed operation can be rolled
// back to a checkpoint, and are flushed in one batch through a Stage.
package state
