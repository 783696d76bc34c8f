// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// event table, one row per emitted event, keyed by operation sequence and position
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	caller BLOB(20),
	address BLOB(20),
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (seq, eventIndex)
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(timestamp);
CREATE INDEX IF NOT EXISTS event_i1 ON event(address);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i4 ON event(caller);
`
