package redis

import (
	"github.com/mcoot/scorekeeper/internal/model"
)

// keyspace builds the Redis keys under one prefix
type keyspace string

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keyspace(prefix)
}

// session is a STRING holding the JSON encoded session
func (k keyspace) session(id model.SessionID) string {
	return string(k) + ":session:" + string(id)
}

// viewState is a HASH of table name to JSON encoded view state
func (k keyspace) viewState(id model.SessionID) string {
	return string(k) + ":view_state:" + string(id)
}
