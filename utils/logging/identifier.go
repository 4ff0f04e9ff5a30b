package logging

import (
	"encoding/hex"

	"github.com/onflow/flow-narwhal/model/flow"
)

// entity is anything with a content digest.
type entity interface {
	ID() flow.Identifier
}

func ID(id flow.Identifier) []byte {
	return id[:]
}

func Entity(entity entity) []byte {
	id := entity.ID()
	return id[:]
}

func IDs(ids []flow.Identifier) []string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, hex.EncodeToString(id[:]))
	}
	return ss
}
