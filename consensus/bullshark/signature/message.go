package signature

import (
	"github.com/onflow/flow-narwhal/model/encoding"
	"github.com/onflow/flow-narwhal/model/flow"
)

// MakeVoteMessage generates the message an authority signs to vote for a
// header. The header digest commits to epoch, round and author, so the
// message only needs the digest and the domain tag.
func MakeVoteMessage(headerID flow.Identifier) []byte {
	msg := make([]byte, 0, len(encoding.HeaderVoteTag)+flow.IdentifierLen)
	msg = append(msg, encoding.HeaderVoteTag...)
	msg = append(msg, headerID[:]...)
	return msg
}
