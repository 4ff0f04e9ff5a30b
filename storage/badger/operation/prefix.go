package operation

import (
	"encoding/binary"
	"fmt"

	"github.com/onflow/flow-narwhal/model/flow"
)

const (

	// codes for entities
	codeCertificate = 10
	codeCommittee   = 11
	codeSubDag      = 12
	codeEvidence    = 13

	// codes for indexes
	codeCertificateByRoundAuthority = 20 // (epoch, round, authority) -> certificate ID
	codeCommitState                 = 21 // epoch -> latest commit state
	codeCommittedCertificate        = 22 // (epoch, certificate ID) -> sub-dag index
)

func makePrefix(code byte, keys ...interface{}) []byte {
	prefix := make([]byte, 1)
	prefix[0] = code
	for _, key := range keys {
		prefix = append(prefix, b(key)...)
	}
	return prefix
}

func b(v interface{}) []byte {
	switch i := v.(type) {
	case uint8:
		return []byte{i}
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, i)
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, i)
		return b
	case string:
		return []byte(i)
	case flow.Identifier:
		return i[:]
	default:
		panic(fmt.Sprintf("unsupported type to convert (%T)", v))
	}
}
