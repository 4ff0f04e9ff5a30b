package operation

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
	"github.com/vmihailenco/msgpack/v4"

	"github.com/onflow/flow-narwhal/module/irrecoverable"
)

var errUncompressedValue = errors.New("could not uncompress data")

// encodeEntity encodes the given entity using msgpack and compresses the
// result with snappy.
// possible error to return is irrecoverable.exception
func encodeEntity(entity interface{}) ([]byte, error) {
	val, err := msgpack.Marshal(entity)
	if err != nil {
		return nil, irrecoverable.NewExceptionf("could not encode entity: %w", err)
	}

	// compress the serialized data using Snappy
	return snappy.Encode(nil, val), nil
}

// decodeValue uncompresses the given value and decodes it into the given
// entity using msgpack.
// possible error to return is irrecoverable.exception
func decodeValue(val []byte, entity interface{}) error {
	// uncompress the value using Snappy
	uncompressedVal, err := snappy.Decode(nil, val)
	if err != nil {
		return irrecoverable.NewExceptionf("%s: %w", err, errUncompressedValue)
	}

	// decode the entity using msgpack
	err = msgpack.Unmarshal(uncompressedVal, entity)
	if err != nil {
		return irrecoverable.NewExceptionf("could not decode entity: %w", err)
	}
	return nil
}

// equalEncoding returns whether two entities encode to the same bytes.
func equalEncoding(a interface{}, b interface{}) (bool, error) {
	encA, err := msgpack.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("could not encode first entity: %w", err)
	}
	encB, err := msgpack.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("could not encode second entity: %w", err)
	}
	return string(encA) == string(encB), nil
}
