package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncMode is the canonical CBOR encoding mode. Map keys are sorted and
// integers use their shortest form, so equal values always encode to equal
// bytes. Content digests depend on this.
var EncMode = func() cbor.EncMode {
	options := cbor.CanonicalEncOptions()
	encMode, err := options.EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize canonical cbor encoding mode: %s", err))
	}
	return encMode
}()

// DecMode rejects duplicate map keys so that no two byte strings decode to
// the same value.
var DecMode = func() cbor.DecMode {
	options := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	decMode, err := options.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize cbor decoding mode: %s", err))
	}
	return decMode
}()

// Encoder encodes values with the canonical CBOR encoding mode.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(val interface{}) ([]byte, error) {
	b, err := EncMode.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("could not encode cbor: %w", err)
	}
	return b, nil
}

func (e *Encoder) Decode(b []byte, val interface{}) error {
	err := DecMode.Unmarshal(b, val)
	if err != nil {
		return fmt.Errorf("could not decode cbor: %w", err)
	}
	return nil
}

func (e *Encoder) MustEncode(val interface{}) []byte {
	b, err := e.Encode(val)
	if err != nil {
		panic(err)
	}
	return b
}

func (e *Encoder) MustDecode(b []byte, val interface{}) {
	err := e.Decode(b, val)
	if err != nil {
		panic(err)
	}
}
