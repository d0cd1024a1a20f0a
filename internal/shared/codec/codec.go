// Package codec encodes persisted room snapshots. Stores pick one format at
// startup; JSON keeps snapshots human-readable, CBOR keeps them compact.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Codec marshals values in a single wire format.
type Codec struct {
	format Format
	enc    cbor.EncMode
	dec    cbor.DecMode
}

// New returns the codec for format. An empty format selects JSON.
func New(format string) (Codec, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case "", FormatJSON:
		return Codec{format: FormatJSON}, nil
	case FormatCBOR:
		// Core deterministic encoding: same snapshot, same bytes.
		enc, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return Codec{}, fmt.Errorf("cbor encoder: %w", err)
		}
		dec, err := cbor.DecOptions{}.DecMode()
		if err != nil {
			return Codec{}, fmt.Errorf("cbor decoder: %w", err)
		}
		return Codec{format: FormatCBOR, enc: enc, dec: dec}, nil
	default:
		return Codec{}, fmt.Errorf("unsupported codec %q", format)
	}
}

// JSON is the default codec.
func JSON() Codec {
	return Codec{format: FormatJSON}
}

func (c Codec) Format() Format {
	if c.format == "" {
		return FormatJSON
	}
	return c.format
}

func (c Codec) Marshal(v any) ([]byte, error) {
	if c.Format() == FormatCBOR {
		return c.enc.Marshal(v)
	}
	return json.Marshal(v)
}

func (c Codec) Unmarshal(data []byte, v any) error {
	if c.Format() == FormatCBOR {
		return c.dec.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
