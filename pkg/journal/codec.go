package journal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
	pkgerrors "github.com/pkg/errors"
)

// encMode writes canonical CBOR with nanosecond RFC3339 timestamps.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create journal CBOR decoder mode: %v", err))
	}
}

// Encoder writes records to a stream.
type Encoder interface {
	Encode(rec Record) error
}

// CBOREncoder writes records as a CBOR sequence.
type CBOREncoder struct {
	enc *cbor.Encoder
}

// NewCBOREncoder returns an encoder writing to w.
func NewCBOREncoder(w io.Writer) *CBOREncoder {
	return &CBOREncoder{enc: encMode.NewEncoder(w)}
}

// Encode implements Encoder.
func (e *CBOREncoder) Encode(rec Record) error {
	return pkgerrors.Wrap(e.enc.Encode(rec), "encode cbor record")
}

// JSONEncoder writes records as JSON lines.
type JSONEncoder struct {
	enc *json.Encoder
}

// NewJSONEncoder returns an encoder writing to w.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{enc: json.NewEncoder(w)}
}

// Encode implements Encoder. NaN and infinite values cannot be encoded.
func (e *JSONEncoder) Encode(rec Record) error {
	return pkgerrors.Wrap(e.enc.Encode(rec), "encode json record")
}

// NewEncoder returns the encoder for format.
func NewEncoder(w io.Writer, format Format) (Encoder, error) {
	switch format {
	case FormatCBOR:
		return NewCBOREncoder(w), nil
	case FormatJSONL:
		return NewJSONEncoder(w), nil
	default:
		return nil, pkgerrors.Errorf("unknown journal format %q", format)
	}
}

type decoder interface {
	Decode(v any) error
}

// Reader decodes records from a journal stream.
type Reader struct {
	dec decoder
}

// NewReader returns a reader for a stream in format.
func NewReader(r io.Reader, format Format) (*Reader, error) {
	switch format {
	case FormatCBOR:
		return &Reader{dec: decMode.NewDecoder(r)}, nil
	case FormatJSONL:
		return &Reader{dec: json.NewDecoder(r)}, nil
	default:
		return nil, pkgerrors.Errorf("unknown journal format %q", format)
	}
}

// Next returns the next record, or io.EOF at the end of the stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, pkgerrors.Wrap(err, "decode record")
	}
	return rec, nil
}

// ReadAll decodes every record of a stream.
func ReadAll(r io.Reader, format Format) ([]Record, error) {
	reader, err := NewReader(r, format)
	if err != nil {
		return nil, err
	}
	var out []Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
