// Package precomp reads and writes the standard sampler's pre-computed seed
// table (standardsampler.prec) and the optional pathfinding-input capture
// file. Both are length-prefixed streams of protobuf-wire-encoded messages,
// built directly on google.golang.org/protobuf/encoding/protowire rather
// than a generated .proto/.pb.go pair, since the schema here is small and
// stable enough not to warrant the codegen step.
package precomp

import (
	"bufio"
	"io"
	"math"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// magic identifies a standardsampler.prec file, written as the first four
// bytes of the stream.
var magic = [4]byte{'S', 'P', 'R', '1'}

// ErrBadMagic is returned when a stream doesn't start with the expected
// magic prefix.
var ErrBadMagic = errors.New("precomp: bad magic prefix")

// Sample is a single (T, alpha, v_mid) seed, normalised to the start-target
// axis, as consumed by sampler.StandardSampler.
type Sample struct {
	T, Alpha, VMid float32
}

// Bucket holds the seed samples stratified by straight-line start-target
// distance, valid for distances in [MinDistance, MaxDistance).
type Bucket struct {
	MinDistance, MaxDistance float32
	Samples                  []Sample
}

// Table is the full deserialised standardsampler.prec contents.
type Table struct {
	Buckets []Bucket
}

// BucketFor returns the bucket whose [MinDistance, MaxDistance) range
// contains distance, or false if none matches.
func (t Table) BucketFor(distance float32) (Bucket, bool) {
	for _, b := range t.Buckets {
		if distance >= b.MinDistance && distance < b.MaxDistance {
			return b, true
		}
	}
	return Bucket{}, false
}

const (
	fieldSampleT     = 1
	fieldSampleAlpha = 2
	fieldSampleVMid  = 3

	fieldBucketMin     = 1
	fieldBucketMax     = 2
	fieldBucketSamples = 3
)

func encodeSample(s Sample) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldSampleT, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, float32bits(s.T))
	b = protowire.AppendTag(b, fieldSampleAlpha, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, float32bits(s.Alpha))
	b = protowire.AppendTag(b, fieldSampleVMid, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, float32bits(s.VMid))
	return b
}

func decodeSample(data []byte) (Sample, error) {
	var s Sample
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return s, protowire.ParseError(n)
		}
		data = data[n:]
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return s, protowire.ParseError(n)
		}
		data = data[n:]
		if typ != protowire.Fixed32Type {
			continue
		}
		switch num {
		case fieldSampleT:
			s.T = float32frombits(v)
		case fieldSampleAlpha:
			s.Alpha = float32frombits(v)
		case fieldSampleVMid:
			s.VMid = float32frombits(v)
		}
	}
	return s, nil
}

func encodeBucket(bkt Bucket) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldBucketMin, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, float32bits(bkt.MinDistance))
	b = protowire.AppendTag(b, fieldBucketMax, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, float32bits(bkt.MaxDistance))
	for _, s := range bkt.Samples {
		b = protowire.AppendTag(b, fieldBucketSamples, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeSample(s))
	}
	return b
}

func decodeBucket(data []byte) (Bucket, error) {
	var bkt Bucket
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return bkt, protowire.ParseError(n)
		}
		data = data[n:]
		switch typ {
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return bkt, protowire.ParseError(n)
			}
			data = data[n:]
			switch num {
			case fieldBucketMin:
				bkt.MinDistance = float32frombits(v)
			case fieldBucketMax:
				bkt.MaxDistance = float32frombits(v)
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return bkt, protowire.ParseError(n)
			}
			data = data[n:]
			if num == fieldBucketSamples {
				s, err := decodeSample(v)
				if err != nil {
					return bkt, err
				}
				bkt.Samples = append(bkt.Samples, s)
			}
		default:
			return bkt, errors.Errorf("precomp: unexpected wire type %v", typ)
		}
	}
	return bkt, nil
}

// WriteTable serialises t to w as magic-prefixed, length-delimited bucket
// messages.
func WriteTable(w io.Writer, t Table) error {
	if _, err := w.Write(magic[:]); err != nil {
		return errors.Wrap(err, "precomp: write magic")
	}
	for _, bkt := range t.Buckets {
		encoded := encodeBucket(bkt)
		var framed []byte
		framed = protowire.AppendVarint(framed, uint64(len(encoded)))
		framed = append(framed, encoded...)
		if _, err := w.Write(framed); err != nil {
			return errors.Wrap(err, "precomp: write bucket")
		}
	}
	return nil
}

// ReadTable deserialises a standardsampler.prec stream written by
// WriteTable. A truncated or malformed stream returns ErrBadMagic or a
// wrapped decode error; planner.New treats either as
// PrecomputationMissing and leaves the standard sampler on live-only
// sampling.
func ReadTable(r io.Reader) (Table, error) {
	br := bufio.NewReader(r)
	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return Table{}, errors.Wrap(err, "precomp: read magic")
	}
	if gotMagic != magic {
		return Table{}, ErrBadMagic
	}

	var t Table
	for {
		length, err := readVarint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.Wrap(err, "precomp: read bucket length")
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(br, buf); err != nil {
			return Table{}, errors.Wrap(err, "precomp: read bucket body")
		}
		bkt, err := decodeBucket(buf)
		if err != nil {
			return Table{}, errors.Wrap(err, "precomp: decode bucket")
		}
		t.Buckets = append(t.Buckets, bkt)
	}
	return t, nil
}

// readVarint reads a single protobuf varint from r one byte at a time,
// since protowire.ConsumeVarint needs the whole encoded value already in
// memory.
func readVarint(r io.ByteReader) (uint64, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) == 0 {
				return 0, io.EOF
			}
			return 0, err
		}
		buf = append(buf, b)
		if b < 0x80 {
			break
		}
	}
	v, n := protowire.ConsumeVarint(buf)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return v, nil
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}
