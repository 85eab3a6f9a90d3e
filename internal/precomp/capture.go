package precomp

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// captureMagic identifies a pathfinding-input capture file.
var captureMagic = [4]byte{'P', 'F', 'C', '1'}

// CapturedInput is one recorded planner invocation: the scalar inputs to
// CalculateTrajectory, plus a coarse summary of the obstacle set active at
// the time (enough to reconstruct a representative WorldInformation for a
// regression corpus, without needing to serialise every obstacle shape
// variant).
type CapturedInput struct {
	StartX, StartY         float32
	StartVX, StartVY       float32
	TargetX, TargetY       float32
	TargetVX, TargetVY     float32
	MaxSpeed, Acceleration float32
	ObstacleCount          int32
}

const (
	fieldCapStartX   = 1
	fieldCapStartY   = 2
	fieldCapStartVX  = 3
	fieldCapStartVY  = 4
	fieldCapTargetX  = 5
	fieldCapTargetY  = 6
	fieldCapTargetVX = 7
	fieldCapTargetVY = 8
	fieldCapMaxSpeed = 9
	fieldCapAccel    = 10
	fieldCapObsCount = 11
)

func encodeCapturedInput(c CapturedInput) []byte {
	var b []byte
	appendF := func(num protowire.Number, v float32) {
		b = protowire.AppendTag(b, num, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, float32bits(v))
	}
	appendF(fieldCapStartX, c.StartX)
	appendF(fieldCapStartY, c.StartY)
	appendF(fieldCapStartVX, c.StartVX)
	appendF(fieldCapStartVY, c.StartVY)
	appendF(fieldCapTargetX, c.TargetX)
	appendF(fieldCapTargetY, c.TargetY)
	appendF(fieldCapTargetVX, c.TargetVX)
	appendF(fieldCapTargetVY, c.TargetVY)
	appendF(fieldCapMaxSpeed, c.MaxSpeed)
	appendF(fieldCapAccel, c.Acceleration)
	b = protowire.AppendTag(b, fieldCapObsCount, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.ObstacleCount))
	return b
}

func decodeCapturedInput(data []byte) (CapturedInput, error) {
	var c CapturedInput
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return c, protowire.ParseError(n)
		}
		data = data[n:]
		switch typ {
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			data = data[n:]
			f := float32frombits(v)
			switch num {
			case fieldCapStartX:
				c.StartX = f
			case fieldCapStartY:
				c.StartY = f
			case fieldCapStartVX:
				c.StartVX = f
			case fieldCapStartVY:
				c.StartVY = f
			case fieldCapTargetX:
				c.TargetX = f
			case fieldCapTargetY:
				c.TargetY = f
			case fieldCapTargetVX:
				c.TargetVX = f
			case fieldCapTargetVY:
				c.TargetVY = f
			case fieldCapMaxSpeed:
				c.MaxSpeed = f
			case fieldCapAccel:
				c.Acceleration = f
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return c, protowire.ParseError(n)
			}
			data = data[n:]
			if num == fieldCapObsCount {
				c.ObstacleCount = int32(v)
			}
		default:
			return c, errors.Errorf("precomp: unexpected wire type %v", typ)
		}
	}
	return c, nil
}

// CaptureWriter appends CapturedInput records to a file, opened lazily on
// first write so that a planner run that never triggers a capture leaves no
// file behind.
type CaptureWriter struct {
	path string

	mu   sync.Mutex
	file *os.File
}

// NewCaptureWriter returns a CaptureWriter targeting path; the file itself
// is not created until the first call to Write.
func NewCaptureWriter(path string) *CaptureWriter {
	return &CaptureWriter{path: path}
}

// Write appends one record, creating and magic-prefixing the file on the
// first call.
func (c *CaptureWriter) Write(input CapturedInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		f, err := os.OpenFile(c.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "precomp: open capture file")
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return errors.Wrap(err, "precomp: stat capture file")
		}
		if info.Size() == 0 {
			if _, err := f.Write(captureMagic[:]); err != nil {
				f.Close()
				return errors.Wrap(err, "precomp: write capture magic")
			}
		}
		c.file = f
	}

	encoded := encodeCapturedInput(input)
	var framed []byte
	framed = protowire.AppendVarint(framed, uint64(len(encoded)))
	framed = append(framed, encoded...)
	if _, err := c.file.Write(framed); err != nil {
		return errors.Wrap(err, "precomp: write capture record")
	}
	return nil
}

// Close closes the underlying file, if it was ever opened.
func (c *CaptureWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return nil
	}
	return c.file.Close()
}

// ReadCaptures reads all records from a capture file written by
// CaptureWriter.
func ReadCaptures(r io.Reader) ([]CapturedInput, error) {
	br := bufio.NewReader(r)
	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, errors.Wrap(err, "precomp: read capture magic")
	}
	if gotMagic != captureMagic {
		return nil, ErrBadMagic
	}

	var out []CapturedInput
	for {
		length, err := readVarint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "precomp: read capture length")
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, errors.Wrap(err, "precomp: read capture body")
		}
		c, err := decodeCapturedInput(buf)
		if err != nil {
			return nil, errors.Wrap(err, "precomp: decode capture")
		}
		out = append(out, c)
	}
	return out, nil
}
