// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"eqscope/internal/plot"
	"eqscope/internal/scope"
)

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Flags             | uint8          | 1            | Bit 0: analysis enabled |
| Left Count        | uint16         | 2            | Left path points (L)    |
| Right Count       | uint16         | 2            | Right path points (R)   |
| Response Count    | uint16         | 2            | Response columns (C)    |
| Left Points       | []float32      | L * 8        | x, y pairs              |
| Right Points      | []float32      | R * 8        | x, y pairs              |
| Response          | []float32      | C * 4        | dB per column           |
+-----------------------------------------------------------------------------+
*/

// Packet layout constants.
const (
	HeaderSize     = 4 + 8 + 1 + 3*2
	MaxPacketSize  = 65507 // Largest UDP payload over IPv4.
	flagAnalysisOn = 1 << 0
)

// ErrPacketTooLarge is returned when a frame does not fit one datagram.
var ErrPacketTooLarge = errors.New("udp: frame exceeds maximum datagram size")

// ErrShortPacket is returned by DecodePacket for truncated input.
var ErrShortPacket = errors.New("udp: packet too short")

// Packet is the decoded form of one datagram.
type Packet struct {
	Sequence        uint32
	Timestamp       int64
	AnalysisEnabled bool
	Left            []plot.Point
	Right           []plot.Point
	Response        []float32
}

// encodePacket appends the wire form of f to buf. f32 is scratch space.
func encodePacket(buf *bytes.Buffer, f32 []float32, seq uint32, timestamp int64, f *scope.Frame) ([]float32, error) {
	size := HeaderSize + 8*(f.Left.Len()+f.Right.Len()) + 4*len(f.Response)
	if size > MaxPacketSize {
		return f32, fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, size)
	}

	var flags uint8
	if f.AnalysisEnabled {
		flags |= flagAnalysisOn
	}

	buf.Reset()
	buf.Grow(size)
	header := []any{
		seq,
		timestamp,
		flags,
		uint16(f.Left.Len()),
		uint16(f.Right.Len()),
		uint16(len(f.Response)),
	}
	for _, field := range header {
		if err := binary.Write(buf, binary.BigEndian, field); err != nil {
			return f32, err
		}
	}

	f32 = f32[:0]
	for _, path := range []plot.Path{f.Left, f.Right} {
		for _, p := range path.Points {
			f32 = append(f32, float32(p.X), float32(p.Y))
		}
	}
	for _, db := range f.Response {
		f32 = append(f32, float32(db))
	}
	if err := binary.Write(buf, binary.BigEndian, f32); err != nil {
		return f32, err
	}
	return f32, nil
}

// DecodePacket parses one datagram.
func DecodePacket(data []byte) (Packet, error) {
	if len(data) < HeaderSize {
		return Packet{}, fmt.Errorf("%w: %d bytes", ErrShortPacket, len(data))
	}

	be := binary.BigEndian
	p := Packet{
		Sequence:        be.Uint32(data[0:]),
		Timestamp:       int64(be.Uint64(data[4:])),
		AnalysisEnabled: data[12]&flagAnalysisOn != 0,
	}
	nLeft := int(be.Uint16(data[13:]))
	nRight := int(be.Uint16(data[15:]))
	nResp := int(be.Uint16(data[17:]))

	body := data[HeaderSize:]
	if want := 8*(nLeft+nRight) + 4*nResp; len(body) < want {
		return Packet{}, fmt.Errorf("%w: body %d bytes, expected %d", ErrShortPacket, len(body), want)
	}

	readF32 := func() float32 {
		v := math.Float32frombits(be.Uint32(body))
		body = body[4:]
		return v
	}
	readPoints := func(n int) []plot.Point {
		pts := make([]plot.Point, n)
		for i := range pts {
			pts[i].X = float64(readF32())
			pts[i].Y = float64(readF32())
		}
		return pts
	}

	p.Left = readPoints(nLeft)
	p.Right = readPoints(nRight)
	p.Response = make([]float32, nResp)
	for i := range p.Response {
		p.Response[i] = readF32()
	}
	return p, nil
}
