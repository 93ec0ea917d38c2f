// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	ErrInsufficientLength = errors.New("packer has insufficient length for input")
	ErrNonCanonical       = errors.New("non-canonical compact size")
	errNegativeOffset     = errors.New("negative offset")
	errInvalidInput       = errors.New("input does not match expected format")
	errOversized          = errors.New("size is larger than limit")
)

// CompactSizeLen returns the number of bytes the compact size encoding of val
// occupies.
func CompactSizeLen(val uint64) int {
	switch {
	case val < 0xfd:
		return ByteLen
	case val <= math.MaxUint16:
		return ByteLen + 2
	case val <= math.MaxUint32:
		return ByteLen + IntLen
	default:
		return ByteLen + LongLen
	}
}

// VarBytesLen returns the packed length of a length prefixed byte slice
func VarBytesLen(b []byte) int {
	return CompactSizeLen(uint64(len(b))) + len(b)
}

// Packer packs and unpacks a byte array from/to little-endian values
type Packer struct {
	Errs

	// The largest allowed size of expanding the byte array
	MaxSize int
	// The current byte array
	Bytes []byte
	// The offset that is being written to in the byte array
	Offset int
}

// Remaining returns the number of unread bytes
func (p *Packer) Remaining() int {
	return len(p.Bytes) - p.Offset
}

// PackByte appends a byte to the byte array
func (p *Packer) PackByte(val byte) {
	p.expand(ByteLen)
	if p.Errored() {
		return
	}

	p.Bytes[p.Offset] = val
	p.Offset++
}

// UnpackByte unpacks a byte from the byte array
func (p *Packer) UnpackByte() byte {
	p.checkSpace(ByteLen)
	if p.Errored() {
		return 0
	}

	val := p.Bytes[p.Offset]
	p.Offset += ByteLen
	return val
}

// PackInt appends a little-endian uint32 to the byte array
func (p *Packer) PackInt(val uint32) {
	p.expand(IntLen)
	if p.Errored() {
		return
	}

	binary.LittleEndian.PutUint32(p.Bytes[p.Offset:], val)
	p.Offset += IntLen
}

// UnpackInt unpacks a little-endian uint32 from the byte array
func (p *Packer) UnpackInt() uint32 {
	p.checkSpace(IntLen)
	if p.Errored() {
		return 0
	}

	val := binary.LittleEndian.Uint32(p.Bytes[p.Offset:])
	p.Offset += IntLen
	return val
}

// PackLong appends a little-endian uint64 to the byte array
func (p *Packer) PackLong(val uint64) {
	p.expand(LongLen)
	if p.Errored() {
		return
	}

	binary.LittleEndian.PutUint64(p.Bytes[p.Offset:], val)
	p.Offset += LongLen
}

// UnpackLong unpacks a little-endian uint64 from the byte array
func (p *Packer) UnpackLong() uint64 {
	p.checkSpace(LongLen)
	if p.Errored() {
		return 0
	}

	val := binary.LittleEndian.Uint64(p.Bytes[p.Offset:])
	p.Offset += LongLen
	return val
}

// PackCompactSize appends val using the variable length compact size encoding
func (p *Packer) PackCompactSize(val uint64) {
	switch {
	case val < 0xfd:
		p.PackByte(byte(val))
	case val <= math.MaxUint16:
		p.PackByte(0xfd)
		p.expand(2)
		if p.Errored() {
			return
		}
		binary.LittleEndian.PutUint16(p.Bytes[p.Offset:], uint16(val))
		p.Offset += 2
	case val <= math.MaxUint32:
		p.PackByte(0xfe)
		p.PackInt(uint32(val))
	default:
		p.PackByte(0xff)
		p.PackLong(val)
	}
}

// UnpackCompactSize unpacks a compact size value. Encodings that could have
// been written in fewer bytes are rejected.
func (p *Packer) UnpackCompactSize() uint64 {
	prefix := p.UnpackByte()
	if p.Errored() {
		return 0
	}

	var (
		val uint64
		minimum uint64
	)
	switch prefix {
	case 0xfd:
		p.checkSpace(2)
		if p.Errored() {
			return 0
		}
		val = uint64(binary.LittleEndian.Uint16(p.Bytes[p.Offset:]))
		p.Offset += 2
		minimum = 0xfd
	case 0xfe:
		val = uint64(p.UnpackInt())
		minimum = math.MaxUint16 + 1
	case 0xff:
		val = p.UnpackLong()
		minimum = math.MaxUint32 + 1
	default:
		return uint64(prefix)
	}
	if p.Errored() {
		return 0
	}
	if val < minimum {
		p.Add(ErrNonCanonical)
		return 0
	}
	return val
}

// PackFixedBytes appends a byte slice with no length descriptor to the byte array
func (p *Packer) PackFixedBytes(bytes []byte) {
	p.expand(len(bytes))
	if p.Errored() {
		return
	}

	copy(p.Bytes[p.Offset:], bytes)
	p.Offset += len(bytes)
}

// UnpackFixedBytes unpacks a byte slice with no length descriptor from the byte array
func (p *Packer) UnpackFixedBytes(size int) []byte {
	p.checkSpace(size)
	if p.Errored() {
		return nil
	}

	bytes := p.Bytes[p.Offset : p.Offset+size]
	p.Offset += size
	return bytes
}

// PackHash appends a 32 byte hash in its internal byte order
func (p *Packer) PackHash(hash [HashLen]byte) {
	p.PackFixedBytes(hash[:])
}

// UnpackHash unpacks a 32 byte hash
func (p *Packer) UnpackHash() [HashLen]byte {
	var hash [HashLen]byte
	copy(hash[:], p.UnpackFixedBytes(HashLen))
	return hash
}

// PackVarBytes appends a compact size prefixed byte slice to the byte array
func (p *Packer) PackVarBytes(bytes []byte) {
	p.PackCompactSize(uint64(len(bytes)))
	p.PackFixedBytes(bytes)
}

// UnpackLimitedVarBytes unpacks a compact size prefixed byte slice. If the
// size of the slice is greater than limit, adds errOversized to the packer and
// returns nil.
func (p *Packer) UnpackLimitedVarBytes(limit uint32) []byte {
	size := p.UnpackCompactSize()
	if p.Errored() {
		return nil
	}
	if size > uint64(limit) {
		p.Add(errOversized)
		return nil
	}
	bytes := p.UnpackFixedBytes(int(size))
	if p.Errored() {
		return nil
	}
	return append([]byte(nil), bytes...)
}

// checkSpace requires that there is at least bytes of write space left in the
// byte array. If this is not true, an error is added to the packer.
func (p *Packer) checkSpace(bytes int) {
	switch {
	case p.Offset < 0:
		p.Add(errNegativeOffset)
	case bytes < 0:
		p.Add(errInvalidInput)
	case len(p.Bytes)-p.Offset < bytes:
		p.Add(ErrInsufficientLength)
	}
}

// expand ensures that there is bytes bytes left of space in the byte slice.
// If this is not allowed due to the maximum size, an error is added to the packer.
func (p *Packer) expand(bytes int) {
	neededSize := bytes + p.Offset
	switch {
	case neededSize <= len(p.Bytes):
		return
	case neededSize > p.MaxSize:
		p.Add(ErrInsufficientLength)
		return
	case neededSize <= cap(p.Bytes):
		p.Bytes = p.Bytes[:neededSize]
		return
	default:
		p.Bytes = append(p.Bytes[:cap(p.Bytes)], make([]byte, neededSize-cap(p.Bytes))...)
	}
}
