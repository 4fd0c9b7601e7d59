// Package snapshot serializes a built energy system to a caller-supplied
// writer and reconstructs it later. The payload is a JSON document compressed
// with snappy inside a checksummed frame. Groupings are never serialized;
// they are recomputed from the restored registry.
package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"

	"github.com/voltaic-labs/gridgraph/pkg/energysystem"
)

// Format constants. The frame is:
// [magic:4][version:2][DataLen:4][snappy data:N][Checksum:4]
const (
	formatVersion = 1
	maxFrameSize  = 1 << 30
)

var magic = [4]byte{'G', 'G', 'S', 'N'}

// Common sentinel errors
var (
	ErrBadMagic           = errors.New("not a gridgraph snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrChecksumMismatch   = errors.New("snapshot checksum mismatch")
	ErrUnknownBus         = errors.New("edge references an unregistered bus")
	ErrUnknownKind        = errors.New("unknown node kind in snapshot")
)

// Dump writes a snapshot of es to w.
func Dump(w io.Writer, es *energysystem.EnergySystem) error {
	doc, err := encodeSystem(es)
	if err != nil {
		return fmt.Errorf("encode system: %w", err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed))
}

// Restore reads a snapshot from r and rebuilds the energy system. Runtime
// collaborators (groupings, logger, metrics) are not part of the snapshot
// and are supplied through opts; the time index always comes from the
// snapshot.
func Restore(r io.Reader, opts ...energysystem.Option) (*energysystem.EnergySystem, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if gotMagic != magic {
		return nil, ErrBadMagic
	}

	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("read snapshot version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var dataLen uint32
	if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("read snapshot length: %w", err)
	}
	if dataLen > maxFrameSize {
		return nil, fmt.Errorf("snapshot frame too large: %d bytes", dataLen)
	}

	compressed := make([]byte, dataLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("read snapshot payload: %w", err)
	}

	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return nil, fmt.Errorf("read snapshot checksum: %w", err)
	}
	if crc32.ChecksumIEEE(compressed) != checksum {
		return nil, ErrChecksumMismatch
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return decodeSystem(&doc, opts)
}
