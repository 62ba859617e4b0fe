// Package stream carries frames over a byte stream such as TCP.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/robotalks/seclink/pkg/radio"
)

// MaxPacketSize bounds what ReadPacket accepts from the stream.
const MaxPacketSize = 4096

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{s}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p.ReadWriter, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if size > MaxPacketSize {
		return nil, fmt.Errorf("%w: %d bytes", radio.ErrPacketTooLarge, size)
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p.ReadWriter, pkt)
	return pkt, err
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return fmt.Errorf("%w: %d bytes", radio.ErrPacketTooLarge, len(pkt))
	}
	buf := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(buf, uint32(len(pkt)))
	copy(buf[4:], pkt)
	_, err := p.ReadWriter.Write(buf)
	return err
}

// Close closes the underlying stream if it's closable.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
