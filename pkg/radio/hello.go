package radio

import "fmt"

// WriteHello announces the address as the first packet of a connection.
func WriteHello(w PacketWriter, addr Address) error {
	if !addr.IsValid() {
		return ErrInvalidAddress
	}
	return w.WritePacket([]byte(addr))
}

// ExpectHello reads the first packet of a connection and checks it carries
// addr.
func ExpectHello(r PacketReader, addr Address) error {
	pkt, err := r.ReadPacket()
	if err != nil {
		return err
	}
	if Address(pkt) != addr {
		return fmt.Errorf("%w: got %q, want %q", ErrAddressMismatch, string(pkt), string(addr))
	}
	return nil
}
