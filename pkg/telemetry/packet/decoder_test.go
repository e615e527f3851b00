package packet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"gotest.tools/v3/assert"
)

func encode(t *testing.T, hdr Header, body any) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	assert.NilError(t, binary.Write(buf, byteOrder, hdr))
	if body != nil {
		assert.NilError(t, binary.Write(buf, byteOrder, body))
	}
	return buf.Bytes()
}

func TestDecodeSessionPacket(t *testing.T) {
	hdr := Header{PacketFormat: 2020, PacketID: IDSession, PlayerCarIndex: 0}
	body := SessionPacket{TrackID: 16, SessionTypeID: 10, TotalLaps: 10, SessionTimeLeft: 3600}
	buf := encode(t, hdr, body)

	pkt, n, err := Decode(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, len(buf))
	assert.Assert(t, pkt.Session != nil)
	assert.Equal(t, pkt.Session.TrackID, int8(16))
	assert.Equal(t, pkt.Session.TotalLaps, uint8(10))
	assert.Equal(t, pkt.Session.SessionTimeLeft, uint16(3600))
}

func TestDecodeEventPacket(t *testing.T) {
	hdr := Header{PacketID: IDEvent}
	body := EventPacket{
		EventStringCode: [4]byte{'P', 'E', 'N', 'A'},
		Details: EventDetails{
			VehicleIdx:  3,
			PenaltyType: 0,
			LapNum:      2,
		},
	}
	buf := encode(t, hdr, body)

	pkt, n, err := Decode(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, len(buf))
	assert.Equal(t, string(pkt.Event.EventStringCode[:]), "PENA")
	assert.Equal(t, pkt.Event.Details.VehicleIdx, uint8(3))
}

func TestDecodeRejectsOversizeDatagram(t *testing.T) {
	_, _, err := Decode(make([]byte, MaxDatagramSize+1))
	assert.ErrorIs(t, err, ErrOversize)
}

func TestDecodeRejectsTruncatedBody(t *testing.T) {
	hdr := Header{PacketID: IDLapData}
	buf := encode(t, hdr, nil)
	// Header claims a LapData body but none follows.
	_, _, err := Decode(buf)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeUnknownPacketIDConsumesHeaderOnly(t *testing.T) {
	hdr := Header{PacketID: PacketID(99)}
	buf := encode(t, hdr, nil)

	pkt, n, err := Decode(buf)
	assert.NilError(t, err)
	assert.Equal(t, n, HeaderSize)
	assert.Equal(t, pkt.Session, (*SessionPacket)(nil))
}

func TestDecodeAllConcatenatedPackets(t *testing.T) {
	sessionBuf := encode(t, Header{PacketID: IDSession}, SessionPacket{TotalLaps: 5})
	eventBuf := encode(t, Header{PacketID: IDEvent}, EventPacket{EventStringCode: [4]byte{'S', 'S', 'T', 'A'}})

	packets, err := DecodeAll(append(sessionBuf, eventBuf...))
	assert.NilError(t, err)
	assert.Equal(t, len(packets), 2)
	assert.Assert(t, packets[0].Session != nil)
	assert.Assert(t, packets[1].Event != nil)
}
