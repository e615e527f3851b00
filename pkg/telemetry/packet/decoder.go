package packet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxDatagramSize bounds a single UDP receive (spec.md §5); a buffer
// larger than this is rejected outright rather than partially decoded.
const MaxDatagramSize = 64 * 1024

// ErrOversize is returned when the datagram exceeds MaxDatagramSize.
var ErrOversize = errors.New("packet: datagram exceeds maximum size")

// ErrTruncated is returned when a header or declared body does not fit
// in the remaining buffer. Per spec.md §7 (PacketMalformed), the caller
// discards the packet and does not attempt to recover a partial decode.
var ErrTruncated = errors.New("packet: truncated packet")

var (
	sessionBodySize             = binary.Size(SessionPacket{})
	lapDataBodySize             = binary.Size(LapDataPacket{})
	eventBodySize               = binary.Size(EventPacket{})
	participantsBodySize        = binary.Size(ParticipantsPacket{})
	carTelemetryBodySize        = binary.Size(CarTelemetryPacket{})
	carStatusBodySize           = binary.Size(CarStatusPacket{})
	finalClassificationBodySize = binary.Size(FinalClassificationPacket{})
	motionBodySize              = binary.Size(motionPacket{})
	carSetupsBodySize           = binary.Size(carSetupsPacket{})
)

func declaredBodySize(id PacketID) (int, bool) {
	switch id {
	case IDMotion:
		return motionBodySize, true
	case IDSession:
		return sessionBodySize, true
	case IDLapData:
		return lapDataBodySize, true
	case IDEvent:
		return eventBodySize, true
	case IDParticipants:
		return participantsBodySize, true
	case IDCarSetups:
		return carSetupsBodySize, true
	case IDCarTelemetry:
		return carTelemetryBodySize, true
	case IDCarStatus:
		return carStatusBodySize, true
	case IDFinalClassification:
		return finalClassificationBodySize, true
	default:
		return 0, false
	}
}

// Decode reads one packet from the front of buf and returns it along with
// the number of bytes consumed, so the caller can slice buf and decode
// again for any trailing packets in the same datagram.
//
// Unknown packet IDs are consumed for HeaderSize only (their size cannot
// be known) and carry no typed body; the caller should treat the rest of
// the datagram as unrecoverable and stop.
func Decode(buf []byte) (*Packet, int, error) {
	if len(buf) > MaxDatagramSize {
		return nil, 0, ErrOversize
	}
	if len(buf) < HeaderSize {
		return nil, 0, fmt.Errorf("%w: buffer shorter than header", ErrTruncated)
	}

	var hdr Header
	if err := binary.Read(bytes.NewReader(buf[:HeaderSize]), byteOrder, &hdr); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	pkt := &Packet{Header: hdr}

	bodyLen, known := declaredBodySize(hdr.PacketID)
	if !known {
		return pkt, HeaderSize, nil
	}
	if HeaderSize+bodyLen > len(buf) {
		return nil, 0, fmt.Errorf("%w: declared %s body (%d bytes) exceeds remaining buffer", ErrTruncated, hdr.PacketID, bodyLen)
	}

	body := bytes.NewReader(buf[HeaderSize : HeaderSize+bodyLen])
	var err error
	switch hdr.PacketID {
	case IDSession:
		pkt.Session = &SessionPacket{}
		err = binary.Read(body, byteOrder, pkt.Session)
	case IDLapData:
		pkt.LapData = &LapDataPacket{}
		err = binary.Read(body, byteOrder, pkt.LapData)
	case IDEvent:
		pkt.Event = &EventPacket{}
		err = binary.Read(body, byteOrder, pkt.Event)
	case IDParticipants:
		pkt.Participants = &ParticipantsPacket{}
		err = binary.Read(body, byteOrder, pkt.Participants)
	case IDCarTelemetry:
		pkt.CarTelemetry = &CarTelemetryPacket{}
		err = binary.Read(body, byteOrder, pkt.CarTelemetry)
	case IDCarStatus:
		pkt.CarStatus = &CarStatusPacket{}
		err = binary.Read(body, byteOrder, pkt.CarStatus)
	case IDFinalClassification:
		pkt.FinalClassification = &FinalClassificationPacket{}
		err = binary.Read(body, byteOrder, pkt.FinalClassification)
	case IDMotion, IDCarSetups:
		// Recognized but not acted on; body already sized and skipped.
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	return pkt, HeaderSize + bodyLen, nil
}

// DecodeAll decodes every packet found back-to-back in buf, stopping at
// the first error, or after the header of a packet with an unrecognized
// ID. Most datagrams carry exactly one packet; the loop exists because
// nothing in the wire format rules out more.
func DecodeAll(buf []byte) ([]*Packet, error) {
	var packets []*Packet
	for len(buf) > 0 {
		pkt, n, err := Decode(buf)
		if err != nil {
			return packets, err
		}
		packets = append(packets, pkt)
		if _, known := declaredBodySize(pkt.Header.PacketID); !known {
			break
		}
		buf = buf[n:]
	}
	return packets, nil
}
