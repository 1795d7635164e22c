package media

import (
	"bytes"
	"encoding/binary"
)

// MIMEMP4 is the content type served for generated clips.
const MIMEMP4 = "video/mp4"

const movieTimescale = 1000

// EncodeSolidClip renders a single-frame solid-color placeholder clip as a
// minimal MP4: an ftyp box, the raw frame bytes in mdat and a bare moov/mvhd
// header carrying the clip duration. It is not meant to be decodable by a
// strict player, only to be a well-formed container for tests and for the
// credential-less fallback path.
func EncodeSolidClip(width, height int, duration float64, rgb [3]byte) []byte {
	if width <= 0 {
		width = 16
	}
	if height <= 0 {
		height = 16
	}
	if duration <= 0 {
		duration = 1
	}

	frame := make([]byte, width*height*3)
	for i := 0; i < len(frame); i += 3 {
		frame[i] = rgb[0]
		frame[i+1] = rgb[1]
		frame[i+2] = rgb[2]
	}

	var buf bytes.Buffer
	writeBox(&buf, "ftyp", ftypPayload())
	writeBox(&buf, "mdat", frame)
	writeBox(&buf, "moov", mvhdBox(duration))
	return buf.Bytes()
}

// IsMP4 reports whether data starts with a well-formed ftyp box, the same
// sniff browsers apply to "video/mp4" payloads.
func IsMP4(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	size := binary.BigEndian.Uint32(data[:4])
	if size < 16 || uint32(len(data)) < size {
		return false
	}
	return string(data[4:8]) == "ftyp"
}

func ftypPayload() []byte {
	var buf bytes.Buffer
	buf.WriteString("isom")
	binary.Write(&buf, binary.BigEndian, uint32(0x200))
	buf.WriteString("isom")
	buf.WriteString("iso2")
	buf.WriteString("mp41")
	return buf.Bytes()
}

func mvhdBox(duration float64) []byte {
	payload := make([]byte, 100)
	// version+flags zero; creation/modification left at epoch
	binary.BigEndian.PutUint32(payload[12:], movieTimescale)
	binary.BigEndian.PutUint32(payload[16:], uint32(duration*movieTimescale))
	binary.BigEndian.PutUint32(payload[20:], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(payload[24:], 0x0100)     // volume 1.0
	// identity transformation matrix
	binary.BigEndian.PutUint32(payload[36:], 0x00010000)
	binary.BigEndian.PutUint32(payload[52:], 0x00010000)
	binary.BigEndian.PutUint32(payload[68:], 0x40000000)
	binary.BigEndian.PutUint32(payload[96:], 2) // next track id

	var buf bytes.Buffer
	writeBox(&buf, "mvhd", payload)
	return buf.Bytes()
}

func writeBox(buf *bytes.Buffer, kind string, payload []byte) {
	binary.Write(buf, binary.BigEndian, uint32(8+len(payload)))
	buf.WriteString(kind)
	buf.Write(payload)
}
