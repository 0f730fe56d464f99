package services

import (
	"encoding/binary"
	"fmt"
)

// WAVParams are the header fields the speech services need: answers arrive as
// LINEAR16 WAV and the sample rate is auto-detected rather than assumed.
type WAVParams struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataBytes     int
}

// ParseWAVHeader walks the RIFF chunks of a WAV file and returns its format
// parameters. Returns an error for anything that is not a readable PCM WAV.
func ParseWAVHeader(data []byte) (WAVParams, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVParams{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var params WAVParams
	sawFmt := false

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return WAVParams{}, fmt.Errorf("truncated fmt chunk")
			}
			params.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			params.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			params.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true
		case "data":
			params.DataBytes = chunkSize
		}

		// Chunks are word-aligned
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if !sawFmt {
		return WAVParams{}, fmt.Errorf("missing fmt chunk")
	}
	if params.SampleRate <= 0 || params.Channels <= 0 {
		return WAVParams{}, fmt.Errorf("invalid WAV format parameters")
	}

	return params, nil
}

// BuildWAV wraps raw LINEAR16 PCM samples in a WAV container.
func BuildWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, bitsPerSample)

	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)

	return buf
}
