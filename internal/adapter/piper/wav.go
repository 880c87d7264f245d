package piper

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

type wavInfo struct {
	sampleRate int
	duration   *float64
}

// readWAVInfo extracts the sample rate and duration from a PCM WAV file by
// walking its RIFF chunks.
func readWAVInfo(path string) (*wavInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, fmt.Errorf("short WAV header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	var (
		sampleRate uint32
		byteRate   uint32
		dataSize   uint32
		haveFmt    bool
		haveData   bool
	)

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			break
		}

		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, fmt.Errorf("short fmt chunk: %w", err)
			}
			if size < 16 {
				return nil, errors.New("fmt chunk too small")
			}
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			byteRate = binary.LittleEndian.Uint32(body[8:12])
			haveFmt = true
		case "data":
			dataSize = size
			haveData = true
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		default:
			if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
		}

		if haveFmt && haveData {
			break
		}
	}

	if !haveFmt {
		return nil, errors.New("missing fmt chunk")
	}

	info := &wavInfo{sampleRate: int(sampleRate)}
	if haveData && byteRate > 0 {
		d := float64(dataSize) / float64(byteRate)
		info.duration = &d
	}

	return info, nil
}
