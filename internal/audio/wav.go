// Package audio converts between raw PCM byte streams and the forms the
// service needs: float32 samples for processing and RIFF/WAV blobs for
// download.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
)

// DecodePCM16 interprets data as little-endian signed 16-bit samples and
// scales them to [-1, 1). A trailing odd byte is dropped.
func DecodePCM16(data []byte) []float32 {
	n := len(data) / bytesPerSample
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(data[i*bytesPerSample:]))
		samples[i] = float32(v) / 32768
	}
	return samples
}

// EncodePCM16 quantizes float32 samples to little-endian signed 16-bit
// PCM, clamping out-of-range values.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(int16(v)))
	}
	return out
}

// EncodeWAV wraps interleaved 16-bit PCM data in a RIFF/WAV container.
func EncodeWAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid wav parameters: rate=%d channels=%d", sampleRate, channels)
	}

	byteRate := sampleRate * channels * bytesPerSample
	blockAlign := channels * bytesPerSample
	dataLen := len(pcm)

	// Стандартный 44-байтный заголовок, без расширений.
	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))
	copy(buf[44:], pcm)
	return buf, nil
}
