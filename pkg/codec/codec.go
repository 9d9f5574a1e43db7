package codec

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"soniclink/pkg/audio"
	"soniclink/pkg/envelope"
	"soniclink/pkg/frame"
	"soniclink/pkg/huffman"
	"soniclink/pkg/ofdm"
	"soniclink/pkg/qam"
	"soniclink/pkg/rs"
	"soniclink/pkg/tone"
)

// defaultChunkSize is the AudioSource.Pull chunk size spec §5 defaults to.
const defaultChunkSize = 1024

// endToneSearchWindow bounds how long DecodeStream looks for the
// end-of-frame tone after the last data symbol, per spec §4.7 stage 6.
const endToneSearchWindow = 300 * time.Millisecond

// EncodeFrame runs the full C1->C8 encode chain over payload and
// returns the complete waveform: optional start tone, preamble,
// data symbols, end tone.
func EncodeFrame(payload []byte, cfg ResolvedConfig, keys audio.KeyProvider, tracer Tracer) ([]float32, error) {
	if tracer == nil {
		tracer = noopTracer{}
	}

	body := payload
	var flags byte
	if cfg.Compress {
		body = huffman.Compress(body)
		flags |= frame.FlagCompressed
		tracer.Trace("compressed", "in", len(payload), "out", len(body))
	}

	var wrappedKey, nonce, trailer []byte
	if cfg.Encrypt {
		if keys == nil {
			return nil, ErrInvalidConfig
		}
		pub, err := keys.PublicKey()
		if err != nil {
			return nil, err
		}
		if pub == nil {
			return nil, ErrInvalidConfig
		}
		sessionKey, err := envelope.NewSessionKey()
		if err != nil {
			return nil, err
		}
		nonce, err = envelope.NewNonce()
		if err != nil {
			return nil, err
		}
		ciphertext, tag, err := envelope.Seal(sessionKey, nonce, body)
		if err != nil {
			return nil, err
		}
		wrappedKey, err = envelope.WrapKey(pub, sessionKey)
		if err != nil {
			return nil, err
		}
		body = ciphertext
		trailer = tag
		flags |= frame.FlagEncrypted
		tracer.Trace("encrypted", "body_len", len(body))
	}

	header := frame.Header{
		Flags:      flags,
		BodyLen:    uint32(len(body)),
		WrappedKey: wrappedKey,
		Nonce:      nonce,
	}
	headerBytes := header.Marshal()

	if !cfg.Encrypt {
		crc := frame.CRC32(headerBytes, body)
		trailer = make([]byte, 4)
		binary.BigEndian.PutUint32(trailer, crc)
	}

	fecInput := make([]byte, 0, len(headerBytes)+len(body)+len(trailer))
	fecInput = append(fecInput, headerBytes...)
	fecInput = append(fecInput, body...)
	fecInput = append(fecInput, trailer...)

	fecOutput := rs.NewCodec().EncodeStream(fecInput)

	symbolPayloads := frame.Pack(fecOutput, cfg.BytesPerSymbol)
	tracer.Trace("framed", "symbols", len(symbolPayloads))

	numGroups := cfg.Layout.K()
	symbols := make([][]complex128, len(symbolPayloads))
	for i, sym := range symbolPayloads {
		groups := qam.BytesToGroups(sym, numGroups)
		points := make([]complex128, numGroups)
		for j, g := range groups {
			points[j] = qam.Map(g)
		}
		symbols[i] = points
	}

	mod := ofdm.NewModulator(cfg.Layout)
	var out []float64
	if cfg.StartTone.Enabled {
		out = append(out, tone.StartTone(cfg.Audio.SampleRate)...)
	}
	out = append(out, mod.ModulatePreamble()...)
	out = append(out, mod.Modulate(symbols)...)
	out = append(out, tone.EndTone(cfg.Audio.SampleRate)...)

	samples := make([]float32, len(out))
	for i, v := range out {
		samples[i] = float32(v)
	}
	return samples, nil
}

// streamBuffer accumulates float64 samples pulled from an AudioSource
// for the demodulator to index into, observing cancellation and the
// idle timeout from "listening" to first preamble detection.
type streamBuffer struct {
	ctx            context.Context
	src            audio.AudioSource
	chunkSize      int
	cancelInterval int
	buf            []float64
	pullsSinceChk  int
}

func newStreamBuffer(ctx context.Context, src audio.AudioSource, cfg ResolvedConfig) *streamBuffer {
	chunkSize := defaultChunkSize
	cancelInterval := cfg.Timing.CancelCheckIntervalChunks
	if cancelInterval <= 0 {
		cancelInterval = 1
	}
	return &streamBuffer{ctx: ctx, src: src, chunkSize: chunkSize, cancelInterval: cancelInterval}
}

// pullMore pulls one chunk and appends it, returning ErrCancelled or
// ErrIOExhausted on failure.
func (s *streamBuffer) pullMore() error {
	s.pullsSinceChk++
	if s.pullsSinceChk >= s.cancelInterval {
		s.pullsSinceChk = 0
		select {
		case <-s.ctx.Done():
			return ErrCancelled
		default:
		}
	}
	chunk, err := s.src.Pull(s.ctx, s.chunkSize)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ErrCancelled
		}
		return ErrIOExhausted
	}
	for _, v := range chunk {
		s.buf = append(s.buf, float64(v))
	}
	return nil
}

// ensure pulls chunks until at least n samples are buffered.
func (s *streamBuffer) ensure(n int) error {
	for len(s.buf) < n {
		if err := s.pullMore(); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStream listens on source for one complete frame: detects the
// preamble, estimates timing/CFO/channel, decodes symbols until the
// declared symbol count is reached, then FEC-decodes, parses the
// header, verifies/decrypts, and decompresses.
func DecodeStream(ctx context.Context, source audio.AudioSource, cfg ResolvedConfig, keys audio.KeyProvider, tracer Tracer) ([]byte, error) {
	if tracer == nil {
		tracer = noopTracer{}
	}

	demod := ofdm.NewDemodulator(cfg.Layout)
	sb := newStreamBuffer(ctx, source, cfg)

	idleTimeout := time.Duration(cfg.Timing.IdleTimeoutMS) * time.Millisecond
	deadline := time.Now().Add(idleTimeout)

	preambleStart := -1
	const minDetectWindow = 3 * ofdm.N
	for {
		if err := sb.ensure(len(sb.buf) + sb.chunkSize); err != nil {
			if errors.Is(err, ErrIOExhausted) && preambleStart < 0 {
				return nil, ErrNoPreamble
			}
			return nil, err
		}
		if len(sb.buf) >= minDetectWindow {
			if start, found := demod.DetectPreamble(sb.buf); found {
				preambleStart = start
				break
			}
		}
		if idleTimeout > 0 && time.Now().After(deadline) {
			return nil, ErrNoPreamble
		}
	}
	tracer.Trace("preamble_detected", "start", preambleStart)

	if err := sb.ensure(preambleStart + 2*ofdm.SymbolLen + ofdm.L); err != nil {
		return nil, err
	}
	fineOffset := demod.FineTiming(sb.buf, preambleStart)
	symStart := preambleStart + fineOffset

	if err := sb.ensure(symStart + 2*ofdm.SymbolLen); err != nil {
		return nil, err
	}
	sym1 := sb.buf[symStart : symStart+ofdm.SymbolLen]
	cfo := demod.EstimateCFO(sym1)

	sym2Start := symStart + ofdm.SymbolLen
	sym2 := sb.buf[sym2Start : sym2Start+ofdm.SymbolLen]
	h := demod.EstimateChannel(sym2, cfo)
	tracer.Trace("channel_estimated", "bins", len(h))

	unpacker := frame.NewUnpacker(cfg.BytesPerSymbol)
	dataStart := sym2Start + ofdm.SymbolLen
	symIndex := 0
	for {
		offset := dataStart + symIndex*ofdm.SymbolLen
		if err := sb.ensure(offset + ofdm.SymbolLen); err != nil {
			return nil, err
		}
		symSamples := sb.buf[offset : offset+ofdm.SymbolLen]
		groups, err := demod.DecodeSymbol(symSamples, h, cfo, (symIndex+2)*ofdm.SymbolLen)
		if err != nil {
			if errors.Is(err, ofdm.ErrSyncLost) {
				return nil, ErrSyncLost
			}
			return nil, err
		}
		symBytes := qam.GroupsToBytes(groups, cfg.BytesPerSymbol)
		unpacker.Feed(symBytes)
		symIndex++

		if unpacker.Done() {
			break
		}
	}
	tracer.Trace("symbols_decoded", "count", symIndex)

	endOffset := dataStart + symIndex*ofdm.SymbolLen
	searchSamples := int(endToneSearchWindow.Seconds() * float64(cfg.Audio.SampleRate))
	if err := sb.ensure(endOffset + searchSamples); err == nil {
		detector := tone.NewDetector(tone.EndFreq, cfg.Audio.SampleRate, ofdm.N)
		found := false
		for off := endOffset; off+ofdm.N <= len(sb.buf) && off < endOffset+searchSamples; off += ofdm.N {
			if detector.Detect(sb.buf[off:off+ofdm.N], 0.5) {
				found = true
				break
			}
		}
		if !found {
			tracer.Trace("end_tone_missing")
		}
	}

	fecStream := unpacker.Stream()
	fecInput := truncateToCodewordBoundary(fecStream)
	plain, err := rs.NewCodec().DecodeStream(fecInput)
	if err != nil {
		return nil, ErrUncorrectableFEC
	}

	header, consumed, err := frame.ParseHeader(plain)
	if err != nil {
		return nil, ErrBadCRC
	}
	bodyStart := consumed
	bodyEnd := bodyStart + int(header.BodyLen)
	if bodyEnd > len(plain) {
		return nil, ErrBadCRC
	}
	body := plain[bodyStart:bodyEnd]
	trailerStart := bodyEnd
	trailerEnd := trailerStart + header.TrailerSize()
	if trailerEnd > len(plain) {
		return nil, ErrBadCRC
	}
	trailer := plain[trailerStart:trailerEnd]

	var payload []byte
	if header.Encrypted() {
		if keys == nil {
			return nil, ErrInvalidConfig
		}
		priv, err := keys.PrivateKey()
		if err != nil || priv == nil {
			return nil, ErrInvalidConfig
		}
		sessionKey, err := envelope.UnwrapKey(priv, header.WrappedKey)
		if err != nil {
			return nil, ErrAuthFailed
		}
		plaintext, err := envelope.Open(sessionKey, header.Nonce, body, trailer)
		if err != nil {
			return nil, ErrAuthFailed
		}
		payload = plaintext
	} else {
		want := binary.BigEndian.Uint32(trailer)
		got := frame.CRC32(plain[:bodyStart], body)
		if want != got {
			return nil, ErrBadCRC
		}
		payload = body
	}

	if header.Compressed() {
		decompressed, err := huffman.Decompress(payload)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		payload = decompressed
	}

	return payload, nil
}

// truncateToCodewordBoundary drops the trailing partial block from
// data. Unpacker.Stream() returns whole codewords followed by
// frame.Pack's 0x55 symbol-fill slack, which is never a full
// rs.BlockSize and was never produced by the encoder as a codeword;
// padding it up would hand the RS decoder a phantom block it must
// then "correct" back to zero instead of simply discarding it.
func truncateToCodewordBoundary(data []byte) []byte {
	n := (len(data) / rs.BlockSize) * rs.BlockSize
	return data[:n]
}

// Detect listens on source for up to timeout, reporting whether a
// preamble candidate appears, without decoding a full frame. Used by
// passive listeners armed by the start tone (C8) before committing to
// a full DecodeStream call.
func Detect(ctx context.Context, source audio.AudioSource, cfg ResolvedConfig, timeout time.Duration) (bool, error) {
	demod := ofdm.NewDemodulator(cfg.Layout)
	sb := newStreamBuffer(ctx, source, cfg)
	deadline := time.Now().Add(timeout)
	const minDetectWindow = 3 * ofdm.N

	for {
		if err := sb.ensure(len(sb.buf) + sb.chunkSize); err != nil {
			if errors.Is(err, ErrCancelled) {
				return false, ErrCancelled
			}
			return false, nil
		}
		if len(sb.buf) >= minDetectWindow {
			if _, found := demod.DetectPreamble(sb.buf); found {
				return true, nil
			}
		}
		if timeout > 0 && time.Now().After(deadline) {
			return false, nil
		}
	}
}
