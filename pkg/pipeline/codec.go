package pipeline

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/molpack/pkg/errors"
	"github.com/matzehuels/molpack/pkg/pack"
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// encodeResult serialises r as zstd-compressed msgpack.
func encodeResult(r *pack.Result) ([]byte, error) {
	raw, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

// decodeResult reverses encodeResult and restores the per-type errors.
func decodeResult(data []byte) (*pack.Result, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress result: %w", err)
	}
	var r pack.Result
	if err := msgpack.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	prefix := string(errors.ErrCodePlacementFailed) + ": "
	for i := range r.Types {
		t := &r.Types[i]
		if !t.Success {
			t.Err = errors.New(errors.ErrCodePlacementFailed, "%s", strings.TrimPrefix(t.Failure, prefix))
		}
	}
	return &r, nil
}
