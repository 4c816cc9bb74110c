package compress

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsln/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
}

func getAllCodecs() map[string]Codec {
	out := make(map[string]Codec, len(allTypes))
	for _, ct := range allTypes {
		c, err := Get(ct)
		if err != nil {
			panic(err)
		}
		out[ct.String()] = c
	}

	return out
}

// documentPayload mimics a TSLN body with a repeat column and a differential column.
func documentPayload(rows int) []byte {
	var sb strings.Builder
	sb.WriteString("#TSLN/1|ts=r:1000|base=1766829600000|rows=")
	fmt.Fprintf(&sb, "%d|caps=diff,rep|fields=host:str:rep,cpu:num:diff,msg:str:raw", rows)
	for i := range rows {
		sb.WriteByte('\n')
		if i == 0 {
			sb.WriteString("web-01|12.5|boot")
			continue
		}
		fmt.Fprintf(&sb, "=|%+d|event %d", i%7-3, i*37%101)
	}

	return []byte(sb.String())
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress([]byte{})
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "single_byte", data: []byte{'|'}},
		{name: "header_only", data: []byte("#TSLN/1|ts=r|base=0|rows=0|caps=diff,rep|fields=")},
		{name: "small_document", data: documentPayload(10)},
		{name: "large_document", data: documentPayload(5000)},
		{name: "repeat_markers", data: []byte(strings.Repeat("=|=|=\n", 4096))},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalid := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF},
		[]byte("#TSLN/1|this is not compressed"),
	}

	for codecName, codec := range getAllCodecs() {
		if codecName == format.CompressionNone.String() {
			continue
		}

		t.Run(codecName, func(t *testing.T) {
			for _, data := range invalid {
				_, err := codec.Decompress(data)
				require.Error(t, err)
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := documentPayload(200)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, 16)
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					compressed, err := codec.Compress(data)
					if err != nil {
						errCh <- err
						return
					}
					out, err := codec.Decompress(compressed)
					if err != nil {
						errCh <- err
						return
					}
					if string(out) != string(data) {
						errCh <- fmt.Errorf("%s: round trip mismatch", codecName)
					}
				}()
			}
			wg.Wait()
			close(errCh)

			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	for _, ct := range allTypes {
		c, err := Get(ct)
		require.NoError(t, err)
		require.Equal(t, ct, c.Type())
	}

	for _, ct := range []format.CompressionType{0, 99} {
		_, err := Get(ct)
		require.ErrorIs(t, err, ErrUnsupported)
	}
}

func TestMeasure(t *testing.T) {
	text := string(documentPayload(1000))

	zstdCodec, err := Get(format.CompressionZstd)
	require.NoError(t, err)

	stats, err := Measure(zstdCodec, text)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, stats.Algorithm)
	require.Equal(t, len(text), stats.OriginalSize)
	require.Less(t, stats.CompressedSize, stats.OriginalSize)
	require.Less(t, stats.Ratio(), 1.0)
	require.Greater(t, stats.Savings(), 0.0)
	require.GreaterOrEqual(t, stats.Duration, time.Duration(0))

	noop, err := Get(format.CompressionNone)
	require.NoError(t, err)

	stats, err = Measure(noop, text)
	require.NoError(t, err)
	require.InDelta(t, 1.0, stats.Ratio(), 1e-12)
	require.InDelta(t, 0.0, stats.Savings(), 1e-12)
}

func TestSize(t *testing.T) {
	text := strings.Repeat("=|=|+1\n", 500)

	for _, ct := range allTypes[1:] {
		n, err := Size(ct, text)
		require.NoError(t, err, ct)
		require.Positive(t, n, ct)
		require.Less(t, n, len(text), ct)
	}

	n, err := Size(format.CompressionNone, text)
	require.NoError(t, err)
	require.Equal(t, len(text), n)

	_, err = Size(format.CompressionType(7), text)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestStats_Empty(t *testing.T) {
	var stats Stats
	require.Zero(t, stats.Ratio())
	require.Zero(t, stats.Savings())
}
