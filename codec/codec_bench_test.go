package codec

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Points_%d", size), func(b *testing.B) {
			ds := randomDataset(rand.New(rand.NewPCG(42, uint64(size))), size, 8)

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				if _, err := Encode(ds); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncode_Parallel(b *testing.B) {
	ds := randomDataset(rand.New(rand.NewPCG(42, 42)), 5000, 32)

	for _, n := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("Workers_%d", n), func(b *testing.B) {
			enc, err := NewEncoder(WithParallelism(n))
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				if _, err := enc.Encode(ds); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	sizes := []int{100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Points_%d", size), func(b *testing.B) {
			ds := randomDataset(rand.New(rand.NewPCG(42, uint64(size))), size, 8)
			doc, err := Encode(ds)
			if err != nil {
				b.Fatal(err)
			}
			text := doc.Text()

			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			b.ReportAllocs()

			for b.Loop() {
				if _, err := Decode(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
