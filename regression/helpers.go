package regression

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/tsln/codec"
	"github.com/arloliu/tsln/dataset"
)

// chunkSizes picks the rows-per-document values to measure, up to maxRows.
func chunkSizes(maxRows int) []int {
	standard := []int{1, 2, 5, 10, 20, 50, 100, 150, 200, 500, 1000, 2000, 5000}

	var out []int
	for _, n := range standard {
		if n <= maxRows {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		if maxRows > 0 {
			return []int{maxRows}
		}

		return nil
	}

	// add the cap itself unless it is close to the last standard size
	if last := out[len(out)-1]; maxRows > last && float64(maxRows)/float64(last) > 1.2 {
		out = append(out, maxRows)
	}

	return out
}

// measure encodes ds in chunks of every size and returns one sample per size.
func measure(ds dataset.Dataset, sizes []int, cfg Config) ([]Sample, error) {
	samples := make([]Sample, len(sizes))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rows := range sizes {
		g.Go(func() error {
			total, docs, err := chunkCost(ds, rows, cfg)
			if err != nil {
				return err
			}
			samples[i] = Sample{
				Rows:       rows,
				Documents:  docs,
				CostPerRow: float64(total) / float64(len(ds)),
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return samples, nil
}

// chunkCost returns the summed cost of encoding ds as documents of at most rows rows.
func chunkCost(ds dataset.Dataset, rows int, cfg Config) (total, docs int, err error) {
	for start := 0; start < len(ds); start += rows {
		end := min(start+rows, len(ds))

		doc, err := codec.Encode(ds[start:end], cfg.Encoder...)
		if err != nil {
			return 0, 0, err
		}

		cost := doc.Size()
		if cfg.Unit == UnitTokens {
			if cost, err = cfg.Counter.CountTokens(doc.Text()); err != nil {
				return 0, 0, err
			}
		}

		total += cost
		docs++
	}

	return total, docs, nil
}
