// Package metrics measures encoded documents and compares notations.
//
// Sizes are byte lengths. Token counts default to a fixed heuristic,
// ceil(characters / CharsPerToken), which is only an approximation of what a
// real language-model tokenizer produces; every result carries an Approximate
// flag saying so. For exact counts select a BPE tokenizer:
//
//	counter, err := metrics.NewTokenCounter("cl100k_base")
//	if err != nil {
//	    return err
//	}
//	report, err := metrics.Compare(entries, metrics.WithTokenCounter(counter))
//
// Compare treats its first entry as the structured baseline and reports the
// format with the fewest tokens together with the percentage of baseline
// tokens it saves.
package metrics
