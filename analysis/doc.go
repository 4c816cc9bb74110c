// Package analysis profiles a dataset and chooses a per-field encoding strategy.
//
// The analysis runs in three independent steps:
//
//  1. ProfileFields scans every field column and reports its inferred type,
//     how often consecutive values repeat, the number of distinct values and,
//     for numeric fields, a volatility score and trend.
//  2. AnalyzeTimestamps decides whether the instants are regularly spaced.
//  3. SelectStrategies maps each profile to raw, differential or repeat-marker
//     encoding, subject to the enabled capabilities.
//
// Analyze runs all three and adds dataset-level summaries.
//
// # Volatility
//
// Volatility is the population standard deviation of the deltas between
// consecutive finite observations, divided by the observed range:
//
//	volatility = stddev(x[i] - x[i-1]) / (max(x) - min(x))
//
// It is 0 for a constant column and undefined (nil) when fewer than two finite
// observations exist. A steadily incrementing counter scores 0; random noise
// over the same range scores well above DifferentialVolatilityThreshold.
//
// # Determinism
//
// For a given dataset and capability set every function in this package
// returns the same result, regardless of the parallelism used for profiling.
package analysis
