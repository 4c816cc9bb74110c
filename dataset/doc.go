// Package dataset defines the in-memory model consumed and produced by the TSLN codec.
//
// A Dataset is an ordered sequence of DataPoints. Each DataPoint carries a
// millisecond-resolution instant and an ordered Fields mapping from field name
// to a tagged Value. Values are one of four kinds: null, number, text, or
// boolean. Keeping the kind explicit lets the analysis and codec packages
// enforce strategy legality (differential encoding needs numbers) without
// runtime type assertions on interface values.
//
// Field order is significant: Fields preserves insertion order so that the
// header emitted by the encoder is deterministic across runs.
//
// # Equality
//
// Dataset.Equal is the round-trip relation used by the codec tests:
//   - instants compare at millisecond resolution
//   - values compare with Identical (NaN is identical to NaN, 0 and -0 differ)
//   - a field absent from a point reads as null
package dataset
