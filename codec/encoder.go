package codec

import (
	"fmt"

	"github.com/arloliu/tsln/analysis"
	"github.com/arloliu/tsln/dataset"
	"github.com/arloliu/tsln/encoding"
	"github.com/arloliu/tsln/errs"
	"github.com/arloliu/tsln/format"
	"github.com/arloliu/tsln/internal/options"
	"github.com/arloliu/tsln/internal/pool"
	"github.com/arloliu/tsln/schema"
)

var bodyPool = pool.NewRowBufferPool(pool.DefaultSize, pool.MaxThreshold, encoding.FieldDelim, encoding.RowDelim)

// Encoder turns datasets into TSLN documents.
//
// An Encoder holds only its configuration and is safe for concurrent use.
type Encoder struct {
	cfg EncoderConfig
}

// NewEncoder creates an Encoder. Without options both differential encoding
// and repeat markers are enabled.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg}, nil
}

// Config returns the encoder configuration.
func (e *Encoder) Config() EncoderConfig {
	return e.cfg
}

// Analyze runs the analysis the encoder would use for ds.
func (e *Encoder) Analyze(ds dataset.Dataset) (*analysis.Result, error) {
	return analysis.Analyze(ds,
		analysis.WithCapabilities(e.cfg.Capabilities),
		analysis.WithParallelism(e.cfg.Parallelism),
	)
}

// Encode analyzes and encodes ds.
func (e *Encoder) Encode(ds dataset.Dataset) (*Document, error) {
	res, err := e.Analyze(ds)
	if err != nil {
		return nil, err
	}

	return e.EncodeAnalyzed(ds, res)
}

// EncodeAnalyzed encodes ds using a previously computed analysis of the same dataset.
func (e *Encoder) EncodeAnalyzed(ds dataset.Dataset, res *analysis.Result) (*Document, error) {
	s := &schema.Schema{
		Version:       schema.Version,
		TimestampMode: res.Timestamps.Mode,
		Base:          res.Timestamps.Base,
		Interval:      res.Timestamps.Interval,
		HasInterval:   res.Timestamps.HasInterval,
		Rows:          len(ds),
		Capabilities:  e.cfg.Capabilities,
		Fields:        res.Strategies,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent analysis: %w", err)
	}

	buf := bodyPool.Get()
	defer bodyPool.Put(buf)

	w := newRowWriter(s)
	for i := range ds {
		if err := w.writeRow(buf, i, ds[i]); err != nil {
			return nil, err
		}
	}

	return &Document{Schema: s, Body: buf.String()}, nil
}

// Encode encodes ds with a one-off Encoder.
func Encode(ds dataset.Dataset, opts ...EncoderOption) (*Document, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(ds)
}

// rowWriter carries the per-column state of one encoding pass.
type rowWriter struct {
	schema   *schema.Schema
	prev     []dataset.Value
	lastTime int64
}

func newRowWriter(s *schema.Schema) *rowWriter {
	return &rowWriter{
		schema:   s,
		prev:     make([]dataset.Value, len(s.Fields)),
		lastTime: s.Base,
	}
}

func (w *rowWriter) writeRow(buf *pool.RowBuffer, row int, p dataset.DataPoint) error {
	buf.NewRow()
	if w.schema.TimestampMode == format.TimestampIrregular {
		ts := p.UnixMilli()
		buf.Int(ts - w.lastTime)
		w.lastTime = ts
	}

	for j, f := range w.schema.Fields {
		v := p.Fields.Get(f.Name)
		tok, err := w.token(row, j, f, v)
		if err != nil {
			return err
		}
		buf.Token(tok)
		w.prev[j] = v
	}

	return nil
}

func (w *rowWriter) token(row, col int, f schema.FieldDescriptor, v dataset.Value) (string, error) {
	prev := w.prev[col]

	switch f.Strategy {
	case format.StrategyRepeat:
		if row > 0 && dataset.Identical(prev, v) {
			return encoding.RepeatToken, nil
		}
	case format.StrategyDifferential:
		if v.IsNull() {
			return encoding.NullToken, nil
		}

		cur, ok := v.Float()
		if !ok {
			return "", fmt.Errorf("field %q row %d: %w: %s in differential column", f.Name, row, errs.ErrTypeMismatch, v.Kind())
		}

		if last, ok := prev.Float(); ok {
			return encoding.Delta(last, cur)
		}
	}

	return encoding.FormatValue(v), nil
}
