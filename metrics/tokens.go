package metrics

import (
	"fmt"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"

	"github.com/arloliu/tsln/errs"
)

// CharsPerToken is the divisor of the heuristic token estimate.
const CharsPerToken = 4

// HeuristicName is the name of the heuristic counter.
const HeuristicName = "heuristic"

// EstimateTokens approximates the token count of text as ceil(runes / CharsPerToken).
//
// The result is an estimate, not the output of a real tokenizer.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + CharsPerToken - 1) / CharsPerToken
}

// TokenCounter counts the tokens of a text.
type TokenCounter interface {
	// Name identifies the counter, e.g. "heuristic" or "cl100k_base".
	Name() string
	// Approximate reports whether counts are estimates.
	Approximate() bool
	CountTokens(text string) (int, error)
}

// HeuristicCounter counts with EstimateTokens.
type HeuristicCounter struct{}

var _ TokenCounter = HeuristicCounter{}

func (HeuristicCounter) Name() string { return HeuristicName }

func (HeuristicCounter) Approximate() bool { return true }

func (HeuristicCounter) CountTokens(text string) (int, error) {
	return EstimateTokens(text), nil
}

// TiktokenCounter counts tokens with an OpenAI BPE encoding.
//
// The BPE ranks are embedded in the tokenizer module, so no network access is
// needed. A TiktokenCounter is safe for concurrent use.
type TiktokenCounter struct {
	name  string
	codec tokenizer.Codec
}

var _ TokenCounter = (*TiktokenCounter)(nil)

var encodings = map[string]tokenizer.Encoding{
	"cl100k_base": tokenizer.Cl100kBase,
	"o200k_base":  tokenizer.O200kBase,
	"p50k_base":   tokenizer.P50kBase,
	"r50k_base":   tokenizer.R50kBase,
}

// NewTiktokenCounter loads the named BPE encoding.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, ok := encodings[encoding]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownTokenizer, encoding)
	}

	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer encoding %s: %w", encoding, err)
	}

	return &TiktokenCounter{name: encoding, codec: codec}, nil
}

func (c *TiktokenCounter) Name() string { return c.name }

func (c *TiktokenCounter) Approximate() bool { return false }

func (c *TiktokenCounter) CountTokens(text string) (int, error) {
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.name, err)
	}

	return len(ids), nil
}

// NewTokenCounter returns the counter called name: "" or "heuristic" for the
// heuristic estimate, or a BPE encoding name such as "cl100k_base".
func NewTokenCounter(name string) (TokenCounter, error) {
	if name == "" || name == HeuristicName {
		return HeuristicCounter{}, nil
	}

	return NewTiktokenCounter(name)
}
