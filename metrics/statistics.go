package metrics

// Statistics compares an encoded document with the serialization it replaces.
type Statistics struct {
	// OriginalSize is the byte length of the structured serialization.
	OriginalSize int
	// EncodedSize is the byte length of the encoded document.
	EncodedSize int
	// CompressionRatio is EncodedSize / OriginalSize, 0 when OriginalSize is 0.
	CompressionRatio float64
	OriginalTokens   int
	EstimatedTokens  int
	// EstimatedTokenSavings is OriginalTokens - EstimatedTokens; negative when
	// the encoding is larger.
	EstimatedTokenSavings int
	// TokenSavingsPercent is EstimatedTokenSavings as a percentage of OriginalTokens.
	TokenSavingsPercent float64
	// CompressedSize is the encoded size after compression, when enabled.
	CompressedSize int
	Tokenizer      string
	Approximate    bool
}

// NewStatistics measures encoded against original.
func NewStatistics(original, encoded string, opts ...Option) (Statistics, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return Statistics{}, err
	}

	origSize, origTokens, _, err := cfg.measure(original)
	if err != nil {
		return Statistics{}, err
	}

	encSize, encTokens, compressed, err := cfg.measure(encoded)
	if err != nil {
		return Statistics{}, err
	}

	s := Statistics{
		OriginalSize:          origSize,
		EncodedSize:           encSize,
		OriginalTokens:        origTokens,
		EstimatedTokens:       encTokens,
		EstimatedTokenSavings: origTokens - encTokens,
		CompressedSize:        compressed,
		Tokenizer:             cfg.Counter.Name(),
		Approximate:           cfg.Counter.Approximate(),
	}
	if origSize > 0 {
		s.CompressionRatio = float64(encSize) / float64(origSize)
	}
	if origTokens > 0 {
		s.TokenSavingsPercent = float64(s.EstimatedTokenSavings) / float64(origTokens) * 100
	}

	return s, nil
}
