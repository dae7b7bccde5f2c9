package categorizer

// Candidate is a payment type that cleared the threshold for a label.
type Candidate struct {
	Category string
	Score    float64
}

// Resolution is the outcome of a successful Resolve call.
type Resolution struct {
	Category string
	Score    float64
	// Candidates lists every payment type above the threshold, in vocabulary
	// order.
	Candidates []Candidate
}

// Resolver maps a label to a canonical payment type by fuzzy matching.
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	vocabulary []string
	threshold  float64
	scorer     Scorer
	tieBreak   TieBreak
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithVocabulary replaces the default payment types. Order matters for
// TieBreakFirst. An empty list keeps the default.
func WithVocabulary(vocabulary []string) Option {
	return func(r *Resolver) {
		if len(vocabulary) > 0 {
			r.vocabulary = append([]string(nil), vocabulary...)
		}
	}
}

// WithThreshold sets the similarity a label must strictly exceed.
func WithThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.threshold = threshold
	}
}

// WithScorer replaces SequenceRatio.
func WithScorer(s Scorer) Option {
	return func(r *Resolver) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithTieBreak sets the policy used when several payment types pass.
func WithTieBreak(tb TieBreak) Option {
	return func(r *Resolver) {
		if tb != "" {
			r.tieBreak = tb
		}
	}
}

// NewResolver builds a Resolver with the default vocabulary, threshold,
// scorer and TieBreakFirst unless overridden.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		vocabulary: append([]string(nil), DefaultVocabulary...),
		threshold:  DefaultThreshold,
		scorer:     SequenceRatio,
		tieBreak:   TieBreakFirst,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Vocabulary returns a copy of the payment types in priority order.
func (r *Resolver) Vocabulary() []string {
	return append([]string(nil), r.vocabulary...)
}

// Threshold returns the configured acceptance threshold.
func (r *Resolver) Threshold() float64 {
	return r.threshold
}

// Resolve scores label against every payment type. It returns false when no
// payment type scores strictly above the threshold.
func (r *Resolver) Resolve(label string) (Resolution, bool) {
	var candidates []Candidate
	for _, canonical := range r.vocabulary {
		score := r.scorer.Score(canonical, label)
		if score > r.threshold {
			candidates = append(candidates, Candidate{Category: canonical, Score: score})
		}
	}
	if len(candidates) == 0 {
		return Resolution{}, false
	}

	winner := candidates[0]
	if r.tieBreak == TieBreakBest {
		for _, c := range candidates[1:] {
			if c.Score > winner.Score {
				winner = c
			}
		}
	}

	return Resolution{
		Category:   winner.Category,
		Score:      winner.Score,
		Candidates: candidates,
	}, true
}

// BestScore returns the highest score label reaches against the vocabulary,
// whether or not it clears the threshold. It is used for diagnostics on
// dropped lines.
func (r *Resolver) BestScore(label string) (string, float64) {
	var best string
	bestScore := -1.0
	for _, canonical := range r.vocabulary {
		if score := r.scorer.Score(canonical, label); score > bestScore {
			best, bestScore = canonical, score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}
