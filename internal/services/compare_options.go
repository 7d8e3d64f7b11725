package services

import (
	"fmt"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// CompareOptions analyzes every option found for a single leg and identifies
// the one cheapest and the one fastest option, annotating all others with the
// deltas that ruled them out.
//
// Options without a price are skipped for the cheapest pick, and options
// without a positive duration for the fastest pick, so either recommendation
// can be nil. Ties resolve by the other dimension and then by position in the
// input, keeping the analysis deterministic for identical input.
func CompareOptions(options []domain.TransportOption) (*domain.OptionAnalysis, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("compare options: no options to analyze: %w", ErrInvalidInput)
	}

	cheapest, fastest := -1, -1
	for i, opt := range options {
		if opt.Priced() {
			if cheapest < 0 || cheaperOption(opt, options[cheapest]) {
				cheapest = i
			}
		}
		if opt.DurationMinutes > 0 {
			if fastest < 0 || fasterOption(opt, options[fastest]) {
				fastest = i
			}
		}
	}

	analysis := &domain.OptionAnalysis{
		Total:      len(options),
		SameOption: cheapest >= 0 && cheapest == fastest,
	}
	if cheapest >= 0 {
		analysis.Cheapest = &options[cheapest]
	}
	if fastest >= 0 {
		analysis.Fastest = &options[fastest]
	}

	for i, opt := range options {
		if i == cheapest || i == fastest {
			continue
		}

		var reasons []string
		if cheapest >= 0 && opt.Priced() {
			if diff := opt.Price.Amount - options[cheapest].Price.Amount; diff > 0 {
				reasons = append(reasons, fmt.Sprintf("%.2f %s more expensive than cheapest", diff, opt.Price.Currency))
			}
		}
		if fastest >= 0 && opt.DurationMinutes > 0 {
			if diff := opt.DurationMinutes - options[fastest].DurationMinutes; diff > 0 {
				reasons = append(reasons, fmt.Sprintf("%s slower than fastest", formatMinutes(diff)))
			}
		}
		if len(reasons) == 0 {
			reasons = []string{"not the cheapest or fastest option"}
		}

		analysis.Discarded = append(analysis.Discarded, domain.DiscardedOption{
			Option:  opt,
			Reasons: reasons,
		})
	}

	return analysis, nil
}

func cheaperOption(a, b domain.TransportOption) bool {
	if a.Price.Amount != b.Price.Amount {
		return a.Price.Amount < b.Price.Amount
	}
	return a.DurationMinutes < b.DurationMinutes
}

func fasterOption(a, b domain.TransportOption) bool {
	if a.DurationMinutes != b.DurationMinutes {
		return a.DurationMinutes < b.DurationMinutes
	}
	ap, bp := a.Priced(), b.Priced()
	if ap && bp {
		return a.Price.Amount < b.Price.Amount
	}
	// Priced options win the tie over unpriced ones.
	return ap && !bp
}
