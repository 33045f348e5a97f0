package services

import (
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
)

// ProviderMatcher is a domain service that selects the providers a new
// service request should be broadcast to.
//
// Business rules:
//   - Only available providers qualify: online and approved.
//   - Category matching uses the union of the current and legacy category
//     fields, so providers registered before the taxonomy migration still
//     receive dispatches.
//   - Each provider appears at most once in the result, even when both of
//     its category fields match.
//   - Zero matches is a valid outcome, not an error; the durable record
//     remains available for later pickup.
//
// Example usage:
//
//	matcher := services.NewProviderMatcher()
//	matched, err := matcher.Match(req, candidates)
//	if err != nil {
//	    // a candidate or the request failed validation
//	    return
//	}
//	for _, p := range matched {
//	    // broadcast notification to p
//	}
type ProviderMatcher struct{}

// NewProviderMatcher creates a new ProviderMatcher instance.
func NewProviderMatcher() ProviderMatcher {
	return ProviderMatcher{}
}

// Match filters candidates down to the providers that should receive the
// broadcast for the given request. Candidate order is preserved.
func (m ProviderMatcher) Match(
	req *request.ServiceRequest,
	candidates []*provider.Provider,
) ([]*provider.Provider, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	matched := make([]*provider.Provider, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if !p.IsAvailable() || !p.MatchesCategory(req.ServiceType()) {
			continue
		}

		key := p.ID().String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		matched = append(matched, p)
	}

	return matched, nil
}
