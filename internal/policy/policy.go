// Package policy decides whether a synthesis request may proceed. The gate
// is consulted exactly once per request, before any adapter or filesystem
// work begins.
package policy

import "fmt"

// Decision is the outcome of a policy evaluation. It is never cached or
// persisted.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Request carries the inputs the gate may inspect.
type Request struct {
	Text    string
	Backend string
	Voice   string

	// Attested reports the caller's local-use attestation. Advisory only
	// under the current rule set.
	Attested bool
}

// Gate is a pure decision function. Stateless, no I/O, safe for concurrent
// use.
type Gate struct{}

// NewGate creates the gate with the current rule set.
func NewGate() *Gate {
	return &Gate{}
}

// Evaluate applies the rule set to a request. The current rules permit all
// synthesis; the gate is the reserved extension point for consent-gated
// voice cloning.
func (g *Gate) Evaluate(req Request) Decision {
	return Decision{
		Allowed: true,
		Reason:  fmt.Sprintf("local synthesis permitted for backend %q", req.Backend),
	}
}
