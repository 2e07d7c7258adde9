// Package constraints: the Validator — a process-scoped registry of named
// groups plus an append-only, capped validation history used for reporting.

package constraints

import "time"

// DefaultHistoryLimit caps the validation history. Oldest entries are
// dropped first once the cap is reached.
const DefaultHistoryLimit = 1000

// HistoryEntry is one JSON-serializable snapshot of a validation call.
// The context is stored in summarized form (see Context.Summary), never as
// live object references.
type HistoryEntry struct {
	Group        string         `json:"group"`
	Timestamp    time.Time      `json:"timestamp"`
	Valid        bool           `json:"valid"`
	Violated     []string       `json:"violated,omitempty"`
	TotalPenalty float64        `json:"total_penalty"`
	Context      map[string]any `json:"context"`
}

// GroupSummary describes one group inside a Report.
type GroupSummary struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Constraints int    `json:"constraints"`
}

// Report is the queryable summary of a validator's state.
type Report struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	Groups        []GroupSummary `json:"groups"`
	Validations   int            `json:"validations"`
	Violations    int            `json:"violations"`
	RecentHistory []HistoryEntry `json:"recent_history"`
}

// Validator owns named groups and the validation history. It is NOT
// goroutine-safe on its own; the matching.Matcher serializes access under
// its own lock, and standalone users must do the same.
type Validator struct {
	groups      map[string]*Group
	order       []string // creation order, for deterministic ValidateAll
	history     []HistoryEntry
	limit       int
	validations int
	violations  int
}

// NewValidator creates a validator with the given history cap.
// limit <= 0 selects DefaultHistoryLimit.
func NewValidator(limit int) *Validator {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return &Validator{groups: make(map[string]*Group), limit: limit}
}

// EnsureGroup returns the named group, creating it with level on first use.
// Re-requesting an existing group with a different level returns
// ErrGroupExists (levels are fixed at creation to keep semantics stable).
func (v *Validator) EnsureGroup(name string, level ValidationLevel) (*Group, error) {
	if g, ok := v.groups[name]; ok {
		if g.level != level {
			return nil, ErrGroupExists
		}

		return g, nil
	}

	g := NewGroup(name, level)
	v.groups[name] = g
	v.order = append(v.order, name)

	return g, nil
}

// Group returns the named group, or ErrUnknownGroup.
func (v *Validator) Group(name string) (*Group, error) {
	g, ok := v.groups[name]
	if !ok {
		return nil, ErrUnknownGroup
	}

	return g, nil
}

// ValidateGroup validates one named group against ctx and records a history
// snapshot (also on Strict failure — the failure is part of the record).
func (v *Validator) ValidateGroup(name string, ctx Context) (Result, error) {
	g, ok := v.groups[name]
	if !ok {
		return Result{}, ErrUnknownGroup
	}

	res, err := g.Validate(ctx)
	v.record(name, ctx, res)

	return res, err
}

// ValidateAll validates every group in creation order. All groups run to
// completion so the history is complete; the first Strict failure (if any)
// is returned after the sweep.
func (v *Validator) ValidateAll(ctx Context) (map[string]Result, error) {
	results := make(map[string]Result, len(v.groups))

	var firstErr error
	for _, name := range v.order {
		res, err := v.groups[name].Validate(ctx)
		v.record(name, ctx, res)
		results[name] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// record appends a summarized snapshot, enforcing the history cap.
func (v *Validator) record(group string, ctx Context, res Result) {
	v.validations++
	v.violations += len(res.Violated)

	entry := HistoryEntry{
		Group:        group,
		Timestamp:    time.Now(),
		Valid:        res.Valid,
		Violated:     res.Violated,
		TotalPenalty: res.TotalPenalty,
		Context:      ctx.Summary(),
	}
	v.history = append(v.history, entry)
	if len(v.history) > v.limit {
		// Drop oldest; shift instead of reslice to release the backing entry.
		copy(v.history, v.history[1:])
		v.history = v.history[:v.limit]
	}
}

// History returns a copy of the recorded snapshots, oldest first.
func (v *Validator) History() []HistoryEntry {
	out := make([]HistoryEntry, len(v.history))
	copy(out, v.history)

	return out
}

// Validations returns the total number of validation calls recorded.
func (v *Validator) Validations() int { return v.validations }

// ViolationCount returns the total number of violations recorded across all
// validation calls.
func (v *Validator) ViolationCount() int { return v.violations }

// GenerateReport renders the queryable summary: groups, counters, and the
// most recent history entries (up to 10).
func (v *Validator) GenerateReport() Report {
	rep := Report{
		GeneratedAt: time.Now(),
		Validations: v.validations,
		Violations:  v.violations,
	}

	for _, name := range v.order {
		g := v.groups[name]
		rep.Groups = append(rep.Groups, GroupSummary{
			Name:        g.name,
			Level:       g.level.String(),
			Constraints: len(g.constraints),
		})
	}

	recent := 10
	if len(v.history) < recent {
		recent = len(v.history)
	}
	rep.RecentHistory = make([]HistoryEntry, recent)
	copy(rep.RecentHistory, v.history[len(v.history)-recent:])

	return rep
}
