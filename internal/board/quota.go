package board

import "github.com/starford/corkboard/internal/models"

// QuotaGuard mirrors the server's daily quota so placement can be refused
// without a round trip. It is a cache: Sync overwrites it with server truth.
type QuotaGuard struct {
	limit int
	used  int
}

// NewQuotaGuard returns a guard with the default limit and nothing used.
func NewQuotaGuard() *QuotaGuard {
	return &QuotaGuard{limit: models.DailyNoteLimit}
}

// Sync replaces the mirror with the server's figures.
func (q *QuotaGuard) Sync(s models.Quota) {
	if s.Limit > 0 {
		q.limit = s.Limit
	}
	q.used = max(0, s.Used)
}

// Increment records one optimistic creation.
func (q *QuotaGuard) Increment() { q.used++ }

// Reset clears usage, e.g. on logout.
func (q *QuotaGuard) Reset() {
	q.limit = models.DailyNoteLimit
	q.used = 0
}

// Exhausted reports whether no notes remain today.
func (q *QuotaGuard) Exhausted() bool { return q.used >= q.limit }

// Snapshot returns the mirror as a Quota.
func (q *QuotaGuard) Snapshot() models.Quota { return models.NewQuota(q.limit, q.used) }
