package services

import "time"

// ScanCounter counts a user's persisted scans at or after an instant. The
// store-backed ScanService implements it; tests substitute a double.
type ScanCounter interface {
	CountScansSince(userID string, since time.Time) (int64, error)
}

// QuotaStatus is the quota-check response shape.
type QuotaStatus struct {
	Remaining int  `json:"remaining"`
	IsAdmin   bool `json:"isAdmin"`
}

// QuotaService enforces the daily scan ceiling. The window is anchored to
// local midnight in the caller's timezone; the configured admin email
// bypasses the ceiling entirely. The count is recomputed from the store on
// every check — no caching, so there is nothing to invalidate on reset.
type QuotaService struct {
	counter    ScanCounter
	adminEmail string
	limit      int
	now        func() time.Time
}

func NewQuotaService(counter ScanCounter, adminEmail string, limit int) *QuotaService {
	return &QuotaService{
		counter:    counter,
		adminEmail: adminEmail,
		limit:      limit,
		now:        time.Now,
	}
}

// Limit returns the daily ceiling for non-admin users.
func (s *QuotaService) Limit() int { return s.limit }

// Status computes the remaining scans for today in the given timezone.
// A counter failure propagates: the gate fails closed rather than silently
// allowing scans during a store outage.
func (s *QuotaService) Status(userID, email, tz string) (*QuotaStatus, error) {
	isAdmin := email != "" && email == s.adminEmail

	windowStart := DayStartUTC(tz, s.now())
	count, err := s.counter.CountScansSince(userID, windowStart)
	if err != nil {
		return nil, err
	}

	remaining := s.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaStatus{Remaining: remaining, IsAdmin: isAdmin}, nil
}

// Allow is the gate decision for a scan request. It only decides; the caller
// consumes a slot later by persisting the confirmed record. The read here
// and that write are not atomic, so two near-simultaneous requests at the
// boundary can both pass — an accepted race for a soft UX limit.
func (s *QuotaService) Allow(userID, email, tz string) error {
	status, err := s.Status(userID, email, tz)
	if err != nil {
		return err
	}
	if status.IsAdmin {
		return nil
	}
	if status.Remaining == 0 {
		return ErrQuotaExceeded
	}
	return nil
}
