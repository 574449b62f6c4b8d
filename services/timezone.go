package services

import "time"

// ResolveTimezone returns tz unchanged when it names an IANA zone the host
// accepts, and "UTC" otherwise. It never fails: a garbage client-supplied
// timezone can only shift the quota reset to UTC semantics, not break the gate.
func ResolveTimezone(tz string) string {
	if tz == "" {
		return "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "UTC"
	}
	return tz
}

// DayStartUTC returns the UTC instant of 00:00:00 local time in tz for the
// calendar day that now falls on in that zone. The zone offset is taken at
// the boundary instant itself, so a DST transition later the same day does
// not move a boundary already computed.
func DayStartUTC(tz string, now time.Time) time.Time {
	loc, err := time.LoadLocation(ResolveTimezone(tz))
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}
