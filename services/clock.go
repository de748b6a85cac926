package services

import "time"

// sameLocalDay reports whether a and b fall on the same calendar day in the
// server's local time zone.
func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(time.Local).Date()
	by, bm, bd := b.In(time.Local).Date()
	return ay == by && am == bm && ad == bd
}
