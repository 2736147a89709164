package reconcile

import (
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
)

// shouldApply is the dedup/state guard: a check-in only applies when the
// employee has no open span on the event's day, a check-out only when one
// exists. Rejections are normal skips: terminals re-report events and
// people badge twice at the door.
//
// open must be read fresh for every event, after the batch was sorted by
// timestamp; guarding against a stale snapshot would let a second check-in
// through.
func shouldApply(kind event.Kind, open *attendance.Attendance) bool {
	switch kind {
	case event.KindCheckIn:
		return open == nil
	case event.KindCheckOut:
		return open != nil
	}
	return false
}
