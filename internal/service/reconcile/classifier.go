package reconcile

import (
	"strings"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
)

// Keyword lists match both the firmware's English phrasing and the
// localized device names the deployments actually use.
var (
	checkInKeywords  = []string{"check in", "checkin", "kirish"}
	checkOutKeywords = []string{"check out", "checkout", "chiqish"}
)

// KindForRole maps an authoritative device role to an event kind.
func KindForRole(role device.Role) (event.Kind, bool) {
	switch role {
	case device.RoleCheckIn:
		return event.KindCheckIn, true
	case device.RoleCheckOut:
		return event.KindCheckOut, true
	}
	return "", false
}

// Classify resolves the kind of a raw event. A configured device role wins
// outright; otherwise the free-text label decides by case-insensitive
// substring match. When neither disambiguates the event is undecidable and
// the caller must drop it.
func Classify(role device.Role, label string) (event.Kind, error) {
	if kind, ok := KindForRole(role); ok {
		return kind, nil
	}
	if kind, ok := classifyLabel(label); ok {
		return kind, nil
	}
	return "", event.ErrAmbiguousKind
}

func classifyLabel(label string) (event.Kind, bool) {
	lower := strings.ToLower(label)
	for _, kw := range checkInKeywords {
		if strings.Contains(lower, kw) {
			return event.KindCheckIn, true
		}
	}
	for _, kw := range checkOutKeywords {
		if strings.Contains(lower, kw) {
			return event.KindCheckOut, true
		}
	}
	return "", false
}
