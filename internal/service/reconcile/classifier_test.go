package reconcile

import (
	"testing"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDeviceRoleWins(t *testing.T) {
	// A configured role beats a contradicting label.
	kind, err := Classify(device.RoleCheckIn, "Check Out Terminal")
	require.NoError(t, err)
	assert.Equal(t, event.KindCheckIn, kind)

	kind, err = Classify(device.RoleCheckOut, "kirish")
	require.NoError(t, err)
	assert.Equal(t, event.KindCheckOut, kind)
}

func TestClassifyByLabel(t *testing.T) {
	cases := []struct {
		label string
		want  event.Kind
	}{
		{"Check In", event.KindCheckIn},
		{"CHECKIN door 1", event.KindCheckIn},
		{"Kirish eshigi", event.KindCheckIn},
		{"Check Out", event.KindCheckOut},
		{"checkout-2", event.KindCheckOut},
		{"Chiqish", event.KindCheckOut},
	}
	for _, c := range cases {
		kind, err := Classify(device.RoleNone, c.label)
		require.NoError(t, err, "label %q", c.label)
		assert.Equal(t, c.want, kind, "label %q", c.label)
	}
}

func TestClassifyAmbiguous(t *testing.T) {
	for _, label := range []string{"", "Main Door", "Terminal 3"} {
		_, err := Classify(device.RoleNone, label)
		assert.ErrorIs(t, err, event.ErrAmbiguousKind, "label %q", label)
	}
}
