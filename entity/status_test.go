package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},

		{StatusPending, StatusCancelled, true},
		{StatusPreparing, StatusCancelled, true},
		{StatusReady, StatusCancelled, true},
		{StatusOutForDelivery, StatusCancelled, true},

		// no shortcuts, no going back
		{StatusPending, StatusReady, false},
		{StatusPending, StatusDelivered, false},
		{StatusPreparing, StatusPending, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("out_for_delivery")
	assert.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, st)

	_, err = ParseStatus("frobnicated")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
}
