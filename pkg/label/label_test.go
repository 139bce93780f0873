package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDualMarker(t *testing.T) {
	tests := []struct {
		note string
		want bool
	}{
		{"DX", true},
		{"SX", true},
		{"DX basso", true},
		{"SX alto", true},
		{"dx", false},
		{"sx", false},
		{"crimp", false},
		{"", false},
		{" DX", false},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDualMarker(tt.note))
		})
	}
}

func TestHoldOrderLabel(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		totalHolds int
		note       string
		want       string
	}{
		{name: "first hold", index: 0, totalHolds: 5, want: "START"},
		{name: "first hold with plain note", index: 0, totalHolds: 5, note: "crimp", want: "START"},
		{name: "dual start on first hold", index: 0, totalHolds: 3, note: "DX", want: "START DX"},
		{name: "dual start on second hold", index: 1, totalHolds: 3, note: "SX", want: "START SX"},
		{name: "dual start below threshold", index: 0, totalHolds: 2, note: "DX", want: "START"},
		{name: "second hold no marker", index: 1, totalHolds: 5, want: "2"},
		{name: "middle hold", index: 2, totalHolds: 5, want: "3"},
		{name: "last hold", index: 4, totalHolds: 5, want: "TOP"},
		{name: "dual top on last hold", index: 3, totalHolds: 4, note: "DX", want: "TOP DX"},
		{name: "dual top on second to last", index: 2, totalHolds: 4, note: "SX", want: "TOP SX"},
		{name: "dual top below threshold", index: 2, totalHolds: 3, note: "DX", want: "TOP"},
		{name: "second to last without marker stays numbered", index: 3, totalHolds: 5, want: "4"},
		{name: "single hold route", index: 0, totalHolds: 1, want: "START"},
		{name: "single hold route ignores marker", index: 0, totalHolds: 1, note: "DX", want: "START"},
		{name: "two hold route top", index: 1, totalHolds: 2, want: "TOP"},
		{name: "two hold route top ignores marker", index: 1, totalHolds: 2, note: "DX", want: "TOP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoldOrderLabel(tt.index, tt.totalHolds, tt.note))
		})
	}
}

func TestHoldLabel(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		totalHolds int
		note       string
		want       string
	}{
		{name: "numbered hold without note", index: 2, totalHolds: 5, want: "3"},
		{name: "numbered hold with note", index: 2, totalHolds: 5, note: "crimp", want: "3. crimp"},
		{name: "start without note", index: 0, totalHolds: 5, want: "START"},
		{name: "start with plain note", index: 0, totalHolds: 5, note: "crimp", want: "START crimp"},
		{name: "dual marker consumed by start", index: 0, totalHolds: 3, note: "DX", want: "START DX"},
		{name: "dual marker consumed by second start", index: 1, totalHolds: 3, note: "SX", want: "START SX"},
		{name: "top with plain note", index: 4, totalHolds: 5, note: "jug", want: "TOP jug"},
		{name: "dual marker consumed by top", index: 3, totalHolds: 4, note: "DX", want: "TOP DX"},
		{name: "unconsumed marker on middle hold", index: 2, totalHolds: 6, note: "DX", want: "3. DX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoldLabel(tt.index, tt.totalHolds, tt.note))
		})
	}
}

func TestCanSetStart(t *testing.T) {
	assert.True(t, CanSetStart(0, 3))
	assert.True(t, CanSetStart(1, 3))
	assert.False(t, CanSetStart(2, 3))
	assert.False(t, CanSetStart(0, 2))
	assert.False(t, CanSetStart(1, 2))
	assert.True(t, CanSetStart(0, 10))
}

func TestCanSetTop(t *testing.T) {
	assert.True(t, CanSetTop(3, 4))
	assert.True(t, CanSetTop(2, 4))
	assert.False(t, CanSetTop(1, 4))
	assert.False(t, CanSetTop(2, 3))
	assert.True(t, CanSetTop(9, 10))
	assert.True(t, CanSetTop(8, 10))
	assert.False(t, CanSetTop(7, 10))
}
