package services

import (
	"errors"
	"testing"

	"attendqr_go/services/attendance"
)

func TestValidateCutoverHours(t *testing.T) {
	tests := []struct {
		name     string
		checkin  int
		checkout int
		wantErr  bool
	}{
		{name: "defaults", checkin: 10, checkout: 18},
		{name: "range edges", checkin: 6, checkout: 22},
		{name: "checkin too early", checkin: 5, checkout: 18, wantErr: true},
		{name: "checkin too late", checkin: 13, checkout: 18, wantErr: true},
		{name: "checkout too early", checkin: 10, checkout: 13, wantErr: true},
		{name: "checkout too late", checkin: 10, checkout: 23, wantErr: true},
		{name: "inverted pair", checkin: 12, checkout: 12, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCutoverHours(tc.checkin, tc.checkout)
			if tc.wantErr {
				if !errors.Is(err, attendance.ErrConfiguration) {
					t.Fatalf("expected ErrConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
