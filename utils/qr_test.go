package utils

import (
	"errors"
	"testing"

	"attendqr_go/models"
	"attendqr_go/services/attendance"
)

func TestParseLocationQRPayload(t *testing.T) {
	raw := []byte(`{"type":"location","id":7,"name":"Engineering Hall 301","latitude":37.5665,"longitude":126.978,"address":"Seoul"}`)

	payload, err := ParseLocationQRPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ID != 7 || payload.Name != "Engineering Hall 301" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseLocationQRPayloadRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `qr-location-7`},
		{name: "wrong tag", raw: `{"type":"user","id":7,"name":"x","latitude":1,"longitude":1}`},
		{name: "missing id", raw: `{"type":"location","name":"x","latitude":1,"longitude":1}`},
		{name: "latitude out of range", raw: `{"type":"location","id":7,"name":"x","latitude":123.0,"longitude":1}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseLocationQRPayload([]byte(tc.raw)); !errors.Is(err, attendance.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildLocationQRPayloadRoundTrip(t *testing.T) {
	loc := &models.Location{
		Name:      "Library Annex",
		Address:   "12 Campus Rd",
		Latitude:  37.1,
		Longitude: 127.2,
	}
	loc.ID = 42

	raw, err := BuildLocationQRPayload(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, err := ParseLocationQRPayload(raw)
	if err != nil {
		t.Fatalf("built payload did not parse: %v", err)
	}
	if payload.ID != 42 || payload.Latitude != 37.1 {
		t.Fatalf("round trip mismatch: %+v", payload)
	}
}
