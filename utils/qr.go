package utils

import (
	"encoding/json"
	"fmt"

	"attendqr_go/models"
	"attendqr_go/services/attendance"
)

// LocationQRPayload is the canonical content of a printed location QR code.
// Scans carry it back verbatim; anything that does not match this schema is
// rejected instead of being half-trusted.
type LocationQRPayload struct {
	Type      string  `json:"type" validate:"required,eq=location"`
	ID        uint    `json:"id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string  `json:"address"`
}

// ParseLocationQRPayload decodes and validates a scanned QR payload.
func ParseLocationQRPayload(raw []byte) (*LocationQRPayload, error) {
	var payload LocationQRPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed QR payload: %v", attendance.ErrInvalidInput, err)
	}
	if err := Validate(&payload); err != nil {
		return nil, fmt.Errorf("%w: QR payload schema mismatch: %v", attendance.ErrInvalidInput, err)
	}
	return &payload, nil
}

// BuildLocationQRPayload renders the canonical payload for a location, the
// exact bytes encoded into its printed QR code.
func BuildLocationQRPayload(loc *models.Location) ([]byte, error) {
	return json.Marshal(LocationQRPayload{
		Type:      "location",
		ID:        loc.ID,
		Name:      loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   loc.Address,
	})
}
