// Package models defines the client-side data model: catalog records,
// the in-progress creation draft and the payloads exchanged with the API.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an opaque record identifier. The server may encode it as a JSON
// number or string; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp accepts RFC 3339 as well as the zone-less ISO form that some
// backends emit ("2024-05-01T10:00:00.123456"); zone-less values are UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Location is a map-anchored record as returned by the server. Identity is
// the ID; the remaining fields are only ever replaced wholesale.
type Location struct {
	ID                ID        `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	WorkingHoursStart string    `json:"working_hours_start"`
	WorkingHoursEnd   string    `json:"working_hours_end"`
	AverageCheck      int       `json:"average_check"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	OwnerInfo         *string   `json:"owner_info,omitempty"`
	Website           *string   `json:"website,omitempty"`
	CreatedAt         Timestamp `json:"created_at"`
}

func (l Location) String() string {
	return fmt.Sprintf("[%s] %s (%.5f, %.5f) %s–%s, avg %d",
		l.ID, l.Name, l.Latitude, l.Longitude, l.WorkingHoursStart, l.WorkingHoursEnd, l.AverageCheck)
}

// OwnerInfo is the payload of the optional owner sub-form.
type OwnerInfo struct {
	Website   string `json:"website"`
	OwnerInfo string `json:"owner_info"`
}

// CreateLocationRequest is the body of a location creation call.
type CreateLocationRequest struct {
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	WorkingHoursStart string    `json:"working_hours_start"`
	WorkingHoursEnd   string    `json:"working_hours_end"`
	AverageCheck      int       `json:"average_check"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Website           *string   `json:"website,omitempty"`
	OwnerInfo         *string   `json:"owner_info,omitempty"`
	CreatedAt         Timestamp `json:"created_at"`
}

// Registration is the account creation form.
type Registration struct {
	Username        string  `json:"username"`
	Email           *string `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	FirstName       string  `json:"first_name"`
	SecondName      string  `json:"second_name"`
	Phone           string  `json:"phone"`
}
