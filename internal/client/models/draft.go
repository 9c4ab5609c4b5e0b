package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinAverageCheck = 2000
	MaxAverageCheck = 5000

	hoursLayout = "15:04"
)

// Field names accepted by Draft.SetField. Short aliases are accepted too.
const (
	FieldName              = "name"
	FieldAddress           = "address"
	FieldWorkingHoursStart = "working_hours_start"
	FieldWorkingHoursEnd   = "working_hours_end"
	FieldAverageCheck      = "average_check"
	FieldWebsite           = "website"
	FieldOwnerInfo         = "owner_info"
)

var fieldAliases = map[string]string{
	"start": FieldWorkingHoursStart,
	"end":   FieldWorkingHoursEnd,
	"check": FieldAverageCheck,
	"owner": FieldOwnerInfo,
}

var ErrUnknownField = errors.New("unknown field")

// Draft is the in-progress creation form anchored at a clicked position.
// Form values are kept exactly as typed; conversion happens on submit.
type Draft struct {
	ID                uuid.UUID
	Latitude          float64
	Longitude         float64
	Name              string
	Address           string
	WorkingHoursStart string
	WorkingHoursEnd   string
	AverageCheck      string
	OwnerVisible      bool
	Website           string
	OwnerInfo         string
}

func NewDraft(lat, lng float64) *Draft {
	return &Draft{ID: uuid.New(), Latitude: lat, Longitude: lng}
}

// SetField assigns a form value by field name.
func (d *Draft) SetField(name, value string) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := fieldAliases[key]; ok {
		key = alias
	}
	switch key {
	case FieldName:
		d.Name = value
	case FieldAddress:
		d.Address = value
	case FieldWorkingHoursStart:
		d.WorkingHoursStart = value
	case FieldWorkingHoursEnd:
		d.WorkingHoursEnd = value
	case FieldAverageCheck:
		d.AverageCheck = value
	case FieldWebsite:
		d.Website = value
	case FieldOwnerInfo:
		d.OwnerInfo = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Validate applies the form contract: required fields present, working hours
// as HH:MM, average check an integer in [MinAverageCheck, MaxAverageCheck].
// Owner sub-fields are not validated here.
func (d *Draft) Validate() error {
	var msgs []string

	required := []struct{ field, value string }{
		{FieldName, d.Name},
		{FieldAddress, d.Address},
		{FieldWorkingHoursStart, d.WorkingHoursStart},
		{FieldWorkingHoursEnd, d.WorkingHoursEnd},
		{FieldAverageCheck, d.AverageCheck},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			msgs = append(msgs, r.field+": field required")
		}
	}

	for _, h := range []struct{ field, value string }{
		{FieldWorkingHoursStart, d.WorkingHoursStart},
		{FieldWorkingHoursEnd, d.WorkingHoursEnd},
	} {
		if strings.TrimSpace(h.value) == "" {
			continue
		}
		if _, err := time.Parse(hoursLayout, strings.TrimSpace(h.value)); err != nil {
			msgs = append(msgs, h.field+": expected HH:MM")
		}
	}

	if strings.TrimSpace(d.AverageCheck) != "" {
		if _, err := ParseAverageCheck(d.AverageCheck); err != nil {
			msgs = append(msgs, FieldAverageCheck+": "+err.Error())
		}
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// ParseAverageCheck parses an integer average check and enforces the
// inclusive [MinAverageCheck, MaxAverageCheck] range.
func ParseAverageCheck(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n < MinAverageCheck || n > MaxAverageCheck {
		return 0, fmt.Errorf("must be between %d and %d", MinAverageCheck, MaxAverageCheck)
	}
	return n, nil
}

// Request converts a validated draft into the creation payload. Owner
// sub-fields are included only while the owner section is visible.
func (d *Draft) Request(now time.Time) (CreateLocationRequest, error) {
	if err := d.Validate(); err != nil {
		return CreateLocationRequest{}, err
	}
	avg, _ := ParseAverageCheck(d.AverageCheck)

	req := CreateLocationRequest{
		Name:              strings.TrimSpace(d.Name),
		Address:           strings.TrimSpace(d.Address),
		WorkingHoursStart: strings.TrimSpace(d.WorkingHoursStart),
		WorkingHoursEnd:   strings.TrimSpace(d.WorkingHoursEnd),
		AverageCheck:      avg,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		CreatedAt:         Timestamp{Time: now.UTC()},
	}
	if d.OwnerVisible {
		if w := strings.TrimSpace(d.Website); w != "" {
			req.Website = &w
		}
		if o := strings.TrimSpace(d.OwnerInfo); o != "" {
			req.OwnerInfo = &o
		}
	}
	return req, nil
}

// Owner returns the owner sub-form payload.
func (d *Draft) Owner() OwnerInfo {
	return OwnerInfo{Website: strings.TrimSpace(d.Website), OwnerInfo: strings.TrimSpace(d.OwnerInfo)}
}

// ValidateOwner checks the owner sub-form: owner information is required.
func (d *Draft) ValidateOwner() error {
	if strings.TrimSpace(d.OwnerInfo) == "" {
		return &ValidationError{Messages: []string{FieldOwnerInfo + ": field required"}}
	}
	return nil
}
