package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_UnmarshalServerShapes(t *testing.T) {
	raw := `[
	  {"id": 7, "name": "A", "latitude": 1.5, "longitude": 2.5, "average_check": 2000,
	   "working_hours_start": "09:00:00", "working_hours_end": "18:00:00",
	   "created_at": "2024-05-01T10:00:00.123456"},
	  {"id": "loc-1", "name": "B", "latitude": 0, "longitude": 0, "average_check": null,
	   "owner_info": "me", "website": null, "created_at": "2024-05-01T10:00:00Z"}
	]`

	var got []Location
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	require.Len(t, got, 2)

	assert.Equal(t, ID("7"), got[0].ID)
	assert.Equal(t, 2000, got[0].AverageCheck)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), got[0].CreatedAt.Time)

	assert.Equal(t, ID("loc-1"), got[1].ID)
	assert.Equal(t, 0, got[1].AverageCheck)
	require.NotNil(t, got[1].OwnerInfo)
	assert.Equal(t, "me", *got[1].OwnerInfo)
	assert.Nil(t, got[1].Website)
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	require.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestID_RejectsObjects(t *testing.T) {
	var id ID
	require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}
