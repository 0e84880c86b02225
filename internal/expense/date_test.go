package expense

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate_UnmarshalPlainDate(t *testing.T) {
	var date Date
	assert.NoError(t, json.Unmarshal([]byte(`"2024-03-10"`), &date))
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), date.Time)
}

func TestDate_UnmarshalRFC3339(t *testing.T) {
	var date Date
	assert.NoError(t, json.Unmarshal([]byte(`"2024-03-10T15:04:05Z"`), &date))
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 10, date.Day())
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var date Date
	assert.Error(t, json.Unmarshal([]byte(`"10/03/2024"`), &date))
}

func TestDate_MarshalAsPlainDate(t *testing.T) {
	date := NewDate(time.Date(2024, time.March, 10, 15, 4, 5, 0, time.UTC))
	out, err := json.Marshal(date)
	assert.NoError(t, err)
	assert.Equal(t, `"2024-03-10"`, string(out))
}
