package ticketmaster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawEventJSON = `{
  "id": "G5vYZ9",
  "name": "Jazz Night",
  "type": "event",
  "url": "https://www.ticketmaster.com/event/G5vYZ9",
  "locale": "en-us",
  "images": [
    {"url": "https://img/16x9-800.jpg", "ratio": "16_9", "width": 800, "height": 450},
    {"url": "https://img/4x3-1200.jpg", "ratio": "4_3", "width": 1200, "height": 900}
  ],
  "dates": {"start": {"localDate": "2024-03-16", "localTime": "19:30:00", "dateTime": "2024-03-17T00:30:00Z"}},
  "priceRanges": [
    {"type": "standard", "currency": "USD", "min": 45, "max": 120},
    {"type": "vip", "currency": "USD", "min": 300, "max": 500}
  ],
  "classifications": [
    {"primary": false, "segment": {"id": "x", "name": "Sports"}, "genre": {"id": "y", "name": "Hockey"}},
    {"primary": true, "segment": {"id": "KZFzniwnSyZfZ7v7nJ", "name": "Music"}, "genre": {"id": "z", "name": "Jazz"}}
  ],
  "info": "Doors at 7",
  "_embedded": {"venues": [
    {"id": "v1", "name": "Blue Note", "city": {"name": "New York"}, "state": {"name": "New York", "stateCode": "NY"}, "address": {"line1": "131 W 3rd St"}},
    {"id": "v2", "name": "Second Venue"}
  ]}
}`

func TestTransform_FullRecord(t *testing.T) {
	var raw RawEvent
	require.NoError(t, json.Unmarshal([]byte(rawEventJSON), &raw))

	e := Transform(raw)
	assert.Equal(t, "G5vYZ9", e.ID)
	assert.Equal(t, "Jazz Night", e.Name)
	assert.Equal(t, "https://img/16x9-800.jpg", e.ImageURL, "16:9 beats a wider 4:3")
	assert.Len(t, e.Images, 2)
	assert.Equal(t, "2024-03-16", e.Date)
	assert.Equal(t, "19:30:00", e.Time)
	assert.Equal(t, "2024-03-17T00:30:00Z", e.DateTime)
	assert.Equal(t, &Venue{Name: "Blue Note", City: "New York", State: "NY", Address: "131 W 3rd St"}, e.Venue)
	assert.Equal(t, &PriceRange{Min: 45, Max: 120, Currency: "USD"}, e.PriceRange)
	assert.Equal(t, "Jazz", e.Genre)
	assert.Equal(t, "Music", e.Segment)
	assert.Equal(t, "Doors at 7", e.Info)
}

func TestTransform_OptionalFieldsAbsent(t *testing.T) {
	raw := RawEvent{ID: "x", Name: "Bare"}
	raw.Dates.Start.LocalDate = "2024-04-01"

	e := Transform(raw)
	assert.Nil(t, e.Venue)
	assert.Nil(t, e.PriceRange)
	assert.Empty(t, e.Genre)
	assert.Empty(t, e.Segment)
	assert.Empty(t, e.Time)
	assert.Empty(t, e.ImageURL)
	assert.NotNil(t, e.Images)
}

func TestTransform_NoPrimaryClassification(t *testing.T) {
	raw := RawEvent{Classifications: []Classification{
		{Primary: false, Genre: &named{Name: "Rock"}, Segment: &named{Name: "Music"}},
	}}
	e := Transform(raw)
	assert.Empty(t, e.Genre)
	assert.Empty(t, e.Segment)
}

func TestTransform_VenueWithoutDetails(t *testing.T) {
	var raw RawEvent
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","_embedded":{"venues":[{"id":"v","name":"Hall"}]}}`), &raw))
	e := Transform(raw)
	assert.Equal(t, &Venue{Name: "Hall"}, e.Venue)
}

func TestBestImage(t *testing.T) {
	tests := []struct {
		name   string
		images []Image
		want   string
	}{
		{"none", nil, ""},
		{"first matching 16:9", []Image{
			{URL: "small", Ratio: "16_9", Width: 320},
			{URL: "a", Ratio: "16_9", Width: 640},
			{URL: "b", Ratio: "16_9", Width: 1024},
		}, "a"},
		{"narrow 16:9 loses to widest", []Image{
			{URL: "small", Ratio: "16_9", Width: 320},
			{URL: "wide", Ratio: "3_2", Width: 1136},
		}, "wide"},
		{"widest tie keeps first", []Image{
			{URL: "x", Ratio: "1_1", Width: 500},
			{URL: "y", Ratio: "4_3", Width: 500},
		}, "x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BestImage(tc.images))
		})
	}
}

func TestTransformPage(t *testing.T) {
	body := `{"_embedded":{"events":[` + rawEventJSON + `]},"page":{"size":20,"totalElements":41,"totalPages":3,"number":2}}`
	var resp EventsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	p := TransformPage(resp)
	require.Len(t, p.Events, 1)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 41, p.TotalElements)
	assert.False(t, p.HasNext(), "page number == totalPages-1 is the last page")
}

func TestTransformPage_Empty(t *testing.T) {
	var resp EventsResponse
	require.NoError(t, json.Unmarshal([]byte(`{"page":{"size":20,"totalElements":0,"totalPages":0,"number":0}}`), &resp))

	p := TransformPage(resp)
	assert.NotNil(t, p.Events)
	assert.Empty(t, p.Events)
	assert.False(t, p.HasNext())
}
