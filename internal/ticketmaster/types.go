package ticketmaster

// Image is an upstream image rendition.
type Image struct {
	URL      string `json:"url"`
	Ratio    string `json:"ratio,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Fallback bool   `json:"fallback,omitempty"`
}

type named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// RawVenue is a venue as returned by the API.
type RawVenue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	City  *named `json:"city,omitempty"`
	State *struct {
		Name      string `json:"name"`
		StateCode string `json:"stateCode"`
	} `json:"state,omitempty"`
	Country *struct {
		Name        string `json:"name"`
		CountryCode string `json:"countryCode"`
	} `json:"country,omitempty"`
	Address *struct {
		Line1 string `json:"line1"`
		Line2 string `json:"line2,omitempty"`
	} `json:"address,omitempty"`
}

// RawPriceRange is a price band as returned by the API.
type RawPriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Classification places an event in the upstream taxonomy.
type Classification struct {
	Primary  bool   `json:"primary"`
	Segment  *named `json:"segment,omitempty"`
	Genre    *named `json:"genre,omitempty"`
	SubGenre *named `json:"subGenre,omitempty"`
}

// RawDate is one end of an event's schedule.
type RawDate struct {
	LocalDate      string `json:"localDate"`
	LocalTime      string `json:"localTime,omitempty"`
	DateTime       string `json:"dateTime,omitempty"`
	DateTBD        bool   `json:"dateTBD,omitempty"`
	DateTBA        bool   `json:"dateTBA,omitempty"`
	TimeTBA        bool   `json:"timeTBA,omitempty"`
	NoSpecificTime bool   `json:"noSpecificTime,omitempty"`
}

// RawEvent is an event as returned by the API.
type RawEvent struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	URL    string  `json:"url"`
	Locale string  `json:"locale"`
	Images []Image `json:"images"`
	Dates  struct {
		Start    RawDate  `json:"start"`
		End      *RawDate `json:"end,omitempty"`
		Timezone string   `json:"timezone,omitempty"`
		Status   *struct {
			Code string `json:"code"`
		} `json:"status,omitempty"`
	} `json:"dates"`
	PriceRanges     []RawPriceRange  `json:"priceRanges,omitempty"`
	Classifications []Classification `json:"classifications,omitempty"`
	Info            string           `json:"info,omitempty"`
	PleaseNote      string           `json:"pleaseNote,omitempty"`
	Embedded        *struct {
		Venues []RawVenue `json:"venues,omitempty"`
	} `json:"_embedded,omitempty"`
}

// PageInfo is the pagination block of a listing response.
type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// EventsResponse is a listing response.
type EventsResponse struct {
	Embedded *struct {
		Events []RawEvent `json:"events"`
	} `json:"_embedded,omitempty"`
	Page PageInfo `json:"page"`
}
