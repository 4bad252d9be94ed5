package ticketmaster

// Venue is the projection of an event's first venue.
type Venue struct {
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
}

// PriceRange is the projection of an event's first price band.
type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Event is the normalized event the rest of the client works with. Empty
// strings and nil pointers mean the field was absent upstream.
type Event struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	ImageURL   string      `json:"imageUrl"`
	Images     []Image     `json:"images"`
	Date       string      `json:"date"`
	Time       string      `json:"time,omitempty"`
	DateTime   string      `json:"dateTime,omitempty"`
	Venue      *Venue      `json:"venue,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Genre      string      `json:"genre,omitempty"`
	Segment    string      `json:"segment,omitempty"`
	Info       string      `json:"info,omitempty"`
}

// EventsPage is one transformed listing page.
type EventsPage struct {
	Events        []Event `json:"events"`
	Page          int     `json:"page"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int     `json:"totalElements"`
}

// HasNext reports whether a page follows this one.
func (p EventsPage) HasNext() bool {
	return p.Page < p.TotalPages-1
}

// MinImageWidth is the narrowest 16:9 image preferred over a wider one.
const MinImageWidth = 640

// BestImage picks the first 16:9 image at least MinImageWidth wide, falling
// back to the widest image, or "" when there are none.
func BestImage(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	for _, img := range images {
		if img.Ratio == "16_9" && img.Width >= MinImageWidth {
			return img.URL
		}
	}
	widest := images[0]
	for _, img := range images[1:] {
		if img.Width > widest.Width {
			widest = img
		}
	}
	return widest.URL
}

// Transform normalizes a raw event. Only the classification flagged
// primary contributes genre and segment.
func Transform(raw RawEvent) Event {
	e := Event{
		ID:       raw.ID,
		Name:     raw.Name,
		URL:      raw.URL,
		ImageURL: BestImage(raw.Images),
		Images:   raw.Images,
		Date:     raw.Dates.Start.LocalDate,
		Time:     raw.Dates.Start.LocalTime,
		DateTime: raw.Dates.Start.DateTime,
		Info:     raw.Info,
	}
	if e.Images == nil {
		e.Images = []Image{}
	}

	if raw.Embedded != nil && len(raw.Embedded.Venues) > 0 {
		v := raw.Embedded.Venues[0]
		e.Venue = &Venue{Name: v.Name}
		if v.City != nil {
			e.Venue.City = v.City.Name
		}
		if v.State != nil {
			e.Venue.State = v.State.StateCode
		}
		if v.Address != nil {
			e.Venue.Address = v.Address.Line1
		}
	}

	if len(raw.PriceRanges) > 0 {
		p := raw.PriceRanges[0]
		e.PriceRange = &PriceRange{Min: p.Min, Max: p.Max, Currency: p.Currency}
	}

	for _, c := range raw.Classifications {
		if !c.Primary {
			continue
		}
		if c.Genre != nil {
			e.Genre = c.Genre.Name
		}
		if c.Segment != nil {
			e.Segment = c.Segment.Name
		}
		break
	}

	return e
}

// TransformPage normalizes a listing response.
func TransformPage(resp EventsResponse) EventsPage {
	p := EventsPage{
		Events:        []Event{},
		Page:          resp.Page.Number,
		TotalPages:    resp.Page.TotalPages,
		TotalElements: resp.Page.TotalElements,
	}
	if resp.Embedded != nil {
		for _, raw := range resp.Embedded.Events {
			p.Events = append(p.Events, Transform(raw))
		}
	}
	return p
}
