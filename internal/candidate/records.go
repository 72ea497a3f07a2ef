package candidate

// EntityKind names the three candidate record variants.
type EntityKind string

const (
	KindFlight  EntityKind = "flight"
	KindLodging EntityKind = "lodging"
	KindPOI     EntityKind = "poi"
)

// FallbackProvider marks records synthesized when no provider produced any.
const FallbackProvider = "fallback"

// DefaultCurrency is used for every normalized price.
const DefaultCurrency = "USD"

// Record is the common view of a normalized candidate.
type Record interface {
	Kind() EntityKind
	Provider() string
	Cost() float64
}

// Flight is a normalized flight option.
type Flight struct {
	Airline          string  `json:"airline"`
	FlightNumber     string  `json:"flight_number"`
	DepartureAirport string  `json:"departure_airport"`
	ArrivalAirport   string  `json:"arrival_airport"`
	DepartureTime    string  `json:"departure_time"`
	ArrivalTime      string  `json:"arrival_time"`
	Duration         string  `json:"duration"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	Stops            int     `json:"stops"`
	BookingURL       string  `json:"booking_url,omitempty"`
	Source           string  `json:"source"`
}

func (f Flight) Kind() EntityKind { return KindFlight }
func (f Flight) Provider() string { return f.Source }
func (f Flight) Cost() float64    { return f.Price }

// Lodging is a normalized hotel or rental option. Price is per night.
type Lodging struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	Description   string   `json:"description,omitempty"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Rating        *float64 `json:"rating,omitempty"`
	Amenities     []string `json:"amenities"`
	BookingURL    string   `json:"booking_url,omitempty"`
	Source        string   `json:"source"`
}

func (l Lodging) Kind() EntityKind { return KindLodging }
func (l Lodging) Provider() string { return l.Source }
func (l Lodging) Cost() float64    { return l.PricePerNight }

// PointOfInterest is a normalized attraction, museum, park and so on.
type PointOfInterest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city"`
	Rating      *float64 `json:"rating,omitempty"`
	Price       float64  `json:"price"`
	PriceRange  string   `json:"price_range,omitempty"`
	Website     string   `json:"website,omitempty"`
	Source      string   `json:"source"`
}

func (p PointOfInterest) Kind() EntityKind { return KindPOI }
func (p PointOfInterest) Provider() string { return p.Source }
func (p PointOfInterest) Cost() float64    { return p.Price }

// Pools holds the merged, provider-ordered candidates for one trip request.
type Pools struct {
	Flights          []Flight
	Lodging          []Lodging
	PointsOfInterest []PointOfInterest
}
