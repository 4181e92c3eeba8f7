package proposal

import (
	"time"

	"github.com/sitc-travel/backend-proposal/internal/pricing"
)

// Proposal is one stored proposal record. Identity and listing columns are
// promoted out of the document so the store can filter and sort without
// unpacking JSONB.
type Proposal struct {
	ID           string    `json:"id"`
	Name         string    `json:"proposalName" validate:"required,max=200"`
	CustomerName string    `json:"customerName" validate:"max=200"`
	CreatedBy    string    `json:"createdBy"`
	CompanyID    string    `json:"companyId"`
	IsDraft      bool      `json:"isDraft"`
	LastModified time.Time `json:"lastModified"`
	Document     Document  `json:"document"`
}

// Summary is the listing projection of a proposal.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"proposalName"`
	CustomerName string    `json:"customerName"`
	CreatedBy    string    `json:"createdBy"`
	CompanyID    string    `json:"companyId"`
	IsDraft      bool      `json:"isDraft"`
	LastModified time.Time `json:"lastModified"`
}

// Document is the full proposal payload: everything the quote is computed
// from. Optional booleans are pointers so an absent field defaults to true,
// matching how existing documents were authored.
type Document struct {
	Pricing        PricingConfig   `json:"pricing"`
	HotelOptions   []HotelOption   `json:"hotelOptions"`
	FlightOptions  []FlightOption  `json:"flightOptions"`
	Transportation []TransportItem `json:"transportation"`
	Activities     []Activity      `json:"activities"`
	CustomItems    []CustomItem    `json:"customItems"`
	Inclusions     *Inclusions     `json:"inclusions"`
}

// PricingConfig is the document-level pricing configuration. Nil fields are
// filled with service defaults on ingest.
type PricingConfig struct {
	Currency   string                   `json:"currency"`
	EnableVat  *bool                    `json:"enableVat"`
	VatPercent *float64                 `json:"vatPercent" validate:"omitempty,gte=0,lte=100"`
	ShowPrices *bool                    `json:"showPrices"`
	Markups    *pricing.CategoryMarkups `json:"markups"`
}

// Inclusions gates whole categories in or out of the computed quote.
type Inclusions struct {
	Hotels         bool `json:"hotels"`
	Flights        bool `json:"flights"`
	Transportation bool `json:"transportation"`
	Activities     bool `json:"activities"`
	CustomItems    bool `json:"customItems"`
}

// HotelOption is one mutually-exclusive accommodation option. Its VAT rule
// applies to every room, meeting room and dining line inside it.
type HotelOption struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Location string          `json:"location"`
	Website  string          `json:"website"`
	VatRule  pricing.VatRule `json:"vatRule"`
	// Included is a client-side display toggle stored with the document.
	// Pricing never reads it; quote totals key off the per-line
	// includeInSummary flags instead.
	Included     *bool         `json:"included"`
	RoomTypes    []RoomType    `json:"roomTypes"`
	MeetingRooms []MeetingRoom `json:"meetingRooms"`
	Dining       []DiningItem  `json:"dining"`
}

// RoomType is a nightly-priced accommodation line.
type RoomType struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	NetPrice         float64 `json:"netPrice"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
	CheckIn          string  `json:"checkIn"`
	CheckOut         string  `json:"checkOut"`
	NumNights        int     `json:"numNights" validate:"gte=0"`
	IncludeInSummary *bool   `json:"includeInSummary"`
}

// MeetingRoom is a daily-priced event space line.
type MeetingRoom struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
	Days             int     `json:"days" validate:"gte=0"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	IncludeInSummary *bool   `json:"includeInSummary"`
}

// DiningItem is a daily-priced dining line. It shares the meetings markup.
type DiningItem struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity" validate:"gte=0"`
	Days             int     `json:"days" validate:"gte=0"`
	IncludeInSummary *bool   `json:"includeInSummary"`
}

// FlightLeg is itinerary detail only; it carries no price of its own.
type FlightLeg struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureDate string `json:"departureDate"`
	DepartureTime string `json:"departureTime"`
	ArrivalDate   string `json:"arrivalDate"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	FlightClass   string `json:"flightClass"`
	Luggage       string `json:"luggage"`
}

// FlightOption is one flight alternative priced through its fare-class quotes.
type FlightOption struct {
	ID               string                `json:"id"`
	RouteDescription string                `json:"routeDescription"`
	Outbound         []FlightLeg           `json:"outbound"`
	Return           []FlightLeg           `json:"return"`
	Quotes           []pricing.FlightQuote `json:"quotes"`
	VatRule          pricing.VatRule       `json:"vatRule"`
	// Included is the same stored display toggle as on HotelOption. Only
	// IncludeInSummary affects totals: a lone flight it excludes stays off
	// the shared rollup.
	Included         *bool `json:"included"`
	IncludeInSummary *bool `json:"includeInSummary"`
}

// TransportItem is a vehicle hire line priced per day.
type TransportItem struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Model            string          `json:"model"`
	Description      string          `json:"description"`
	NetPricePerDay   float64         `json:"netPricePerDay"`
	Quantity         int             `json:"quantity" validate:"gte=0"`
	Days             int             `json:"days" validate:"gte=0"`
	VatRule          pricing.VatRule `json:"vatRule"`
	IncludeInSummary *bool           `json:"includeInSummary"`
}

// Activity is priced per person per day; guests play the quantity role.
type Activity struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	PricePerPerson   float64         `json:"pricePerPerson"`
	Guests           int             `json:"guests" validate:"gte=0"`
	Days             int             `json:"days" validate:"gte=0"`
	VatRule          pricing.VatRule `json:"vatRule"`
	IncludeInSummary *bool           `json:"includeInSummary"`
}

// CustomItem is a free-form service line.
type CustomItem struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	UnitPrice        float64         `json:"unitPrice"`
	Quantity         int             `json:"quantity" validate:"gte=0"`
	Days             int             `json:"days" validate:"gte=0"`
	VatRule          pricing.VatRule `json:"vatRule"`
	IncludeInSummary *bool           `json:"includeInSummary"`
}

// Flag resolves an optional boolean document field, defaulting to true when
// the field was never set.
func Flag(p *bool) bool {
	return p == nil || *p
}

// EffectiveVatPercent returns the VAT rate calculations should use. Disabling
// VAT computes with a zero rate rather than skipping the VAT step.
func (c PricingConfig) EffectiveVatPercent() float64 {
	if c.EnableVat != nil && !*c.EnableVat {
		return 0
	}
	if c.VatPercent == nil {
		return 0
	}
	return *c.VatPercent
}
