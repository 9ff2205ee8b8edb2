package get_availability

// Request carries the availability query parameters.
type Request struct {
	CourtType string
	Date      string // YYYY-MM-DD, club-local
}

// Slot is one interval of the day grid with remaining capacity.
type Slot struct {
	StartTime       string   `json:"start_time"` // HH:MM, club-local
	EndTime         string   `json:"end_time"`
	Available       bool     `json:"available"`
	AvailableCourts int      `json:"available_courts"`
	TotalCourts     int      `json:"total_courts"`
	IsPast          bool     `json:"is_past"`
	Price           float64  `json:"price"`
	SpecialEvents   []string `json:"special_events,omitempty"`
}

// Response is the computed day grid. Reason is non-empty when the day
// has no bookable slots for a structural cause.
type Response struct {
	Date      string `json:"date"`
	CourtType string `json:"court_type"`
	Timezone  string `json:"timezone"`
	Reason    string `json:"reason,omitempty"`
	Slots     []Slot `json:"slots"`
}
