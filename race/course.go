package race

// Start is a start line, sailed only from the start buoy towards the
// course.
type Start struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Distance  float64 `json:"distance"`
	MaxNumber int     `json:"maxNumber"`
}

// Leg is a "rak" between two marks. It can be sailed both ways and both
// directions consume the same MaxNumber budget.
type Leg struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Distance  float64 `json:"distance"`
	MaxNumber int     `json:"maxNumber"`
}
