package grading

// Band maps every average at or above Min to Letter.
type Band struct {
	Min    float64 `json:"min"`
	Letter string  `json:"letter"`
}

// Scale is an ordered table of bands, highest first. The first band whose
// minimum the average reaches wins; Fallback applies when none does.
type Scale struct {
	Bands    []Band `json:"bands"`
	Fallback string `json:"fallback"`
}

var DefaultScale = Scale{
	Bands: []Band{
		{Min: 90, Letter: "A+"},
		{Min: 80, Letter: "A"},
		{Min: 70, Letter: "B"},
		{Min: 60, Letter: "C"},
		{Min: 50, Letter: "D"},
	},
	Fallback: "F",
}

func (s Scale) Letter(avg float64) string {
	for _, b := range s.Bands {
		if avg >= b.Min {
			return b.Letter
		}
	}
	return s.Fallback
}

// Letter grades an average on DefaultScale.
func Letter(avg float64) string { return DefaultScale.Letter(avg) }
