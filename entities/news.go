package entities

type NewsCategory string

const (
	CategoryNews     NewsCategory = "News"
	CategoryLoan     NewsCategory = "Loan"
	CategoryTraining NewsCategory = "Training"
)

// Valid reports whether c is one of the fixed feed categories.
func (c NewsCategory) Valid() bool {
	switch c {
	case CategoryNews, CategoryLoan, CategoryTraining:
		return true
	}
	return false
}

type NewsItem struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Summary  string       `json:"summary"`
	Date     string       `json:"date"` // display date, not parsed
	Image    string       `json:"image"`
	Category NewsCategory `json:"category"`
	VideoURL string       `json:"videoUrl,omitempty"`
}

func (n NewsItem) GetID() string { return n.ID }
