package entities

type AdType string

const (
	AdAdSense AdType = "adsense" // Content holds raw embed markup
	AdImage   AdType = "image"   // Content holds an image reference or data URL
)

// AdItem fills one display slot. The UI expects at most one active ad per PositionID.
type AdItem struct {
	ID         string `json:"id"`
	PositionID string `json:"positionId"`
	Type       AdType `json:"type"`
	Content    string `json:"content"`
	Link       string `json:"link,omitempty"`
	Active     bool   `json:"active"`
}

func (a AdItem) GetID() string { return a.ID }

// AdPositions lists the slots the frontend renders.
var AdPositions = []string{"ad-slot-1", "ad-slot-2", "ad-slot-3", "ad-slot-4"}
