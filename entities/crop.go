package entities

// Crop is one entry of the crop knowledge base.
type Crop struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Season      string   `json:"season"`
	Soil        string   `json:"soil"`
	Description string   `json:"description"`
	Fertilizers []string `json:"fertilizers"`
	Pests       []string `json:"pests"`
	Diseases    []string `json:"diseases"`
	Harvesting  string   `json:"harvesting"`
}

func (c Crop) GetID() string { return c.ID }
