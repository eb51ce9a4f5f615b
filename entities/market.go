package entities

type MarketType string

const (
	MarketSeed       MarketType = "seed"
	MarketFertilizer MarketType = "fertilizer"
	MarketCrop       MarketType = "crop"
	MarketEquipment  MarketType = "equipment"
)

func (t MarketType) Valid() bool {
	switch t {
	case MarketSeed, MarketFertilizer, MarketCrop, MarketEquipment:
		return true
	}
	return false
}

// MarketItem is a marketplace listing. Price is kept as the seller typed it (e.g. "৳ 1200/মণ").
type MarketItem struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Price    string     `json:"price"`
	Seller   string     `json:"seller"`
	Location string     `json:"location"`
	Image    string     `json:"image"`
	Type     MarketType `json:"type"`
}

func (m MarketItem) GetID() string { return m.ID }
