package domain

// Product is a coffee listed in the catalog. Prices are in minor units
// (pence) for a 250g bag.
type Product struct {
	ID              string `json:"id" dynamodbav:"id"`
	Name            string `json:"name" dynamodbav:"name"`
	Origin          string `json:"origin" dynamodbav:"origin"`
	Process         string `json:"process,omitempty" dynamodbav:"process,omitempty"`
	TastingNotes    string `json:"tasting_notes,omitempty" dynamodbav:"tasting_notes,omitempty"`
	Description     string `json:"description,omitempty" dynamodbav:"description,omitempty"`
	ImageURL        string `json:"image_url,omitempty" dynamodbav:"image_url,omitempty"`
	Price250        int64  `json:"price_250" dynamodbav:"price_250"`
	PriceRef        string `json:"stripe_price_id" dynamodbav:"stripe_price_id"`
	Available       bool   `json:"available" dynamodbav:"available"`
	RetailAvailable bool   `json:"retail_available" dynamodbav:"retail_available"`
}

// Sellable reports whether the product can be put in a cart and checked out.
func (p Product) Sellable() bool {
	return p.PriceRef != "" && p.RetailAvailable
}
