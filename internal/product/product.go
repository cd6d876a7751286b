package product

// Product represents a catalog item and maps to the `public.product` table.
// JSON tags follow the camelCase convention used across the API.
type Product struct {
	ID               int      `json:"productId"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            float64  `json:"price"`
	Category         string   `json:"category"`
	ImageURL         string   `json:"imageUrl"`
	Details          []string `json:"details"`
	Materials        string   `json:"materials"`
	CareInstructions string   `json:"careInstructions"`
	Dimensions       string   `json:"dimensions"`
	CreatedAt        string   `json:"createdAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}
