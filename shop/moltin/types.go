package moltin

// Product is a catalog entry as shown to the user. Read-only from the
// bot's perspective.
type Product struct {
	ID          string
	Name        string
	Description string
	// Price is the formatted display price without tax, e.g. "$12.00".
	Price string
}

// CartItem is one line of a cart snapshot.
type CartItem struct {
	ID          string
	Name        string
	Description string
	UnitPrice   string
	Quantity    int
	Total       string
}

// Cart is a snapshot of a user's cart with formatted totals.
type Cart struct {
	Items []CartItem
	Total string
}

// Wire shapes of the commerce API (JSON:API style envelopes).

type displayPrice struct {
	WithoutTax struct {
		Formatted string `json:"formatted"`
		Unit      struct {
			Formatted string `json:"formatted"`
		} `json:"unit"`
		Value struct {
			Formatted string `json:"formatted"`
		} `json:"value"`
	} `json:"without_tax"`
}

type productData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"attributes"`
	Meta struct {
		DisplayPrice displayPrice `json:"display_price"`
	} `json:"meta"`
}

func (p productData) toProduct() Product {
	return Product{
		ID:          p.ID,
		Name:        p.Attributes.Name,
		Description: p.Attributes.Description,
		Price:       p.Meta.DisplayPrice.WithoutTax.Formatted,
	}
}

type cartItemData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Meta        struct {
		DisplayPrice displayPrice `json:"display_price"`
	} `json:"meta"`
}

type cartItemsResponse struct {
	Data []cartItemData `json:"data"`
	Meta struct {
		DisplayPrice displayPrice `json:"display_price"`
	} `json:"meta"`
}

type fileData struct {
	FileName string `json:"file_name"`
	Link     struct {
		Href string `json:"href"`
	} `json:"link"`
}
