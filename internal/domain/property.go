package domain

type Property struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zipcode     string  `json:"zipcode"`
	Latitude    string  `json:"latitude"`
	Longitude   string  `json:"longitude"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	OwnerID     int64   `json:"ownerId"`
	Archived    bool    `json:"-"`
	Images      []Image `json:"images"`
}

// PropertySummary is a search row; ImageKey is the cover image, or the first
// image by key when no cover is set.
type PropertySummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	OwnerID     int64  `json:"ownerId"`
	ImageKey    string `json:"key,omitempty"`
}

type PropertyFilter struct {
	MinPrice    *int64
	MaxPrice    *int64
	Description string
	Limit       int
	Page        int
}

func (f PropertyFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type PropertyUpdate struct {
	ID          int64
	Title       string
	Description string
	Price       int64
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalResults int `json:"totalResults"`
	TotalPages   int `json:"totalPages"`
	Limit        int `json:"limit"`
}

type PropertyPage struct {
	Properties []PropertySummary `json:"properties"`
	Pagination Pagination        `json:"pagination"`
}
