package domain

type Image struct {
	ID           int64  `json:"id"`
	ImageKey     string `json:"imageKey"`
	PropertyID   int64  `json:"propertyId,omitempty"`
	IsCoverImage bool   `json:"isCoverImage"`
}
