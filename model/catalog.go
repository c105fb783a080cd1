package model

const (
	TabRaffles     = "raffles"
	TabConcessions = "concessions"

	DefaultItemColor = "gray"
)

type CatalogItem struct {
	ID         int32  `json:"id"`
	Tab        string `json:"tab"`
	Category   string `json:"category"`
	Name       string `json:"name"`
	DataName   string `json:"dataName"`
	Price      int64  `json:"price"`
	Color      string `json:"color"`
	OrderIndex int32  `json:"orderIndex"`
}

type CatalogItemRequest struct {
	Tab        string `json:"tab" validate:"required,oneof=raffles concessions"`
	Category   string `json:"category" validate:"required"`
	Name       string `json:"name" validate:"required"`
	DataName   string `json:"dataName" validate:"required"`
	Price      int64  `json:"price" validate:"gte=0"`
	Color      string `json:"color"`
	OrderIndex int32  `json:"orderIndex"`
}

// ApplyDefaults fills the optional display fields admins usually leave blank.
func (r *CatalogItemRequest) ApplyDefaults() {
	if r.Color == "" {
		r.Color = DefaultItemColor
	}
}
