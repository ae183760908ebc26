package car

import "github.com/shopspring/decimal"

type SubmitListingRequest struct {
	Make           string          `json:"make" validate:"required,max=64"`
	Model          string          `json:"model" validate:"required,max=64"`
	Year           int             `json:"year" validate:"required,min=1950,max=2100"`
	Type           string          `json:"type" validate:"required,oneof=Sedan SUV Coupe Hatchback Wagon Pickup Minivan"`
	Color          string          `json:"color" validate:"max=32"`
	Description    string          `json:"description" validate:"max=4000"`
	Photos         []string        `json:"photos" validate:"max=20,dive,required"`
	ShortTermRate  decimal.Decimal `json:"short_term_rate"`
	LongTermRate   decimal.Decimal `json:"long_term_rate"`
	Specifications *Specifications `json:"specifications"`
	AvailableFrom  string          `json:"available_from" validate:"omitempty,datetime=2006-01-02"`
	AvailableUntil string          `json:"available_until" validate:"omitempty,datetime=2006-01-02"`
}

type AddPhotosRequest struct {
	Photos []string `json:"photos" validate:"required,min=1,max=20,dive,required"`
}

type ListQuery struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	Make   string `form:"make"`
}
