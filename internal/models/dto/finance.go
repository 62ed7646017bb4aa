package dto

type CategoryRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type CreateTransactionRequest struct {
	Amount     float64 `json:"amount"`
	Desc       *string `json:"desc"`
	CategoryID string  `json:"categoryId"`
	Type       string  `json:"type"`
}

type UpdateTransactionRequest struct {
	Amount     float64 `json:"amount"`
	Desc       *string `json:"desc"`
	CategoryID string  `json:"categoryId"`
}
