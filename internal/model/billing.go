package model

type BillingTermRequest struct {
	Coefficient int  `json:"coefficient"`
	Exponent    *int `json:"exponent" binding:"required"`
}

type BillResponse struct {
	Days  int `json:"days"`
	Total int `json:"total"`
}
