package model

type InventoryRequest struct {
	Expression string `json:"expression" binding:"required,notblank"`
}

type InventoryResponse struct {
	Expression string `json:"expression"`
	Value      int    `json:"value"`
}
