package dto

// ReorderRequest полный упорядоченный список id одной коллекции.
// Пустой список допустим и ничего не меняет, отсутствующее поле ids считается ошибкой
type ReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,dive,gt=0"`
}

type ReorderResponse struct {
	Updated int64 `json:"updated"`
}
