package entity

// Customer is a registered customer. Email and CPF are unique across
// customers.
type Customer struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	CPF     string   `json:"cpf"`
	Address *Address `json:"address,omitempty"`
}
