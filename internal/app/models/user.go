package models

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type DeliveryAddress struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	Line       string `json:"line"`
	City       string `json:"city"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}
