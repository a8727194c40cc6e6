package model

// Member is a named individual assigned to exactly one department.
type Member struct {
	Name       string     `json:"name"`
	Department Department `json:"department"`
}
