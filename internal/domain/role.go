package domain

type Role struct {
	ID          string
	Domain      string
	Name        string
	Description string
}
