package domain

import "time"

type Group struct {
	ID          string
	Domain      string
	Name        string
	Description string
	Members     []string
	Roles       []string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone возвращает копию группы с независимыми срезами Members и Roles
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	clone := *g
	if g.Members != nil {
		clone.Members = append([]string(nil), g.Members...)
	}
	if g.Roles != nil {
		clone.Roles = append([]string(nil), g.Roles...)
	}
	return &clone
}

// NewGroup - данные для создания группы
type NewGroup struct {
	Name        string
	Description string
	Members     []string
}

// UpdateGroup - полная замена изменяемых полей группы.
// Roles == nil оставляет роли без изменений.
// ExpectedVersion != nil включает проверку версии перед записью.
type UpdateGroup struct {
	Name            string
	Description     string
	Members         []string
	Roles           *[]string
	ExpectedVersion *int
}
