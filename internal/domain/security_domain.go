package domain

import "time"

// SecurityDomain - тенант, в рамках которого живут группы, пользователи и роли
type SecurityDomain struct {
	ID        string
	Name      string
	Enabled   bool
	CreatedAt time.Time
}
