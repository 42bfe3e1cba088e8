package domain

import "time"

type User struct {
	ID          string
	Domain      string
	Username    string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Principal - тот, кто выполняет изменение (попадает в аудит)
type Principal struct {
	ID       string
	Username string
}

// SystemPrincipal используется, когда актор не передан
var SystemPrincipal = Principal{ID: "system", Username: "system"}
