package domain

import (
	"fmt"
	"strings"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

const (
	CodeDomainNotFound         = "DOMAIN_NOT_FOUND"
	CodeGroupNotFound          = "GROUP_NOT_FOUND"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeRoleNotFound           = "ROLE_NOT_FOUND"
	CodeMemberNotFound         = "MEMBER_NOT_FOUND"
	CodeGroupAlreadyExists     = "GROUP_ALREADY_EXISTS"
	CodeMemberAlreadyExists    = "MEMBER_ALREADY_EXISTS"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

var (
	// ErrDomainNotFound - домен безопасности не найден
	ErrDomainNotFound = &DomainError{Code: CodeDomainNotFound, Message: "domain not found"}

	// ErrGroupNotFound - группа не найдена
	ErrGroupNotFound = &DomainError{Code: CodeGroupNotFound, Message: "group not found"}

	// ErrUserNotFound - пользователь не найден
	ErrUserNotFound = &DomainError{Code: CodeUserNotFound, Message: "user not found"}

	// ErrRoleNotFound - одна или несколько ролей не найдены
	ErrRoleNotFound = &DomainError{Code: CodeRoleNotFound, Message: "role not found"}

	// ErrMemberNotFound - пользователь не состоит в группе
	ErrMemberNotFound = &DomainError{Code: CodeMemberNotFound, Message: "member not found"}

	// ErrGroupAlreadyExists - группа с таким именем уже есть в домене
	ErrGroupAlreadyExists = &DomainError{Code: CodeGroupAlreadyExists, Message: "group already exists"}

	// ErrMemberAlreadyExists - пользователь уже состоит в группе
	ErrMemberAlreadyExists = &DomainError{Code: CodeMemberAlreadyExists, Message: "member already exists"}

	// ErrConcurrentModification - группа изменилась между чтением и записью, операцию можно повторить
	ErrConcurrentModification = &DomainError{Code: CodeConcurrentModification, Message: "group was modified concurrently"}
)

func NewDomainNotFoundError(domainID string) *DomainError {
	return &DomainError{
		Code:    CodeDomainNotFound,
		Message: fmt.Sprintf("domain [%s] can not be found", domainID),
	}
}

func NewGroupNotFoundError(groupID string) *DomainError {
	return &DomainError{
		Code:    CodeGroupNotFound,
		Message: fmt.Sprintf("group [%s] can not be found", groupID),
	}
}

func NewUserNotFoundError(userID string) *DomainError {
	return &DomainError{
		Code:    CodeUserNotFound,
		Message: fmt.Sprintf("user [%s] can not be found", userID),
	}
}

// NewRoleNotFoundError перечисляет все нерезолвленные идентификаторы ролей
func NewRoleNotFoundError(roleIDs []string) *DomainError {
	return &DomainError{
		Code:    CodeRoleNotFound,
		Message: fmt.Sprintf("role [%s] can not be found", strings.Join(roleIDs, ",")),
	}
}

func NewMemberNotFoundError(userID string) *DomainError {
	return &DomainError{
		Code:    CodeMemberNotFound,
		Message: fmt.Sprintf("member [%s] can not be found", userID),
	}
}

func NewGroupAlreadyExistsError(name string) *DomainError {
	return &DomainError{
		Code:    CodeGroupAlreadyExists,
		Message: fmt.Sprintf("a group [%s] already exists", name),
	}
}

func NewMemberAlreadyExistsError(userID string) *DomainError {
	return &DomainError{
		Code:    CodeMemberAlreadyExists,
		Message: fmt.Sprintf("member [%s] already exists", userID),
	}
}

func NewConcurrentModificationError(groupID string) *DomainError {
	return &DomainError{
		Code:    CodeConcurrentModification,
		Message: fmt.Sprintf("group [%s] was modified concurrently, retry the operation", groupID),
	}
}

// TechnicalError оборачивает неожиданный сбой хранилища или резолвера.
// Наружу уходит только Message, исходная причина доступна через errors.Unwrap.
type TechnicalError struct {
	Message string
	Cause   error
}

// ErrTechnical используется как цель для errors.Is
var ErrTechnical = &TechnicalError{Message: "technical failure"}

func NewTechnicalError(message string, cause error) *TechnicalError {
	return &TechnicalError{Message: message, Cause: cause}
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Cause
}

func (e *TechnicalError) Is(target error) bool {
	_, ok := target.(*TechnicalError)
	return ok
}
