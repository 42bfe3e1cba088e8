package domain

import "time"

type EventType string

const (
	EventGroupCreated       EventType = "GROUP_CREATED"
	EventGroupUpdated       EventType = "GROUP_UPDATED"
	EventGroupDeleted       EventType = "GROUP_DELETED"
	EventGroupRolesAssigned EventType = "GROUP_ROLES_ASSIGNED"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "SUCCESS"
	AuditStatusFailure AuditStatus = "FAILURE"
)

// AuditEvent - неизменяемая запись о попытке изменения группы
type AuditEvent struct {
	ID        string
	Type      EventType
	Domain    string
	Actor     Principal
	TargetID  string
	Status    AuditStatus
	OldValue  *Group
	NewValue  *Group
	Error     string
	CreatedAt time.Time
}
