package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bagdasarian/iam-groups/internal/domain"
)

type auditRepository struct {
	executor DBExecutor
}

func NewAuditRepository(db *sql.DB) *auditRepository {
	return &auditRepository{executor: db}
}

// groupSnapshot - представление группы в колонках old_value/new_value
type groupSnapshot struct {
	ID          string    `json:"id"`
	Domain      string    `json:"domain"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Members     []string  `json:"members"`
	Roles       []string  `json:"roles"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *auditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	oldValue, err := marshalGroup(event.OldValue)
	if err != nil {
		return err
	}
	newValue, err := marshalGroup(event.NewValue)
	if err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = domain.NewID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = nowUTC()
	}

	query := `
		INSERT INTO audit_events (id, event_type, domain_id, actor_id, actor_name, target_id, status, old_value, new_value, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.executor.ExecContext(ctx, query,
		event.ID,
		string(event.Type),
		event.Domain,
		event.Actor.ID,
		event.Actor.Username,
		event.TargetID,
		string(event.Status),
		jsonValue(oldValue),
		jsonValue(newValue),
		nullString(event.Error),
		event.CreatedAt,
	)
	return err
}

// ListByTarget возвращает последние события по объекту, новые первыми
func (r *auditRepository) ListByTarget(ctx context.Context, domainID, targetID string, limit int) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, event_type, domain_id, actor_id, actor_name, target_id, status, old_value, new_value, error, created_at
		FROM audit_events
		WHERE domain_id = $1 AND target_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.executor.QueryContext(ctx, query, domainID, targetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		event := &domain.AuditEvent{}
		var eventType, status string
		var oldValue, newValue []byte
		var errorMessage sql.NullString
		err := rows.Scan(
			&event.ID,
			&eventType,
			&event.Domain,
			&event.Actor.ID,
			&event.Actor.Username,
			&event.TargetID,
			&status,
			&oldValue,
			&newValue,
			&errorMessage,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		event.Type = domain.EventType(eventType)
		event.Status = domain.AuditStatus(status)
		event.Error = errorMessage.String
		if event.OldValue, err = unmarshalGroup(oldValue); err != nil {
			return nil, err
		}
		if event.NewValue, err = unmarshalGroup(newValue); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func marshalGroup(group *domain.Group) ([]byte, error) {
	if group == nil {
		return nil, nil
	}
	return json.Marshal(groupSnapshot{
		ID:          group.ID,
		Domain:      group.Domain,
		Name:        group.Name,
		Description: group.Description,
		Members:     group.Members,
		Roles:       group.Roles,
		Version:     group.Version,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	})
}

func unmarshalGroup(data []byte) (*domain.Group, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var snapshot groupSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &domain.Group{
		ID:          snapshot.ID,
		Domain:      snapshot.Domain,
		Name:        snapshot.Name,
		Description: snapshot.Description,
		Members:     snapshot.Members,
		Roles:       snapshot.Roles,
		Version:     snapshot.Version,
		CreatedAt:   snapshot.CreatedAt,
		UpdatedAt:   snapshot.UpdatedAt,
	}, nil
}

// jsonValue передаёт отсутствующее значение как NULL
func jsonValue(data []byte) any {
	if data == nil {
		return nil
	}
	return data
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
