package domain

import "sort"

// CanonicalIDs убирает пустые идентификаторы и дубликаты, сохраняя порядок первого вхождения
func CanonicalIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func ContainsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// WithMember возвращает новый список участников с добавленным userID
func WithMember(members []string, userID string) []string {
	result := make([]string, 0, len(members)+1)
	result = append(result, members...)
	if !ContainsID(result, userID) {
		result = append(result, userID)
	}
	return result
}

// WithoutMember возвращает новый список участников без userID
func WithoutMember(members []string, userID string) []string {
	return WithoutIDs(members, []string{userID})
}

// WithoutIDs удаляет из ids все значения из removed; отсутствующие значения игнорируются
func WithoutIDs(ids []string, removed []string) []string {
	if ids == nil {
		return nil
	}
	drop := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		drop[id] = struct{}{}
	}
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; ok {
			continue
		}
		result = append(result, id)
	}
	return result
}

// MissingIDs возвращает запрошенные идентификаторы, которых нет среди найденных
func MissingIDs(requested []string, found []string) []string {
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; ok {
			continue
		}
		missing = append(missing, id)
	}
	return missing
}

// PageIDs сортирует идентификаторы лексикографически и возвращает срез [offset, offset+size),
// обрезанный по длине списка. Исходный срез не меняется.
func PageIDs(ids []string, offset, size int) []string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	if offset < 0 {
		offset = 0
	}
	if size < 0 {
		size = 0
	}
	from := min(len(sorted), offset)
	to := from + min(size, len(sorted)-from)
	return sorted[from:to]
}

func UserIDs(users []*User) []string {
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}

func RoleIDs(roles []*Role) []string {
	ids := make([]string, 0, len(roles))
	for _, role := range roles {
		ids = append(ids, role.ID)
	}
	return ids
}
