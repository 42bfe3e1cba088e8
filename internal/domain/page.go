package domain

// Page - страница результатов.
// Для списка групп Size - общее число групп домена,
// для списка участников - число идентификаторов, попавших в срез.
type Page[T any] struct {
	Data        []T
	CurrentPage int
	Size        int
}
