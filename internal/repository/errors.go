package repository

import "errors"

var (
	// ErrNotFound возвращается, когда запись отсутствует
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict возвращается из Update, если версия в хранилище не совпала с ожидаемой
	ErrVersionConflict = errors.New("version conflict")
)
