package service

import "errors"

// Сервисные ошибки. Хендлеры мапят их на HTTP-коды.
var (
	// ErrInvalidInput — отсутствуют обязательные поля запроса.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound — запись отсутствует либо принадлежит другому арендатору.
	// Эти случаи намеренно неразличимы.
	ErrNotFound = errors.New("artwork not found")

	// ErrNotPurchased — запись найдена, но покупка не подтверждена.
	ErrNotPurchased = errors.New("artwork not purchased")

	// ErrUpstream — отказ внешнего сервиса (генерация, хранилище, checkout).
	ErrUpstream = errors.New("upstream failure")
)
