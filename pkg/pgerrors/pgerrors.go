package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды SQLSTATE, означающие проигранную гонку за данные
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeExclusionViolation   = "23P01"
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
)

// Code возвращает SQLSTATE ошибки lib/pq или пустую строку
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsConcurrentConflict true для ошибок, после которых транзакцию имеет смысл повторить
// на свежих данных: сбой сериализации, дедлок, нарушение exclusion-ограничения.
func IsConcurrentConflict(err error) bool {
	switch Code(err) {
	case CodeSerializationFailure, CodeDeadlockDetected, CodeExclusionViolation:
		return true
	default:
		return false
	}
}

func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}
