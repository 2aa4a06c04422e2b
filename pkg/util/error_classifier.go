package util

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgInvalidText         = "22P02"
)

// ClassifyDBError 把存储层错误映射为 HTTP 状态码和错误类型
// Returns: (statusCode, errorType)
func ClassifyDBError(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	// GORM 开启 TranslateError 后的统一错误
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return http.StatusUnprocessableEntity, "foreign_key_violation"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusConflict, "duplicate_key"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, "not_found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return http.StatusUnprocessableEntity, "foreign_key_violation"
		case pgUniqueViolation:
			return http.StatusConflict, "duplicate_key"
		case pgNotNullViolation, pgCheckViolation:
			return http.StatusBadRequest, "constraint_violation"
		case pgStringTooLong:
			return http.StatusBadRequest, "value_too_long"
		case pgInvalidText:
			return http.StatusBadRequest, "invalid_value"
		}
		return http.StatusInternalServerError, "db_error"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "timeout"
	}
	if errors.Is(err, context.Canceled) {
		// 客户端已断开
		return 499, "context_canceled"
	}

	return http.StatusInternalServerError, "unknown_error"
}

// ClientMessage 返回可以暴露给调用方的错误描述
func ClientMessage(errorType string) string {
	switch errorType {
	case "foreign_key_violation":
		return "referenced project does not exist"
	case "duplicate_key":
		return "record already exists"
	case "constraint_violation":
		return "required field missing or invalid"
	case "value_too_long":
		return "value exceeds maximum length"
	case "invalid_value":
		return "invalid value"
	case "not_found":
		return "record not found"
	case "timeout":
		return "database timeout"
	default:
		return "internal server error"
	}
}
