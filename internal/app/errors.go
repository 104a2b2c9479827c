package app

import (
	"errors"
	"fmt"
	"net/http"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"folio/site/internal/auth"
	"folio/site/internal/store"
	"folio/site/internal/validation"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func errNotConfigured() *DomainError {
	return domainError(http.StatusInternalServerError, "SERVER_NOT_CONFIGURED", "Server not configured", nil)
}

func errNotFound(what string) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
}

func errSlugExists(slug string) *DomainError {
	return domainError(http.StatusConflict, "SLUG_EXISTS", "Slug already exists", map[string]any{"slug": slug})
}

func errIDExists(id string) *DomainError {
	return domainError(http.StatusConflict, "ID_EXISTS", "Content id already exists", map[string]any{"id": id})
}

func errDuplicateReaction() *DomainError {
	return domainError(http.StatusConflict, "DUPLICATE_REACTION", "You have already reacted to this content", nil)
}

func errUnauthorized() *DomainError {
	return domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
}

func errInvalid(message string, issues map[string][]string) *DomainError {
	var details any
	if len(issues) > 0 {
		details = map[string]any{"issues": issues}
	}
	return domainError(http.StatusBadRequest, "VALIDATION_ERROR", message, details)
}

func errStore(message string) *DomainError {
	return domainError(http.StatusInternalServerError, "SERVER_ERROR", message, nil)
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	var fieldErrs ozzo.Errors
	if errors.As(err, &fieldErrs) {
		e := errInvalid("Invalid payload", fieldIssues(fieldErrs))
		return e.Status, e.Code, e.Message, e.Details
	}
	switch {
	case errors.Is(err, validation.ErrInvalid):
		e := errInvalid("Invalid payload", validation.Issues(err))
		return e.Status, e.Code, e.Message, e.Details
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "CONFLICT", "Conflict", nil
	case errors.Is(err, store.ErrNotConfigured):
		return http.StatusInternalServerError, "SERVER_NOT_CONFIGURED", "Server not configured", nil
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

// fieldIssues flattens ozzo's per-field errors into the same shape the
// content schema reports.
func fieldIssues(errs ozzo.Errors) map[string][]string {
	issues := make(map[string][]string, len(errs))
	for field, err := range errs {
		var nested ozzo.Errors
		if errors.As(err, &nested) {
			for sub, msgs := range fieldIssues(nested) {
				issues[field+"."+sub] = msgs
			}
			continue
		}
		issues[field] = []string{err.Error()}
	}
	return issues
}

// issuesOf extracts the field issues from an error envelope's details.
func issuesOf(details any) map[string][]string {
	d, ok := details.(map[string]any)
	if !ok {
		return nil
	}
	issues, _ := d["issues"].(map[string][]string)
	return issues
}
