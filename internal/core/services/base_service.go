package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/go-playground/validator/v10"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Access    portssvc.AccessSvc
	TxManager portsrepo.TransactionManager
	AuditRepo portsrepo.AuditRepository
	Clock     func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recoverable problem
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the service clock's current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// AuthorizeWrite runs the subscription gate and then the permission gate for key.
func (s *BaseService) AuthorizeWrite(ctx context.Context, actor domain.Actor, key string) error {
	if s.Access == nil {
		return fmt.Errorf("%w: access gate not configured", apperrors.ErrForbidden)
	}
	if err := s.Access.CheckWriteAccess(ctx, actor.OrganizationID); err != nil {
		s.LogWarn(ctx, "Write access denied", slog.String("org_id", actor.OrganizationID), slog.String("error", err.Error()))
		return err
	}
	if err := s.Access.CheckPermission(ctx, actor, key); err != nil {
		s.LogWarn(ctx, "Permission denied",
			slog.String("user_id", actor.UserID),
			slog.String("role", actor.Role),
			slog.String("permission", key))
		return err
	}
	return nil
}

// RecordAudit writes an audit record. Inside a unit of work it runs as a
// savepoint so a failed insert cannot abort the caller; failures are only logged.
func (s *BaseService) RecordAudit(ctx context.Context, actor domain.Actor, action, resource, resourceID string, before, after any) {
	if s.AuditRepo == nil {
		return
	}
	record := domain.AuditRecord{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		Action:         action,
		Resource:       resource,
		ResourceID:     resourceID,
		Before:         before,
		After:          after,
		OccurredAt:     s.Now(),
	}
	save := func(ctx context.Context) error { return s.AuditRepo.SaveAuditRecord(ctx, record) }
	var err error
	if s.TxManager != nil {
		err = s.TxManager.WithinTx(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to record audit",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.String("resource_id", resourceID))
	}
}

// inputValidator shares gin's binding tags so DTOs are checked the same way
// whether they arrive over HTTP or from another service.
var inputValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}()

// ValidateInput checks struct tags and converts failures to apperrors.ErrValidation.
func ValidateInput(in any) error {
	err := inputValidator.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
		}
		return apperrors.Validation("%s", strings.Join(msgs, "; "))
	}
	return apperrors.Validation("%s", err.Error())
}
