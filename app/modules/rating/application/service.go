package ratingservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	ratingdb "github.com/smk-league/smk-rating/app/modules/rating/infrastructure/repositories"
	"github.com/smk-league/smk-rating/app/observability"
	"github.com/smk-league/smk-rating/app/observability/attr"
	"github.com/smk-league/smk-rating/app/shared/results"
	"github.com/smk-league/smk-rating/app/shared/tunables"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Clock supplies "today" for date validation.
type Clock interface {
	Now() time.Time
}

// RatingService implements the Service interface.
type RatingService struct {
	repo      ratingdb.Repository
	store     tunables.Store
	publisher message.Publisher
	clock     Clock
	logger    *slog.Logger
	metrics   observability.RatingMetrics
	tracer    trace.Tracer
	db        *bun.DB

	// writeMu serializes writers inside the process; the advisory lock
	// covers other processes sharing the database.
	writeMu sync.Mutex
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	repo ratingdb.Repository,
	store tunables.Store,
	publisher message.Publisher,
	clock Clock,
	logger *slog.Logger,
	metrics observability.RatingMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &RatingService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// today truncates the clock to a calendar day in UTC.
func (s *RatingService) today() time.Time {
	return truncateDay(s.clock.Now())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *RatingService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "RatingService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "RatingService", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "RatingService")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "RatingService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "RatingService")
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RatingService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr != nil {
			return txErr
		}
		// A domain failure must not leave partial writes behind.
		if result.IsFailure() {
			return errRollback
		}
		return nil
	})
	if errors.Is(err, errRollback) {
		err = nil
	}
	return result, err
}

// runWrite serializes a mutation: the process mutex, then a transaction that
// starts by taking the advisory write lock.
func runWrite[S any, F any](
	s *RatingService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error) {
		if err := s.repo.AcquireWriteLock(ctx, db); err != nil {
			return results.OperationResult[S, F]{}, err
		}
		return fn(ctx, db)
	})
}

// unwrap turns an operation result into the (value, error) pair callers see.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, nil
	}
	return *result.Success, nil
}
