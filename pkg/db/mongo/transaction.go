package mongo

import (
	"context"
	"fmt"

	apperrors "hotelops/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// TransactionFunc runs the steps of one unit of work. Repositories must use
// the ctx it receives so their operations join the transaction. It is called
// exactly once per transaction; failures are returned to the caller as is.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

// ExecuteTransaction runs fn in a snapshot transaction committed with majority
// write concern, so stock reads and ledger writes see one consistent state. A
// call made inside an open transaction joins it.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	err = mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		return runTransaction(sessCtx, sessCtx, txOpts, fn)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

type txSession interface {
	StartTransaction(...*options.TransactionOptions) error
	CommitTransaction(context.Context) error
	AbortTransaction(context.Context) error
}

// runTransaction makes a single attempt: start, fn, commit. Transient
// errors are not retried.
func runTransaction(ctx context.Context, tx txSession, opts *options.TransactionOptions, fn TransactionFunc) error {
	if err := tx.StartTransaction(opts); err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(ctx); err != nil {
		_ = tx.AbortTransaction(context.WithoutCancel(ctx))
		return err
	}
	if err := tx.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InTransaction reports whether ctx carries a Mongo session.
func InTransaction(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}
