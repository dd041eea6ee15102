// internal/app/system/txn/txn.go

// Package txn wraps multi-document MongoDB transactions with a graceful
// fallback for deployments that do not support them (standalone servers,
// some DocumentDB versions).
//
// The mutation pipeline runs each data write together with its audit append
// inside one Run call, so both commit or neither does. When the server cannot
// do transactions, Run executes the callback without one and logs that the
// atomicity guarantee is reduced: a crash between the data write and the audit
// append can then leave a mutation without its audit entry.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction. Every collection operation in
// fn must use the ctx passed to it so it joins the session. If the server does
// not support transactions, fn runs once without one.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithout(ctx, log, fn)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithout(ctx, log, fn)
	}
	return err
}

func runWithout(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions unsupported on this deployment; writes run sequentially")
	}
	return fn(ctx)
}

// Transaction-related server error codes:
//
//	20  IllegalOperation (transaction numbers require a replica set)
//	51  IllegalOperation
//	263 OperationNotSupportedInTransaction
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions, as opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(mongo.CommandError); ok {
		return notSupportedCodes[ce.Code]
	}

	msg := strings.ToLower(err.Error())
	has := func(kw string) bool { return strings.Contains(msg, kw) }
	if has("transaction") && (has("replica set") || has("session") || has("illegal operation")) {
		return true
	}
	return has("session") && has("not supported")
}
