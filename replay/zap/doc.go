// Package zap bridges the ledger-replay log.Logger interface to go.uber.org/zap.
package zap
