// Package log defines the logging interface used across ledger-replay and its typed fields.
//
// Backends (such as the zap package) implement Logger so the engine, stores and
// command keep one logging call shape regardless of where the output goes.
package log
