// Package runtime provides panic recovery helpers that log through log.Logger.
package runtime
