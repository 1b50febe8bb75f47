// Package replay holds the shared configuration layer of ledger-replay.
//
// Configuration is resolved in three steps: built-in defaults, an optional
// YAML file named by LEDGER_REPLAY_CONFIG, then environment variables bound
// through `env` struct tags:
//
//	cfg, err := replay.LoadConfig(replay.GetenvOrDefault(replay.ConfigFileEnv, ""))
//
// The transaction core lives in the account, store, tracker and engine
// subpackages; record and cmd/ledger-replay are the CSV and CLI adapters.
package replay
