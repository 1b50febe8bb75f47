// Package record reads transaction logs from CSV and writes account
// snapshots back to CSV.
//
// Input columns are type,client,tx,amount. Every field is trimmed, and the
// trailing amount may be omitted on dispute, resolve and chargeback rows.
// A row that does not fit this shape stops the read with a
// *MalformedRecordError; an unknown type does not, the engine reports it.
package record
