// Package tradebook keeps a personal trading ledger and derives its analytics.
//
// It is designed to be local-first and auditable: the book is a plain list of
// trades (date, instrument, side, quantity, price, note) persisted in a
// human-readable JSONL file, and every report is recomputed from the full list
// on each call.
//
// The core functionalities include:
//   - Book Management: adding, editing and deleting trades by index, with
//     validation of each record before it enters the book.
//   - Matching Engine: a FIFO lot queue per instrument that turns sells into
//     realized profit-and-loss events and leaves the open holding.
//   - Analysis: a stateless pipeline combining every instrument into realized
//     P&L, holdings, performance metrics and cumulative P&L series.
//   - Data Persistence: JSONL encoding of the book and CSV import and export.
//
// This package serves as the foundational logic for the `tb` command-line
// tool and its HTTP view.
package tradebook
