/*
Package status tracks what happened to each file during a fastcp run.

🎯 Purpose:
- Counts per-file outcomes (copied, skipped, not overwritten, not updated, failed)
- Counts bytes written
- Renders a summary table at the end of a verbose run

The copy engine records every decision it makes, and the worker pool records
failures. A Tally is lock-free and a nil *Tally is a valid no-op, so callers
that do not care about a summary can pass nil.

🔍 Example:

	tally := status.NewTally()
	tally.Record(status.OutcomeCopied)
	tally.AddBytes(42)

	summary, err := tally.Render()
*/
package status
