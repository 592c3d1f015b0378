/*
Package operation runs one fastcp invocation end to end.

	+-------------+      +-------------+
	|   Source    |      | Destination |
	| (Classify)  |      | (Classify)  |
	+------+------+      +------+------+
	       |                    |
	       +---------+----------+
	                 |
	          +------+------+
	          | PlanThreads |
	          +------+------+
	                 |
	     +-----------+-----------+
	     |                       |
	+----+-----+          +------+------+
	|   File   |          |  Directory  |
	| CopyFile |          | Walk + Pool |
	+----------+          +-------------+

🎯 Purpose:
- Classifies both ends of the copy and plans the worker count
- Routes a file source to the copy engine and a directory source to the walker
- Renders the run summary when verbose

⚡ Fatal errors:
- The source cannot be resolved (storage.PathResolutionError)
- A directory source without the recursive option (ErrNotRecursive)
- A destination inside the source tree (ErrDestinationInsideSource)
- A directory that cannot be created or listed (walker.DirectoryError)
- For a single file, any copy failure including copier.ErrAlreadyExists

File failures inside a directory copy are reported and counted, never returned.
*/
package operation
