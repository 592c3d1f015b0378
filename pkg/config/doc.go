/*
Package config holds the copy policy for a fastcp run.

🎯 Purpose:
- Defines Options, the read-only policy every worker consults
- Loads optional defaults from a YAML, HCL or JSON file
- Layers explicit command line flags over file defaults
- Rejects values that cannot be acted on (negative thread counts, bad globs)

🔄 Flow:
1. cmd/fastcp parses flags into Options
2. If --config (or FASTCP_CONFIG) names a file, LoadFile parses it
3. Options.Merge keeps flags that were set explicitly, file values otherwise
4. Options.Validate runs once before any copying starts

📝 Example defaults file (.fastcp.yaml):

	threads: 8
	verbose: true
	no_clobber: true
	exclude:
	  - "*.tmp"
	  - ".git"

The same file in HCL:

	threads = 8
	exclude = ["*.tmp", "${env.USER}-scratch"]

The archive, backup, link, preserve, symbolic-link, no-dereference and
one-file-system options are accepted for compatibility with cp and are
otherwise ignored.
*/
package config
