package pbs

import (
	"regexp"
	"strconv"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// One match rule per directive kind, evaluated independently per line so that
// directives may appear in any order before the anchor. Captured values stop
// at whitespace or end of line, a final directive line without a trailing
// newline parses the same as a terminated one.
var (
	reName     = regexp.MustCompile(`\s-N\s+(\S+)`)
	reAccount  = regexp.MustCompile(`\s-A\s+(\S+)`)
	reExetime  = regexp.MustCompile(`\s-a\s+(\S+)`)
	reWalltime = regexp.MustCompile(`walltime=(\S+)`)
	reNodes    = regexp.MustCompile(`nodes=(\d+):ppn=(\d+)`)
	rePmem     = regexp.MustCompile(`pmem=(\S+)`)
	reQueue    = regexp.MustCompile(`\s-q\s+(\S+)`)
	reEmail    = regexp.MustCompile(`\s-M\s+(\S+)`)
	reMessage  = regexp.MustCompile(`\s-m\s+(\S+)`)
	rePriority = regexp.MustCompile(`\s-p\s+(\S+)`)

	reAuto      = regexp.MustCompile(`(?i)\bauto\s*=\s*(\S+)`)
	reAutoTrue  = regexp.MustCompile(`^(?i:true|t|1)$`)
	reAutoFalse = regexp.MustCompile(`^(?i:false|f|0)$`)

	// Anchor separating directives from the payload command
	reAnchor = regexp.MustCompile(`cd\s+\$PBS_O_WORKDIR`)
)

const notFoundMarker = "Not Found"

// reqWorkdir is the report key of the anchor line itself
const reqWorkdir = "cd $PBS_O_WORKDIR"

var optionalFields = []string{"account", "pmem", "email", "message", "priority", "auto", "exetime"}

var requiredFields = []string{"name", "walltime", "nodes", "ppn", "queue", reqWorkdir, "command"}

// Parse reads a qsub submit script back into a JobSpec.
//
// It reads many but not all valid PBS scripts: directives outside the
// recognized set are silently ignored and a duplicated directive keeps its
// last occurrence. The scan stops at the first "cd $PBS_O_WORKDIR" line,
// everything after it is the payload command and is never interpreted as
// directives. Optional directives fall back to their documented defaults.
//
// On failure no JobSpec is returned: a *ParseError lists every required
// directive that was not found together with the full field report, and a
// *MalformedAutoFlagError reports an "auto=" comment whose value is not a
// recognized boolean. The "auto=" match is tried on every line before the
// anchor, not only on comments, so any pre-anchor text of the form "auto=<v>"
// with an unrecognized value fails the parse.
func Parse(script string) (*JobSpec, error) {
	job := NewJobSpec()

	optional := map[string]string{
		"account":  "Default: None",
		"pmem":     "Default: None",
		"email":    "Default: None",
		"message":  "Default: " + DefaultMessage,
		"priority": "Default: " + DefaultPriority,
		"auto":     "Default: false",
		"exetime":  "Default: None",
	}
	required := make(map[string]string, len(requiredFields))
	for _, k := range requiredFields {
		required[k] = notFoundMarker
	}
	found := make(map[string]bool, len(requiredFields))

	rest := script
	for rest != "" {
		line := rest
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}

		if strings.Contains(line, "#PBS") {
			if m := reName.FindStringSubmatch(line); m != nil {
				job.Name = m[1]
				required["name"] = job.Name
				found["name"] = true
			}
			if m := reAccount.FindStringSubmatch(line); m != nil {
				job.Account = m[1]
				optional["account"] = job.Account
			}
			if m := reExetime.FindStringSubmatch(line); m != nil {
				job.Exetime = m[1]
				optional["exetime"] = job.Exetime
			}
			if m := reWalltime.FindStringSubmatch(line); m != nil {
				job.Walltime = m[1]
				required["walltime"] = job.Walltime
				found["walltime"] = true
			}
			if m := reNodes.FindStringSubmatch(line); m != nil {
				// \d+ captures, Atoi cannot fail
				job.Nodes, _ = strconv.Atoi(m[1])
				job.PPN, _ = strconv.Atoi(m[2])
				required["nodes"] = m[1]
				required["ppn"] = m[2]
				found["nodes"] = true
				found["ppn"] = true
			}
			if m := rePmem.FindStringSubmatch(line); m != nil {
				job.Pmem = m[1]
				optional["pmem"] = job.Pmem
			}
			if m := reQueue.FindStringSubmatch(line); m != nil {
				job.Queue = m[1]
				required["queue"] = job.Queue
				found["queue"] = true
			}
			if m := reEmail.FindStringSubmatch(line); m != nil {
				job.Email = m[1]
				optional["email"] = job.Email
			}
			if m := reMessage.FindStringSubmatch(line); m != nil {
				job.Message = m[1]
				optional["message"] = job.Message
			}
			if m := rePriority.FindStringSubmatch(line); m != nil {
				job.Priority = m[1]
				optional["priority"] = job.Priority
			}
		}

		if m := reAuto.FindStringSubmatch(line); m != nil {
			switch {
			case reAutoTrue.MatchString(m[1]):
				job.Auto = true
			case reAutoFalse.MatchString(m[1]):
				job.Auto = false
			default:
				return nil, &MalformedAutoFlagError{Line: line}
			}
			optional["auto"] = strconv.FormatBool(job.Auto)
		}

		if loc := reAnchor.FindStringIndex(line); loc != nil {
			required[reqWorkdir] = "Found"
			found[reqWorkdir] = true
			job.Command = commandAfterAnchor(line[loc[1]:], rest)
			required["command"] = job.Command
			found["command"] = true
			break
		}
	}

	var missing []string
	var fieldErr *multierror.Error
	for _, k := range requiredFields {
		if !found[k] {
			missing = append(missing, k)
			fieldErr = multierror.Append(fieldErr, errors.Errorf("required directive %q not found", k))
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{
			missing:  missing,
			report:   formatReport(optional, required),
			fieldErr: fieldErr,
		}
	}
	return job, nil
}

// commandAfterAnchor assembles the payload from the anchor line remainder and
// the unread part of the script. The payload's single trailing newline is the
// serializer's, not the command's, so it is stripped to keep round-trips
// stable.
func commandAfterAnchor(remainder, rest string) string {
	cmd := strings.TrimSuffix(rest, "\n")
	rem := strings.TrimLeft(remainder, " \t")
	if rem == "" {
		return cmd
	}
	if cmd == "" {
		return rem
	}
	return rem + "\n" + cmd
}

func formatReport(optional, required map[string]string) string {
	var b strings.Builder
	b.WriteString("Optional arguments:\n")
	for _, k := range optionalFields {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(optional[k])
		b.WriteByte('\n')
	}
	b.WriteString("\nRequired arguments:\n")
	for _, k := range requiredFields {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(required[k])
		b.WriteByte('\n')
	}
	return b.String()
}
