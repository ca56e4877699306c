package pbs

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultScriptName is the file name used by WriteScript when none is given
const DefaultScriptName = "submit.sh"

// Script renders the job as a qsub submit script.
//
// The output is a wire format: line content and ordering are relied upon by
// Parse and by external tooling, do not reorder. Rendering is total and does
// not validate; a JobSpec with empty required fields yields a script the
// scheduler will reject.
func (j *JobSpec) Script() string {
	var s strings.Builder
	s.WriteString("#!/bin/sh\n")
	s.WriteString("#PBS -S /bin/sh\n")
	fmt.Fprintf(&s, "#PBS -N %s\n", j.Name)
	if j.Exetime != "" {
		fmt.Fprintf(&s, "#PBS -a %s\n", j.Exetime)
	}
	if j.Account != "" {
		fmt.Fprintf(&s, "#PBS -A %s\n", j.Account)
	}
	fmt.Fprintf(&s, "#PBS -l walltime=%s\n", j.Walltime)
	fmt.Fprintf(&s, "#PBS -l nodes=%d:ppn=%d\n", j.Nodes, j.PPN)
	if j.Pmem != "" {
		fmt.Fprintf(&s, "#PBS -l pmem=%s\n", j.Pmem)
	}
	fmt.Fprintf(&s, "#PBS -l qos=%s\n", j.Queue)
	fmt.Fprintf(&s, "#PBS -q %s\n", j.Queue)
	// The recipient and events directives only make sense together
	if j.Email != "" && j.Message != "" {
		fmt.Fprintf(&s, "#PBS -M %s\n", j.Email)
		fmt.Fprintf(&s, "#PBS -m %s\n", j.Message)
	}
	s.WriteString("#PBS -V\n")
	fmt.Fprintf(&s, "#PBS -p %s\n\n", j.Priority)
	fmt.Fprintf(&s, "#auto=%t\n\n", j.Auto)
	s.WriteString("echo \"I ran on:\"\n")
	s.WriteString("cat $PBS_NODEFILE\n\n")
	// Anchor line: Parse treats everything after it as the payload
	s.WriteString("cd $PBS_O_WORKDIR\n")
	fmt.Fprintf(&s, "%s\n", j.Command)
	return s.String()
}

// WriteScript writes the rendered submit script to the given file path, or to
// "submit.sh" in the current directory when path is empty
func (j *JobSpec) WriteScript(path string) error {
	if path == "" {
		path = DefaultScriptName
	}
	err := os.WriteFile(path, []byte(j.Script()), 0644)
	return errors.Wrapf(err, "failed to write submit script to %q", path)
}
