package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prisms-center/gopbs/pbs"
)

func init() {
	RootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderJob.Name, "name", "N", "", "Job name (up to 15 printable non-whitespace characters, first one alphabetic)")
	renderCmd.Flags().StringVarP(&renderJob.Account, "account", "A", "", "Account string")
	renderCmd.Flags().IntVar(&renderJob.Nodes, "nodes", 1, "Number of nodes to request")
	renderCmd.Flags().IntVar(&renderJob.PPN, "ppn", 1, "Number of processors per node to request")
	renderCmd.Flags().StringVar(&renderJob.Walltime, "walltime", "", "Wall clock time for the job (HH:MM:SS)")
	renderCmd.Flags().StringVar(&renderJob.Pmem, "pmem", "", "Per-node memory request (e.g. 3800mb)")
	renderCmd.Flags().StringVarP(&renderJob.Queue, "queue", "q", "", "Destination queue")
	renderCmd.Flags().StringVarP(&renderJob.Exetime, "exetime", "a", "", "Time after which the job is eligible for execution ([[[[CC]YY]MM]DD]hhmm[.SS])")
	renderCmd.Flags().StringVarP(&renderJob.Email, "email", "M", "", "Mail recipient list (user[@host][,user[@host],...])")
	renderCmd.Flags().StringVarP(&renderJob.Message, "message", "m", pbs.DefaultMessage, "Mail events: one or more of \"abe\", or exactly \"n\"")
	renderCmd.Flags().StringVarP(&renderJob.Priority, "priority", "p", pbs.DefaultPriority, "Scheduling priority, -1024 to 1023")
	renderCmd.Flags().StringVar(&renderJob.Command, "command", "", "Payload command, may be multi-line")
	renderCmd.Flags().StringVar(&renderCommandFile, "command-file", "", "Read the payload command from the given file instead of --command")
	renderCmd.Flags().BoolVar(&renderJob.Auto, "auto", false, "Mark the job as reporting its own completion to the job database")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the script to the given file instead of stdout")
	renderCmd.Flags().BoolVar(&renderValidate, "validate", false, "Check the job specification before rendering")
}

var renderJob = pbs.JobSpec{}
var renderCommandFile string
var renderOutput string
var renderValidate bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a job specification as a qsub submit script",
	Long: `Render a job specification as a qsub submit script.
The script is printed on stdout, or written to a file with --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderCommandFile != "" {
			payload, err := os.ReadFile(renderCommandFile)
			if err != nil {
				errExit(err)
			}
			renderJob.Command = string(payload)
		}
		if renderValidate {
			if err := renderJob.Validate(); err != nil {
				errExit(err)
			}
		}
		if renderOutput != "" {
			return renderJob.WriteScript(renderOutput)
		}
		fmt.Print(renderJob.Script())
		return nil
	},
}
