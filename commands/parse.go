package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prisms-center/gopbs/helper/tabutil"
	"github.com/prisms-center/gopbs/pbs"
)

func init() {
	RootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseQuiet, "quiet", false, "Print nothing on success, only set the exit code")
}

var parseQuiet bool

var parseCmd = &cobra.Command{
	Use:   "parse <script file>",
	Short: "Parse a qsub submit script back into a job specification",
	Long: `Parse a qsub submit script back into a job specification.
On success the recognized fields are printed. When required directives are
missing the full field report is printed and the command exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := os.ReadFile(args[0])
		if err != nil {
			errExit(err)
		}
		job, err := pbs.Parse(string(script))
		if err != nil {
			if perr, ok := err.(*pbs.ParseError); ok {
				fmt.Println("Not all required directives were found.")
				fmt.Println()
				fmt.Print(perr.Report())
			}
			errExit(err)
		}
		if parseQuiet {
			return nil
		}

		fieldsTable := tabutil.NewTable()
		fieldsTable.AddHeaders("Field", "Value")
		fieldsTable.AddRow("name", job.Name)
		fieldsTable.AddRow("account", job.Account)
		fieldsTable.AddRow("nodes", job.Nodes)
		fieldsTable.AddRow("ppn", job.PPN)
		fieldsTable.AddRow("walltime", job.Walltime)
		fieldsTable.AddRow("pmem", job.Pmem)
		fieldsTable.AddRow("queue", job.Queue)
		fieldsTable.AddRow("exetime", job.Exetime)
		fieldsTable.AddRow("email", job.Email)
		fieldsTable.AddRow("message", job.Message)
		fieldsTable.AddRow("priority", job.Priority)
		fieldsTable.AddRow("auto", job.Auto)
		fmt.Println(fieldsTable.Render())
		fmt.Println("Command:")
		fmt.Println(job.Command)
		return nil
	},
}
