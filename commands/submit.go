package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prisms-center/gopbs/jobdb"
	"github.com/prisms-center/gopbs/pbs"
)

func init() {
	RootCmd.AddCommand(submitCmd)
	submitCmd.Flags().BoolVar(&submitNoRecord, "no-record", false, "Do not add the submitted job to the job database")
}

var submitNoRecord bool

var submitCmd = &cobra.Command{
	Use:   "submit <script file>",
	Short: "Submit a qsub script and record the job in the job database",
	Long: `Submit a qsub script and record the job in the job database.
The script is parsed first: submission is refused when required directives
are missing. The job goes to the local qsub binary, or to the cluster
front-end over SSH when ssh_url is configured. On success the job identifier
is printed and a job record with the unknown status tag is stored in Consul,
unless --no-record is given.`,
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

		cfg := GetConfig()

		var submitter pbs.Submitter
		if cfg.Scheduler.GetString("url") != "" {
			sshClient, err := pbs.GetSSHClient(cfg)
			if err != nil {
				errExit(err)
			}
			submitter = &pbs.RemoteSubmitter{Client: sshClient, WorkingDir: cfg.WorkingDirectory}
		} else {
			submitter = &pbs.QsubSubmitter{QsubPath: cfg.QsubPath}
		}

		var store pbs.RecordStore
		if !submitNoRecord {
			client, err := cfg.GetConsulClient()
			if err != nil {
				errExit(err)
			}
			store = jobdb.NewStore(client)
		}

		jobID, err := pbs.SubmitAndRecord(context.Background(), submitter, store, job)
		if err != nil {
			errExit(err)
		}
		fmt.Println(jobID)
		return nil
	},
}
