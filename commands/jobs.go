package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/prisms-center/gopbs/helper/tabutil"
	"github.com/prisms-center/gopbs/jobdb"
)

func init() {
	RootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Perform commands on the job database",
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			fmt.Print(err)
		}
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded jobs",
	Long:  `List recorded jobs. Giving their ids, names, statuses and resource requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		colorize := !noColor

		client, err := GetConfig().GetConsulClient()
		if err != nil {
			errExit(err)
		}
		records, err := jobdb.NewStore(client).List()
		if err != nil {
			errExit(err)
		}

		jobsTable := tabutil.NewTable()
		jobsTable.AddHeaders("Id", "Name", "Status", "Auto", "Nodes", "Procs", "Walltime (s)", "Run directory")
		for _, rec := range records {
			jobsTable.AddRow(rec.JobID, rec.JobName, getColoredJobStatus(colorize, rec.Status), rec.Auto, rec.Nodes, rec.Procs, rec.Walltime, rec.RunDir)
		}
		if colorize {
			defer color.Unset()
		}
		fmt.Println("Jobs:")
		fmt.Println(jobsTable.Render())
		return nil
	},
}

func getColoredJobStatus(colorize bool, status string) string {
	if !colorize {
		return status
	}
	switch status {
	case jobdb.StatusComplete:
		return color.New(color.FgHiGreen, color.Bold).SprintFunc()(status)
	case jobdb.StatusError:
		return color.New(color.FgHiRed, color.Bold).SprintFunc()(status)
	case jobdb.StatusRunning:
		return color.New(color.FgHiCyan).SprintFunc()(status)
	case jobdb.StatusQueued, jobdb.StatusHeld:
		return color.New(color.FgHiYellow).SprintFunc()(status)
	default:
		return status
	}
}
