package history

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dennishilgert/lambdeploy/cmd/lambdeploy/config"
	"github.com/dennishilgert/lambdeploy/internal/pkg/journal"
	"github.com/dennishilgert/lambdeploy/internal/pkg/journal/models"
	"github.com/dennishilgert/lambdeploy/pkg/logger"
	"github.com/spf13/cobra"
)

var log = logger.NewLogger("lambdeploy.cli.history")

var Command = &cobra.Command{
	Use:   "history",
	Short: "List recorded deployments of a function",
	Long:  "List the deployments of a function recorded in the deployment journal, newest first, or show a single deployment by its uuid",
	Run:   run,
}

var cmdFlags = ParseFlags()

func initFlags() {
	Command.Flags().AddFlagSet(cmdFlags.FlagSet())
	Command.MarkFlagsOneRequired("function", "uuid")
	Command.MarkFlagsMutuallyExclusive("function", "uuid")
}

func init() {
	initFlags()
}

func run(cobraCommand *cobra.Command, args []string) {
	logger.ReadAndApply(cobraCommand, log)
	os.Exit(processCommand(cobraCommand.Context()))
}

func processCommand(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.JournalEnabled() {
		log.Fatalf("the deployment journal is not configured, set LAMBDEPLOY_DATABASE_HOST")
	}

	journalClient, err := journal.NewJournalClient(journal.Options{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		Username: cfg.DatabaseUsername,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseDb,
		SslMode:  cfg.DatabaseSslMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to journal: %v", err)
	}
	defer journalClient.Close()

	deployments, err := findDeployments(journalClient, cmdFlags.CommandFlags())
	if err != nil {
		log.Error(err)
		return 1
	}
	if len(deployments) == 0 {
		log.Infof("no deployments recorded for %s", cmdFlags.CommandFlags().FunctionName)
		return 0
	}

	writeTable(os.Stdout, deployments)
	return 0
}

// findDeployments looks up the single deployment when a uuid is given and
// lists the latest deployments of the function otherwise.
func findDeployments(journalClient journal.JournalClient, f *commandFlags) ([]models.Deployment, error) {
	if f.DeploymentUuid != "" {
		deployment, err := journalClient.GetDeployment(f.DeploymentUuid)
		if err != nil {
			return nil, err
		}
		return []models.Deployment{*deployment}, nil
	}
	return journalClient.ListDeployments(f.FunctionName, f.Limit)
}

func writeTable(out io.Writer, deployments []models.Deployment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tACTION\tARTIFACT\tSOURCES\tDURATION\tERROR")
	for _, d := range deployments {
		fmt.Fprintln(w, formatRow(d))
	}
	w.Flush()
}

func formatRow(d models.Deployment) string {
	action := "update"
	if d.Created {
		action = "create"
	}
	sources := make([]string, 0, len(d.EventSourceArns)+len(d.TopicArns))
	sources = append(sources, d.EventSourceArns...)
	sources = append(sources, d.TopicArns...)
	return strings.Join([]string{
		d.StartedAt.Format(time.RFC3339),
		d.Status,
		action,
		d.ArtifactRef,
		fmt.Sprintf("%d", len(sources)),
		d.FinishedAt.Sub(d.StartedAt).Round(time.Millisecond).String(),
		d.Error,
	}, "\t")
}
