// Command regctl is the operator CLI for the model registry. It works
// directly against the file-backed registry on local storage, the same
// documents the server serves.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"model-versioning-service/internal/domain"
	"model-versioning-service/internal/repository"
	"model-versioning-service/internal/usecase"
)

// Exit codes for scripted callers.
const (
	exitSuccess      = 0
	exitGeneralError = 1
	exitInvalidArgs  = 2
	exitNotFound     = 3
	exitBusy         = 4
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

func exitCodeFromError(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case usecase.IsNotFound(err):
		return exitNotFound
	case errors.Is(err, domain.ErrRegistryBusy):
		return exitBusy
	case errors.Is(err, domain.ErrInvalidVersionFormat), errors.Is(err, domain.ErrInvalidModelName):
		return exitInvalidArgs
	default:
		return exitGeneralError
	}
}

func newRootCommand() *cobra.Command {
	var (
		dir        string
		jsonOutput bool
		registryUC *usecase.RegistryUseCase
	)

	cmd := &cobra.Command{
		Use:   "regctl",
		Short: "Operate the model registry",
		Long:  "Register, promote, inspect and clean up versioned model artifacts on local storage.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			store, err := repository.NewFileRegistryStore(dir, repository.DefaultLockTimeout)
			if err != nil {
				return err
			}
			artifacts, err := repository.NewFileArtifactStore(filepath.Join(dir, "artifacts"))
			if err != nil {
				return err
			}
			registryUC = usecase.NewRegistryUseCase(store, artifacts)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "models", "Registry storage directory")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(registerCmd(&registryUC, &jsonOutput))
	cmd.AddCommand(promoteCmd(&registryUC))
	cmd.AddCommand(deprecateCmd(&registryUC))
	cmd.AddCommand(archiveCmd(&registryUC))
	cmd.AddCommand(listCmd(&registryUC, &jsonOutput))
	cmd.AddCommand(lineageCmd(&registryUC))
	cmd.AddCommand(compareCmd(&registryUC))
	cmd.AddCommand(cleanupCmd(&registryUC, &jsonOutput))
	cmd.AddCommand(summaryCmd(&registryUC, &jsonOutput))

	return cmd
}

func registerCmd(uc **usecase.RegistryUseCase, jsonOutput *bool) *cobra.Command {
	var (
		artifactPath string
		modelType    string
		description  string
		createdBy    string
		bump         string
		metrics      []string
		tags         []string
	)

	cmd := &cobra.Command{
		Use:   "register <model>",
		Short: "Register a new model version from an artifact file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(artifactPath)
			if err != nil {
				return fmt.Errorf("read artifact file: %w", err)
			}

			parsedMetrics, err := parseMetrics(metrics)
			if err != nil {
				return err
			}

			record, err := (*uc).Register(cmd.Context(), usecase.RegisterParams{
				ModelName:   args[0],
				ModelType:   modelType,
				Description: description,
				CreatedBy:   createdBy,
				Artifact:    data,
				Metrics:     parsedMetrics,
				Bump:        domain.Bump(bump),
				Tags:        tags,
			})
			if err != nil {
				return err
			}

			if *jsonOutput {
				return printJSON(cmd.OutOrStdout(), record)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s v%s\n", record.ModelName, record.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&artifactPath, "file", "f", "", "Path to the artifact file (required)")
	cmd.Flags().StringVarP(&modelType, "type", "t", "", "Model type label")
	cmd.Flags().StringVar(&description, "description", "", "Description of this version")
	cmd.Flags().StringVar(&createdBy, "created-by", "", "Actor registering the version")
	cmd.Flags().StringVar(&bump, "bump", "patch", "Version bump kind: major, minor or patch")
	cmd.Flags().StringArrayVar(&metrics, "metric", nil, "Metric as name=value, repeatable")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag label, repeatable")
	cmd.MarkFlagRequired("file")

	return cmd
}

func promoteCmd(uc **usecase.RegistryUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <model> <version>",
		Short: "Promote a version to production",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*uc).Promote(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s is now production\n", args[0], args[1])
			return nil
		},
	}
}

func deprecateCmd(uc **usecase.RegistryUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "deprecate <model> <version>",
		Short: "Mark a version as deprecated",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*uc).Deprecate(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s deprecated\n", args[0], args[1])
			return nil
		},
	}
}

func archiveCmd(uc **usecase.RegistryUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <model> <version>",
		Short: "Mark a version as archived",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*uc).Archive(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s archived\n", args[0], args[1])
			return nil
		},
	}
}

func listCmd(uc **usecase.RegistryUseCase, jsonOutput *bool) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list [model]",
		Short: "List registered versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ListFilter{Status: status}
			if len(args) == 1 {
				filter.ModelName = args[0]
			}

			records, err := (*uc).List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return printJSON(cmd.OutOrStdout(), records)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tVERSION\tSTATUS\tPRODUCTION\tCREATED")
			for _, rec := range records {
				prod := ""
				if rec.IsProduction {
					prod = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ModelName, rec.Version, rec.Status, prod,
					rec.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: active, deprecated or archived")
	return cmd
}

func lineageCmd(uc **usecase.RegistryUseCase) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "lineage <model>",
		Short: "Export a model's audit lineage report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := (*uc).ExportLineage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" {
				return printJSON(cmd.OutOrStdout(), report)
			}

			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write lineage report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lineage exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func compareCmd(uc **usecase.RegistryUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <model> <v1> <v2>",
		Short: "Compare the metrics of two versions",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison, err := (*uc).CompareVersions(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), comparison)
		},
	}
}

func cleanupCmd(uc **usecase.RegistryUseCase, jsonOutput *bool) *cobra.Command {
	var (
		keepLast       int
		keepProduction bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup <model>",
		Short: "Remove old versions and their artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := (*uc).Cleanup(cmd.Context(), args[0], keepLast, keepProduction)
			if err != nil {
				return err
			}

			if *jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d version(s)\n", result.Removed)
			for _, f := range result.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped v%s: %s\n", f.Version, f.Reason)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&keepLast, "keep-last", 5, "Number of recent versions to keep")
	cmd.Flags().BoolVar(&keepProduction, "keep-production", true, "Always keep the production version")
	return cmd
}

func summaryCmd(uc **usecase.RegistryUseCase, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show a digest of all registered models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := (*uc).Summary(cmd.Context())
			if err != nil {
				return err
			}

			if *jsonOutput {
				return printJSON(cmd.OutOrStdout(), summary)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "models: %d, versions: %d\n", summary.TotalModels, summary.TotalVersions)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tVERSIONS\tLATEST\tPRODUCTION")
			for _, m := range summary.Models {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.Name, m.VersionCount, m.LatestVersion, m.CurrentProduction)
			}
			return w.Flush()
		},
	}
}

func parseMetrics(pairs []string) (map[string]float64, error) {
	metrics := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid metric %q, expected name=value", pair)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid metric value in %q: %w", pair, err)
		}
		metrics[name] = f
	}
	return metrics, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
