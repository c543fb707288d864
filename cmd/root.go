// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cb-da/schoolmatch/matching"
)

var (
	scenarioPath string
	configPath   string
	lotteryPath  string
	logLevel     string
	runLottery   bool
	lotterySeed  int64
	lotteryMode  string
)

var rootCmd = &cobra.Command{
	Use:   "schoolmatch",
	Short: "School-choice deferred acceptance matching engine",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one match over a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario, err := LoadScenarioFile(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}

		graph, err := scenario.BuildGraph()
		if err != nil {
			logrus.Fatalf("building graph: %v", err)
		}

		cfg := matching.DefaultMatchConfig()
		if configPath != "" {
			loaded, err := matching.LoadMatchConfigFile(configPath)
			if err != nil {
				logrus.Fatalf("loading match config: %v", err)
			}
			cfg = *loaded
		}

		if runLottery {
			lotteryCfg := matching.LotteryConfig{Seed: lotterySeed, Mode: lotteryMode}
			if lotteryPath != "" {
				loaded, err := matching.LoadLotteryConfigFile(lotteryPath)
				if err != nil {
					logrus.Fatalf("loading lottery config: %v", err)
				}
				lotteryCfg = *loaded
			}
			if err := matching.RunLottery(graph, lotteryCfg); err != nil {
				logrus.Fatalf("running lottery: %v", err)
			}
		}

		rows, err := matching.Match(graph, cfg)
		if err != nil {
			logrus.Fatalf("matching: %v", err)
		}
		printAssignments(rows)
	},
}

func printAssignments(rows []matching.AssignmentRow) {
	fmt.Printf("%-12s %-6s %-12s %-12s %-8s %-10s\n", "applicant", "grade", "program", "institution", "quota", "score")
	for _, r := range rows {
		program, institution, quota, score := "-", "-", "-", "-"
		if r.ProgramID != nil {
			program = fmt.Sprintf("%d", *r.ProgramID)
		}
		if r.InstitutionID != nil {
			institution = fmt.Sprintf("%d", *r.InstitutionID)
		}
		if r.QuotaID != nil {
			quota = fmt.Sprintf("%d", *r.QuotaID)
		}
		if r.AssignedScore != nil {
			score = fmt.Sprintf("%.6f", *r.AssignedScore)
		}
		fmt.Printf("%-12d %-6d %-12s %-12s %-8s %-10s\n", r.ApplicantID, r.GradeID, program, institution, quota, score)
	}
}

// Execute runs the root command, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a JSON scenario file (required)")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML match config (defaults to every step enabled)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runLottery, "lottery", false, "run the lottery maker before matching")
	runCmd.Flags().StringVar(&lotteryPath, "lottery-config", "", "path to a YAML lottery config")
	runCmd.Flags().Int64Var(&lotterySeed, "lottery-seed", 0, "lottery seed, used when --lottery-config is not given")
	runCmd.Flags().StringVar(&lotteryMode, "lottery-mode", "quota", "lottery tie-break mode: single, quota, or program")
	runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
