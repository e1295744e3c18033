package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/expkit/expkit/internal/config"
	"github.com/expkit/expkit/internal/eval"
	"github.com/expkit/expkit/internal/logging"
	"github.com/expkit/expkit/internal/seed"
	"github.com/expkit/expkit/internal/store"
	"github.com/spf13/cobra"
)

// stepEnv is what every pipeline step receives: configuration, the run
// logger, the opened result store, and a deterministic RNG seeded from the
// step's name.
type stepEnv struct {
	cfg   *config.Config
	log   *slog.Logger
	store *store.Store
	rng   *rand.Rand
}

// pipelineStep is one named operation of the run pipeline. Projects using
// expkit as a boilerplate add their own entries to the steps table.
type pipelineStep struct {
	name string
	desc string
	fn   func(ctx context.Context, env *stepEnv) error
}

var pipelineSteps = []pipelineStep{
	{"selftest", "run a small synthetic parameter sweep", runSelftest},
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run pipeline steps",
		Long: `Run the selected pipeline steps in order.

Each step runs with a deterministic random seed derived from its name, a
handle on the result database, and the run logger. Step timings are
recorded in the result database. A failing step aborts the pipeline.

Console output follows -v/-q; the run log (run.log in the result
directory) always records at info level. The previous run's log is kept
as run.log.0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			all, _ := cmd.Flags().GetBool("all")
			clean, _ := cmd.Flags().GetBool("clean")

			// Clean before anything is created in the result directory.
			if clean {
				if err := os.RemoveAll(cfg.ResultDir); err != nil {
					return fmt.Errorf("cleaning result directory: %w", err)
				}
			}
			if err := os.MkdirAll(cfg.ResultDir, 0755); err != nil {
				return fmt.Errorf("creating result directory: %w", err)
			}

			runLog, err := logging.OpenRunLog(filepath.Join(cfg.ResultDir, "run.log"))
			if err != nil {
				return fmt.Errorf("opening run log: %w", err)
			}
			defer runLog.Close()
			log := logging.NewRunLogger(consoleLevel(cmd, cfg), cmd.ErrOrStderr(), runLog)

			ctx := cmd.Context()
			st, err := store.Open(cfg.ResultDir, cfg.Database.Schema, log)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Reset(ctx, clean); err != nil {
				return err
			}

			for _, step := range pipelineSteps {
				selected, _ := cmd.Flags().GetBool(step.name)
				if !selected && !all {
					continue
				}
				if err := executeStep(ctx, cmd, step, cfg, log, st); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "run all steps")
	cmd.Flags().Bool("clean", false, "delete previous results and drop the schema first")
	for _, step := range pipelineSteps {
		cmd.Flags().Bool(step.name, false, step.desc)
	}
	return cmd
}

func executeStep(ctx context.Context, cmd *cobra.Command, step pipelineStep, cfg *config.Config, log *slog.Logger, st *store.Store) error {
	fmt.Fprintf(cmd.OutOrStdout(), "%s Processing %s ...\n",
		time.Now().Format("2006-01-02 15:04:05"), step.name)

	env := &stepEnv{
		cfg:   cfg,
		log:   log.With("step", step.name),
		store: st,
		rng:   seed.Rand(step.name),
	}
	env.log.Debug("derived step seed", "seed", seed.ForOperation(step.name))

	started := time.Now()
	stepErr := step.fn(ctx, env)
	elapsed := time.Since(started)

	rec := store.StepRecord{
		Name:      step.name,
		StartedAt: started,
		Elapsed:   elapsed,
	}
	if stepErr != nil {
		rec.Status = store.StatusFailed
		rec.Error = stepErr.Error()
	}
	if _, err := st.RecordStep(ctx, rec); err != nil {
		env.log.Warn("failed to record step timing", "error", err)
	}

	if stepErr != nil {
		env.log.Error("processing step failed", "error", stepErr)
		return fmt.Errorf("processing step %s: %w", step.name, stepErr)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processing %s: %.1f seconds elapsed\n",
		step.name, elapsed.Seconds())
	return nil
}

// runSelftest sweeps a synthetic experiment over a small grid, exercising
// the whole stack end to end: engine, seeded RNG, logging, aggregation.
func runSelftest(ctx context.Context, env *stepEnv) error {
	experiment := func(params eval.Params, desc string) (any, error) {
		x := params["x"].(int)
		y := params["y"].(float64)
		noise := env.rng.Float64() * 1e-3
		return float64(x)*y + noise, nil
	}

	e := eval.New(experiment,
		eval.WithLogger(env.log),
		eval.WithAggregate(func(outcomes []eval.Outcome) error {
			best := outcomes[0]
			for _, o := range outcomes[1:] {
				if o.Result.(float64) > best.Result.(float64) {
					best = o
				}
			}
			env.log.Info("selftest sweep aggregated",
				"experiments", len(outcomes), "best", best.Selected.String())
			return nil
		}),
	)

	e.Parameter("x", 1)
	e.Parameter("y", 0.5)
	if err := e.Parameter("x").AddSearch("", true, 2, 3); err != nil {
		return err
	}
	if err := e.Parameter("y").AddSearch("", false, 0.25, 0.75); err != nil {
		return err
	}

	outcomes, err := e.RunFullGrid("x", "y")
	if err != nil {
		return err
	}
	env.log.Info("selftest complete", "outcomes", len(outcomes))
	return nil
}
