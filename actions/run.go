package actions

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/stats"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// stageMarks picks the per-stage log markers. Emojis render badly in files and
// scheduler captures, so they are reserved for interactive terminals.
func stageMarks() (failMark string, okMark string) {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return constants.EmojiBang, constants.EmojiCheck
	}
	return "[FAIL]", "[OK]"
}

// CommandStep runs an external ETL tool as a shell command. The run date is
// exported as RUN_DATE in the step's environment. An empty command means the
// step is skipped, for deployments where the tool is triggered elsewhere.
type CommandStep struct {
	StepName string
	Command  string
	log      logger.Logger
}

func NewCommandStep(log logger.Logger, name string, command string) *CommandStep {
	return &CommandStep{StepName: name, Command: command, log: log}
}

func (s *CommandStep) Name() string {
	return s.StepName
}

func (s *CommandStep) Execute(runDate string) error {
	if s.Command == "" { // if no tool is wired in for this step...
		s.log.Info("Skipping external step ", s.StepName, " - no command configured")
		return nil
	}
	s.log.Info("Executing external step ", s.StepName, ": ", s.Command)
	cmd := exec.Command("sh", "-c", s.Command)
	cmd.Env = append(os.Environ(), fmt.Sprintf("RUN_DATE=%v", runDate))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "external step %v failed", s.StepName)
	}
	return nil
}

// PipelineConfig drives one end-to-end batch attempt.
type PipelineConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	RunDate          string
	DataDir          string
	SourceConnection string `errorTxt:"source S3 connection name" mandatory:"yes"`
	TargetConnection string `errorTxt:"target warehouse connection name" mandatory:"yes"`
	Connections      interface {
		ConnectionHandler
		ConnectionLoader
	}
	PromoteStep ExternalStep // moves landing artifacts to stage; usually the ETL tool.
	LoadStep    ExternalStep // loads staged artifacts into the warehouse.
	PolicyRule  string
	StrictGate  bool
	Output      string
	// Stats may be supplied by callers that want to observe stage progress,
	// e.g. the web server's status endpoint; nil means a private instance.
	Stats *stats.RunStatsManager

	acquireFn   func() error // test seams; nil selects the real actions.
	reconcileFn func() error
	qualityFn   func() error
}

// RunPipeline sequences acquire, promote, reconcile, load and the quality
// gate, short-circuiting on the first fatal error. All log output of the
// attempt is teed to the per-date orchestration log.
func RunPipeline(cfg *PipelineConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := batch.ParseRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	layout := batch.NewLayout(cfg.DataDir)
	if err := os.MkdirAll(layout.LogsDir(), 0755); err != nil {
		return fmt.Errorf("error creating logs directory %v: %v", layout.LogsDir(), err)
	}
	attemptId := batch.NewAttemptID()
	log := logger.NewLoggerWithFields("batchgate", cfg.LogLevel, cfg.StackDumpOnPanic, map[string]interface{}{
		"runDate":   runDate.String(),
		"attemptId": attemptId,
	})
	f, err := log.TeeToFile(layout.OrchestrationLogPath(runDate))
	if err != nil {
		return fmt.Errorf("error opening orchestration log: %v", err)
	}
	defer func() {
		log.SetOutput(os.Stderr) // detach the per-date file before closing it.
		_ = f.Close()
	}()
	log.Info("Batch orchestration starting")
	runStats := cfg.Stats
	if runStats == nil {
		runStats = stats.NewRunStats(log)
	}
	defer runStats.LogStats()

	stages := []struct {
		name string
		fn   func(w *stats.StageWatcher) error
	}{
		{constants.StageAcquire, func(w *stats.StageWatcher) error {
			if cfg.acquireFn != nil {
				return cfg.acquireFn()
			}
			return RunAcquire(&AcquireConfig{
				LogLevel:         cfg.LogLevel,
				StackDumpOnPanic: cfg.StackDumpOnPanic,
				RunDate:          runDate.String(),
				DataDir:          cfg.DataDir,
				SourceConnection: cfg.SourceConnection,
				Connections:      cfg.Connections,
				Watcher:          w,
			})
		}},
		{constants.StagePromote, func(w *stats.StageWatcher) error {
			return cfg.PromoteStep.Execute(runDate.String())
		}},
		{constants.StageReconcile, func(w *stats.StageWatcher) error {
			if cfg.reconcileFn != nil {
				return cfg.reconcileFn()
			}
			return RunReconcile(&ReconcileConfig{
				LogLevel:         cfg.LogLevel,
				StackDumpOnPanic: cfg.StackDumpOnPanic,
				RunDate:          runDate.String(),
				DataDir:          cfg.DataDir,
				Watcher:          w,
			})
		}},
		{constants.StageLoad, func(w *stats.StageWatcher) error {
			return cfg.LoadStep.Execute(runDate.String())
		}},
		{constants.StageQuality, func(w *stats.StageWatcher) error {
			if cfg.qualityFn != nil {
				return cfg.qualityFn()
			}
			return RunQualityGate(&QualityGateConfig{
				LogLevel:         cfg.LogLevel,
				StackDumpOnPanic: cfg.StackDumpOnPanic,
				RunDate:          runDate.String(),
				TargetConnection: cfg.TargetConnection,
				Connections:      cfg.Connections,
				PolicyRule:       cfg.PolicyRule,
				Strict:           cfg.StrictGate,
				Output:           cfg.Output,
			})
		}},
	}
	failMark, okMark := stageMarks()
	for _, stage := range stages {
		w := runStats.AddStageWatcher(stage.name)
		w.Start()
		err := stage.fn(w)
		w.Stop()
		if err != nil { // short-circuit on the first fatal stage error...
			log.Error(failMark, " stage ", stage.name, " failed: ", err)
			return err
		}
		log.Info(okMark, " stage ", stage.name, " complete")
	}
	log.Info("Batch orchestration complete [DONE]")
	return nil
}
