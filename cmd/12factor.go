package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dwops/batchgate/actions"
	"github.com/dwops/batchgate/aws/s3"
	"github.com/dwops/batchgate/config"
	c "github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms"
	"github.com/dwops/batchgate/rdbms/shared"
	"github.com/xo/dburl"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set such that other init() functions that configure
// Cobra can do the job of processing all environment variables that would contain the equivalent of the CLI flag
// structures used by batchgate's actions.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
	}
}

const (
	envVarTwelveFactorMode      = c.EnvVarPrefix + "_" + "12FACTOR_MODE"
	envVarCommand               = c.EnvVarPrefix + "_" + "COMMAND"
	envVarSubcommand            = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarSourceType            = c.EnvVarPrefix + "_" + "SOURCE_TYPE" // s3|snowflake|etc
	envVarSourceS3Region        = c.EnvVarPrefix + "_" + "SOURCE_S3_REGION"
	envVarTargetType            = c.EnvVarPrefix + "_" + "TARGET_TYPE" // snowflake|sqlserver|netezza
	envVarTargetS3Region        = c.EnvVarPrefix + "_" + "TARGET_S3_REGION"
	envVarLogLevel              = c.EnvVarPrefix + "_" + "LOG_LEVEL"
	envVarStackDump             = c.EnvVarPrefix + "_" + "STACK_DUMP"
	defaultConnectionNameSource = "SOURCE"
	defaultConnectionNameTarget = "TARGET"
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var envVarTwelveFactorMode holds value "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:    "",
		envVarSubcommand: "",
		// Source
		envVarSourceType: "",
		helper.GetDsnEnvVarName(defaultConnectionNameSource): "",
		envVarSourceS3Region: "",
		// Target
		envVarTargetType: "",
		helper.GetDsnEnvVarName(defaultConnectionNameTarget): "",
		envVarTargetS3Region: "",
		// Misc
		envVarLogLevel:  "",
		envVarStackDump: "",
	}
	twelveFactorVarsSensitive = map[string]string{ // used to flag some of the above variables as being sensitive.
		helper.GetDsnEnvVarName(defaultConnectionNameSource): "",
		helper.GetDsnEnvVarName(defaultConnectionNameTarget): "",
	}
)

type twelveFactorAction struct {
	setupFunc  func(src string, tgt string)
	runnerFunc func() error
}

// twelveFactorActions maps "<BG_COMMAND>-<BG_SUBCOMMAND>" to the action to run.
// Schedulers set BG_SUBCOMMAND=batch alongside the command name.
var twelveFactorActions = map[string]twelveFactorAction{
	"run-batch": {
		setupFunc: func(src string, tgt string) {
			runCfg.SourceConnection = src
			runCfg.TargetConnection = tgt
		},
		runnerFunc: runPipelineAction,
	},
	"acquire-batch": {
		setupFunc: func(src string, tgt string) {
			acquireCfg.SourceConnection = src
		},
		runnerFunc: runAcquireAction,
	},
	"reconcile-batch": {
		setupFunc: func(src string, tgt string) {
			// Reconciliation only reads the local batch directories.
		},
		runnerFunc: runReconcileAction,
	},
	"dq-batch": {
		setupFunc: func(src string, tgt string) {
			dqCfg.TargetConnection = tgt
		},
		runnerFunc: runQualityGateAction,
	},
}

func getConnectionHandler() actions.ConnectionHandler {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionLoader() actions.ConnectionLoader {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionHandlerLoader() interface {
	actions.ConnectionHandler
	actions.ConnectionLoader
} {
	if twelveFactorMode {
		return &TwelveFactorConnections{}
	} else {
		return config.Connections
	}
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	if twelveFactorMode {
		fmt.Printf("Error: connections cannot be configured when %v is set (supply them using %v and %v instead)",
			envVarTwelveFactorMode,
			helper.GetDsnEnvVarName("<source-connection-name>"),
			helper.GetDsnEnvVarName("<target-connection-name>"))
		os.Exit(1)
	}
	return config.Connections
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "warn") // fetch logLevel from env as this is not a persistent flag, given that we wanted different logging defaults per cobra action.
	log := logger.NewLogger("batchgate", logLevel, stackDumpOnPanic)
	log.Info("Batchgate is running in 12 Factor mode...")
	// Save values for the required variables.
	for k := range twelveFactorVars { // for each env variable that we need...
		// Save it and log it.
		twelveFactorVars[k] = os.Getenv(k)
		_, sensitive := twelveFactorVarsSensitive[k]
		if !sensitive { // if the env variable does not contain sensitive values...
			// Log the value.
			log.Debug(k, "=", twelveFactorVars[k])
		} else { // else output obfuscated value...
			log.Debug(k, "=", "<obfuscated>")
		}
	}
	// Use command and subcommand to fetch the appropriate action.
	action := fmt.Sprintf("%v-%v", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	// Point the action at the well-known source and target connection names, as Cobra flags would have.
	a.setupFunc(defaultConnectionNameSource, defaultConnectionNameTarget)
	// Run the action.
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

type TwelveFactorConnections struct{} // implements interfaces in module, actions.

// GetConnectionType is for use when running in twelveFactorMode.
// It returns the value of envVarSourceType or envVarTargetType based on the supplied connectionName,
// where connectionName is expected to be either defaultConnectionNameSource or defaultConnectionNameTarget.
// It reads the global map twelveFactorVars[] which should have been setup using environment variables.
func (t *TwelveFactorConnections) GetConnectionType(connectionName string) (connectionType string, err error) {
	var ok bool
	if connectionName == defaultConnectionNameSource {
		connectionType, ok = twelveFactorVars[envVarSourceType]
		if !ok {
			err = fmt.Errorf("missing value for %v", envVarSourceType)
		}
	} else if connectionName == defaultConnectionNameTarget {
		connectionType, ok = twelveFactorVars[envVarTargetType]
		if !ok {
			err = fmt.Errorf("missing value for %v", envVarTargetType)
		}
	} else {
		err = fmt.Errorf("unexpected connectionName %v while running in twelveFactorMode", connectionName)
	}
	return
}

// GetConnectionDetails fills shared.ConnectionDetails with connection details fetched from env
// variables by using the connectionName to do the lookup, where the connectionName is either
// source or target. The connection type is picked up from the environment using the variable
// whose name matches constant envVarSourceType or envVarTargetType respectively.
func (t *TwelveFactorConnections) GetConnectionDetails(connectionName string) (*shared.ConnectionDetails, error) {
	var kDsn, vDsn, vType string
	var err error
	var connectionDetails shared.ConnectionDetails
	connectionDetails.Data = make(map[string]string)
	connectionDetails.LogicalName = connectionName
	// Fetch connection info from the environment based on the connection name.
	kDsn = helper.GetDsnEnvVarName(connectionName)
	if err = helper.ReadValueFromEnv(kDsn, &vDsn); err != nil { // if we cannot find the DSN in the environment...
		return nil, fmt.Errorf("unable to find value for %v in the environment: %w", kDsn, err)
	}
	// Fetch connection type from the environment based on the connection name.
	vType, err = t.GetConnectionType(connectionName)
	if err != nil {
		return nil, err
	}
	vType = strings.TrimSpace(strings.ToLower(vType)) // sanitise vType.
	connectionDetails.Type = vType
	// Parse the connection based on the type.
	switch vType { // switch on the connection type...
	case c.ConnectionTypeSnowflake: // if the user wants Snowflake connection details...
		_, err := rdbms.SnowflakeParseDSN(vDsn)
		if err != nil { // if the DSN was invalid...
			return nil, err
		}
		connectionDetails.Data = shared.DsnConnectionDetailsToMap(connectionDetails.Data, &shared.DsnConnectionDetails{Dsn: vDsn})
	case c.ConnectionTypeNetezza: // if the user wants Netezza connection details...
		n := shared.NetezzaConnectionDetails{Dsn: vDsn}
		if err := n.Parse(); err != nil { // if the DSN was invalid...
			return nil, err
		}
		connectionDetails.Data = shared.DsnConnectionDetailsToMap(connectionDetails.Data, &shared.DsnConnectionDetails{Dsn: vDsn})
	case c.ConnectionTypeS3: // if the user wants S3 bucket details...
		// Fetch bucket region from the environment.
		var vRegion string
		kRegion := helper.GetRegionEnvVarName(connectionName)
		if err := helper.ReadValueFromEnv(kRegion, &vRegion); err != nil { // if we cannot find the bucket region in the environment...
			fmt.Printf("bucket region not found in environment variable %v\n", kRegion)
		}
		cn, err := s3.ParseDSN(vDsn, vRegion)
		if err != nil { // if the DSN was invalid...
			return nil, err
		}
		connectionDetails.Data = s3.AwsBucketToMap(connectionDetails.Data, cn)
	default: // fallback to the DSN connection type.
		if rdbms.IsSupportedConnectionType(vType) { // if the scheme is supported...
			_, err := dburl.Parse(vDsn)
			if err != nil { // if the DSN was invalid...
				return nil, err
			}
			// Save the connection data.
			connectionDetails.Data = shared.DsnConnectionDetailsToMap(connectionDetails.Data, &shared.DsnConnectionDetails{Dsn: vDsn})
		} else {
			return nil, fmt.Errorf("unsupported connection type %q for DSN %q", vType, vDsn)
		}
	}
	return &connectionDetails, nil
}

// LoadConnection loads a connection DSN from the environment, parses it based on type set in
// the environment and returns the shared.ConnectionDetails.
// This mimics functionality whereby connection details are loaded from the connections config
// file, but reads info from the environment instead.
func (t *TwelveFactorConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d, err := t.GetConnectionDetails(connectionName)
	if err != nil {
		return shared.ConnectionDetails{}, err
	}
	return *d, nil
}
