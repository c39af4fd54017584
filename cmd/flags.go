package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dwops/batchgate/actions"
	"github.com/dwops/batchgate/config"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"run-date": cliFlag{name: "run-date", shortHand: "d",
		desc: "The batch run date in YYYYMMDD format. All landing, stage and log files are \n" +
			"partitioned by this value. Leave blank to use today's date"},
	"data-dir": cliFlag{name: "data-dir", shortHand: "D",
		desc: "Base directory holding the landing/, stage/ and logs/ trees \n" +
			"(defaults to the current directory)"},
	"source-connection": cliFlag{name: "source-connection", shortHand: "s",
		desc: "Name of the configured S3 connection to pull vendor extracts from"},
	"target-connection": cliFlag{name: "target-connection", shortHand: "t",
		desc: "Name of the configured warehouse connection that the quality gate \n" +
			"runs its checks against"},
	"promote-cmd": cliFlag{name: "promote-cmd", shortHand: "p",
		desc: "Shell command that moves landed artifacts into the stage directory, \n" +
			"normally your ETL tool. The batch run date is exported as RUN_DATE. \n" +
			"Leave blank to skip the step"},
	"load-cmd": cliFlag{name: "load-cmd", shortHand: "L",
		desc: "Shell command that loads staged artifacts into the warehouse, \n" +
			"normally your ETL tool. The batch run date is exported as RUN_DATE. \n" +
			"Leave blank to skip the step"},
	"policy-rule": cliFlag{name: "policy-rule", shortHand: "r",
		desc: "JsonLogic rule evaluated against the quality check counts to decide \n" +
			"whether the gate passes. Leave blank for the default policy, which \n" +
			"requires every hard check to count zero"},
	"strict-gate": cliFlag{name: "strict-gate", shortHand: "g",
		desc: "Treat a failed quality policy as a fatal error so the process exits nonzero"},
	"parity-value": cliFlag{name: "parity-value", shortHand: "V",
		desc: "Legacy cube value for the trailing-year gross margin KPI. When supplied, \n" +
			"the warehouse is compared against it within the parity tolerance"},
	"parity-tolerance": cliFlag{name: "parity-tolerance", shortHand: "T",
		desc: "Relative tolerance for the parity comparison (defaults to 0.01)"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Specify \"yaml\" or \"json\" to print the result report to STDOUT"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"dry-run": cliFlag{name: "dry-run", shortHand: "n",
		desc: "Print the SQL query without executing it"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a header for SQL query results"},
	"connection-name": cliFlag{name: "connection-name", shortHand: "c",
		desc: "Connection name referred to by batch actions"},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Connect string to parse and store against the connection name"},
	"s3-dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "DSN of the form s3://<bucket name>/<prefix> (takes priority over individual flags)"},
	"s3-bucket": cliFlag{name: "s3-bucket", shortHand: "b",
		desc: "AWS S3 bucket name holding vendor extracts \n" +
			"(set AWS environment variables for access)"},
	"s3-prefix": cliFlag{name: "s3-prefix", shortHand: "P",
		desc: "AWS S3 bucket prefix"},
	"s3-region": cliFlag{name: "s3-region", shortHand: "R",
		desc: "AWS S3 bucket region"},
	"force-connection": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of existing connections"},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
	"customers": cliFlag{name: "customers", shortHand: "C",
		desc: "Number of demo customer dimension rows to generate"},
	"products": cliFlag{name: "products", shortHand: "N",
		desc: "Number of demo product dimension rows to generate"},
	"sales-rows": cliFlag{name: "sales-rows", shortHand: "S",
		desc: "Number of demo sales fact rows to generate"},
	"seed": cliFlag{name: "seed", shortHand: "e",
		desc: "Random seed for demo data so repeat runs produce identical batches"},
	"populate-stage": cliFlag{name: "populate-stage", shortHand: "G",
		desc: "Also copy the generated demo artifacts into stage/<run date>/ so \n" +
			"a demo reconciliation passes immediately"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// When NOT running in twelveFactorMode, the default value is fetched from config if it exists else the supplied
// defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get) // get the cliFlag details, with defaults taken from config or the supplied defaultValue
	desc := sw.desc + desc2                                 // create the full flag description for use below
	// Apply the flag.
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *bool:
		if twelveFactorMode {
			// Convert any string value into True.
			if sw.val != "" {
				*p = true
			} else {
				*p = false
			}
		} else {
			defaultBool := false
			if strings.ToLower(sw.val) == "true" {
				defaultBool = true
			}
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
			// Signal that the flag was set so defaults take effect.
			if defaultBool {
				mustSetFlag(c.Flags(), sw.name, "true")
			} else {
				mustSetFlag(c.Flags(), sw.name, "false")
			}
		}
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *int64:
		defaultInt, err := strconv.ParseInt(sw.val, 10, 64)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().Int64VarP(p, sw.name, sw.shortHand, defaultInt, desc)
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *float64:
		defaultFloat, err := strconv.ParseFloat(sw.val, 64)
		if err != nil {
			fmt.Printf("the value for flag %q must be a number: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultFloat
		} else {
			c.Flags().Float64VarP(p, sw.name, sw.shortHand, defaultFloat, desc)
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required && !twelveFactorMode { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode,
// else read the Main config file to find it.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if twelveFactorMode { // if we should read env vars...
		if err := helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val); err != nil { // if there's no value for the env var read into the switch val...
			// Apply the default.
			s.val = defaultValue
		}
	} else { // else check the config file or apply default...
		err := fnGetConfig(s.name, &s.val)
		var keyNotFound config.KeyNotFoundError
		if errors.As(err, &keyNotFound) || s.val == "" { // if there was no key found...
			// Apply the default.
			s.val = defaultValue
		}
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// getQueryFromArgsFunc concatenates all args into a string.
// Returns an error if there are no args.
func getQueryFromArgsFunc(src *actions.ConnectionObject, query *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 { // if we are missing arguments...
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("please supply a connection and a SQL query")
			}
		}
		*src = actions.ConnectionObject{ConnectionObject: args[0]}
		// Build a new []string for the SQL; skip the connection in arg[0].
		q := make([]string, 0)
		for idx := 1; idx < len(args); idx++ { // for each piece of SQL...
			q = append(q, args[idx])
		}
		*query = strings.Join(q, " ")
		return nil
	}
}
