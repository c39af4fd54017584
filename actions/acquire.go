package actions

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cevaris/ordered_map"
	"github.com/dwops/batchgate/artifact"
	"github.com/dwops/batchgate/aws/s3"
	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/checksum"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/stats"
	"github.com/pkg/errors"
)

// AcquireConfig drives the pull of one batch's artifacts from the remote
// source endpoint into the landing directory.
type AcquireConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	RunDate          string
	DataDir          string
	SourceConnection string `errorTxt:"source S3 connection name" mandatory:"yes"`
	Connections      ConnectionHandler
	// S3ClientFactory may be replaced by tests to avoid real AWS sessions.
	S3ClientFactory func(bucket *s3.AwsS3Bucket) (s3.BasicClient, error)
	// Watcher, when set, receives the artifact and row counts of the pull.
	Watcher *stats.StageWatcher
}

// defaultArtifactRegistry returns the fixed set of artifacts expected from the
// source per batch, keyed by logical name in acquisition order.
func defaultArtifactRegistry() *ordered_map.OrderedMap {
	om := ordered_map.NewOrderedMap()
	om.Set("customer", "customer_data.csv")
	om.Set("product", "product_dim.csv")
	om.Set("sales", "sales_fact.csv")
	return om
}

func defaultS3ClientFactory(bucket *s3.AwsS3Bucket) (s3.BasicClient, error) {
	return s3.NewBasicClient(bucket.Name, bucket.Region, bucket.Prefix), nil
}

// RunAcquire pulls every registered artifact for the run date into
// landing/<run_date>/ and appends an MD5 audit line per artifact to the
// per-date checksum log. A registered artifact missing from the source is
// fatal since downstream loads require the full set.
func RunAcquire(cfg *AcquireConfig) error {
	log := logger.NewLogger("batchgate", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := batch.ParseRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	layout := batch.NewLayout(cfg.DataDir)
	// Resolve the source bucket.
	conn, err := cfg.Connections.GetConnectionDetails(cfg.SourceConnection)
	if err != nil {
		return err
	}
	if conn.Type != constants.ConnectionTypeS3 {
		return fmt.Errorf("connection %q must be of type S3, got %q", cfg.SourceConnection, conn.Type)
	}
	bucket := s3.NewAwsBucket(conn)
	factory := cfg.S3ClientFactory
	if factory == nil {
		factory = defaultS3ClientFactory
	}
	client, err := factory(bucket)
	if err != nil {
		return errors.Wrap(err, "error creating S3 client")
	}
	landingDir := layout.LandingDir(runDate)
	if err := os.MkdirAll(landingDir, 0755); err != nil {
		return fmt.Errorf("error creating landing directory %v: %v", landingDir, err)
	}
	auditLog := checksum.NewLog(layout.ChecksumLogPath(runDate))
	log.Info("Acquiring batch ", runDate.String(), " from s3://", bucket.Name, "/", strings.Trim(bucket.Prefix, "/"))
	registry := defaultArtifactRegistry()
	iter := registry.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() { // for each registered artifact...
		name := kv.Key.(string)
		fileName := kv.Value.(string)
		key := fmt.Sprintf("%v/%v", runDate.String(), fileName)
		data, err := client.Get(key)
		if err != nil {
			if err == s3.ErrKeyNotFound { // if the source never produced this artifact...
				return fmt.Errorf("missing required remote artifact %v (key %v) for run date %v", fileName, key, runDate.String())
			}
			return errors.Wrapf(err, "transfer failure fetching %v", key)
		}
		localPath := filepath.Join(landingDir, fileName)
		if err := ioutil.WriteFile(localPath, data, 0644); err != nil {
			return fmt.Errorf("error writing landed artifact %v: %v", localPath, err)
		}
		rows, err := artifact.DataRowCount(localPath)
		if err != nil {
			return err
		}
		md5, err := artifact.Md5Checksum(localPath)
		if err != nil {
			return err
		}
		if err := auditLog.Append(checksum.Entry{
			Stamp:    time.Now(),
			RunDate:  runDate.String(),
			Artifact: fileName,
			Md5:      md5,
		}); err != nil {
			return err
		}
		if cfg.Watcher != nil { // if the caller is observing stage progress...
			cfg.Watcher.AddArtifacts(1)
			cfg.Watcher.AddRows(rows)
		}
		log.Info(fmt.Sprintf("%v: %v | rows=%v | md5=%v", name, fileName, rows, md5))
	}
	log.Info("Acquisition complete for batch ", runDate.String())
	return nil
}
