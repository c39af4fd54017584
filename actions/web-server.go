package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/stats"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// WebServerConfig drives the HTTP trigger mode, where schedulers launch
// batches with a POST instead of invoking the CLI.
type WebServerConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Scheme           string `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP `errorTxt:"address" mandatory:"no"`
	Port             int    `errorTxt:"port" mandatory:"no"`
	DataDir          string
	SourceConnection string `errorTxt:"source S3 connection name" mandatory:"yes"`
	TargetConnection string `errorTxt:"target warehouse connection name" mandatory:"yes"`
	PromoteCommand   string
	LoadCommand      string
	PolicyRule       string
	StrictGate       bool
	Connections      interface {
		ConnectionHandler
		ConnectionLoader
	}
	StackDumpOnPanic bool
}

// batchInfo tracks one launched batch attempt.
type batchInfo struct {
	RunDate    string
	AttemptId  string
	Status     string // running, complete or failed.
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      stats.StatsFetcher
}

// safeMapBatchInfo guards the registry of launched batches.
type safeMapBatchInfo struct {
	sync.RWMutex
	internal map[string]*batchInfo // keyed by run date.
}

func newSafeMapBatchInfo() *safeMapBatchInfo {
	return &safeMapBatchInfo{internal: make(map[string]*batchInfo)}
}

func (m *safeMapBatchInfo) load(runDate string) (*batchInfo, bool) {
	m.RLock()
	defer m.RUnlock()
	b, ok := m.internal[runDate]
	return b, ok
}

// launch registers b for the run date unless an attempt is already running.
// The check and the store happen under one lock so two concurrent launch
// requests for the same date can never both succeed.
func (m *safeMapBatchInfo) launch(runDate string, b *batchInfo) (*batchInfo, bool) {
	m.Lock()
	defer m.Unlock()
	if cur, ok := m.internal[runDate]; ok && cur.Status == "running" { // if an attempt is already in flight...
		return cur, false
	}
	m.internal[runDate] = b
	return b, true
}

func RunWebServer(web *WebServerConfig) error {
	// Setup logging.
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	log := logger.NewLogger("batchgate", web.LogLevel, web.StackDumpOnPanic)
	// Check if we have valid input params.
	err := helper.ValidateStructIsPopulated(web)
	if err != nil {
		return err
	}
	// Start the web server.
	srv, chanStopServer := runServer(log, web)
	// Block & wait for completion.
	return waitForServer(log, srv, chanStopServer)
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
func runServer(log logger.Logger, web *WebServerConfig) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	allBatchInfo := newSafeMapBatchInfo()
	// Create routes.
	r := mux.NewRouter()
	r.HandleFunc("/stop", GetHandlerStopServer(log, chanStopServer))
	r.Path("/health").HandlerFunc(GetHandlerHealth(log))
	r.Path("/batches").HandlerFunc(GetHandlerBatchList(log, allBatchInfo))
	r.Path("/batches/{runDate}/run").Methods(http.MethodPost).HandlerFunc(GetHandlerBatchLaunch(log, allBatchInfo, web))
	r.Path("/batches/{runDate}/status").HandlerFunc(GetHandlerBatchStatus(log, allBatchInfo))
	r.Path("/batches/{runDate}/stats").HandlerFunc(GetHandlerBatchStats(log, allBatchInfo))
	// Configure HTTP server.
	srv := &http.Server{ // Good practice to set timeouts to avoid Slowloris attacks.
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r, // supply our instance of gorilla/mux.
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Block & wait for shutdown signals.
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+\) will not be caught.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt) // request signals be sent to chanOS.
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	fmt.Println() // print new line char for clean looking CLI.
	log.Info("Shutting down web server...")
	// Shutdown web server now. Launched batches run to completion; they hold
	// their own log handles.
	wait := time.Second * 15
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	return srv.Shutdown(ctx)
}
