package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/stats"
	"github.com/gorilla/mux"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseBatchList struct {
	Status    WebServerResponse `json:"status"`
	BatchList []BatchListItem   `json:"batches"`
}

type BatchListItem struct {
	RunDate     string `json:"runDate"`
	AttemptId   string `json:"attemptId"`
	BatchStatus string `json:"batchStatus"`
}

type ResponseBatchStatus struct {
	Status      WebServerResponse `json:"status"`
	Message     string            `json:"message"`
	RunDate     string            `json:"runDate"`
	AttemptId   string            `json:"attemptId,omitempty"`
	BatchStatus string            `json:"batchStatus,omitempty"`
	Error       string            `json:"error,omitempty"`
}

type ResponseBatchStats struct {
	Status       WebServerResponse `json:"status"`
	Message      string            `json:"message"`
	StatsSummary interface{}       `json:"batchStats"`
}

type ResponseBatchLaunch struct {
	Status    WebServerResponse `json:"status"`
	Message   string            `json:"message"`
	RunDate   string            `json:"runDate"`
	AttemptId string            `json:"attemptId,omitempty"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		chanStop <- "stop"
		log.Info("Stop signal sent")
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerBatchLaunch starts an orchestration attempt for the run date in
// the URL. A batch already running for that date is rejected so concurrent
// attempts never share landing or log files.
func GetHandlerBatchLaunch(log logger.Logger, allBatchInfo *safeMapBatchInfo, web *WebServerConfig) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		runDateStr := vars["runDate"]
		runDate, err := batch.ParseRunDate(runDateStr)
		if err != nil {
			logAndRespond(log, err, w,
				ResponseBatchLaunch{Status: Error, Message: err.Error(), RunDate: runDateStr})
			return
		}
		runStats := stats.NewRunStats(log)
		info := &batchInfo{
			RunDate:   runDate.String(),
			AttemptId: batch.NewAttemptID(),
			Status:    "running",
			StartedAt: time.Now(),
			Stats:     runStats,
		}
		if cur, ok := allBatchInfo.launch(runDate.String(), info); !ok { // if an attempt is already in flight...
			w.WriteHeader(http.StatusConflict)
			respond(log, w, ResponseBatchLaunch{Status: Error, Message: "batch already running", RunDate: runDate.String(), AttemptId: cur.AttemptId})
			return
		}
		go func() {
			err := RunPipeline(&PipelineConfig{
				LogLevel:         web.LogLevel,
				StackDumpOnPanic: web.StackDumpOnPanic,
				RunDate:          runDate.String(),
				DataDir:          web.DataDir,
				SourceConnection: web.SourceConnection,
				TargetConnection: web.TargetConnection,
				Connections:      web.Connections,
				PromoteStep:      NewCommandStep(log, "promote", web.PromoteCommand),
				LoadStep:         NewCommandStep(log, "load", web.LoadCommand),
				PolicyRule:       web.PolicyRule,
				StrictGate:       web.StrictGate,
				Stats:            runStats,
			})
			allBatchInfo.Lock()
			info.FinishedAt = time.Now()
			if err != nil {
				info.Status = "failed"
				info.Error = err.Error()
			} else {
				info.Status = "complete"
			}
			allBatchInfo.Unlock()
		}()
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseBatchLaunch{Status: Okay, Message: "batch launched", RunDate: runDate.String(), AttemptId: info.AttemptId})
	}
}

func GetHandlerBatchList(log logger.Logger, allBatchInfo *safeMapBatchInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		allBatchInfo.RLock()
		batches := make([]BatchListItem, 0, len(allBatchInfo.internal))
		for runDate, b := range allBatchInfo.internal { // for each launched batch...
			batches = append(batches, BatchListItem{
				RunDate:     runDate,
				AttemptId:   b.AttemptId,
				BatchStatus: b.Status,
			})
		}
		allBatchInfo.RUnlock()
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseBatchList{Status: Okay, BatchList: batches})
	}
}

func GetHandlerBatchStatus(log logger.Logger, allBatchInfo *safeMapBatchInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		runDate := vars["runDate"]
		b, ok := allBatchInfo.load(runDate)
		if ok { // if the batch exists...
			allBatchInfo.RLock()
			resp := ResponseBatchStatus{Status: Okay, RunDate: runDate, AttemptId: b.AttemptId, BatchStatus: b.Status, Error: b.Error}
			allBatchInfo.RUnlock()
			w.WriteHeader(http.StatusOK)
			respond(log, w, resp)
		} else { // else the batch was never launched...
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request for status of batch ", runDate, " that doesn't exist.")
			respond(log, w, ResponseBatchStatus{Status: Error, Message: fmt.Sprintf("batch %v does not exist", runDate), RunDate: runDate})
		}
	}
}

func GetHandlerBatchStats(log logger.Logger, allBatchInfo *safeMapBatchInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		runDate := vars["runDate"]
		b, ok := allBatchInfo.load(runDate)
		if ok { // if the batch exists...
			w.WriteHeader(http.StatusOK)
			respond(log, w, ResponseBatchStats{Status: Okay, Message: "", StatsSummary: b.Stats.GetStats()})
		} else { // else the batch was never launched...
			w.WriteHeader(http.StatusBadRequest)
			log.Info("HTTP request to fetch stats for batch ", runDate, " that doesn't exist.")
			respond(log, w, ResponseBatchStats{Status: Error, Message: fmt.Sprintf("batch %v does not exist", runDate)})
		}
	}
}

// logAndRespond will log the error, write a http.StatusBadRequest and r to w.
func logAndRespond(log logger.Logger, err error, w http.ResponseWriter, r interface{}) {
	log.Error(err)
	w.WriteHeader(http.StatusBadRequest)
	respond(log, w, r)
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprint(w, string(j))
	if err != nil {
		log.Panic(err)
	}
}
