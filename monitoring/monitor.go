// Package monitoring turns a running batch into a small HTTP server that
// reports progress, resource usage, and the status of each runner.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A StatusReporter can describe its current state. The returned value must be
// a copy that the caller may read without synchronization.
type StatusReporter interface {
	Status() any
}

// Monitor can turn a simulation batch into a server and allows external
// monitoring of the batch.
type Monitor struct {
	portNumber int
	server     *http.Server

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	runnersLock sync.Mutex
	runners     map[string]StatusReporter
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		runners: make(map[string]StatusReporter),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRunner registers a runner to be monitored under a unique name.
func (m *Monitor) RegisterRunner(name string, r StatusReporter) {
	m.runnersLock.Lock()
	defer m.runnersLock.Unlock()

	if _, ok := m.runners[name]; ok {
		panic("runner " + name + " already registered")
	}

	m.runners[name] = r
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := NewProgressBar(name, total)

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// NewProgressBar creates a progress bar that is not shown by any monitor.
func NewProgressBar(name string, total uint64) *ProgressBar {
	return &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the HTTP handler that serves the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/runners", m.listRunners)
	r.HandleFunc("/api/runner/{name}", m.runnerDetails)
	r.HandleFunc("/", m.index)

	return r
}

// StartServer starts the monitor as a web server and returns the URL it
// listens on.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "monitoring server stopped: %v\n", err)
		}
	}()

	return url, nil
}

// StopServer shuts the server down if it is running.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, []string{
		"/api/progress",
		"/api/resource",
		"/api/profile",
		"/api/runners",
		"/api/runner/{name}",
	})
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	for _, b := range m.progressBars {
		b.Lock()
	}

	bytes, err := json.Marshal(m.progressBars)

	for _, b := range m.progressBars {
		b.Unlock()
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(bytes)
}

func (m *Monitor) listRunners(w http.ResponseWriter, _ *http.Request) {
	m.runnersLock.Lock()
	names := make([]string, 0, len(m.runners))
	for name := range m.runners {
		names = append(names, name)
	}
	m.runnersLock.Unlock()

	sort.Strings(names)

	writeJSON(w, names)
}

func (m *Monitor) runnerDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	m.runnersLock.Lock()
	runner, ok := m.runners[name]
	m.runnersLock.Unlock()

	if !ok {
		http.Error(w, "runner "+name+" not found", http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(runner.Status())
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}
