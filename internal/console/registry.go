package console

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/metrics"
	"github.com/ridloal/retail-admin-console/internal/platform/scheduler"
)

const (
	// SessionHeader carries the workspace id returned by login.
	SessionHeader = "X-Console-Session"
	workspaceKey  = "console.workspace"
)

type Factory func(id string) *Workspace

// Registry owns the open workspaces. Each authenticated workspace gets its
// own low-stock polling job, removed when the workspace closes.
type Registry struct {
	newWorkspace Factory
	sched        *scheduler.Scheduler
	metrics      *metrics.ConsoleMetrics
	alertSpec    string
	idleTTL      time.Duration

	mu    sync.RWMutex
	items map[string]*Workspace
}

func NewRegistry(factory Factory, sched *scheduler.Scheduler, m *metrics.ConsoleMetrics, alertSpec string, idleTTL time.Duration) *Registry {
	return &Registry{
		newWorkspace: factory,
		sched:        sched,
		metrics:      m,
		alertSpec:    alertSpec,
		idleTTL:      idleTTL,
		items:        map[string]*Workspace{},
	}
}

// Open creates and registers a logged-out workspace under a new id.
func (r *Registry) Open() *Workspace {
	ws := r.newWorkspace(uuid.NewString())
	r.mu.Lock()
	r.items[ws.ID] = ws
	r.mu.Unlock()
	if r.metrics != nil {
		r.metrics.Workspaces.Inc()
	}
	return ws
}

// Anonymous returns an unregistered workspace for calls that need no session
// (registration, password reset).
func (r *Registry) Anonymous() *Workspace {
	return r.newWorkspace("")
}

// Activate starts background work for a workspace that just logged in.
func (r *Registry) Activate(ctx context.Context, ws *Workspace) {
	if err := ws.Load(ctx); err != nil {
		logger.Warn("Workspace %s: initial catalog load failed: %v", ws.ID, err)
	}
	ws.Alerts.Poll(ctx)
	if r.sched == nil {
		return
	}
	if err := r.sched.Add(alertJob(ws.ID), r.alertSpec, ws.Alerts.Poll); err != nil {
		logger.Error("Workspace "+ws.ID+": could not schedule low-stock polling", err)
	}
}

func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.items[id]
	return ws, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	ws, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	ws.Close()
	if r.sched != nil {
		r.sched.Remove(alertJob(id))
	}
	if r.metrics != nil {
		r.metrics.Workspaces.Dec()
	}
	logger.Info("Workspace closed: " + id)
}

// Sweep closes workspaces idle for longer than the TTL or whose token has
// expired, and returns how many it closed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.RLock()
	var stale []string
	for id, ws := range r.items {
		if now.Sub(ws.LastSeen()) > r.idleTTL || (ws.Session.Authenticated() && ws.Session.Expired(now)) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Close(id)
	}
	return len(stale)
}

// SweepJob is the scheduler form of Sweep.
func (r *Registry) SweepJob(ctx context.Context) {
	if n := r.Sweep(time.Now()); n > 0 {
		logger.Info("Workspace sweep closed %d idle sessions", n)
	}
}

// Middleware resolves the workspace of the request and rejects requests
// without a logged-in one.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, ok := r.Get(c.GetHeader(SessionHeader))
		if !ok || !ws.Session.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session required, log in first"})
			return
		}
		ws.Touch(time.Now())
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// FromContext returns the workspace set by Middleware.
func FromContext(c *gin.Context) *Workspace {
	if v, ok := c.Get(workspaceKey); ok {
		if ws, ok := v.(*Workspace); ok {
			return ws
		}
	}
	return nil
}

func alertJob(id string) string {
	return "alerts:" + id
}
