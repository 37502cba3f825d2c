package nacmsrv

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v7"
	log "github.com/golang/glog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sonic-net/sonic-nacm/nacm"
	"github.com/sonic-net/sonic-nacm/nacmerr"
	"github.com/sonic-net/sonic-nacm/xmltree"
	"github.com/sonic-net/sonic-nacm/yangschema"
)

// Server assembles the nacm engine and its reference collaborators
// into a long-running, hot-reloadable access-control checker, the
// NACM counterpart to gnmi_server's GNSIAuthzServer: a policy
// document fetched from redis, freshness metadata persisted to disk,
// and a file-watch-driven reload loop borrowed from
// sonic-gnmi-standalone's certificate manager.
type Server struct {
	cfg    *Config
	redis  *redis.Client
	schema *yangschema.Registry
	tree   xmltree.Tree

	mu     sync.RWMutex
	policy *nacm.Policy
	meta   *Metadata

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	watching int32
}

// New connects to redis, loads the YANG schema registry, loads the
// current policy and its freshness metadata, and returns a ready
// Server. It does not start file-watch-driven reloading; call
// WatchMetaFile for that.
func New(cfg *Config) (*Server, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	schema, err := yangschema.Load(cfg.YangDir)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("nacmsrv: load schema: %w", err)
	}
	srv := &Server{
		cfg:    cfg,
		redis:  client,
		schema: schema,
		meta:   NewMetadata(),
		stopCh: make(chan struct{}),
	}
	if err := srv.meta.Load(cfg.MetaFile); err != nil {
		log.V(1).Infof("nacmsrv: no existing policy metadata at %s: %v", cfg.MetaFile, err)
	}
	if err := srv.Reload(); err != nil {
		client.Close()
		return nil, err
	}
	return srv, nil
}

// Reload re-fetches the policy document from redis and swaps it in
// atomically, following gnsi_authz.go's checkpoint-then-commit
// discipline: a failed fetch leaves the previously loaded policy (and
// its metadata) untouched rather than leaving the server without one.
func (s *Server) Reload() error {
	policy, err := LoadPolicy(s.redis, s.cfg.PolicyKey)
	if err != nil {
		return err
	}
	if s.cfg.RecoveryUserOverride != "" {
		policy.RecoveryUser = s.cfg.RecoveryUserOverride
	}
	s.mu.Lock()
	s.policy = policy
	s.meta.LoadedAt = fmt.Sprintf("%d", time.Now().Unix())
	s.mu.Unlock()
	if err := Checkpoint(s.cfg.MetaFile); err != nil {
		log.V(1).Infof("nacmsrv: checkpoint metadata file: %v", err)
	}
	if err := s.meta.Save(s.cfg.MetaFile); err != nil {
		log.V(1).Infof("nacmsrv: save metadata: %v", err)
	}
	log.V(0).Infof("nacmsrv: policy reloaded from %s", s.cfg.PolicyKey)
	return nil
}

// Policy returns the currently loaded policy. Safe for concurrent use
// with Reload.
func (s *Server) Policy() *nacm.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// WatchMetaFile starts a background goroutine that reloads the policy
// whenever cfg.MetaFile changes on disk, the same
// fsnotify.NewWatcher/Add/select-loop shape sonic-gnmi-standalone's
// CertManager.StartMonitoring uses to watch a certificate directory.
func (s *Server) WatchMetaFile() error {
	if !atomic.CompareAndSwapInt32(&s.watching, 0, 1) {
		return fmt.Errorf("nacmsrv: already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		atomic.StoreInt32(&s.watching, 0)
		return fmt.Errorf("nacmsrv: create watcher: %w", err)
	}
	if err := w.Add(s.cfg.MetaFile); err != nil {
		w.Close()
		atomic.StoreInt32(&s.watching, 0)
		return fmt.Errorf("nacmsrv: watch %s: %w", s.cfg.MetaFile, err)
	}
	s.watcher = w
	go s.watchLoop()
	log.V(1).Infof("nacmsrv: watching %s for policy changes", s.cfg.MetaFile)
	return nil
}

func (s *Server) watchLoop() {
	for {
		select {
		case <-s.stopCh:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if err := s.Reload(); err != nil {
					log.Errorf("nacmsrv: reload after %v: %v", event, err)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("nacmsrv: watcher error: %v", err)
		}
	}
}

// Close stops the watch loop, if running, and the redis client.
func (s *Server) Close() {
	if atomic.CompareAndSwapInt32(&s.watching, 1, 0) {
		close(s.stopCh)
		s.watcher.Close()
	}
	s.redis.Close()
}

// CheckRPC evaluates an RPC invocation against the current policy and
// returns a gRPC status error (nil if permitted).
func (s *Server) CheckRPC(user string, extGroups []string, module, operation string) error {
	v, err := nacm.EvaluateRPC(s.Policy(), nacmerr.RPCPayload(), user, extGroups, module, operation)
	if err != nil {
		return status.Errorf(codes.Internal, "nacm: %v", err)
	}
	return VerdictError(v)
}

// CheckWrite evaluates a write request's requested node against the
// current policy, pruning nothing itself (EvaluateWrite never mutates
// the tree) but reporting the first descendant denial found.
func (s *Server) CheckWrite(user string, extGroups []string, access string, requestedRoot, fullTree nacm.Node) error {
	v, err := nacm.EvaluateWrite(s.Policy(), s.tree, s.schema, nacmerr.DataPayload(), user, extGroups, access, requestedRoot, fullTree)
	if err != nil {
		return status.Errorf(codes.Internal, "nacm: %v", err)
	}
	return VerdictError(v)
}

// FilterRead prunes fullTree in place to the subset requestedRoots'
// user/extGroups may read, per the current policy.
func (s *Server) FilterRead(user string, extGroups []string, fullTree nacm.Node, requestedRoots []nacm.Node) error {
	if err := nacm.EvaluateRead(s.Policy(), s.tree, s.schema, user, extGroups, fullTree, requestedRoots); err != nil {
		return status.Errorf(codes.Internal, "nacm: %v", err)
	}
	return nil
}

// VerdictError translates a nacm.Verdict into a gRPC status error,
// the same codes.PermissionDenied translation gnsi_authz.go performs
// by hand at each of its own RPC handlers' deny points; nil verdicts
// become a nil error.
func VerdictError(v nacm.Verdict) error {
	if !v.Deny {
		return nil
	}
	if gs, ok := v.Err.(interface{ GRPCStatus() *status.Status }); ok {
		return gs.GRPCStatus().Err()
	}
	return status.Error(codes.PermissionDenied, v.Err.Error())
}
