// Package nacmsrv wires the nacm engine and its reference collaborators
// (xmltree, yangschema, nacmerr) into a running service: flag-based
// configuration, a redis-backed policy loader, freshness metadata, and
// a gRPC-facing verdict translator. It is grounded in how gnmi_server's
// GNSIAuthzServer assembles the same pieces around its own policy type.
package nacmsrv

import (
	"flag"
	"time"
)

// Config holds the command-line-configurable settings for a nacmsrv
// Server, mirroring the flag style gnmi_server.Config uses (flag.String
// et al. bound directly to struct fields rather than a parsed file).
type Config struct {
	// RedisAddr is the host:port of the CONFIG_DB instance holding the
	// NACM policy document, e.g. "127.0.0.1:6379".
	RedisAddr string
	// RedisDB is the redis logical DB number NACM policy is stored
	// under. SONiC's CONFIG_DB is conventionally DB 4.
	RedisDB int
	// RedisTimeout bounds the redis dial; command timeouts are left at
	// the client library's defaults.
	RedisTimeout time.Duration
	// PolicyKey is the redis hash key the policy document's single
	// JSON-encoded "policy" field is stored under.
	PolicyKey string
	// MetaFile persists the last-loaded policy's freshness metadata
	// across restarts, mirroring AuthzMetaFile in gnmi_server.
	MetaFile string
	// YangDir is the directory of .yang modules yangschema.Load reads.
	YangDir string
	// RecoveryUserOverride, if non-empty, overrides the policy
	// document's own recovery-user field -- useful for an operator
	// locked out by a broken policy push.
	RecoveryUserOverride string
}

// DefaultConfig returns the settings a freshly installed NACM service
// runs with on a SONiC switch.
func DefaultConfig() *Config {
	return &Config{
		RedisAddr:    "127.0.0.1:6379",
		RedisDB:      4,
		RedisTimeout: 5 * time.Second,
		PolicyKey:    "NACM_POLICY|global",
		MetaFile:     "/etc/sonic/nacm_meta.json",
		YangDir:      "/usr/models/yang",
	}
}

// RegisterFlags binds c's fields to fs, following the pattern
// gnmi_server's own Config uses: one flag per setting, defaulted from
// an already-populated Config rather than from flag.String's own
// zero-value default.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.RedisAddr, "nacm_redis_addr", c.RedisAddr, "address of the redis instance holding the NACM policy")
	fs.IntVar(&c.RedisDB, "nacm_redis_db", c.RedisDB, "redis logical DB number the NACM policy is stored in")
	fs.DurationVar(&c.RedisTimeout, "nacm_redis_timeout", c.RedisTimeout, "redis dial timeout")
	fs.StringVar(&c.PolicyKey, "nacm_policy_key", c.PolicyKey, "redis hash key the NACM policy document is stored under")
	fs.StringVar(&c.MetaFile, "nacm_meta_file", c.MetaFile, "path to the NACM policy freshness metadata file")
	fs.StringVar(&c.YangDir, "nacm_yang_dir", c.YangDir, "directory of YANG modules describing the managed data tree")
	fs.StringVar(&c.RecoveryUserOverride, "nacm_recovery_user", c.RecoveryUserOverride, "override the policy document's recovery-user")
}
