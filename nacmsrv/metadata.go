package nacmsrv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/golang/glog"
)

// backupExt is appended to a file's own name to name its checkpoint
// copy, the same convention gnsi_authz.go's backupExt constant uses
// for its policy file.
const backupExt = ".bak"

// Metadata is the freshness record persisted alongside the policy
// document: a caller-supplied version string and the load time, the
// same two fields AuthzMetadata (gnsi_authz.go) tracks for its own
// policy pushes, renamed for NACM's document instead of authz's.
type Metadata struct {
	PolicyVersion string `json:"nacm_policy_version"`
	LoadedAt      string `json:"nacm_loaded_at"`
}

// NewMetadata returns the metadata a NACM service starts with before
// any policy has ever been loaded.
func NewMetadata() *Metadata {
	return &Metadata{PolicyVersion: "unknown", LoadedAt: "0"}
}

// Load reads previously persisted freshness metadata from path. A
// missing file is returned as an error and leaves m unchanged; New
// logs that error and continues from NewMetadata's defaults, mirroring
// loadAuthzFreshness's behavior of logging and continuing when
// gnsi_authz.go's metadata file is absent on first boot.
func (m *Metadata) Load(path string) error {
	log.V(2).Infof("nacmsrv: loading policy metadata from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, m)
}

// Save persists m to path, writing through a temp buffer the way
// saveAuthzFileFreshess does, and removing a partial file if the write
// itself fails.
func (m *Metadata) Save(path string) error {
	log.V(2).Infof("nacmsrv: saving policy metadata to %s", path)
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(*m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		if e := os.Remove(path); e != nil {
			return fmt.Errorf("write %s failed: %w; cleanup failed: %v", path, err, e)
		}
		return err
	}
	return nil
}

// Checkpoint backs path up to path+backupExt before an in-place
// overwrite, the same checkpoint-then-commit shape
// checkpointAuthzFile/commitAuthzFileChanges use around the authz
// policy file.
func Checkpoint(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.WriteFile(path+backupExt, data, 0644)
}
