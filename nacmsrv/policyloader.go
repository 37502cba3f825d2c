package nacmsrv

import (
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v7"
	log "github.com/golang/glog"

	"github.com/sonic-net/sonic-nacm/nacm"
)

// policyField is the redis hash field the whole NACM policy document
// lives under, JSON-encoded, mirroring how writeCredentialsMetadataToDB
// stores each of its fields under a single CREDENTIALS hash key.
const policyField = "policy"

// NewRedisClient opens a connection to the CONFIG_DB-style instance
// holding the NACM policy, the same *redis.Client construction
// getRedisDBClient in gnsi_util.go performs by hand (redis.Options,
// then a Ping to fail fast on a dead instance).
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Network:     "tcp",
		Addr:        cfg.RedisAddr,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisTimeout,
	})
	if _, err := client.Ping().Result(); err != nil {
		return nil, fmt.Errorf("nacmsrv: redis ping %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

// policyDoc is the wire shape of the JSON policy document stored in
// redis: a direct JSON rendering of the ietf-netconf-acm data model
// spec.md's Policy type mirrors.
type policyDoc struct {
	EnableNACM           bool         `json:"enable-nacm"`
	ReadDefault          string       `json:"read-default,omitempty"`
	WriteDefault         string       `json:"write-default,omitempty"`
	ExecDefault          string       `json:"exec-default,omitempty"`
	EnableExternalGroups bool         `json:"enable-external-groups"`
	RecoveryUser         string       `json:"recovery-user"`
	Groups               []groupDoc   `json:"groups"`
	RuleLists            []ruleListDoc `json:"rule-lists"`
}

type groupDoc struct {
	Name  string   `json:"name"`
	Users []string `json:"users"`
}

type ruleListDoc struct {
	Name   string    `json:"name"`
	Groups []string  `json:"groups"`
	Rules  []ruleDoc `json:"rules"`
}

type ruleDoc struct {
	Name             string `json:"name"`
	ModuleName       string `json:"module-name"`
	RPCName          string `json:"rpc-name,omitempty"`
	Path             string `json:"path,omitempty"`
	NotificationName string `json:"notification-name,omitempty"`
	AccessOperations string `json:"access-operations"`
	Action           string `json:"action"`
}

// LoadPolicy fetches and decodes the NACM policy document from key in
// client, translating redis.Nil into a descriptive error the way
// getRedisDBClient's callers treat a missing CREDENTIALS entry.
func LoadPolicy(client *redis.Client, key string) (*nacm.Policy, error) {
	raw, err := client.HGet(key, policyField).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("nacmsrv: no policy found at %s/%s", key, policyField)
	}
	if err != nil {
		return nil, fmt.Errorf("nacmsrv: fetch policy %s/%s: %w", key, policyField, err)
	}
	doc, err := decodePolicyJSON([]byte(raw))
	if err != nil {
		return nil, err
	}
	log.V(2).Infof("nacmsrv: loaded policy %s: %d group(s), %d rule-list(s)", key, len(doc.Groups), len(doc.RuleLists))
	return doc, nil
}

func decodePolicyJSON(raw []byte) (*nacm.Policy, error) {
	var doc policyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("nacmsrv: decode policy: %w", err)
	}
	return decodePolicy(doc)
}

func decodePolicy(doc policyDoc) (*nacm.Policy, error) {
	p := &nacm.Policy{
		EnableNACM:           doc.EnableNACM,
		EnableExternalGroups: doc.EnableExternalGroups,
		RecoveryUser:         doc.RecoveryUser,
	}
	var err error
	if p.ReadDefault, err = optionalAction(doc.ReadDefault); err != nil {
		return nil, err
	}
	if p.WriteDefault, err = optionalAction(doc.WriteDefault); err != nil {
		return nil, err
	}
	if p.ExecDefault, err = optionalAction(doc.ExecDefault); err != nil {
		return nil, err
	}
	for _, g := range doc.Groups {
		p.Groups = append(p.Groups, &nacm.Group{Name: g.Name, Users: g.Users})
	}
	for _, rl := range doc.RuleLists {
		decoded := &nacm.RuleList{Name: rl.Name, Groups: rl.Groups}
		for _, r := range rl.Rules {
			rule, err := decodeRule(r)
			if err != nil {
				return nil, err
			}
			decoded.Rules = append(decoded.Rules, rule)
		}
		p.RuleLists = append(p.RuleLists, decoded)
	}
	return p, nil
}

func decodeRule(r ruleDoc) (*nacm.Rule, error) {
	action, ok := nacm.ParseAction(r.Action)
	if !ok {
		return nil, fmt.Errorf("nacmsrv: rule %q: invalid action %q", r.Name, r.Action)
	}
	rule := &nacm.Rule{
		Name:             r.Name,
		ModuleName:       r.ModuleName,
		RPCName:          r.RPCName,
		Path:             r.Path,
		NotificationName: r.NotificationName,
		AccessOperations: r.AccessOperations,
		Action:           action,
	}
	switch {
	case r.RPCName != "":
		rule.Type = nacm.RuleTypeRPC
	case r.Path != "":
		rule.Type = nacm.RuleTypePath
	case r.NotificationName != "":
		rule.Type = nacm.RuleTypeNotification
	default:
		rule.Type = nacm.RuleTypeAny
	}
	return rule, nil
}

func optionalAction(s string) (*nacm.Action, error) {
	if s == "" {
		return nil, nil
	}
	a, ok := nacm.ParseAction(s)
	if !ok {
		return nil, fmt.Errorf("nacmsrv: invalid default action %q", s)
	}
	return &a, nil
}
