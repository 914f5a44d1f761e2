package model

import "time"

// AuditEntry records one admin mutation that passed through the
// gateway: who did it, what they touched, and the request detail that
// went upstream. Entries are append-only.
type AuditEntry struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty"`
	ActorID    string         `json:"actor_id" bson:"actor_id"`
	ActorRole  string         `json:"actor_role" bson:"actor_role"`
	Action     string         `json:"action" bson:"action"`
	Resource   string         `json:"resource" bson:"resource"`
	ResourceID string         `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Detail     map[string]any `json:"detail,omitempty" bson:"detail,omitempty"`
	RemoteAddr string         `json:"remote_addr,omitempty" bson:"remote_addr,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}
