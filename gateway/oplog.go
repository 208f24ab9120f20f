/*
Copyright 2025 The Zonegate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gateway

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/zonegate/zonegate/dnsmodel"
)

// OperationEntry describes one mutating facade call, applied or not. The
// account field carries the credential key, never secret material.
type OperationEntry struct {
	Account  string                `json:"account,omitempty"`
	Kind     dnsmodel.ProviderKind `json:"kind"`
	Op       string                `json:"op"`
	Zone     string                `json:"zone,omitempty"`
	RecordID string                `json:"recordId,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// OperationLog receives one entry per mutating facade call. Deployments
// that persist an audit trail implement this and install it with
// SetOperationLog; the default sink writes structured log lines.
type OperationLog interface {
	LogOperation(ctx context.Context, e OperationEntry)
}

// SetOperationLog replaces the audit sink. A nil sink disables the trail.
func (s *Service) SetOperationLog(sink OperationLog) {
	s.mu.Lock()
	s.oplog = sink
	s.mu.Unlock()
}

func (s *Service) operationLog() OperationLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.oplog
}

// logSink is the default OperationLog: one log line per write, info when
// the operation landed and warning when it did not.
type logSink struct{}

func (logSink) LogOperation(_ context.Context, e OperationEntry) {
	fields := log.Fields{"kind": e.Kind, "op": e.Op}
	if e.Account != "" {
		fields["account"] = e.Account
	}
	if e.Zone != "" {
		fields["zone"] = e.Zone
	}
	if e.RecordID != "" {
		fields["record"] = e.RecordID
	}
	if e.Error != "" {
		fields["error"] = e.Error
		log.WithFields(fields).Warn("operation failed")
		return
	}
	log.WithFields(fields).Info("operation applied")
}
