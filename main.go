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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/linki/instrumented_http"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/gateway"
	"github.com/zonegate/zonegate/pkg/credfile"
	"github.com/zonegate/zonegate/pkg/nscache"
	"github.com/zonegate/zonegate/provider"
	"github.com/zonegate/zonegate/registry"
)

// version is overridden at build time via -ldflags.
var version = "unknown"

// The credential file is the only credential source wired into the CLI;
// other callers can hand the facade any CredentialStore.
var _ gateway.CredentialStore = (*credfile.Store)(nil)

func main() {
	cfg := NewConfig()
	cmd, err := cfg.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("flag parsing error: %v", err)
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	ll, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to parse log level: %v", err)
	}
	log.SetLevel(ll)

	if err := run(cfg, cmd); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *Config, cmd string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if cmd == cmdCapabilities {
		return runCapabilities(cfg)
	}

	svc := gateway.New(provider.Options{HTTPClient: newHTTPClient()})

	if cmd == cmdCacheClear && cfg.AllCache {
		svc.ClearAllCache()
		return printJSON(map[string]any{"cleared": "all"})
	}

	if cfg.Account == "" {
		return errors.New("--account is required")
	}
	store, err := credfile.Load(cfg.CredentialsFile)
	if err != nil {
		return err
	}
	acct, err := store.Account(cfg.Account)
	if err != nil {
		return err
	}

	switch cmd {
	case cmdCheck:
		ok := svc.CheckAuth(ctx, acct)
		if err := printJSON(map[string]any{"account": cfg.Account, "ok": ok}); err != nil {
			return err
		}
		if !ok {
			return errors.Errorf("credential check failed for account %q", cfg.Account)
		}
		return nil

	case cmdZonesList:
		list, err := svc.Zones(ctx, acct, cfg.zoneQuery())
		if err != nil {
			return err
		}
		return printJSON(list)

	case cmdZonesCreate:
		zone, err := svc.CreateZone(ctx, acct, cfg.Zone)
		if err != nil {
			return err
		}
		return printJSON(zone)

	case cmdRecordsList:
		list, err := svc.Records(ctx, acct, cfg.Zone, cfg.recordQuery())
		if err != nil {
			return err
		}
		return printJSON(list)

	case cmdRecordsGet:
		rec, err := svc.Record(ctx, acct, cfg.Zone, cfg.RecordID)
		if err != nil {
			return err
		}
		return printJSON(rec)

	case cmdRecordsCreate:
		rec, err := svc.CreateRecord(ctx, acct, cfg.Zone, cfg.recordInput())
		if err != nil {
			return err
		}
		return printJSON(rec)

	case cmdRecordsUpdate:
		rec, err := svc.UpdateRecord(ctx, acct, cfg.Zone, cfg.RecordID, cfg.recordInput())
		if err != nil {
			return err
		}
		return printJSON(rec)

	case cmdRecordsDelete:
		if err := svc.DeleteRecord(ctx, acct, cfg.Zone, cfg.RecordID); err != nil {
			return err
		}
		return printJSON(map[string]any{"deleted": cfg.RecordID})

	case cmdRecordsEnable, cmdRecordsDisable:
		enabled := cmd == cmdRecordsEnable
		if err := svc.SetRecordStatus(ctx, acct, cfg.Zone, cfg.RecordID, enabled); err != nil {
			return err
		}
		return printJSON(map[string]any{"id": cfg.RecordID, "enabled": enabled})

	case cmdLines:
		lines, err := svc.Lines(ctx, acct, cfg.Zone)
		if err != nil {
			return err
		}
		return printJSON(lines)

	case cmdCacheClear:
		if err := svc.ClearCache(ctx, acct, nscache.Scope(cfg.Scope), cfg.Zone); err != nil {
			return err
		}
		return printJSON(map[string]any{"account": cfg.Account, "cleared": cfg.Scope})
	}

	return errors.Errorf("unknown command %q", cmd)
}

func runCapabilities(cfg *Config) error {
	if cfg.Kind != "" {
		caps, err := registry.Capabilities(dnsmodel.ProviderKind(cfg.Kind))
		if err != nil {
			return err
		}
		return printJSON(caps)
	}
	return printJSON(registry.AllCapabilities())
}

// newHTTPClient wraps the transport so outgoing vendor calls are measured.
// Only the last path element feeds the metric label to bound cardinality.
func newHTTPClient() *http.Client {
	return instrumented_http.NewClient(&http.Client{}, &instrumented_http.Callbacks{
		PathProcessor: func(path string) string {
			parts := strings.Split(path, "/")
			return parts[len(parts)-1]
		},
	})
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
