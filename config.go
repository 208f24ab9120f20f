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
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/zonegate/zonegate/dnsmodel"
)

// Full command paths as kingpin reports them.
const (
	cmdCapabilities   = "capabilities"
	cmdCheck          = "check"
	cmdZonesList      = "zones list"
	cmdZonesCreate    = "zones create"
	cmdRecordsList    = "records list"
	cmdRecordsGet     = "records get"
	cmdRecordsCreate  = "records create"
	cmdRecordsUpdate  = "records update"
	cmdRecordsDelete  = "records delete"
	cmdRecordsEnable  = "records enable"
	cmdRecordsDisable = "records disable"
	cmdLines          = "lines"
	cmdCacheClear     = "cache clear"
)

// Config holds every flag of the CLI. Fields shared by several
// subcommands bind to the same flag name on each.
type Config struct {
	CredentialsFile string
	Account         string
	LogFormat       string
	LogLevel        string
	Timeout         time.Duration

	Kind string

	Page     int
	PageSize int
	Keyword  string

	Zone       string
	RecordID   string
	RecordName string
	Type       string
	Value      string
	TTL        int
	Line       string
	Weight     int
	Priority   int
	Remark     string
	SubDomain  string
	Status     string

	Scope    string
	AllCache bool
}

var defaultConfig = &Config{
	CredentialsFile: "credentials.yaml",
	LogFormat:       "text",
	LogLevel:        "info",
	Timeout:         30 * time.Second,
	Weight:          -1,
	Priority:        -1,
	Scope:           "all",
}

// NewConfig returns a configuration with the built-in defaults.
func NewConfig() *Config {
	cfg := *defaultConfig
	return &cfg
}

// ParseFlags parses the command line and returns the selected command
// path.
func (cfg *Config) ParseFlags(args []string) (string, error) {
	return App(cfg).Parse(args)
}

// App builds the kingpin application. Flags may be replaced with env vars:
// `--flag value` -> `ZONEGATE_FLAG=value`.
func App(cfg *Config) *kingpin.Application {
	app := kingpin.New("zonegate", "Zonegate drives DNS zones and records across vendor control planes through one uniform surface.")
	app.Version(version)
	app.DefaultEnvars()

	app.Flag("credentials-file", "YAML file with the named accounts and their secrets.").Default(defaultConfig.CredentialsFile).StringVar(&cfg.CredentialsFile)
	app.Flag("account", "Name of the account to operate as, from the credentials file.").StringVar(&cfg.Account)
	app.Flag("log-format", "Log line format.").Default(defaultConfig.LogFormat).EnumVar(&cfg.LogFormat, "text", "json")
	app.Flag("log-level", "Log verbosity.").Default(defaultConfig.LogLevel).StringVar(&cfg.LogLevel)
	app.Flag("timeout", "Deadline for the whole operation, retries included.").Default(defaultConfig.Timeout.String()).DurationVar(&cfg.Timeout)

	capabilities := app.Command(cmdCapabilities, "Print the capability catalog, or one kind's sheet.")
	capabilities.Flag("kind", "Provider kind to describe.").StringVar(&cfg.Kind)

	app.Command(cmdCheck, "Verify the account's credentials upstream.")

	zones := app.Command("zones", "Operate on the account's zones.")
	zonesList := zones.Command("list", "List zones.")
	zonesList.Flag("page", "Page number.").Default("1").IntVar(&cfg.Page)
	zonesList.Flag("page-size", "Page size, capped per vendor.").Default("20").IntVar(&cfg.PageSize)
	zonesList.Flag("keyword", "Filter zones whose name contains the keyword.").StringVar(&cfg.Keyword)
	zonesCreate := zones.Command("create", "Register a new zone with the vendor.")
	zonesCreate.Flag("name", "Zone name to register.").Required().StringVar(&cfg.Zone)

	records := app.Command("records", "Operate on a zone's records.")
	recordsList := records.Command("list", "List records.")
	recordsList.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsList.Flag("page", "Page number.").Default("1").IntVar(&cfg.Page)
	recordsList.Flag("page-size", "Page size, capped per vendor.").Default("20").IntVar(&cfg.PageSize)
	recordsList.Flag("keyword", "Filter by substring over name and value.").StringVar(&cfg.Keyword)
	recordsList.Flag("sub-domain", "Filter by exact host-relative name.").StringVar(&cfg.SubDomain)
	recordsList.Flag("type", "Filter by record type.").StringVar(&cfg.Type)
	recordsList.Flag("value", "Filter by exact value.").StringVar(&cfg.Value)
	recordsList.Flag("line", "Filter by resolution line code.").StringVar(&cfg.Line)
	recordsList.Flag("status", "Filter by status, 1 enabled or 0 disabled.").StringVar(&cfg.Status)

	recordsGet := records.Command("get", "Fetch one record.")
	recordsGet.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsGet.Flag("id", "Record ID.").Required().StringVar(&cfg.RecordID)

	recordsCreate := records.Command("create", "Create a record.")
	recordsCreate.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsCreate.Flag("name", "Record name, host-relative or FQDN.").Required().StringVar(&cfg.RecordName)
	recordsCreate.Flag("type", "Record type.").Required().StringVar(&cfg.Type)
	recordsCreate.Flag("value", "Record value without priority prefix or TXT quotes.").Required().StringVar(&cfg.Value)
	recordsCreate.Flag("ttl", "TTL in seconds, 0 for the vendor default.").IntVar(&cfg.TTL)
	recordsCreate.Flag("line", "Resolution line code.").StringVar(&cfg.Line)
	recordsCreate.Flag("weight", "Load balancing weight.").Default("-1").IntVar(&cfg.Weight)
	recordsCreate.Flag("priority", "MX or SRV priority.").Default("-1").IntVar(&cfg.Priority)
	recordsCreate.Flag("remark", "Free-form note, dropped for vendors without remark storage.").StringVar(&cfg.Remark)

	recordsUpdate := records.Command("update", "Rewrite a record; omitted flags keep current values.")
	recordsUpdate.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsUpdate.Flag("id", "Record ID.").Required().StringVar(&cfg.RecordID)
	recordsUpdate.Flag("name", "Record name, host-relative or FQDN.").StringVar(&cfg.RecordName)
	recordsUpdate.Flag("type", "Record type.").StringVar(&cfg.Type)
	recordsUpdate.Flag("value", "Record value without priority prefix or TXT quotes.").StringVar(&cfg.Value)
	recordsUpdate.Flag("ttl", "TTL in seconds, 0 keeps the current TTL.").IntVar(&cfg.TTL)
	recordsUpdate.Flag("line", "Resolution line code.").StringVar(&cfg.Line)
	recordsUpdate.Flag("weight", "Load balancing weight.").Default("-1").IntVar(&cfg.Weight)
	recordsUpdate.Flag("priority", "MX or SRV priority.").Default("-1").IntVar(&cfg.Priority)
	recordsUpdate.Flag("remark", "Free-form note, dropped for vendors without remark storage.").StringVar(&cfg.Remark)

	recordsDelete := records.Command("delete", "Delete a record.")
	recordsDelete.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsDelete.Flag("id", "Record ID.").Required().StringVar(&cfg.RecordID)

	recordsEnable := records.Command("enable", "Resume resolution of a paused record.")
	recordsEnable.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsEnable.Flag("id", "Record ID.").Required().StringVar(&cfg.RecordID)

	recordsDisable := records.Command("disable", "Pause resolution of a record without deleting it.")
	recordsDisable.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)
	recordsDisable.Flag("id", "Record ID.").Required().StringVar(&cfg.RecordID)

	lines := app.Command(cmdLines, "List the resolution lines a zone may use.")
	lines.Flag("zone", "Zone name or vendor handle.").Required().StringVar(&cfg.Zone)

	cache := app.Command("cache", "Manage the gateway read cache.")
	cacheClear := cache.Command("clear", "Drop cached reads for the account, or everything.")
	cacheClear.Flag("scope", "What to drop within the account.").Default(defaultConfig.Scope).EnumVar(&cfg.Scope, "zones", "records", "all")
	cacheClear.Flag("zone", "Restrict a records clear to one zone.").StringVar(&cfg.Zone)
	cacheClear.Flag("all-accounts", "Drop every account's cached reads.").BoolVar(&cfg.AllCache)

	return app
}

// zoneQuery assembles the zone listing query from the paging flags.
func (cfg *Config) zoneQuery() dnsmodel.ZoneQuery {
	return dnsmodel.ZoneQuery{
		Page:     cfg.Page,
		PageSize: cfg.PageSize,
		Keyword:  cfg.Keyword,
	}
}

// recordQuery assembles the record listing query from the filter flags.
func (cfg *Config) recordQuery() dnsmodel.RecordQuery {
	return dnsmodel.RecordQuery{
		Page:      cfg.Page,
		PageSize:  cfg.PageSize,
		Keyword:   cfg.Keyword,
		SubDomain: cfg.SubDomain,
		Type:      cfg.Type,
		Value:     cfg.Value,
		Line:      cfg.Line,
		Status:    cfg.Status,
	}
}

// recordInput assembles the write payload from the record flags. Negative
// weight and priority mean the flag was not given; an empty remark is
// never sent.
func (cfg *Config) recordInput() dnsmodel.RecordInput {
	in := dnsmodel.RecordInput{
		Name:  cfg.RecordName,
		Type:  cfg.Type,
		Value: cfg.Value,
		TTL:   cfg.TTL,
		Line:  cfg.Line,
	}
	if cfg.Weight >= 0 {
		w := cfg.Weight
		in.Weight = &w
	}
	if cfg.Priority >= 0 {
		p := cfg.Priority
		in.Priority = &p
	}
	if cfg.Remark != "" {
		r := cfg.Remark
		in.Remark = &r
	}
	return in
}
