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

// Package pdns adapts self-hosted PowerDNS authoritative servers through
// their built-in HTTP API. The server stores records as rrsets keyed by
// FQDN and type and mutates them with whole-set PATCH operations, so the
// adapter explodes members into canonical records and carries composite
// record IDs of the form "www.example.com.|A|0".
package pdns

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/restclient"
	"github.com/zonegate/zonegate/pkg/tlsutils"
	"github.com/zonegate/zonegate/provider"
)

const (
	apiBase         = "/api/v1"
	defaultServerID = "localhost"
	defaultMinTTL   = 600

	// TTL applied when a create names none; the API has no server-side
	// default.
	defaultTTL = 300

	// changetypes accepted by the rrset PATCH call.
	changeReplace = "REPLACE"
	changeDelete  = "DELETE"
)

// Capabilities describes the PowerDNS API dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:            dnsmodel.KindPowerDNS,
		Label:           "PowerDNS (self-hosted)",
		SupportsStatus:  true,
		SupportsZoneAdd: true,
		RequiresZoneID:  true,
		RemarkMode:      dnsmodel.RemarkUnsupported,
		Paging:          dnsmodel.PagingClient,
		MaxPageSize:     100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS, dnsmodel.TypePTR,
			dnsmodel.TypeALIAS,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "apiUrl", Label: "API URL", Kind: dnsmodel.AuthFieldURL, Required: true,
				Placeholder: "https://ns1.example.net:8081"},
			{Name: "apiKey", Label: "API Key", Kind: dnsmodel.AuthFieldPassword, Required: true},
			{Name: "serverId", Label: "Server ID", Kind: dnsmodel.AuthFieldText, Placeholder: defaultServerID},
			{Name: "caFile", Label: "CA Bundle Path", Kind: dnsmodel.AuthFieldText},
			{Name: "clientCertFile", Label: "Client Certificate Path", Kind: dnsmodel.AuthFieldText},
			{Name: "clientKeyFile", Label: "Client Key Path", Kind: dnsmodel.AuthFieldText},
			{Name: "insecure", Label: "Skip TLS Verification", Kind: dnsmodel.AuthFieldText},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the PowerDNS adapter.
type Provider struct {
	provider.Base

	http     *restclient.Client
	endpoint string
	serverID string
	apiKey   string
}

// New builds the adapter from the account secrets. Self-hosted servers
// often run with private CAs or client certificates, so the TLS material
// travels in the secrets next to the key.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	apiURL, apiKey := secrets["apiUrl"], secrets["apiKey"]
	if opts.BaseURL != "" {
		apiURL = opts.BaseURL
	}
	if apiURL == "" || apiKey == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"pdns: apiUrl and apiKey are required")
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, errors.Wrap(err, "pdns: parse endpoint")
	}
	serverID := secrets["serverId"]
	if serverID == "" {
		serverID = defaultServerID
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		tlsCfg := tlsutils.Config{
			CAFile:   secrets["caFile"],
			CertFile: secrets["clientCertFile"],
			KeyFile:  secrets["clientKeyFile"],
			Insecure: strings.EqualFold(secrets["insecure"], "true"),
		}
		if !tlsCfg.IsZero() {
			c, err := tlsutils.HTTPClient(tlsCfg)
			if err != nil {
				return nil, errors.Wrap(err, "pdns: configure TLS")
			}
			httpClient = c
		}
	}

	return &Provider{
		Base:     provider.Base{Caps: Capabilities()},
		http:     restclient.New(httpClient, string(dnsmodel.KindPowerDNS), restclient.WithRateLimit(opts.RateLimit)),
		endpoint: strings.TrimSuffix(apiURL, "/") + apiBase,
		serverID: serverID,
		apiKey:   apiKey,
	}, nil
}

// The API reports failures as {"error": "..."} with an HTTP error status
// and no machine-readable code.
type apiError struct {
	Error string `json:"error"`
}

type apiServer struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

type apiZone struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Kind   string     `json:"kind,omitempty"`
	Serial int64      `json:"serial,omitempty"`
	RRSets []apiRRSet `json:"rrsets,omitempty"`
}

type apiRRSet struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	TTL        int         `json:"ttl,omitempty"`
	ChangeType string      `json:"changetype,omitempty"`
	Records    []apiMember `json:"records"`
}

type apiMember struct {
	Content  string `json:"content"`
	Disabled bool   `json:"disabled"`
}

type patchPayload struct {
	RRSets []apiRRSet `json:"rrsets"`
}

type emptyResponse struct{}

func (p *Provider) mapError(message string, status int) error {
	kind := dnsmodel.ErrVendor
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = dnsmodel.ErrAuthFailed
	case http.StatusNotFound:
		kind = dnsmodel.ErrZoneNotFound
	case http.StatusUnprocessableEntity:
		kind = dnsmodel.ErrInvalidValue
		if strings.Contains(strings.ToLower(message), "could not find domain") {
			kind = dnsmodel.ErrZoneNotFound
		}
	case http.StatusTooManyRequests:
		kind = dnsmodel.ErrRateLimited
	}
	return p.NewError(kind, "", message, status)
}

// call issues one API request. Success bodies are bare JSON documents
// (often arrays) and mutations answer 204, so decoding is by shape rather
// than a shared envelope.
func call[T any](ctx context.Context, p *Provider, action, method, path string, payload any) (*T, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "pdns: encode payload")
		}
	}
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		header := http.Header{}
		header.Set("X-API-Key", p.apiKey)
		if body != nil {
			header.Set("Content-Type", "application/json")
		}
		resp, err := p.http.Do(ctx, restclient.Request{
			Method: method,
			URL:    p.endpoint + path,
			Header: header,
			Body:   body,
			Action: action,
		})
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			var fail apiError
			if json.Unmarshal(resp.Body, &fail) == nil && fail.Error != "" {
				return p.mapError(fail.Error, resp.StatusCode)
			}
			return p.mapError(http.StatusText(resp.StatusCode), resp.StatusCode)
		}
		if len(resp.Body) == 0 || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(resp.Body, out); err != nil {
			de := dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "decoding reply: %v", err)
			de.HTTPStatus = resp.StatusCode
			return de
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckAuth reads the server descriptor to prove the key works.
func (p *Provider) CheckAuth(ctx context.Context) error {
	_, err := call[apiServer](ctx, p, "GetServer", http.MethodGet, "/servers/"+p.serverID, nil)
	return err
}

// Zones lists all zones on the server; the API has no paging or filters,
// so keyword and page run here.
func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	out, err := call[[]apiZone](ctx, p, "ListZones", http.MethodGet, "/servers/"+p.serverID+"/zones", nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	zones := make([]dnsmodel.Zone, 0, len(*out))
	for _, z := range *out {
		zone := p.zoneFrom(z)
		if q.Keyword != "" && !strings.Contains(zone.Name, q.Keyword) {
			continue
		}
		zones = append(zones, zone)
	}
	page, total := provider.Paginate(zones, q.Page, p.ClampPageSize(q.PageSize))
	return dnsmodel.ZoneList{Zones: page, Total: total}, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	out, err := call[apiZone](ctx, p, "GetZone", http.MethodGet,
		"/servers/"+p.serverID+"/zones/"+zoneHandle(idOrName)+"?rrsets=false", nil)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(*out), nil
}

// zoneWithSets fetches the zone including its rrsets, the unit every
// record operation works on.
func (p *Provider) zoneWithSets(ctx context.Context, zoneID string) (*apiZone, error) {
	return call[apiZone](ctx, p, "GetZone", http.MethodGet,
		"/servers/"+p.serverID+"/zones/"+zoneHandle(zoneID), nil)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	z, err := p.zoneWithSets(ctx, zoneID)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	var all []dnsmodel.Record
	for _, rs := range z.RRSets {
		all = append(all, p.explode(rs, z.ID, z.Name)...)
	}
	matched := provider.FilterRecords(all, q)
	page, total := provider.Paginate(matched, q.Page, q.PageSize)
	return dnsmodel.RecordList{Records: page, Total: total}, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	z, rs, idx, err := p.lookupMember(ctx, zoneID, recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	return p.explode(*rs, z.ID, z.Name)[idx], nil
}

// lookupMember resolves a composite record ID against the live zone.
func (p *Provider) lookupMember(ctx context.Context, zoneID, recordID string) (*apiZone, *apiRRSet, int, error) {
	name, rrType, idx, err := splitRecordID(recordID)
	if err != nil {
		return nil, nil, 0, err
	}
	z, err := p.zoneWithSets(ctx, zoneID)
	if err != nil {
		return nil, nil, 0, err
	}
	rs := findSet(z.RRSets, name, rrType)
	if rs == nil || idx >= len(rs.Records) {
		return nil, nil, 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"pdns: record %q not found in zone %s", recordID, z.ID)
	}
	return z, rs, idx, nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	z, err := p.zoneWithSets(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	return p.appendMember(ctx, z, in)
}

// appendMember adds one value to the rrset matching the input identity,
// creating the set if it does not exist yet.
func (p *Provider) appendMember(ctx context.Context, z *apiZone, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	fqdn := absFQDN(in.Name, z.Name)
	rrType := wireType(in.Type, fqdn, z.Name)

	members := []apiMember{}
	ttl := in.TTL
	if rs := findSet(z.RRSets, fqdn, rrType); rs != nil {
		members = append(members, rs.Records...)
		if ttl == 0 {
			ttl = rs.TTL
		}
	}
	if ttl == 0 {
		ttl = defaultTTL
	}
	members = append(members, apiMember{
		Content:  memberValue(rrType, in.Value, in.Priority),
		Disabled: in.Status == dnsmodel.StatusDisabled,
	})

	set := apiRRSet{Name: fqdn, Type: rrType, TTL: ttl, ChangeType: changeReplace, Records: members}
	if err := p.patch(ctx, z.ID, set); err != nil {
		return dnsmodel.Record{}, err
	}
	written := apiRRSet{Name: fqdn, Type: rrType, TTL: ttl, Records: members}
	return p.explode(written, z.ID, z.Name)[len(members)-1], nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	z, rs, idx, err := p.lookupMember(ctx, zoneID, recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}

	cur := p.explode(*rs, z.ID, z.Name)[idx]
	if in.Name == "" {
		in.Name = cur.Name
	}
	if in.Type == "" {
		in.Type = cur.Type
	}
	if in.Value == "" {
		in.Value = cur.Value
	}
	if in.TTL == 0 {
		in.TTL = cur.TTL
	}
	if in.Priority == nil {
		in.Priority = cur.Priority
	}
	if in.Status == "" {
		in.Status = cur.Status
	}

	newFqdn := absFQDN(in.Name, z.Name)
	newType := wireType(in.Type, newFqdn, z.Name)

	// A changed name or type moves the member to a different rrset:
	// remove it here, then append it under the new identity.
	if newFqdn != rs.Name || newType != rs.Type {
		if err := p.removeMember(ctx, z.ID, *rs, idx); err != nil {
			return dnsmodel.Record{}, err
		}
		return p.appendMember(ctx, z, in)
	}

	members := append([]apiMember{}, rs.Records...)
	members[idx] = apiMember{
		Content:  memberValue(rs.Type, in.Value, in.Priority),
		Disabled: in.Status == dnsmodel.StatusDisabled,
	}
	set := apiRRSet{Name: rs.Name, Type: rs.Type, TTL: in.TTL, ChangeType: changeReplace, Records: members}
	if err := p.patch(ctx, z.ID, set); err != nil {
		return dnsmodel.Record{}, err
	}
	written := apiRRSet{Name: rs.Name, Type: rs.Type, TTL: in.TTL, Records: members}
	return p.explode(written, z.ID, z.Name)[idx], nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	z, rs, idx, err := p.lookupMember(ctx, zoneID, recordID)
	if err != nil {
		return err
	}
	return p.removeMember(ctx, z.ID, *rs, idx)
}

// removeMember drops one value from the set, deleting the whole set when
// it was the last one. DELETE changetypes must not carry a TTL.
func (p *Provider) removeMember(ctx context.Context, handle string, rs apiRRSet, idx int) error {
	if len(rs.Records) == 1 {
		return p.patch(ctx, handle, apiRRSet{
			Name: rs.Name, Type: rs.Type, ChangeType: changeDelete, Records: []apiMember{},
		})
	}
	members := append([]apiMember{}, rs.Records[:idx]...)
	members = append(members, rs.Records[idx+1:]...)
	return p.patch(ctx, handle, apiRRSet{
		Name: rs.Name, Type: rs.Type, TTL: rs.TTL, ChangeType: changeReplace, Records: members,
	})
}

// SetRecordStatus flips the member's disabled flag and replaces the set.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	z, rs, idx, err := p.lookupMember(ctx, zoneID, recordID)
	if err != nil {
		return err
	}
	members := append([]apiMember{}, rs.Records...)
	members[idx].Disabled = !enabled
	return p.patch(ctx, z.ID, apiRRSet{
		Name: rs.Name, Type: rs.Type, TTL: rs.TTL, ChangeType: changeReplace, Records: members,
	})
}

func (p *Provider) patch(ctx context.Context, handle string, sets ...apiRRSet) error {
	_, err := call[emptyResponse](ctx, p, "PatchZone", http.MethodPatch,
		"/servers/"+p.serverID+"/zones/"+handle, patchPayload{RRSets: sets})
	return err
}

// Lines reports the default-only set; the server has no resolution lines.
func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return dnsmodel.DefaultLines(), nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

// CreateZone registers a Native-kind zone on the server.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	payload := map[string]any{
		"name": provider.NormalizeName(name) + ".",
		"kind": "Native",
	}
	out, err := call[apiZone](ctx, p, "CreateZone", http.MethodPost,
		"/servers/"+p.serverID+"/zones", payload)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(*out), nil
}

func (p *Provider) zoneFrom(z apiZone) dnsmodel.Zone {
	zone := dnsmodel.Zone{
		ID:     z.ID,
		Name:   provider.NormalizeName(z.Name),
		Status: dnsmodel.StatusEnabled,
		Meta:   map[string]string{},
	}
	if z.Kind != "" {
		zone.Meta["kind"] = z.Kind
	}
	if z.Serial != 0 {
		zone.Meta["serial"] = strconv.FormatInt(z.Serial, 10)
	}
	if len(zone.Meta) == 0 {
		zone.Meta = nil
	}
	return p.NormalizeZone(zone)
}

// explode flattens an rrset into canonical per-value records. System SOA
// sets are skipped.
func (p *Provider) explode(rs apiRRSet, zoneID, zoneName string) []dnsmodel.Record {
	if rs.Type == dnsmodel.TypeSOA {
		return nil
	}
	records := make([]dnsmodel.Record, 0, len(rs.Records))
	for idx, m := range rs.Records {
		value, priority := readMember(rs.Type, m.Content)
		status := dnsmodel.StatusEnabled
		if m.Disabled {
			status = dnsmodel.StatusDisabled
		}
		records = append(records, p.NormalizeRecord(dnsmodel.Record{
			ID:       composeRecordID(rs.Name, rs.Type, idx),
			ZoneID:   zoneID,
			ZoneName: provider.NormalizeName(zoneName),
			Name:     provider.NormalizeName(rs.Name),
			Type:     rs.Type,
			Value:    value,
			TTL:      rs.TTL,
			Priority: priority,
			Status:   status,
		}))
	}
	return records
}

func composeRecordID(name, rrType string, idx int) string {
	return name + "|" + rrType + "|" + strconv.Itoa(idx)
}

func splitRecordID(recordID string) (name, rrType string, idx int, err error) {
	last := strings.LastIndexByte(recordID, '|')
	if last <= 0 {
		return "", "", 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"pdns: malformed record id %q", recordID)
	}
	mid := strings.LastIndexByte(recordID[:last], '|')
	i, aerr := strconv.Atoi(recordID[last+1:])
	if mid <= 0 || aerr != nil || i < 0 {
		return "", "", 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"pdns: malformed record id %q", recordID)
	}
	return recordID[:mid], strings.ToUpper(recordID[mid+1 : last]), i, nil
}

func findSet(sets []apiRRSet, name, rrType string) *apiRRSet {
	for i := range sets {
		if sets[i].Name == name && sets[i].Type == rrType {
			return &sets[i]
		}
	}
	return nil
}

// wireType maps the canonical type to the rrset type. The server rejects
// CNAME at the apex, where ALIAS serves the same purpose.
func wireType(recordType, fqdn, zoneName string) string {
	t := strings.ToUpper(strings.TrimSpace(recordType))
	if t == dnsmodel.TypeCNAME && fqdn == zoneHandle(zoneName) {
		return dnsmodel.TypeALIAS
	}
	return t
}

// memberValue renders a canonical value the way the server stores it: TXT
// quoted, MX with its priority prefix, host-valued types fully qualified.
func memberValue(recordType, value string, priority *int) string {
	switch recordType {
	case dnsmodel.TypeTXT:
		return provider.QuoteTXT(value)
	case dnsmodel.TypeMX:
		prio := 10
		if priority != nil {
			prio = *priority
		}
		return provider.JoinValuePriority(prio, provider.AbsDNSValue(value))
	case dnsmodel.TypeCNAME, dnsmodel.TypeALIAS, dnsmodel.TypeNS,
		dnsmodel.TypePTR, dnsmodel.TypeSRV:
		return provider.AbsDNSValue(value)
	}
	return value
}

func readMember(recordType, raw string) (string, *int) {
	switch recordType {
	case dnsmodel.TypeTXT:
		return provider.UnquoteTXT(raw), nil
	case dnsmodel.TypeMX:
		if prio, value, ok := provider.SplitValuePriority(raw); ok {
			return provider.TrimDNSValue(value), &prio
		}
		return provider.TrimDNSValue(raw), nil
	case dnsmodel.TypeCNAME, dnsmodel.TypeALIAS, dnsmodel.TypeNS,
		dnsmodel.TypePTR, dnsmodel.TypeSRV:
		return provider.TrimDNSValue(raw), nil
	}
	return raw, nil
}

func absFQDN(name, zoneName string) string {
	return provider.AbsName(name, provider.NormalizeName(zoneName)) + "."
}

// zoneHandle canonicalizes a zone reference to the trailing-dot form the
// API uses as the zone ID.
func zoneHandle(idOrName string) string {
	return provider.NormalizeName(idOrName) + "."
}
