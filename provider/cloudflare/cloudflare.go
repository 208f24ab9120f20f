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

// Package cloudflare adapts the Cloudflare v4 REST API. Zones are addressed
// by 32-hex IDs, records carry absolute names, and the vendor-specific
// proxied flag travels through the canonical record untouched.
package cloudflare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/restclient"
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://api.cloudflare.com/client/v4"
	defaultMinTTL   = 60

	// ttlAuto is Cloudflare's sentinel for "let us pick".
	ttlAuto = 1
)

// Capabilities describes the Cloudflare dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:            dnsmodel.KindCloudflare,
		Label:           "Cloudflare",
		SupportsRemark:  true,
		SupportsZoneAdd: true,
		RequiresZoneID:  true,
		RemarkMode:      dnsmodel.RemarkInline,
		Paging:          dnsmodel.PagingServer,
		MaxPageSize:     100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS, dnsmodel.TypePTR,
			dnsmodel.TypeHTTPS, dnsmodel.TypeTLSA,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "apiToken", Label: "API Token", Kind: dnsmodel.AuthFieldPassword, Required: true,
				HelpText: "Token with Zone.Zone and Zone.DNS permissions"},
			{Name: "accountId", Label: "Account ID", Kind: dnsmodel.AuthFieldText, Required: false,
				HelpText: "Required only for creating zones"},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the Cloudflare adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	token     string
	accountID string
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	token := secrets["apiToken"]
	if token == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"cloudflare: apiToken is required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindCloudflare), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:  endpoint,
		token:     token,
		accountID: secrets["accountId"],
	}, nil
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Errors     []apiMessage    `json:"errors"`
	Result     json.RawMessage `json:"result"`
	ResultInfo struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalCount int `json:"total_count"`
	} `json:"result_info"`
}

type apiZone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type apiRecord struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Priority *int   `json:"priority,omitempty"`
	Proxied  *bool  `json:"proxied,omitempty"`
	Comment  string `json:"comment,omitempty"`
	ZoneName string `json:"zone_name,omitempty"`
}

// Well-known v4 error codes worth mapping to narrower kinds.
var errorKinds = map[int]dnsmodel.ErrorKind{
	6003:  dnsmodel.ErrAuthFailed, // invalid request headers
	9103:  dnsmodel.ErrAuthFailed, // unknown key/email
	9109:  dnsmodel.ErrAuthFailed, // invalid access token
	10000: dnsmodel.ErrAuthFailed, // authentication error
	7000:  dnsmodel.ErrZoneNotFound,
	7003:  dnsmodel.ErrZoneNotFound,
	81044: dnsmodel.ErrRecordNotFound,
	81057: dnsmodel.ErrInvalidValue, // identical record exists
	971:   dnsmodel.ErrRateLimited,
}

func (p *Provider) mapError(errs []apiMessage, status int) error {
	if len(errs) == 0 {
		return p.VendorError("", "request was not successful", status)
	}
	first := errs[0]
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[first.Code]; ok {
		kind = k
	}
	return p.NewError(kind, strconv.Itoa(first.Code), first.Message, status)
}

// call executes one v4 request and unwraps the success envelope. The
// decoded result payload lands in out when non-nil.
func (p *Provider) call(ctx context.Context, method, path string, query url.Values, payload, out any) (*envelope, error) {
	var env *envelope
	err := p.Retry(ctx, func() error {
		env = &envelope{}
		var body []byte
		if payload != nil {
			var err error
			body, err = json.Marshal(payload)
			if err != nil {
				return dnsmodel.NewErrorf(dnsmodel.ErrInvalidValue, "encoding request: %v", err)
			}
		}
		u := p.endpoint + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		header := http.Header{}
		header.Set("Authorization", "Bearer "+p.token)
		header.Set("Content-Type", "application/json")

		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: method,
			URL:    u,
			Header: header,
			Body:   body,
			Action: method + " " + path,
		}, env)
		if err != nil {
			return err
		}
		if !env.Success {
			return p.mapError(env.Errors, resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return nil, dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "decoding result: %v", err)
		}
	}
	return env, nil
}

// CheckAuth verifies the token against the token introspection endpoint.
func (p *Provider) CheckAuth(ctx context.Context) error {
	_, err := p.call(ctx, http.MethodGet, "/user/tokens/verify", nil, nil, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("per_page", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.Keyword != "" {
		query.Set("name", "contains:"+q.Keyword)
	}

	var zones []apiZone
	env, err := p.call(ctx, http.MethodGet, "/zones", query, nil, &zones)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: env.ResultInfo.TotalCount}
	for _, z := range zones {
		list.Zones = append(list.Zones, p.zoneFrom(z))
	}
	return list, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	if isZoneID(idOrName) {
		var z apiZone
		if _, err := p.call(ctx, http.MethodGet, "/zones/"+idOrName, nil, nil, &z); err != nil {
			return dnsmodel.Zone{}, err
		}
		return p.zoneFrom(z), nil
	}

	query := url.Values{}
	query.Set("name", provider.NormalizeName(idOrName))
	var zones []apiZone
	if _, err := p.call(ctx, http.MethodGet, "/zones", query, nil, &zones); err != nil {
		return dnsmodel.Zone{}, err
	}
	if len(zones) == 0 {
		return dnsmodel.Zone{}, p.NewError(dnsmodel.ErrZoneNotFound, "",
			"zone "+idOrName+" not found", 0)
	}
	return p.zoneFrom(zones[0]), nil
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	// The v4 filters are exact-match only, so any canonical filter routes
	// through the shared client-side semantics instead.
	if q.IsFiltered() {
		all, err := p.allRecords(ctx, zoneID)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("per_page", strconv.Itoa(p.ClampPageSize(q.PageSize)))

	var recs []apiRecord
	env, err := p.call(ctx, http.MethodGet, "/zones/"+zoneID+"/dns_records", query, nil, &recs)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	list := dnsmodel.RecordList{Total: env.ResultInfo.TotalCount}
	for _, rec := range recs {
		list.Records = append(list.Records, p.recordFrom(rec, zoneID))
	}
	return list, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID string) ([]dnsmodel.Record, error) {
	var out []dnsmodel.Record
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(p.Caps.MaxPageSize))

		var recs []apiRecord
		env, err := p.call(ctx, http.MethodGet, "/zones/"+zoneID+"/dns_records", query, nil, &recs)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			out = append(out, p.recordFrom(rec, zoneID))
		}
		if len(recs) == 0 || len(out) >= env.ResultInfo.TotalCount {
			return out, nil
		}
	}
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	var rec apiRecord
	if _, err := p.call(ctx, http.MethodGet, "/zones/"+zoneID+"/dns_records/"+recordID, nil, nil, &rec); err != nil {
		return dnsmodel.Record{}, err
	}
	return p.recordFrom(rec, zoneID), nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	var rec apiRecord
	if _, err := p.call(ctx, http.MethodPost, "/zones/"+zoneID+"/dns_records", nil, p.recordPayload(in), &rec); err != nil {
		return dnsmodel.Record{}, err
	}
	return p.recordFrom(rec, zoneID), nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	// PUT replaces the record, so fill unsupplied fields from the current
	// state first.
	if in.Name == "" || in.Type == "" || in.Value == "" {
		cur, err := p.Record(ctx, zoneID, recordID)
		if err != nil {
			return dnsmodel.Record{}, err
		}
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
		if in.Proxied == nil {
			in.Proxied = cur.Proxied
		}
		if in.Remark == nil && cur.Remark != "" {
			in.Remark = &cur.Remark
		}
	}

	var rec apiRecord
	if _, err := p.call(ctx, http.MethodPut, "/zones/"+zoneID+"/dns_records/"+recordID, nil, p.recordPayload(in), &rec); err != nil {
		return dnsmodel.Record{}, err
	}
	return p.recordFrom(rec, zoneID), nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	_, err := p.call(ctx, http.MethodDelete, "/zones/"+zoneID+"/dns_records/"+recordID, nil, nil, nil)
	return err
}

// SetRecordStatus is not a Cloudflare concept; records are always live and
// the proxied flag is a different axis.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	return p.NewError(dnsmodel.ErrUnsupported, "",
		"cloudflare does not support disabling records", 0)
}

func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return dnsmodel.DefaultLines(), nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

// CreateZone registers a zone under the configured account.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	payload := map[string]any{
		"name":       provider.NormalizeName(name),
		"jump_start": false,
	}
	if p.accountID != "" {
		payload["account"] = map[string]string{"id": p.accountID}
	}
	var z apiZone
	if _, err := p.call(ctx, http.MethodPost, "/zones", nil, payload, &z); err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(z), nil
}

func (p *Provider) recordPayload(in dnsmodel.RecordInput) map[string]any {
	ttl := in.TTL
	if ttl <= 0 {
		ttl = ttlAuto
	}
	payload := map[string]any{
		"type":    in.Type,
		"name":    provider.NormalizeName(in.Name),
		"content": in.Value,
		"ttl":     ttl,
	}
	if in.Priority != nil {
		payload["priority"] = *in.Priority
	}
	if in.Proxied != nil {
		payload["proxied"] = *in.Proxied
	}
	if in.Remark != nil {
		payload["comment"] = *in.Remark
	}
	return payload
}

func (p *Provider) zoneFrom(z apiZone) dnsmodel.Zone {
	return p.NormalizeZone(dnsmodel.Zone{
		ID:     z.ID,
		Name:   z.Name,
		Status: z.Status,
	})
}

func (p *Provider) recordFrom(rec apiRecord, zoneID string) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       rec.ID,
		ZoneID:   zoneID,
		ZoneName: rec.ZoneName,
		Name:     rec.Name,
		Type:     rec.Type,
		Value:    rec.Content,
		TTL:      rec.TTL,
		Priority: rec.Priority,
		Proxied:  rec.Proxied,
		Remark:   rec.Comment,
	}
	return p.NormalizeRecord(r)
}

// isZoneID reports whether s looks like a v4 zone identifier (32 hex
// characters) rather than a zone name.
func isZoneID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
