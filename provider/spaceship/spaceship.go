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

// Package spaceship adapts the Spaceship DNS API. The vendor assigns no
// record ids, so the adapter derives composite ids from the record identity
// ("A|www|1.2.3.4|"); an update that changes name, type, value or MX
// preference replaces the stored item and yields a new id.
package spaceship

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
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://spaceship.dev/api/v1"
	defaultMinTTL   = 600
	defaultTTL      = 3600

	// Full-set fetches drain take/skip pages at the vendor ceiling.
	fetchSize     = 100
	maxFetchPages = 200
)

// Capabilities describes the Spaceship dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:        dnsmodel.KindSpaceship,
		Label:       "Spaceship",
		RemarkMode:  dnsmodel.RemarkUnsupported,
		Paging:      dnsmodel.PagingServer,
		MaxPageSize: 100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeNS,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "apiKey", Label: "API Key", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "apiSecret", Label: "API Secret", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the Spaceship adapter.
type Provider struct {
	provider.Base

	http     *restclient.Client
	endpoint string
	key      string
	secret   string
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	key, secret := secrets["apiKey"], secrets["apiSecret"]
	if key == "" || secret == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"spaceship: apiKey and apiSecret are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:     provider.Base{Caps: Capabilities()},
		http:     restclient.New(opts.HTTPClient, string(dnsmodel.KindSpaceship), restclient.WithRateLimit(opts.RateLimit)),
		endpoint: endpoint,
		key:      key,
		secret:   secret,
	}, nil
}

// apiError is the problem-details envelope the vendor answers errors with.
type apiError struct {
	Detail string `json:"detail"`
}

func (e *apiError) errorDetail() string { return e.Detail }

type apiDomain struct {
	Name        string `json:"name"`
	UnicodeName string `json:"unicodeName"`
}

type domainsResponse struct {
	apiError
	Items []apiDomain `json:"items"`
	Total int         `json:"total"`
}

type domainResponse struct {
	apiError
	apiDomain
}

type apiRecord struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	TTL          int    `json:"ttl,omitempty"`
	MXPreference *int   `json:"mxPreference,omitempty"`
}

type recordsResponse struct {
	apiError
	Items []apiRecord `json:"items"`
	Total int         `json:"total"`
}

type emptyResponse struct {
	apiError
}

type recordsPayload struct {
	Force bool        `json:"force"`
	Items []apiRecord `json:"items"`
}

func (p *Provider) mapError(message string, status int) error {
	kind := dnsmodel.ErrVendor
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = dnsmodel.ErrAuthFailed
	case http.StatusNotFound:
		kind = dnsmodel.ErrZoneNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = dnsmodel.ErrInvalidValue
	case http.StatusTooManyRequests:
		kind = dnsmodel.ErrRateLimited
	}
	return p.NewError(kind, "", message, status)
}

func call[T any](ctx context.Context, p *Provider, action, method, path string, query url.Values, payload any) (*T, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "spaceship: encode payload")
		}
	}
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		header := http.Header{}
		header.Set("X-API-Key", p.key)
		header.Set("X-API-Secret", p.secret)
		if body != nil {
			header.Set("Content-Type", "application/json")
		}
		u := p.endpoint + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: method,
			URL:    u,
			Header: header,
			Body:   body,
			Action: action,
		}, out)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			msg := http.StatusText(resp.StatusCode)
			if ve, ok := any(out).(interface{ errorDetail() string }); ok && ve.errorDetail() != "" {
				msg = ve.errorDetail()
			}
			return p.mapError(msg, resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckAuth lists one domain page to prove the key pair works.
func (p *Provider) CheckAuth(ctx context.Context) error {
	q := url.Values{}
	q.Set("take", "1")
	q.Set("skip", "0")
	_, err := call[domainsResponse](ctx, p, "ListDomains", http.MethodGet, "/domains", q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	// The domain listing has no keyword parameter, so a filtered query
	// drains the full set and pages client-side.
	if q.Keyword != "" {
		all, err := p.allDomains(ctx)
		if err != nil {
			return dnsmodel.ZoneList{}, err
		}
		var matched []dnsmodel.Zone
		for _, d := range all {
			zone := p.zoneFrom(d)
			if !strings.Contains(zone.Name, q.Keyword) {
				continue
			}
			matched = append(matched, zone)
		}
		page, total := provider.Paginate(matched, q.Page, p.ClampPageSize(q.PageSize))
		return dnsmodel.ZoneList{Zones: page, Total: total}, nil
	}

	size := p.ClampPageSize(q.PageSize)
	query := url.Values{}
	query.Set("take", strconv.Itoa(size))
	query.Set("skip", strconv.Itoa((q.Page-1)*size))
	out, err := call[domainsResponse](ctx, p, "ListDomains", http.MethodGet, "/domains", query, nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: out.Total}
	for _, d := range out.Items {
		list.Zones = append(list.Zones, p.zoneFrom(d))
	}
	return list, nil
}

func (p *Provider) allDomains(ctx context.Context) ([]apiDomain, error) {
	var all []apiDomain
	for page := 0; page < maxFetchPages; page++ {
		query := url.Values{}
		query.Set("take", strconv.Itoa(fetchSize))
		query.Set("skip", strconv.Itoa(page*fetchSize))
		out, err := call[domainsResponse](ctx, p, "ListDomains", http.MethodGet, "/domains", query, nil)
		if err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if len(out.Items) < fetchSize || len(all) >= out.Total {
			return all, nil
		}
	}
	return all, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	name := provider.NormalizeName(idOrName)
	out, err := call[domainResponse](ctx, p, "GetDomain", http.MethodGet, "/domains/"+name, nil, nil)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(out.apiDomain), nil
}

func (p *Provider) zoneFrom(d apiDomain) dnsmodel.Zone {
	z := dnsmodel.Zone{
		ID:     provider.NormalizeName(d.Name),
		Name:   d.Name,
		Status: dnsmodel.StatusEnabled,
	}
	if d.UnicodeName != "" && !strings.EqualFold(d.UnicodeName, d.Name) {
		z.Meta = map[string]string{"unicodeName": d.UnicodeName}
	}
	return p.NormalizeZone(z)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	zone := provider.NormalizeName(zoneID)
	q = q.Normalized()
	// The record listing has no filter parameters, so any canonical filter
	// routes through the shared client-side semantics.
	if q.IsFiltered() {
		all, err := p.allRecords(ctx, zone)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	size := p.ClampPageSize(q.PageSize)
	query := url.Values{}
	query.Set("take", strconv.Itoa(size))
	query.Set("skip", strconv.Itoa((q.Page-1)*size))
	out, err := call[recordsResponse](ctx, p, "ListRecords", http.MethodGet, "/dns/records/"+zone, query, nil)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	list := dnsmodel.RecordList{Total: out.Total}
	for _, rec := range out.Items {
		list.Records = append(list.Records, p.recordFrom(rec, zone))
	}
	return list, nil
}

func (p *Provider) allRecords(ctx context.Context, zone string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for page := 0; page < maxFetchPages; page++ {
		query := url.Values{}
		query.Set("take", strconv.Itoa(fetchSize))
		query.Set("skip", strconv.Itoa(page*fetchSize))
		out, err := call[recordsResponse](ctx, p, "ListRecords", http.MethodGet, "/dns/records/"+zone, query, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Items {
			all = append(all, p.recordFrom(rec, zone))
		}
		if len(out.Items) < fetchSize || len(all) >= out.Total {
			return all, nil
		}
	}
	return all, nil
}

// Record resolves a composite id by scanning the zone; the vendor has no
// per-record endpoint.
func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	zone := provider.NormalizeName(zoneID)
	if _, err := splitRecordID(recordID); err != nil {
		return dnsmodel.Record{}, err
	}
	all, err := p.allRecords(ctx, zone)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	for _, rec := range all {
		if rec.ID == recordID {
			return rec, nil
		}
	}
	return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
		"spaceship: record %q not found", recordID)
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zone := provider.NormalizeName(zoneID)
	item := itemFrom(zone, in)
	payload := recordsPayload{Force: true, Items: []apiRecord{item}}
	if _, err := call[emptyResponse](ctx, p, "SaveRecords", http.MethodPut,
		"/dns/records/"+zone, nil, payload); err != nil {
		return dnsmodel.Record{}, err
	}
	return p.recordFrom(item, zone), nil
}

// UpdateRecord replaces the stored item. Ids encode the record identity, so
// changing name, type, value or preference produces a new id.
func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zone := provider.NormalizeName(zoneID)
	oldItem, err := splitRecordID(recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
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
	item := itemFrom(zone, in)

	payload := recordsPayload{Force: true, Items: []apiRecord{item}}
	if _, err := call[emptyResponse](ctx, p, "SaveRecords", http.MethodPut,
		"/dns/records/"+zone, nil, payload); err != nil {
		return dnsmodel.Record{}, err
	}
	// The new item is written before the old one goes away so a failed
	// cleanup never loses the record.
	if composeRecordID(item) != composeRecordID(oldItem) {
		if _, err := call[emptyResponse](ctx, p, "DeleteRecords", http.MethodDelete,
			"/dns/records/"+zone, nil, []apiRecord{oldItem}); err != nil {
			return dnsmodel.Record{}, err
		}
	}
	return p.recordFrom(item, zone), nil
}

// DeleteRecord removes the stored item matching the composite id. The
// vendor ignores unknown items, so existence is verified first to keep
// deleting a missing record an error.
func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	zone := provider.NormalizeName(zoneID)
	item, err := splitRecordID(recordID)
	if err != nil {
		return err
	}
	if _, err := p.Record(ctx, zoneID, recordID); err != nil {
		return err
	}
	_, err = call[emptyResponse](ctx, p, "DeleteRecords", http.MethodDelete,
		"/dns/records/"+zone, nil, []apiRecord{item})
	return err
}

// SetRecordStatus is not a Spaceship concept; records are always live.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	return p.NewError(dnsmodel.ErrUnsupported, "",
		"spaceship does not support disabling records", 0)
}

func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return dnsmodel.DefaultLines(), nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

func (p *Provider) recordFrom(rec apiRecord, zone string) dnsmodel.Record {
	// Ids are composed from the item, so its fields are canonicalized
	// first; otherwise vendor-side casing would leak into the id.
	rec.Type = strings.ToUpper(rec.Type)
	rec.Name = strings.ToLower(strings.TrimSpace(rec.Name))
	if rec.Name == "" {
		rec.Name = "@"
	}
	switch rec.Type {
	case dnsmodel.TypeCNAME, dnsmodel.TypeMX, dnsmodel.TypeNS:
		rec.Address = provider.TrimDNSValue(rec.Address)
	}
	return p.NormalizeRecord(dnsmodel.Record{
		ID:       composeRecordID(rec),
		ZoneID:   zone,
		ZoneName: zone,
		Name:     provider.AbsName(rec.Name, zone),
		Type:     rec.Type,
		Value:    rec.Address,
		TTL:      rec.TTL,
		Priority: rec.MXPreference,
	})
}

func itemFrom(zone string, in dnsmodel.RecordInput) apiRecord {
	item := apiRecord{
		Type:    strings.ToUpper(in.Type),
		Name:    provider.RelName(in.Name, zone),
		Address: in.Value,
		TTL:     in.TTL,
	}
	if item.TTL == 0 {
		item.TTL = defaultTTL
	}
	switch item.Type {
	case dnsmodel.TypeCNAME, dnsmodel.TypeMX, dnsmodel.TypeNS:
		item.Address = provider.TrimDNSValue(item.Address)
	}
	if item.Type == dnsmodel.TypeMX {
		pref := 10
		if in.Priority != nil {
			pref = *in.Priority
		}
		item.MXPreference = &pref
	}
	return item
}

// Composite ids carry the full record identity: "TYPE|name|address|mx".
// The mx segment is empty for non-MX types; the address segment may itself
// contain pipes, so parsing anchors on the first two and the last one.
func composeRecordID(rec apiRecord) string {
	mx := ""
	if rec.MXPreference != nil {
		mx = strconv.Itoa(*rec.MXPreference)
	}
	return rec.Type + "|" + rec.Name + "|" + rec.Address + "|" + mx
}

func splitRecordID(recordID string) (apiRecord, error) {
	malformed := func() (apiRecord, error) {
		return apiRecord{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"spaceship: malformed record id %q", recordID)
	}
	parts := strings.SplitN(recordID, "|", 3)
	if len(parts) != 3 {
		return malformed()
	}
	cut := strings.LastIndexByte(parts[2], '|')
	if cut < 0 {
		return malformed()
	}
	rec := apiRecord{
		Type:    strings.ToUpper(parts[0]),
		Name:    parts[1],
		Address: parts[2][:cut],
	}
	if mx := parts[2][cut+1:]; mx != "" {
		pref, err := strconv.Atoi(mx)
		if err != nil {
			return malformed()
		}
		rec.MXPreference = &pref
	}
	return rec, nil
}
