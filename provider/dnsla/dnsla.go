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

// Package dnsla adapts the DNS.LA v2 API. Every call carries Basic auth,
// zones are addressed by opaque domain IDs, record types are numeric DNS
// wire codes and URL forwarding rides type 256 with a dominant flag.
package dnsla

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/restclient"
	"github.com/zonegate/zonegate/pkg/sign"
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://api.dns.la"
	defaultMinTTL   = 600

	fetchSize     = 100
	maxFetchPages = 200
)

// Capabilities describes the DNS.LA dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:               dnsmodel.KindDNSLA,
		Label:              "DNS.LA",
		SupportsWeight:     true,
		SupportsLine:       true,
		SupportsStatus:     true,
		SupportsRemark:     true,
		SupportsURLForward: true,
		SupportsZoneAdd:    true,
		RemarkMode:         dnsmodel.RemarkInline,
		RequiresZoneID:     true,
		Paging:             dnsmodel.PagingServer,
		MaxPageSize:        100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS,
			dnsmodel.TypeRedirectURL, dnsmodel.TypeForwardURL,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "apiId", Label: "API ID", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "apiSecret", Label: "API Secret", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the DNS.LA adapter.
type Provider struct {
	provider.Base

	http     *restclient.Client
	endpoint string
	auth     string

	// names caches domain ID → zone name for record name conversion.
	names sync.Map
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	id, secret := secrets["apiId"], secrets["apiSecret"]
	if id == "" || secret == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"dnsla: apiId and apiSecret are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:     provider.Base{Caps: Capabilities()},
		http:     restclient.New(opts.HTTPClient, string(dnsmodel.KindDNSLA), restclient.WithRateLimit(opts.RateLimit)),
		endpoint: endpoint,
		auth:     sign.BasicAuth(id, secret),
	}, nil
}

// apiError is the common envelope: code mirrors HTTP status, 200 is
// success.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e *apiError) vendorError() (string, string) {
	if e.Code == 0 || e.Code == http.StatusOK {
		return "", ""
	}
	return strconv.Itoa(e.Code), e.Message
}

type apiDomain struct {
	ID          string `json:"id"`
	Domain      string `json:"domain"`
	Disable     bool   `json:"disable"`
	RecordCount *int   `json:"recordCount"`
	UpdatedAt   string `json:"updatedAt"`
}

type domainListResponse struct {
	apiError
	Data struct {
		Total   int         `json:"total"`
		Results []apiDomain `json:"results"`
	} `json:"data"`
}

type domainResponse struct {
	apiError
	Data apiDomain `json:"data"`
}

// apiRecord tolerates both spellings of the explicit-redirect flag the
// vendor emits.
type apiRecord struct {
	ID         string `json:"id"`
	DomainID   string `json:"domainId"`
	Host       string `json:"host"`
	Type       int    `json:"type"`
	Data       string `json:"data"`
	TTL        int    `json:"ttl"`
	Weight     *int   `json:"weight"`
	Preference *int   `json:"preference"`
	Line       string `json:"lineId"`
	Disable    bool   `json:"disable"`
	Dominant   *bool  `json:"dominant"`
	Domaint    *bool  `json:"domaint"`
	Remark     string `json:"remark"`
	UpdatedAt  string `json:"updatedAt"`
}

type recordListResponse struct {
	apiError
	Data struct {
		Total   int         `json:"total"`
		Results []apiRecord `json:"results"`
	} `json:"data"`
}

type recordResponse struct {
	apiError
	Data apiRecord `json:"data"`
}

type createdResponse struct {
	apiError
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type emptyResponse struct {
	apiError
}

type recordPayload struct {
	ID         string  `json:"id,omitempty"`
	DomainID   string  `json:"domainId"`
	Host       string  `json:"host"`
	Type       int     `json:"type"`
	Data       string  `json:"data"`
	TTL        int     `json:"ttl,omitempty"`
	Weight     *int    `json:"weight,omitempty"`
	Preference *int    `json:"preference,omitempty"`
	Line       string  `json:"lineId,omitempty"`
	Dominant   *bool   `json:"dominant,omitempty"`
	Remark     *string `json:"remark,omitempty"`
}

// Vendor codes mirror HTTP statuses.
var errorKinds = map[string]dnsmodel.ErrorKind{
	"401": dnsmodel.ErrAuthFailed,
	"403": dnsmodel.ErrAuthFailed,
	"404": dnsmodel.ErrZoneNotFound,
	"429": dnsmodel.ErrRateLimited,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	} else {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = dnsmodel.ErrAuthFailed
		case http.StatusNotFound:
			kind = dnsmodel.ErrZoneNotFound
		case http.StatusTooManyRequests:
			kind = dnsmodel.ErrRateLimited
		}
	}
	if kind == dnsmodel.ErrZoneNotFound && strings.Contains(strings.ToLower(message), "record") {
		kind = dnsmodel.ErrRecordNotFound
	}
	return p.NewError(kind, code, message, status)
}

func call[T any](ctx context.Context, p *Provider, method, path string, query url.Values, payload any) (*T, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "dnsla: encode payload")
		}
	}

	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		u := p.endpoint + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		header := http.Header{}
		header.Set("Authorization", p.auth)
		if payload != nil {
			header.Set("Content-Type", "application/json")
		}
		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: method,
			URL:    u,
			Header: header,
			Body:   body,
			Action: method + " " + path,
		}, out)
		if err != nil {
			return err
		}
		if ve, ok := any(out).(interface{ vendorError() (string, string) }); ok {
			if code, msg := ve.vendorError(); code != "" {
				return p.mapError(code, msg, resp.StatusCode)
			}
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
	q.Set("pageIndex", "1")
	q.Set("pageSize", "1")
	_, err := call[domainListResponse](ctx, p, http.MethodGet, "/api/domainList", q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()

	// The listing takes no keyword; searches drain and filter here.
	if q.Keyword != "" {
		all, err := p.allZones(ctx)
		if err != nil {
			return dnsmodel.ZoneList{}, err
		}
		matched := make([]dnsmodel.Zone, 0, len(all))
		for _, z := range all {
			if strings.Contains(z.Name, q.Keyword) {
				matched = append(matched, z)
			}
		}
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.ZoneList{Zones: page, Total: total}, nil
	}

	query := url.Values{}
	query.Set("pageIndex", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	out, err := call[domainListResponse](ctx, p, http.MethodGet, "/api/domainList", query, nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	zones := make([]dnsmodel.Zone, 0, len(out.Data.Results))
	for _, d := range out.Data.Results {
		zones = append(zones, p.zoneFrom(d))
	}
	return dnsmodel.ZoneList{Zones: zones, Total: out.Data.Total}, nil
}

func (p *Provider) allZones(ctx context.Context) ([]dnsmodel.Zone, error) {
	var all []dnsmodel.Zone
	for page := 1; page <= maxFetchPages; page++ {
		query := url.Values{}
		query.Set("pageIndex", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(fetchSize))
		out, err := call[domainListResponse](ctx, p, http.MethodGet, "/api/domainList", query, nil)
		if err != nil {
			return nil, err
		}
		for _, d := range out.Data.Results {
			all = append(all, p.zoneFrom(d))
		}
		if len(out.Data.Results) < fetchSize {
			break
		}
	}
	return all, nil
}

// Zone accepts either the vendor domain ID or a zone name; names carry
// dots, IDs never do.
func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	if !strings.Contains(idOrName, ".") {
		out, err := call[domainResponse](ctx, p, http.MethodGet, "/api/domain",
			url.Values{"id": []string{idOrName}}, nil)
		if err != nil {
			return dnsmodel.Zone{}, err
		}
		if out.Data.ID == "" {
			return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "dnsla: zone %q not found", idOrName)
		}
		return p.zoneFrom(out.Data), nil
	}

	name := provider.NormalizeName(idOrName)
	all, err := p.allZones(ctx)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	for _, z := range all {
		if z.Name == name {
			return z, nil
		}
	}
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "dnsla: zone %q not found", idOrName)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}

	// The record listing takes no filters; any filter drains the zone
	// and applies client-side.
	if q.Keyword != "" || q.SubDomain != "" || q.Type != "" || q.Value != "" || q.Line != "" || q.Status != "" {
		all, err := p.allRecords(ctx, zoneID, zoneName)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	query := url.Values{}
	query.Set("domainId", zoneID)
	query.Set("pageIndex", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	out, err := call[recordListResponse](ctx, p, http.MethodGet, "/api/recordList", query, nil)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	records := make([]dnsmodel.Record, 0, len(out.Data.Results))
	for _, rec := range out.Data.Results {
		records = append(records, p.recordFrom(rec, zoneID, zoneName))
	}
	return dnsmodel.RecordList{Records: records, Total: out.Data.Total}, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID, zoneName string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for page := 1; page <= maxFetchPages; page++ {
		query := url.Values{}
		query.Set("domainId", zoneID)
		query.Set("pageIndex", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(fetchSize))
		out, err := call[recordListResponse](ctx, p, http.MethodGet, "/api/recordList", query, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Data.Results {
			all = append(all, p.recordFrom(rec, zoneID, zoneName))
		}
		if len(out.Data.Results) < fetchSize {
			return all, nil
		}
	}
	return all, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	out, err := call[recordResponse](ctx, p, http.MethodGet, "/api/record",
		url.Values{"id": []string{recordID}}, nil)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if out.Data.ID == "" {
		return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "dnsla: record %q not found", recordID)
	}
	return p.recordFrom(out.Data, zoneID, zoneName), nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	payload, err := p.recordPayloadFrom(zoneID, zoneName, in)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	out, err := call[createdResponse](ctx, p, http.MethodPost, "/api/record", nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if out.Data.ID == "" {
		return dnsmodel.Record{}, dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
			"dnsla: create response carried no record ID")
	}
	rec := p.recordFromInput(out.Data.ID, zoneID, zoneName, in)

	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, rec.ID, false); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	return rec, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	// The PUT wants the full record, so fill gaps from the current one.
	if in.Name == "" || in.Type == "" || in.Value == "" || in.TTL == 0 {
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
		if in.Line == "" {
			in.Line = cur.Line
		}
		if in.Priority == nil {
			in.Priority = cur.Priority
		}
		if in.Weight == nil {
			in.Weight = cur.Weight
		}
		if in.Remark == nil && cur.Remark != "" {
			remark := cur.Remark
			in.Remark = &remark
		}
	}
	payload, err := p.recordPayloadFrom(zoneID, zoneName, in)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	payload.ID = recordID
	if _, err := call[emptyResponse](ctx, p, http.MethodPut, "/api/record", nil, payload); err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(recordID, zoneID, zoneName, in)

	if in.Status != "" {
		if err := p.SetRecordStatus(ctx, zoneID, recordID, in.Status == dnsmodel.StatusEnabled); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Status = in.Status
	}
	return rec, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	_, err := call[emptyResponse](ctx, p, http.MethodDelete, "/api/record",
		url.Values{"id": []string{recordID}}, nil)
	return err
}

// SetRecordStatus drives the dedicated status endpoint; the vendor flag
// is inverted (disable=true pauses).
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	payload := map[string]any{"id": recordID, "disable": !enabled}
	_, err := call[emptyResponse](ctx, p, http.MethodPut, "/api/recordStatus", nil, payload)
	return err
}

func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return []dnsmodel.Line{
		{Code: dnsmodel.LineDefault, Name: "Default"},
		{Code: dnsmodel.LineTelecom, Name: "China Telecom"},
		{Code: dnsmodel.LineUnicom, Name: "China Unicom"},
		{Code: dnsmodel.LineMobile, Name: "China Mobile"},
		{Code: dnsmodel.LineEdu, Name: "China Education"},
		{Code: dnsmodel.LineOversea, Name: "Outside Mainland"},
		{Code: dnsmodel.LineSearch, Name: "Search Engine"},
	}, nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

// CreateZone registers the domain and returns its fresh handle.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	name = provider.NormalizeName(name)
	payload := map[string]string{"domain": name}
	out, err := call[createdResponse](ctx, p, http.MethodPost, "/api/domain", nil, payload)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	if out.Data.ID == "" {
		return dnsmodel.Zone{}, dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
			"dnsla: create response carried no domain ID")
	}
	p.names.Store(out.Data.ID, name)
	return p.NormalizeZone(dnsmodel.Zone{
		ID:     out.Data.ID,
		Name:   name,
		Status: dnsmodel.StatusEnabled,
	}), nil
}

// zoneName resolves and caches the zone name for a domain ID.
func (p *Provider) zoneName(ctx context.Context, zoneID string) (string, error) {
	if name, ok := p.names.Load(zoneID); ok {
		return name.(string), nil
	}
	zone, err := p.Zone(ctx, zoneID)
	if err != nil {
		return "", err
	}
	return zone.Name, nil
}

func (p *Provider) zoneFrom(d apiDomain) dnsmodel.Zone {
	name := provider.NormalizeName(d.Domain)
	p.names.Store(d.ID, name)
	status := dnsmodel.StatusEnabled
	if d.Disable {
		status = dnsmodel.StatusDisabled
	}
	return p.NormalizeZone(dnsmodel.Zone{
		ID:          d.ID,
		Name:        d.Domain,
		Status:      status,
		RecordCount: d.RecordCount,
		UpdatedAt:   d.UpdatedAt,
	})
}

func (p *Provider) recordFrom(rec apiRecord, zoneID, zoneName string) dnsmodel.Record {
	dominant := rec.Dominant
	if dominant == nil {
		dominant = rec.Domaint
	}
	r := dnsmodel.Record{
		ID:        rec.ID,
		ZoneID:    zoneID,
		ZoneName:  zoneName,
		Name:      provider.AbsName(rec.Host, zoneName),
		Type:      canonicalType(rec.Type, dominant),
		Value:     rec.Data,
		TTL:       rec.TTL,
		Line:      canonicalLine(rec.Line),
		Weight:    rec.Weight,
		Status:    dnsmodel.StatusEnabled,
		Remark:    rec.Remark,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Type == typeIDs[dnsmodel.TypeMX] && rec.Preference != nil {
		prio := *rec.Preference
		r.Priority = &prio
	}
	if rec.Disable {
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneID, zoneName string, in dnsmodel.RecordInput) dnsmodel.Record {
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	r := dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Name:     provider.AbsName(in.Name, zoneName),
		Type:     in.Type,
		Value:    in.Value,
		TTL:      in.TTL,
		Line:     line,
		Weight:   in.Weight,
		Priority: in.Priority,
		Status:   dnsmodel.StatusEnabled,
	}
	if in.Remark != nil {
		r.Remark = *in.Remark
	}
	if in.Status == dnsmodel.StatusDisabled {
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordPayloadFrom(zoneID, zoneName string, in dnsmodel.RecordInput) (recordPayload, error) {
	typeID, dominant, err := vendorType(in.Type)
	if err != nil {
		return recordPayload{}, err
	}
	payload := recordPayload{
		DomainID: zoneID,
		Host:     provider.RelName(in.Name, zoneName),
		Type:     typeID,
		Data:     in.Value,
		TTL:      in.TTL,
		Weight:   in.Weight,
		Line:     vendorLine(in.Line),
		Dominant: dominant,
		Remark:   in.Remark,
	}
	if strings.EqualFold(in.Type, dnsmodel.TypeMX) {
		prio := 10
		if in.Priority != nil {
			prio = *in.Priority
		}
		payload.Preference = &prio
	}
	return payload, nil
}

// Record types are DNS wire codes; 256 doubles for both URL-forwarding
// flavors, told apart by the dominant flag.
var typeIDs = map[string]int{
	dnsmodel.TypeA:           1,
	dnsmodel.TypeNS:          2,
	dnsmodel.TypeCNAME:       5,
	dnsmodel.TypeMX:          15,
	dnsmodel.TypeTXT:         16,
	dnsmodel.TypeAAAA:        28,
	dnsmodel.TypeSRV:         33,
	dnsmodel.TypeRedirectURL: 256,
	dnsmodel.TypeForwardURL:  256,
	dnsmodel.TypeCAA:         257,
}

var typesByID = func() map[int]string {
	m := make(map[int]string, len(typeIDs))
	for name, id := range typeIDs {
		if id == 256 {
			continue
		}
		m[id] = name
	}
	return m
}()

func vendorType(canonical string) (int, *bool, error) {
	upper := strings.ToUpper(canonical)
	id, ok := typeIDs[upper]
	if !ok {
		return 0, nil, dnsmodel.NewErrorf(dnsmodel.ErrUnsupported, "dnsla: record type %q not supported", canonical)
	}
	switch upper {
	case dnsmodel.TypeRedirectURL:
		dominant := true
		return id, &dominant, nil
	case dnsmodel.TypeForwardURL:
		dominant := false
		return id, &dominant, nil
	}
	return id, nil, nil
}

func canonicalType(id int, dominant *bool) string {
	if id == 256 {
		if dominant != nil && !*dominant {
			return dnsmodel.TypeForwardURL
		}
		return dnsmodel.TypeRedirectURL
	}
	if name, ok := typesByID[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// Resolution lines are numeric group IDs; the default group omits the
// field.
var lineByCanonical = map[string]string{
	dnsmodel.LineDefault: "",
	dnsmodel.LineTelecom: "1",
	dnsmodel.LineUnicom:  "2",
	dnsmodel.LineMobile:  "3",
	dnsmodel.LineEdu:     "4",
	dnsmodel.LineOversea: "5",
	dnsmodel.LineSearch:  "6",
}

var canonicalByLine = func() map[string]string {
	m := make(map[string]string, len(lineByCanonical))
	for canonical, vendor := range lineByCanonical {
		m[vendor] = canonical
	}
	return m
}()

func vendorLine(canonical string) string {
	if vendor, ok := lineByCanonical[canonical]; ok {
		return vendor
	}
	return canonical
}

func canonicalLine(vendor string) string {
	if canonical, ok := canonicalByLine[vendor]; ok {
		return canonical
	}
	return vendor
}
