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

// Package jdcloud adapts the JD Cloud domain-service API. Zones are
// addressed by numeric domain ID under a fixed region path, resolution
// lines are numeric view values, and the vendor caps pages at 99 entries.
package jdcloud

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
	defaultEndpoint = "https://domainservice.jdcloud-api.com"
	apiService      = "domainservice"
	apiRegion       = "cn-north-1"

	defaultMinTTL = 600

	// The vendor rejects pageSize above 99.
	maxPageSize   = 99
	maxFetchPages = 200
)

// Capabilities describes the JD Cloud dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:               dnsmodel.KindJDCloud,
		Label:              "JD Cloud DNS",
		SupportsWeight:     true,
		SupportsLine:       true,
		SupportsStatus:     true,
		SupportsURLForward: true,
		RemarkMode:         dnsmodel.RemarkUnsupported,
		RequiresZoneID:     true,
		Paging:             dnsmodel.PagingServer,
		MaxPageSize:        maxPageSize,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS,
			dnsmodel.TypeRedirectURL, dnsmodel.TypeForwardURL,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "accessKeyId", Label: "Access Key ID", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "secretAccessKey", Label: "Secret Access Key", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the JD Cloud adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	host      string
	accessKey string
	secretKey string
	clock     sign.Clock
	nonce     sign.Nonce

	// names caches domain ID → zone name for record name conversion.
	names sync.Map
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	ak, sk := secrets["accessKeyId"], secrets["secretAccessKey"]
	if ak == "" || sk == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"jdcloud: accessKeyId and secretAccessKey are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "jdcloud: parse endpoint")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindJDCloud), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:  endpoint,
		host:      u.Host,
		accessKey: ak,
		secretKey: sk,
		clock:     opts.ClockOrDefault(),
		nonce:     opts.NonceOrDefault(),
	}, nil
}

// apiError is the envelope's error member: a numeric code plus a status
// token such as INVALID_ARGUMENT.
type apiError struct {
	RequestID string `json:"requestId"`
	Error     *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *apiError) vendorError() (string, string) {
	if e.Error == nil {
		return "", ""
	}
	code := e.Error.Status
	if code == "" {
		code = strconv.Itoa(e.Error.Code)
	}
	return code, e.Error.Message
}

type apiDomain struct {
	ID         int64  `json:"id"`
	DomainName string `json:"domainName"`
	PackID     int    `json:"packId"`
}

type domainsResponse struct {
	apiError
	Result struct {
		DataList   []apiDomain `json:"dataList"`
		TotalCount int         `json:"totalCount"`
	} `json:"result"`
}

type apiRecord struct {
	ID         int64  `json:"id"`
	HostRecord string `json:"hostRecord"`
	HostValue  string `json:"hostValue"`
	Type       string `json:"type"`
	TTL        int    `json:"ttl"`
	ViewValue  int    `json:"viewValue"`
	MXPriority *int   `json:"mxPriority"`
	Weight     *int   `json:"weight"`
	Status     string `json:"status"`
}

type recordsResponse struct {
	apiError
	Result struct {
		DataList   []apiRecord `json:"dataList"`
		TotalCount int         `json:"totalCount"`
	} `json:"result"`
}

type recordResponse struct {
	apiError
	Result apiRecord `json:"result"`
}

type emptyResponse struct {
	apiError
}

type recordPayload struct {
	HostRecord string `json:"hostRecord"`
	HostValue  string `json:"hostValue"`
	Type       string `json:"type"`
	TTL        int    `json:"ttl,omitempty"`
	ViewValue  int    `json:"viewValue"`
	MXPriority *int   `json:"mxPriority,omitempty"`
	Weight     *int   `json:"weight,omitempty"`
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"AUTH_FAILED":        dnsmodel.ErrAuthFailed,
	"UNAUTHENTICATED":    dnsmodel.ErrAuthFailed,
	"PERMISSION_DENIED":  dnsmodel.ErrAuthFailed,
	"NOT_FOUND":          dnsmodel.ErrZoneNotFound,
	"RESOURCE_EXHAUSTED": dnsmodel.ErrRateLimited,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
		if kind == dnsmodel.ErrZoneNotFound && strings.Contains(strings.ToLower(message), "record") {
			kind = dnsmodel.ErrRecordNotFound
		}
	} else {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = dnsmodel.ErrAuthFailed
		case http.StatusNotFound:
			kind = dnsmodel.ErrZoneNotFound
			if strings.Contains(strings.ToLower(message), "record") {
				kind = dnsmodel.ErrRecordNotFound
			}
		case http.StatusTooManyRequests:
			kind = dnsmodel.ErrRateLimited
		}
	}
	return p.NewError(kind, code, message, status)
}

func call[T any](ctx context.Context, p *Provider, action, method, path string, query url.Values, payload any) (*T, error) {
	contentType := ""
	var body []byte
	if payload != nil {
		contentType = "application/json"
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "jdcloud: encode payload")
		}
	}

	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		header := sign.JDCloud(sign.JDCloudRequest{
			Method:      method,
			Host:        p.host,
			Path:        path,
			Query:       query,
			Region:      apiRegion,
			Service:     apiService,
			ContentType: contentType,
			Payload:     body,
		}, p.accessKey, p.secretKey, p.clock, p.nonce)

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

func domainsPath() string {
	return "/v2/regions/" + apiRegion + "/domains"
}

func recordsPath(domainID string) string {
	return "/v2/regions/" + apiRegion + "/domain/" + domainID + "/ResourceRecord"
}

// CheckAuth lists one domain page to prove the keys work.
func (p *Provider) CheckAuth(ctx context.Context) error {
	q := url.Values{}
	q.Set("pageNumber", "1")
	q.Set("pageSize", "1")
	_, err := call[domainsResponse](ctx, p, "DescribeDomains", http.MethodGet, domainsPath(), q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.Keyword != "" {
		query.Set("domainName", q.Keyword)
	}
	out, err := call[domainsResponse](ctx, p, "DescribeDomains", http.MethodGet, domainsPath(), query, nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	zones := make([]dnsmodel.Zone, 0, len(out.Result.DataList))
	for _, d := range out.Result.DataList {
		zones = append(zones, p.zoneFrom(d))
	}
	return dnsmodel.ZoneList{Zones: zones, Total: out.Result.TotalCount}, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	if _, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		return p.zoneByID(ctx, idOrName)
	}
	name := provider.NormalizeName(idOrName)
	query := url.Values{}
	query.Set("pageNumber", "1")
	query.Set("pageSize", strconv.Itoa(maxPageSize))
	query.Set("domainName", name)
	out, err := call[domainsResponse](ctx, p, "DescribeDomains", http.MethodGet, domainsPath(), query, nil)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	for _, d := range out.Result.DataList {
		if provider.NormalizeName(d.DomainName) == name {
			return p.zoneFrom(d), nil
		}
	}
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "jdcloud: zone %q not found", idOrName)
}

// zoneByID scans the domain list; the vendor has no single-domain read.
func (p *Provider) zoneByID(ctx context.Context, domainID string) (dnsmodel.Zone, error) {
	for page := 1; page <= maxFetchPages; page++ {
		query := url.Values{}
		query.Set("pageNumber", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(maxPageSize))
		out, err := call[domainsResponse](ctx, p, "DescribeDomains", http.MethodGet, domainsPath(), query, nil)
		if err != nil {
			return dnsmodel.Zone{}, err
		}
		for _, d := range out.Result.DataList {
			if strconv.FormatInt(d.ID, 10) == domainID {
				return p.zoneFrom(d), nil
			}
		}
		if len(out.Result.DataList) < maxPageSize {
			break
		}
	}
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "jdcloud: zone %q not found", domainID)
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
	query.Set("pageNumber", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	out, err := call[recordsResponse](ctx, p, "DescribeResourceRecords", http.MethodGet, recordsPath(zoneID), query, nil)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	records := make([]dnsmodel.Record, 0, len(out.Result.DataList))
	for _, rec := range out.Result.DataList {
		records = append(records, p.recordFrom(rec, zoneID, zoneName))
	}
	return dnsmodel.RecordList{Records: records, Total: out.Result.TotalCount}, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID, zoneName string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for page := 1; page <= maxFetchPages; page++ {
		query := url.Values{}
		query.Set("pageNumber", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(maxPageSize))
		out, err := call[recordsResponse](ctx, p, "DescribeResourceRecords", http.MethodGet, recordsPath(zoneID), query, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Result.DataList {
			all = append(all, p.recordFrom(rec, zoneID, zoneName))
		}
		if len(out.Result.DataList) < maxPageSize {
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
	all, err := p.allRecords(ctx, zoneID, zoneName)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	for _, rec := range all {
		if rec.ID == recordID {
			return rec, nil
		}
	}
	return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "jdcloud: record %q not found", recordID)
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	payload := p.recordPayloadFrom(zoneName, in)
	out, err := call[recordResponse](ctx, p, "CreateResourceRecord", http.MethodPost, recordsPath(zoneID), nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if out.Result.ID == 0 {
		return dnsmodel.Record{}, dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
			"jdcloud: create response carried no record ID")
	}
	rec := p.recordFromInput(strconv.FormatInt(out.Result.ID, 10), zoneID, zoneName, in)

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
	}
	payload := p.recordPayloadFrom(zoneName, in)
	if _, err := call[recordResponse](ctx, p, "ModifyResourceRecord", http.MethodPut,
		recordsPath(zoneID)+"/"+recordID, nil, payload); err != nil {
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
	_, err := call[emptyResponse](ctx, p, "DeleteResourceRecord", http.MethodDelete,
		recordsPath(zoneID)+"/"+recordID, nil, nil)
	return err
}

// SetRecordStatus drives the status sub-resource with enable/disable
// actions.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	payload := map[string]string{"action": action}
	_, err := call[emptyResponse](ctx, p, "OperateResourceRecordStatus", http.MethodPut,
		recordsPath(zoneID)+"/"+recordID+"/status", nil, payload)
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

// zoneName resolves and caches the zone name for a domain ID.
func (p *Provider) zoneName(ctx context.Context, zoneID string) (string, error) {
	if name, ok := p.names.Load(zoneID); ok {
		return name.(string), nil
	}
	zone, err := p.zoneByID(ctx, zoneID)
	if err != nil {
		return "", err
	}
	return zone.Name, nil
}

func (p *Provider) zoneFrom(d apiDomain) dnsmodel.Zone {
	id := strconv.FormatInt(d.ID, 10)
	name := provider.NormalizeName(d.DomainName)
	p.names.Store(id, name)
	return p.NormalizeZone(dnsmodel.Zone{
		ID:     id,
		Name:   d.DomainName,
		Status: dnsmodel.StatusEnabled,
		Meta:   map[string]string{"packId": strconv.Itoa(d.PackID)},
	})
}

func (p *Provider) recordFrom(rec apiRecord, zoneID, zoneName string) dnsmodel.Record {
	recordType := canonicalType(rec.Type)
	r := dnsmodel.Record{
		ID:       strconv.FormatInt(rec.ID, 10),
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Name:     provider.AbsName(rec.HostRecord, zoneName),
		Type:     recordType,
		Value:    rec.HostValue,
		TTL:      rec.TTL,
		Line:     canonicalView(rec.ViewValue),
		Weight:   rec.Weight,
		Status:   dnsmodel.StatusEnabled,
	}
	if recordType == dnsmodel.TypeMX && rec.MXPriority != nil {
		prio := *rec.MXPriority
		r.Priority = &prio
	}
	if strings.EqualFold(rec.Status, "disable") {
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
	if in.Status == dnsmodel.StatusDisabled {
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordPayloadFrom(zoneName string, in dnsmodel.RecordInput) recordPayload {
	payload := recordPayload{
		HostRecord: provider.RelName(in.Name, zoneName),
		HostValue:  in.Value,
		Type:       vendorType(in.Type),
		TTL:        in.TTL,
		ViewValue:  vendorView(in.Line),
		Weight:     in.Weight,
	}
	if strings.EqualFold(in.Type, dnsmodel.TypeMX) {
		prio := 10
		if in.Priority != nil {
			prio = *in.Priority
		}
		payload.MXPriority = &prio
	}
	return payload
}

// JD Cloud resolution views are numeric; -1 is the default view.
var viewByCanonical = map[string]int{
	dnsmodel.LineDefault: -1,
	dnsmodel.LineTelecom: 1,
	dnsmodel.LineUnicom:  2,
	dnsmodel.LineMobile:  3,
	dnsmodel.LineEdu:     4,
	dnsmodel.LineOversea: 5,
	dnsmodel.LineSearch:  6,
}

var canonicalByView = func() map[int]string {
	m := make(map[int]string, len(viewByCanonical))
	for canonical, view := range viewByCanonical {
		m[view] = canonical
	}
	return m
}()

func vendorView(canonical string) int {
	if canonical == "" {
		return viewByCanonical[dnsmodel.LineDefault]
	}
	if view, ok := viewByCanonical[canonical]; ok {
		return view
	}
	// Unknown codes pass through when they are already numeric.
	if view, err := strconv.Atoi(canonical); err == nil {
		return view
	}
	return viewByCanonical[dnsmodel.LineDefault]
}

func canonicalView(view int) string {
	if canonical, ok := canonicalByView[view]; ok {
		return canonical
	}
	return strconv.Itoa(view)
}

// The vendor spells URL forwarding as explicit/implicit.
func vendorType(canonical string) string {
	switch strings.ToUpper(canonical) {
	case dnsmodel.TypeRedirectURL:
		return "EXPLICIT_URL"
	case dnsmodel.TypeForwardURL:
		return "IMPLICIT_URL"
	}
	return strings.ToUpper(canonical)
}

func canonicalType(vendor string) string {
	switch strings.ToUpper(vendor) {
	case "EXPLICIT_URL":
		return dnsmodel.TypeRedirectURL
	case "IMPLICIT_URL":
		return dnsmodel.TypeForwardURL
	}
	return strings.ToUpper(vendor)
}
