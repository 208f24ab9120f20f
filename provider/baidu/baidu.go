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

// Package baidu adapts Baidu Cloud DNS. The vendor pages with opaque
// markers, so listings fetch the full set and page client-side; zones are
// addressed by name and record status toggles are query-string actions on
// the record resource.
package baidu

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
	"github.com/zonegate/zonegate/pkg/sign"
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://dns.baidubce.com"
	defaultMinTTL   = 600

	// Marker pages are drained at the vendor maximum per fetch.
	fetchSize = 1000
)

// Capabilities describes the Baidu Cloud DNS dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:            dnsmodel.KindBaidu,
		Label:           "Baidu Cloud DNS",
		SupportsLine:    true,
		SupportsStatus:  true,
		SupportsRemark:  true,
		RemarkMode:      dnsmodel.RemarkInline,
		SupportsZoneAdd: true,
		Paging:          dnsmodel.PagingClient,
		MaxPageSize:     100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS,
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

// Provider implements the Baidu Cloud adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	host      string
	accessKey string
	secretKey string
	clock     sign.Clock
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	ak, sk := secrets["accessKeyId"], secrets["secretAccessKey"]
	if ak == "" || sk == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"baidu: accessKeyId and secretAccessKey are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "baidu: parse endpoint")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindBaidu), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:  endpoint,
		host:      u.Host,
		accessKey: ak,
		secretKey: sk,
		clock:     opts.ClockOrDefault(),
	}, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) vendorError() (string, string) { return e.Code, e.Message }

type apiZone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type zonesResponse struct {
	apiError
	Zones       []apiZone `json:"zones"`
	IsTruncated bool      `json:"isTruncated"`
	NextMarker  string    `json:"nextMarker"`
}

type apiRecord struct {
	ID          string `json:"id"`
	RR          string `json:"rr"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	TTL         int    `json:"ttl"`
	Line        string `json:"line"`
	Priority    int    `json:"priority"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type recordsResponse struct {
	apiError
	Records     []apiRecord `json:"records"`
	IsTruncated bool        `json:"isTruncated"`
	NextMarker  string      `json:"nextMarker"`
}

type createResponse struct {
	apiError
	ID string `json:"id"`
}

type emptyResponse struct {
	apiError
}

type recordPayload struct {
	RR          string  `json:"rr"`
	Type        string  `json:"type"`
	Value       string  `json:"value"`
	TTL         int     `json:"ttl,omitempty"`
	Line        string  `json:"line,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Description *string `json:"description,omitempty"`
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"InvalidAccessKeyId":    dnsmodel.ErrAuthFailed,
	"SignatureDoesNotMatch": dnsmodel.ErrAuthFailed,
	"AccessDenied":          dnsmodel.ErrAuthFailed,
	"InvalidHTTPAuthHeader": dnsmodel.ErrAuthFailed,
	"RequestExpired":        dnsmodel.ErrAuthFailed,
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
			if strings.Contains(strings.ToLower(code+message), "record") {
				kind = dnsmodel.ErrRecordNotFound
			}
		case http.StatusTooManyRequests:
			kind = dnsmodel.ErrRateLimited
		}
	}
	return p.NewError(kind, code, message, status)
}

func call[T any](ctx context.Context, p *Provider, action, method, path string, query url.Values, payload any) (*T, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "baidu: encode payload")
		}
	}
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		auth := sign.BCE(sign.BCERequest{
			Method: method,
			Host:   p.host,
			Path:   path,
			Query:  query,
		}, p.accessKey, p.secretKey, p.clock)

		header := http.Header{}
		header.Set("Host", p.host)
		header.Set("Authorization", auth)
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

// CheckAuth lists one zone page to prove the keys work.
func (p *Provider) CheckAuth(ctx context.Context) error {
	q := url.Values{}
	q.Set("maxKeys", "1")
	_, err := call[zonesResponse](ctx, p, "ListZones", http.MethodGet, "/v1/dns/zone", q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	zones, err := p.allZones(ctx, q.Keyword)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	var matched []dnsmodel.Zone
	for _, z := range zones {
		zone := p.zoneFrom(z)
		if q.Keyword != "" && !strings.Contains(zone.Name, q.Keyword) {
			continue
		}
		matched = append(matched, zone)
	}
	page, total := provider.Paginate(matched, q.Page, p.ClampPageSize(q.PageSize))
	return dnsmodel.ZoneList{Zones: page, Total: total}, nil
}

func (p *Provider) allZones(ctx context.Context, keyword string) ([]apiZone, error) {
	var zones []apiZone
	marker := ""
	for {
		query := url.Values{}
		query.Set("maxKeys", strconv.Itoa(fetchSize))
		if keyword != "" {
			query.Set("name", keyword)
		}
		if marker != "" {
			query.Set("marker", marker)
		}
		out, err := call[zonesResponse](ctx, p, "ListZones", http.MethodGet, "/v1/dns/zone", query, nil)
		if err != nil {
			return nil, err
		}
		zones = append(zones, out.Zones...)
		if !out.IsTruncated || out.NextMarker == "" {
			return zones, nil
		}
		marker = out.NextMarker
	}
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	name := provider.NormalizeName(idOrName)
	zones, err := p.allZones(ctx, name)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	for _, z := range zones {
		if provider.NormalizeName(z.Name) == name {
			return p.zoneFrom(z), nil
		}
	}
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "baidu: zone %q not found", idOrName)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	all, err := p.allRecords(ctx, zoneID)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	matched := provider.FilterRecords(all, q)
	page, total := provider.Paginate(matched, q.Page, q.PageSize)
	return dnsmodel.RecordList{Records: page, Total: total}, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	marker := ""
	for {
		query := url.Values{}
		query.Set("maxKeys", strconv.Itoa(fetchSize))
		if marker != "" {
			query.Set("marker", marker)
		}
		out, err := call[recordsResponse](ctx, p, "ListRecords", http.MethodGet,
			"/v1/dns/zone/"+zoneID+"/record", query, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Records {
			all = append(all, p.recordFrom(rec, zoneID))
		}
		if !out.IsTruncated || out.NextMarker == "" {
			return all, nil
		}
		marker = out.NextMarker
	}
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	query := url.Values{}
	query.Set("id", recordID)
	query.Set("maxKeys", strconv.Itoa(fetchSize))
	out, err := call[recordsResponse](ctx, p, "ListRecords", http.MethodGet,
		"/v1/dns/zone/"+zoneID+"/record", query, nil)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	for _, rec := range out.Records {
		if rec.ID == recordID {
			return p.recordFrom(rec, zoneID), nil
		}
	}
	return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "baidu: record %q not found", recordID)
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	payload := p.recordPayloadFrom(zoneID, in)
	out, err := call[createResponse](ctx, p, "CreateRecord", http.MethodPost,
		"/v1/dns/zone/"+zoneID+"/record", nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	id := out.ID
	if id == "" {
		// The create call answers with an empty body; find the new record
		// by its identity.
		found, err := p.findRecord(ctx, zoneID, in)
		if err != nil {
			return dnsmodel.Record{}, err
		}
		id = found
	}
	rec := p.recordFromInput(id, zoneID, in)

	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, id, false); err != nil {
			return rec, provider.MarkPartial(err, id)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	return rec, nil
}

func (p *Provider) findRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (string, error) {
	rr := provider.RelName(in.Name, zoneID)
	query := url.Values{}
	query.Set("rr", rr)
	query.Set("maxKeys", strconv.Itoa(fetchSize))
	out, err := call[recordsResponse](ctx, p, "ListRecords", http.MethodGet,
		"/v1/dns/zone/"+zoneID+"/record", query, nil)
	if err != nil {
		return "", err
	}
	for _, rec := range out.Records {
		if rec.RR == rr && strings.EqualFold(rec.Type, in.Type) && rec.Value == in.Value {
			return rec.ID, nil
		}
	}
	return "", dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
		"baidu: created record did not appear in the zone listing")
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	// The PUT wants the full record body, so fill gaps from the current
	// one.
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
		if in.Remark == nil && cur.Remark != "" {
			remark := cur.Remark
			in.Remark = &remark
		}
	}
	payload := p.recordPayloadFrom(zoneID, in)
	if _, err := call[emptyResponse](ctx, p, "UpdateRecord", http.MethodPut,
		"/v1/dns/zone/"+zoneID+"/record/"+recordID, nil, payload); err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(recordID, zoneID, in)

	if in.Status != "" {
		if err := p.SetRecordStatus(ctx, zoneID, recordID, in.Status == dnsmodel.StatusEnabled); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Status = in.Status
	}
	return rec, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	_, err := call[emptyResponse](ctx, p, "DeleteRecord", http.MethodDelete,
		"/v1/dns/zone/"+zoneID+"/record/"+recordID, nil, nil)
	return err
}

// SetRecordStatus uses the vendor's query-string actions on the record
// resource.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	action := "disable"
	if enabled {
		action = "enable"
	}
	query := url.Values{}
	query.Set(action, "")
	_, err := call[emptyResponse](ctx, p, "SetRecordStatus", http.MethodPut,
		"/v1/dns/zone/"+zoneID+"/record/"+recordID, query, nil)
	return err
}

// Lines reports the canonical set; codes pass through to the vendor
// untranslated in both directions.
func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return []dnsmodel.Line{
		{Code: dnsmodel.LineDefault, Name: "Default"},
		{Code: dnsmodel.LineTelecom, Name: "Telecom"},
		{Code: dnsmodel.LineUnicom, Name: "Unicom"},
		{Code: dnsmodel.LineMobile, Name: "Mobile"},
		{Code: dnsmodel.LineEdu, Name: "Education"},
		{Code: dnsmodel.LineOversea, Name: "Oversea"},
	}, nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

// CreateZone registers a new zone under the account.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	payload := map[string]string{"name": provider.NormalizeName(name)}
	if _, err := call[emptyResponse](ctx, p, "CreateZone", http.MethodPost, "/v1/dns/zone", nil, payload); err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.Zone(ctx, name)
}

func (p *Provider) zoneFrom(z apiZone) dnsmodel.Zone {
	zone := dnsmodel.Zone{
		ID:     provider.NormalizeName(z.Name),
		Name:   z.Name,
		Status: dnsmodel.StatusEnabled,
		Meta:   map[string]string{"zoneId": z.ID},
	}
	if strings.EqualFold(z.Status, "pause") {
		zone.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeZone(zone)
}

func (p *Provider) recordFrom(rec apiRecord, zoneID string) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       rec.ID,
		ZoneID:   zoneID,
		ZoneName: zoneID,
		Name:     provider.AbsName(rec.RR, zoneID),
		Type:     rec.Type,
		Value:    rec.Value,
		TTL:      rec.TTL,
		Line:     rec.Line,
		Remark:   rec.Description,
		Status:   dnsmodel.StatusEnabled,
	}
	if strings.EqualFold(rec.Status, "pause") {
		r.Status = dnsmodel.StatusDisabled
	}
	if rec.Type == dnsmodel.TypeMX {
		prio := rec.Priority
		r.Priority = &prio
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneID string, in dnsmodel.RecordInput) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneID,
		ZoneName: zoneID,
		Name:     provider.AbsName(in.Name, zoneID),
		Type:     in.Type,
		Value:    in.Value,
		TTL:      in.TTL,
		Line:     in.Line,
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

func (p *Provider) recordPayloadFrom(zoneID string, in dnsmodel.RecordInput) recordPayload {
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	return recordPayload{
		RR:          provider.RelName(in.Name, zoneID),
		Type:        in.Type,
		Value:       in.Value,
		TTL:         in.TTL,
		Line:        line,
		Priority:    in.Priority,
		Description: in.Remark,
	}
}
