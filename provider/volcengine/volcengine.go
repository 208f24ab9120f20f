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

// Package volcengine adapts the Volcengine (TrafficRoute) DNS open API.
// Zones are addressed by numeric ZID; reads are signed GETs, writes are
// signed JSON POSTs against the same host with Action/Version in the
// query. MX values carry the priority inside the RDATA and are split at
// the boundary.
package volcengine

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
	defaultEndpoint = "https://open.volcengineapi.com"
	apiService      = "DNS"
	apiRegion       = "cn-north-1"
	apiVersion      = "2018-08-01"

	defaultMinTTL = 600

	// Client-mode fallbacks drain records at the vendor maximum.
	fetchSize     = 500
	maxFetchPages = 200
)

// Capabilities describes the Volcengine dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:            dnsmodel.KindVolcengine,
		Label:           "Volcengine DNS",
		SupportsWeight:  true,
		SupportsLine:    true,
		SupportsStatus:  true,
		SupportsRemark:  true,
		RemarkMode:      dnsmodel.RemarkInline,
		SupportsZoneAdd: true,
		RequiresZoneID:  true,
		Paging:          dnsmodel.PagingServer,
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

// tradeMinTTL maps the zone's plan to the minimum TTL the vendor accepts.
var tradeMinTTL = map[string]int{
	"free_inner":         600,
	"professional_inner": 300,
	"enterprise_inner":   60,
	"ultimate_inner":     1,
}

// Provider implements the Volcengine adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	host      string
	accessKey string
	secretKey string
	clock     sign.Clock

	// names caches ZID → zone name for record name conversion.
	names sync.Map
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	ak, sk := secrets["accessKeyId"], secrets["secretAccessKey"]
	if ak == "" || sk == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"volcengine: accessKeyId and secretAccessKey are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "volcengine: parse endpoint")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindVolcengine), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:  endpoint,
		host:      u.Host,
		accessKey: ak,
		secretKey: sk,
		clock:     opts.ClockOrDefault(),
	}, nil
}

type apiError struct {
	ResponseMetadata struct {
		RequestID string `json:"RequestId"`
		Error     *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
	} `json:"ResponseMetadata"`
}

func (e *apiError) vendorError() (string, string) {
	if err := e.ResponseMetadata.Error; err != nil {
		return err.Code, err.Message
	}
	return "", ""
}

type apiZone struct {
	ZID         int64  `json:"ZID"`
	ZoneName    string `json:"ZoneName"`
	RecordCount int    `json:"RecordCount"`
	TradeCode   string `json:"TradeCode"`
	UpdatedAt   string `json:"UpdatedAt"`
}

type zonesResponse struct {
	apiError
	Result struct {
		Total int       `json:"Total"`
		Zones []apiZone `json:"Zones"`
	} `json:"Result"`
}

type zoneResponse struct {
	apiError
	Result apiZone `json:"Result"`
}

type apiRecord struct {
	RecordID  string `json:"RecordID"`
	ZID       int64  `json:"ZID"`
	Host      string `json:"Host"`
	Type      string `json:"Type"`
	Value     string `json:"Value"`
	TTL       int    `json:"TTL"`
	Line      string `json:"Line"`
	Weight    *int   `json:"Weight"`
	Remark    string `json:"Remark"`
	Enable    bool   `json:"Enable"`
	UpdatedAt string `json:"UpdatedAt"`
}

type recordsResponse struct {
	apiError
	Result struct {
		TotalCount int         `json:"TotalCount"`
		Records    []apiRecord `json:"Records"`
	} `json:"Result"`
}

type recordResponse struct {
	apiError
	Result apiRecord `json:"Result"`
}

type emptyResponse struct {
	apiError
}

type recordPayload struct {
	ZID      int64   `json:"ZID,omitempty"`
	RecordID string  `json:"RecordID,omitempty"`
	Host     string  `json:"Host"`
	Type     string  `json:"Type"`
	Value    string  `json:"Value"`
	TTL      int     `json:"TTL,omitempty"`
	Line     string  `json:"Line,omitempty"`
	Weight   *int    `json:"Weight,omitempty"`
	Remark   *string `json:"Remark,omitempty"`
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"InvalidAccessKey":       dnsmodel.ErrAuthFailed,
	"SignatureDoesNotMatch":  dnsmodel.ErrAuthFailed,
	"AccessDenied":           dnsmodel.ErrAuthFailed,
	"InvalidAuthorization":   dnsmodel.ErrAuthFailed,
	"FlowLimitExceeded":      dnsmodel.ErrRateLimited,
	"QuotaExceeded":          dnsmodel.ErrThrottled,
	"InvalidZone.NotFound":   dnsmodel.ErrZoneNotFound,
	"InvalidRecord.NotFound": dnsmodel.ErrRecordNotFound,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	} else {
		lower := strings.ToLower(code)
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			kind = dnsmodel.ErrAuthFailed
		case strings.Contains(lower, "notexist") || strings.Contains(lower, "notfound"):
			kind = dnsmodel.ErrZoneNotFound
			if strings.Contains(lower, "record") {
				kind = dnsmodel.ErrRecordNotFound
			}
		case status == http.StatusTooManyRequests:
			kind = dnsmodel.ErrRateLimited
		}
	}
	return p.NewError(kind, code, message, status)
}

// call signs and issues one action: a GET when payload is nil, a JSON
// POST otherwise.
func call[T any](ctx context.Context, p *Provider, action string, query url.Values, payload any) (*T, error) {
	method := http.MethodGet
	contentType := ""
	var body []byte
	if payload != nil {
		method = http.MethodPost
		contentType = "application/json"
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return nil, errors.Wrap(err, "volcengine: encode payload")
		}
	}

	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("Action", action)
		q.Set("Version", apiVersion)

		header := sign.Volc(sign.VolcRequest{
			Method:      method,
			Host:        p.host,
			Path:        "/",
			Query:       q,
			Region:      apiRegion,
			Service:     apiService,
			ContentType: contentType,
			Payload:     body,
		}, p.accessKey, p.secretKey, p.clock)

		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: method,
			URL:    p.endpoint + "/?" + q.Encode(),
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
	q.Set("PageNumber", "1")
	q.Set("PageSize", "1")
	_, err := call[zonesResponse](ctx, p, "ListZones", q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	query := url.Values{}
	query.Set("PageNumber", strconv.Itoa(q.Page))
	query.Set("PageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.Keyword != "" {
		query.Set("Key", q.Keyword)
	}
	out, err := call[zonesResponse](ctx, p, "ListZones", query, nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	zones := make([]dnsmodel.Zone, 0, len(out.Result.Zones))
	for _, z := range out.Result.Zones {
		zones = append(zones, p.zoneFrom(z))
	}
	return dnsmodel.ZoneList{Zones: zones, Total: out.Result.Total}, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	if zid, err := strconv.ParseInt(idOrName, 10, 64); err == nil {
		q := url.Values{}
		q.Set("ZID", strconv.FormatInt(zid, 10))
		out, err := call[zoneResponse](ctx, p, "QueryZone", q, nil)
		if err != nil {
			return dnsmodel.Zone{}, err
		}
		return p.zoneFrom(out.Result), nil
	}

	name := provider.NormalizeName(idOrName)
	query := url.Values{}
	query.Set("PageNumber", "1")
	query.Set("PageSize", strconv.Itoa(p.Caps.MaxPageSize))
	query.Set("Key", name)
	out, err := call[zonesResponse](ctx, p, "ListZones", query, nil)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	for _, z := range out.Result.Zones {
		if provider.NormalizeName(z.ZoneName) == name {
			return p.zoneFrom(z), nil
		}
	}
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "volcengine: zone %q not found", idOrName)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	zid, err := parseZID(zoneID)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	zoneName, err := p.zoneName(ctx, zid)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}

	// Only the host filter is expressible upstream; everything else
	// drains the zone and filters here.
	if q.Keyword != "" || q.Type != "" || q.Value != "" || q.Line != "" || q.Status != "" {
		all, err := p.allRecords(ctx, zid, zoneName, q.SubDomain)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	query := url.Values{}
	query.Set("ZID", strconv.FormatInt(zid, 10))
	query.Set("PageNumber", strconv.Itoa(q.Page))
	query.Set("PageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.SubDomain != "" {
		query.Set("Host", provider.RelName(q.SubDomain, zoneName))
		query.Set("SearchMode", "exact")
	}
	out, err := call[recordsResponse](ctx, p, "ListRecords", query, nil)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	records := make([]dnsmodel.Record, 0, len(out.Result.Records))
	for _, rec := range out.Result.Records {
		records = append(records, p.recordFrom(rec, zoneID, zoneName))
	}
	return dnsmodel.RecordList{Records: records, Total: out.Result.TotalCount}, nil
}

func (p *Provider) allRecords(ctx context.Context, zid int64, zoneName, subDomain string) ([]dnsmodel.Record, error) {
	zoneID := strconv.FormatInt(zid, 10)
	var all []dnsmodel.Record
	for page := 1; page <= maxFetchPages; page++ {
		query := url.Values{}
		query.Set("ZID", zoneID)
		query.Set("PageNumber", strconv.Itoa(page))
		query.Set("PageSize", strconv.Itoa(fetchSize))
		if subDomain != "" {
			query.Set("Host", provider.RelName(subDomain, zoneName))
			query.Set("SearchMode", "exact")
		}
		out, err := call[recordsResponse](ctx, p, "ListRecords", query, nil)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Result.Records {
			all = append(all, p.recordFrom(rec, zoneID, zoneName))
		}
		if len(out.Result.Records) < fetchSize {
			return all, nil
		}
	}
	return all, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	zid, err := parseZID(zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	zoneName, err := p.zoneName(ctx, zid)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	q := url.Values{}
	q.Set("RecordID", recordID)
	out, err := call[recordResponse](ctx, p, "QueryRecord", q, nil)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	return p.recordFrom(out.Result, zoneID, zoneName), nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zid, err := parseZID(zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	zoneName, err := p.zoneName(ctx, zid)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	payload := p.recordPayloadFrom(zid, "", zoneName, in)
	out, err := call[recordResponse](ctx, p, "CreateRecord", nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFrom(out.Result, zoneID, zoneName)
	if rec.ID == "" {
		rec = p.recordFromInput("", zoneID, zoneName, in)
	}

	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, rec.ID, false); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	return rec, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zid, err := parseZID(zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	zoneName, err := p.zoneName(ctx, zid)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	// UpdateRecord wants the full record, so fill gaps from the current
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
		if in.Weight == nil {
			in.Weight = cur.Weight
		}
		if in.Remark == nil && cur.Remark != "" {
			remark := cur.Remark
			in.Remark = &remark
		}
	}
	payload := p.recordPayloadFrom(0, recordID, zoneName, in)
	if _, err := call[recordResponse](ctx, p, "UpdateRecord", nil, payload); err != nil {
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
	payload := map[string]string{"RecordID": recordID}
	_, err := call[emptyResponse](ctx, p, "DeleteRecord", nil, payload)
	return err
}

func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	payload := map[string]any{"RecordID": recordID, "Enable": enabled}
	_, err := call[emptyResponse](ctx, p, "UpdateRecordStatus", nil, payload)
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

// MinTTL follows the zone's plan tier.
func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	zid, err := parseZID(zoneID)
	if err != nil {
		return 0, err
	}
	q := url.Values{}
	q.Set("ZID", strconv.FormatInt(zid, 10))
	out, err := call[zoneResponse](ctx, p, "QueryZone", q, nil)
	if err != nil {
		return 0, err
	}
	if ttl, ok := tradeMinTTL[out.Result.TradeCode]; ok {
		return ttl, nil
	}
	return defaultMinTTL, nil
}

// CreateZone registers a new zone under the account.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	payload := map[string]string{"ZoneName": provider.NormalizeName(name)}
	out, err := call[zoneResponse](ctx, p, "CreateZone", nil, payload)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(out.Result), nil
}

// zoneName resolves and caches the zone name for a ZID.
func (p *Provider) zoneName(ctx context.Context, zid int64) (string, error) {
	if name, ok := p.names.Load(zid); ok {
		return name.(string), nil
	}
	q := url.Values{}
	q.Set("ZID", strconv.FormatInt(zid, 10))
	out, err := call[zoneResponse](ctx, p, "QueryZone", q, nil)
	if err != nil {
		return "", err
	}
	name := provider.NormalizeName(out.Result.ZoneName)
	p.names.Store(zid, name)
	return name, nil
}

func (p *Provider) zoneFrom(z apiZone) dnsmodel.Zone {
	name := provider.NormalizeName(z.ZoneName)
	p.names.Store(z.ZID, name)
	count := z.RecordCount
	zone := dnsmodel.Zone{
		ID:          strconv.FormatInt(z.ZID, 10),
		Name:        z.ZoneName,
		Status:      dnsmodel.StatusEnabled,
		RecordCount: &count,
		UpdatedAt:   z.UpdatedAt,
	}
	if z.TradeCode != "" {
		zone.Meta = map[string]string{"tradeCode": z.TradeCode}
	}
	return p.NormalizeZone(zone)
}

func (p *Provider) recordFrom(rec apiRecord, zoneID, zoneName string) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:        rec.RecordID,
		ZoneID:    zoneID,
		ZoneName:  zoneName,
		Name:      provider.AbsName(rec.Host, zoneName),
		Type:      rec.Type,
		Value:     rec.Value,
		TTL:       rec.TTL,
		Line:      canonicalLine(rec.Line),
		Weight:    rec.Weight,
		Remark:    rec.Remark,
		Status:    dnsmodel.StatusDisabled,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Enable {
		r.Status = dnsmodel.StatusEnabled
	}
	// The vendor packs MX priority into the RDATA.
	if r.Type == dnsmodel.TypeMX {
		if prio, value, ok := provider.SplitValuePriority(rec.Value); ok {
			r.Priority = &prio
			r.Value = value
		}
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneID, zoneName string, in dnsmodel.RecordInput) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Name:     provider.AbsName(in.Name, zoneName),
		Type:     in.Type,
		Value:    in.Value,
		TTL:      in.TTL,
		Line:     in.Line,
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

func (p *Provider) recordPayloadFrom(zid int64, recordID, zoneName string, in dnsmodel.RecordInput) recordPayload {
	value := in.Value
	if strings.EqualFold(in.Type, dnsmodel.TypeMX) {
		prio := 10
		if in.Priority != nil {
			prio = *in.Priority
		}
		value = provider.JoinValuePriority(prio, in.Value)
	}
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	return recordPayload{
		ZID:      zid,
		RecordID: recordID,
		Host:     provider.RelName(in.Name, zoneName),
		Type:     strings.ToUpper(in.Type),
		Value:    value,
		TTL:      in.TTL,
		Line:     vendorLine(line),
		Weight:   in.Weight,
		Remark:   in.Remark,
	}
}

func parseZID(zoneID string) (int64, error) {
	zid, err := strconv.ParseInt(zoneID, 10, 64)
	if err != nil {
		return 0, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "volcengine: zone id %q is not numeric", zoneID)
	}
	return zid, nil
}

// Volcengine line identifiers for the carrier lines; codes already
// canonical pass through.
var lineByCanonical = map[string]string{
	dnsmodel.LineTelecom: "ct",
	dnsmodel.LineUnicom:  "cnc",
	dnsmodel.LineMobile:  "cmcc",
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
