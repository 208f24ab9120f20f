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

// Package dnspod adapts Tencent Cloud DNSPod. Two transports coexist: the
// TC3-signed API 3.0 endpoint (Provider) and the legacy dnsapi.cn form API
// (LegacyProvider) for accounts that only hold an API token pair.
package dnspod

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
	defaultEndpoint = "https://dnspod.tencentcloudapi.com"
	apiService      = "dnspod"
	apiVersion      = "2021-03-23"
	defaultMinTTL   = 600

	// Full-zone fetch size used when a filter has to be applied
	// client-side. 3000 is the vendor's Limit ceiling.
	fetchAllSize = 3000

	// DescribeDomainList caps Limit lower than the record calls.
	zoneListMaxSize = 100
)

// Capabilities describes the DNSPod API 3.0 dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:               dnsmodel.KindDNSPod,
		Label:              "DNSPod (Tencent Cloud)",
		SupportsLine:       true,
		SupportsStatus:     true,
		SupportsRemark:     true,
		SupportsURLForward: true,
		SupportsZoneAdd:    true,
		RemarkMode:         dnsmodel.RemarkSeparate,
		Paging:             dnsmodel.PagingServer,
		MaxPageSize:        500,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS,
			dnsmodel.TypeRedirectURL, dnsmodel.TypeForwardURL,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "secretId", Label: "SecretId", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "secretKey", Label: "SecretKey", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:    3600,
		RecordCacheTTL:  600,
		RetryableErrors: []string{"InternalError", "RequestLimitExceeded"},
		MaxRetries:      2,
	}
}

// Provider implements the API 3.0 adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	host      string
	secretID  string
	secretKey string
	clock     sign.Clock
}

// New builds the API 3.0 adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	id, key := secrets["secretId"], secrets["secretKey"]
	if id == "" || key == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"dnspod: secretId and secretKey are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "dnspod: parse endpoint")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindDNSPod), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:  endpoint,
		host:      u.Host,
		secretID:  id,
		secretKey: key,
		clock:     opts.ClockOrDefault(),
	}, nil
}

type apiError struct {
	Error *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Error"`
}

func (e *apiError) vendorError() (string, string) {
	if e.Error == nil {
		return "", ""
	}
	return e.Error.Code, e.Error.Message
}

type apiDomain struct {
	DomainID    int64  `json:"DomainId"`
	Name        string `json:"Name"`
	Status      string `json:"Status"`
	Grade       string `json:"Grade"`
	RecordCount int    `json:"RecordCount"`
}

type domainsResponse struct {
	apiError
	DomainCountInfo struct {
		DomainTotal int `json:"DomainTotal"`
	} `json:"DomainCountInfo"`
	DomainList []apiDomain `json:"DomainList"`
}

type domainInfoResponse struct {
	apiError
	DomainInfo apiDomain `json:"DomainInfo"`
}

type apiRecord struct {
	RecordID int64  `json:"RecordId"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Value    string `json:"Value"`
	TTL      int    `json:"TTL"`
	MX       int    `json:"MX"`
	LineID   string `json:"LineId"`
	Line     string `json:"Line"`
	Status   string `json:"Status"`
	Weight   *int   `json:"Weight"`
	Remark   string `json:"Remark"`
	Updated  string `json:"UpdatedOn"`
}

type recordsResponse struct {
	apiError
	RecordCountInfo struct {
		TotalCount int `json:"TotalCount"`
	} `json:"RecordCountInfo"`
	RecordList []apiRecord `json:"RecordList"`
}

// DescribeRecord reports a different shape than the list call: the host is
// SubDomain and the enabled bit is numeric.
type recordInfoResponse struct {
	apiError
	RecordInfo struct {
		ID        int64  `json:"Id"`
		SubDomain string `json:"SubDomain"`
		Type      string `json:"RecordType"`
		LineID    string `json:"RecordLineId"`
		Line      string `json:"RecordLine"`
		Value     string `json:"Value"`
		TTL       int    `json:"TTL"`
		MX        int    `json:"MX"`
		Weight    *int   `json:"Weight"`
		Enabled   int    `json:"Enabled"`
		Remark    string `json:"Remark"`
		Updated   string `json:"UpdatedOn"`
	} `json:"RecordInfo"`
}

type createRecordResponse struct {
	apiError
	RecordID int64 `json:"RecordId"`
}

type createDomainResponse struct {
	apiError
	DomainCreateInfo struct {
		ID     int64  `json:"Id"`
		Domain string `json:"Domain"`
	} `json:"DomainCreateInfo"`
}

type purviewResponse struct {
	apiError
	PurviewList []struct {
		Name  string `json:"Name"`
		Value string `json:"Value"`
	} `json:"PurviewList"`
}

type lineListResponse struct {
	apiError
	LineList []struct {
		Name   string `json:"Name"`
		LineID string `json:"LineId"`
	} `json:"LineList"`
}

type emptyResponse struct {
	apiError
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"ResourceNotFound.NoDataOfDomain":          dnsmodel.ErrZoneNotFound,
	"InvalidParameter.DomainNotExists":         dnsmodel.ErrZoneNotFound,
	"ResourceNotFound.NoDataOfRecord":          dnsmodel.ErrRecordNotFound,
	"InvalidParameter.RecordIdInvalid":         dnsmodel.ErrRecordNotFound,
	"InvalidParameter.RecordValueInvalid":      dnsmodel.ErrInvalidValue,
	"InvalidParameterValue.RecordValueInvalid": dnsmodel.ErrInvalidValue,
	"InvalidParameter.RecordTypeInvalid":       dnsmodel.ErrInvalidType,
	"RequestLimitExceeded":                     dnsmodel.ErrRateLimited,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	} else if strings.HasPrefix(code, "AuthFailure") {
		kind = dnsmodel.ErrAuthFailed
	} else if strings.HasPrefix(code, "LimitExceeded") {
		kind = dnsmodel.ErrThrottled
	}
	return p.NewError(kind, code, message, status)
}

// call signs and POSTs one API 3.0 action. Payloads and replies are JSON;
// the reply sits under a Response wrapper that also carries the error.
func call[T any](ctx context.Context, p *Provider, action string, payload map[string]any) (*T, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "dnspod: encode payload")
	}
	var out *T
	err = p.Retry(ctx, func() error {
		out = new(T)
		header := sign.TC3(sign.TC3Request{
			Host:    p.host,
			Service: apiService,
			Action:  action,
			Version: apiVersion,
			Payload: body,
		}, p.secretID, p.secretKey, p.clock)

		var env struct {
			Response json.RawMessage `json:"Response"`
		}
		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: http.MethodPost,
			URL:    p.endpoint + "/",
			Header: header,
			Body:   body,
			Action: action,
		}, &env)
		if err != nil {
			return err
		}
		if len(env.Response) > 0 {
			if err := json.Unmarshal(env.Response, out); err != nil {
				return p.NewError(dnsmodel.ErrInvalidResponse, "", err.Error(), resp.StatusCode)
			}
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

// CheckAuth lists one zone to prove the keys work.
func (p *Provider) CheckAuth(ctx context.Context) error {
	_, err := call[domainsResponse](ctx, p, "DescribeDomainList", map[string]any{"Limit": 1})
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	size := p.ClampPageSize(q.PageSize)
	if size > zoneListMaxSize {
		size = zoneListMaxSize
	}
	payload := map[string]any{
		"Offset": (q.Page - 1) * size,
		"Limit":  size,
	}
	if q.Keyword != "" {
		payload["Keyword"] = q.Keyword
	}
	out, err := call[domainsResponse](ctx, p, "DescribeDomainList", payload)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: out.DomainCountInfo.DomainTotal}
	for _, d := range out.DomainList {
		list.Zones = append(list.Zones, p.zoneFrom(d))
	}
	return list, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	out, err := call[domainInfoResponse](ctx, p, "DescribeDomain", domainParam(idOrName, nil))
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(out.DomainInfo), nil
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()

	// Value and status filters have no upstream parameter; fetch the zone
	// and filter client-side so semantics stay canonical.
	if q.Value != "" || q.Status != "" {
		all, err := p.allRecords(ctx, zoneID)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	size := p.ClampPageSize(q.PageSize)
	payload := domainParam(zoneID, map[string]any{
		"Offset": (q.Page - 1) * size,
		"Limit":  size,
	})
	if q.Keyword != "" {
		payload["Keyword"] = q.Keyword
	}
	if q.SubDomain != "" {
		payload["Subdomain"] = provider.RelName(q.SubDomain, zoneID)
	}
	if q.Type != "" {
		payload["RecordType"] = vendorType(q.Type)
	}
	if q.Line != "" {
		payload["RecordLineId"] = lineIDFromCanonical(q.Line)
	}
	out, err := call[recordsResponse](ctx, p, "DescribeRecordList", payload)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	list := dnsmodel.RecordList{Total: out.RecordCountInfo.TotalCount}
	for _, rec := range out.RecordList {
		list.Records = append(list.Records, p.recordFrom(rec, zoneID))
	}
	return list, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for offset := 0; ; offset += fetchAllSize {
		out, err := call[recordsResponse](ctx, p, "DescribeRecordList", domainParam(zoneID, map[string]any{
			"Offset": offset,
			"Limit":  fetchAllSize,
		}))
		if err != nil {
			return nil, err
		}
		for _, rec := range out.RecordList {
			all = append(all, p.recordFrom(rec, zoneID))
		}
		if len(out.RecordList) < fetchAllSize || len(all) >= out.RecordCountInfo.TotalCount {
			return all, nil
		}
	}
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	id, err := parseRecordID(recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	out, err := call[recordInfoResponse](ctx, p, "DescribeRecord", domainParam(zoneID, map[string]any{
		"RecordId": id,
	}))
	if err != nil {
		return dnsmodel.Record{}, err
	}
	info := out.RecordInfo
	r := dnsmodel.Record{
		ID:        strconv.FormatInt(info.ID, 10),
		ZoneID:    zoneID,
		ZoneName:  zoneID,
		Name:      provider.AbsName(info.SubDomain, zoneID),
		Type:      canonicalType(info.Type),
		Value:     info.Value,
		TTL:       info.TTL,
		Line:      lineFrom(info.LineID, info.Line),
		Weight:    info.Weight,
		Remark:    info.Remark,
		Status:    dnsmodel.StatusDisabled,
		UpdatedAt: info.Updated,
	}
	if info.Enabled == 1 {
		r.Status = dnsmodel.StatusEnabled
	}
	if r.Type == dnsmodel.TypeMX {
		mx := info.MX
		r.Priority = &mx
	}
	return p.NormalizeRecord(r), nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	payload := p.recordPayload(zoneID, in)
	if in.Status != "" {
		payload["Status"] = vendorStatus(in.Status == dnsmodel.StatusEnabled)
	}
	out, err := call[createRecordResponse](ctx, p, "CreateRecord", payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(strconv.FormatInt(out.RecordID, 10), zoneID, in)

	if in.Remark != nil {
		if err := p.setRemark(ctx, zoneID, rec.ID, *in.Remark); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Remark = *in.Remark
	}
	return rec, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	// ModifyRecord wants the full host/type/value set, so fill gaps from
	// the current record.
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
	id, err := parseRecordID(recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	payload := p.recordPayload(zoneID, in)
	payload["RecordId"] = id
	if in.Status != "" {
		payload["Status"] = vendorStatus(in.Status == dnsmodel.StatusEnabled)
	}
	if _, err := call[emptyResponse](ctx, p, "ModifyRecord", payload); err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(recordID, zoneID, in)
	if in.Status != "" {
		rec.Status = in.Status
	}

	if in.Remark != nil {
		if err := p.setRemark(ctx, zoneID, recordID, *in.Remark); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Remark = *in.Remark
	}
	return rec, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	id, err := parseRecordID(recordID)
	if err != nil {
		return err
	}
	_, err = call[emptyResponse](ctx, p, "DeleteRecord", domainParam(zoneID, map[string]any{
		"RecordId": id,
	}))
	return err
}

func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	id, err := parseRecordID(recordID)
	if err != nil {
		return err
	}
	_, err = call[emptyResponse](ctx, p, "ModifyRecordStatus", domainParam(zoneID, map[string]any{
		"RecordId": id,
		"Status":   vendorStatus(enabled),
	}))
	return err
}

func (p *Provider) setRemark(ctx context.Context, zoneID, recordID, remark string) error {
	id, err := parseRecordID(recordID)
	if err != nil {
		return err
	}
	_, err = call[emptyResponse](ctx, p, "ModifyRecordRemark", domainParam(zoneID, map[string]any{
		"RecordId": id,
		"Remark":   remark,
	}))
	return err
}

// Lines asks the vendor for the line list of the zone's grade.
func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	zone, err := call[domainInfoResponse](ctx, p, "DescribeDomain", domainParam(zoneID, nil))
	if err != nil {
		return nil, err
	}
	out, err := call[lineListResponse](ctx, p, "DescribeRecordLineList", domainParam(zoneID, map[string]any{
		"DomainGrade": zone.DomainInfo.Grade,
	}))
	if err != nil {
		return nil, err
	}
	lines := make([]dnsmodel.Line, 0, len(out.LineList))
	for _, l := range out.LineList {
		lines = append(lines, dnsmodel.Line{
			Code: canonicalFromLineID(l.LineID),
			Name: l.Name,
		})
	}
	return lines, nil
}

// MinTTL comes from the domain purview list; the TTL floor entry is
// matched by name.
func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	out, err := call[purviewResponse](ctx, p, "DescribeDomainPurview", domainParam(zoneID, nil))
	if err != nil {
		return 0, err
	}
	for _, pv := range out.PurviewList {
		if !strings.Contains(strings.ToLower(pv.Name), "ttl") {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimSpace(pv.Value)); err == nil && v > 0 {
			return v, nil
		}
	}
	return defaultMinTTL, nil
}

// CreateZone registers a new domain under the account.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	out, err := call[createDomainResponse](ctx, p, "CreateDomain", map[string]any{
		"Domain": provider.NormalizeName(name),
	})
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.NormalizeZone(dnsmodel.Zone{
		ID:   provider.NormalizeName(out.DomainCreateInfo.Domain),
		Name: out.DomainCreateInfo.Domain,
		Meta: map[string]string{"domainId": strconv.FormatInt(out.DomainCreateInfo.ID, 10)},
	}), nil
}

// domainParam addresses the zone by numeric DomainId or by name, matching
// whichever handle the caller holds.
func domainParam(idOrName string, payload map[string]any) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}
	if id, err := strconv.ParseInt(idOrName, 10, 64); err == nil && idOrName != "" {
		payload["DomainId"] = id
	} else {
		payload["Domain"] = provider.NormalizeName(idOrName)
	}
	return payload
}

func parseRecordID(recordID string) (int64, error) {
	id, err := strconv.ParseInt(recordID, 10, 64)
	if err != nil {
		return 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "dnspod: malformed record id %q", recordID)
	}
	return id, nil
}

func (p *Provider) recordPayload(zoneID string, in dnsmodel.RecordInput) map[string]any {
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	payload := domainParam(zoneID, map[string]any{
		"SubDomain":    provider.RelName(in.Name, zoneID),
		"RecordType":   vendorType(in.Type),
		"RecordLine":   lineNameFromCanonical(line),
		"RecordLineId": lineIDFromCanonical(line),
		"Value":        in.Value,
	})
	if in.TTL > 0 {
		payload["TTL"] = in.TTL
	}
	if in.Priority != nil {
		payload["MX"] = *in.Priority
	}
	if in.Weight != nil {
		payload["Weight"] = *in.Weight
	}
	return payload
}

func (p *Provider) zoneFrom(d apiDomain) dnsmodel.Zone {
	count := d.RecordCount
	z := dnsmodel.Zone{
		ID:          provider.NormalizeName(d.Name),
		Name:        d.Name,
		RecordCount: &count,
		Status:      dnsmodel.StatusEnabled,
		Meta: map[string]string{
			"domainId": strconv.FormatInt(d.DomainID, 10),
			"grade":    d.Grade,
		},
	}
	if strings.EqualFold(d.Status, "pause") {
		z.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeZone(z)
}

func (p *Provider) recordFrom(rec apiRecord, zoneID string) dnsmodel.Record {
	recordType := canonicalType(rec.Type)
	r := dnsmodel.Record{
		ID:        strconv.FormatInt(rec.RecordID, 10),
		ZoneID:    zoneID,
		ZoneName:  zoneID,
		Name:      provider.AbsName(rec.Name, zoneID),
		Type:      recordType,
		Value:     trimHostValue(recordType, rec.Value),
		TTL:       rec.TTL,
		Line:      lineFrom(rec.LineID, rec.Line),
		Weight:    rec.Weight,
		Remark:    rec.Remark,
		UpdatedAt: rec.Updated,
	}
	if r.Type == dnsmodel.TypeMX {
		mx := rec.MX
		r.Priority = &mx
	}
	switch strings.ToUpper(rec.Status) {
	case "ENABLE":
		r.Status = dnsmodel.StatusEnabled
	case "DISABLE", "PAUSE":
		r.Status = dnsmodel.StatusDisabled
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
		Weight:   in.Weight,
		Status:   dnsmodel.StatusEnabled,
	}
	if in.Status == dnsmodel.StatusDisabled {
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

// trimHostValue strips the trailing dot the vendor keeps on host-valued
// records.
func trimHostValue(recordType, value string) string {
	switch recordType {
	case dnsmodel.TypeCNAME, dnsmodel.TypeMX, dnsmodel.TypeNS:
		return provider.TrimDNSValue(value)
	}
	return value
}

// lineFrom prefers the vendor line ID over the display name.
func lineFrom(lineID, lineName string) string {
	if lineID != "" {
		return canonicalFromLineID(lineID)
	}
	return canonicalFromLineName(lineName)
}

func vendorStatus(enabled bool) string {
	if enabled {
		return "ENABLE"
	}
	return "DISABLE"
}
