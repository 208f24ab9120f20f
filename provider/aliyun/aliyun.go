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

// Package aliyun adapts Alibaba Cloud DNS (alidns). Every call is a signed
// GET against the RPC endpoint; zones are addressed by name and the
// REDIRECT_URL/FORWARD_URL canonical tokens are native here.
package aliyun

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/restclient"
	"github.com/zonegate/zonegate/pkg/sign"
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://alidns.aliyuncs.com"
	apiVersion      = "2015-01-09"
	defaultMinTTL   = 600
)

// Capabilities describes the alidns dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:               dnsmodel.KindAliyun,
		Label:              "Alibaba Cloud DNS",
		SupportsLine:       true,
		SupportsStatus:     true,
		SupportsRemark:     true,
		SupportsURLForward: true,
		SupportsZoneAdd:    true,
		RemarkMode:         dnsmodel.RemarkSeparate,
		Paging:             dnsmodel.PagingServer,
		MaxPageSize:        100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS, dnsmodel.TypePTR,
			dnsmodel.TypeRedirectURL, dnsmodel.TypeForwardURL,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "accessKeyId", Label: "AccessKey ID", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "accessKeySecret", Label: "AccessKey Secret", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:    3600,
		RecordCacheTTL:  600,
		RetryableErrors: []string{"InternalError", "ServiceUnavailable", "Throttling.User"},
		MaxRetries:      2,
	}
}

// Provider implements the alidns adapter.
type Provider struct {
	provider.Base

	http            *restclient.Client
	endpoint        string
	accessKeyID     string
	accessKeySecret string
	clock           sign.Clock
	nonce           sign.Nonce
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	id, secret := secrets["accessKeyId"], secrets["accessKeySecret"]
	if id == "" || secret == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"aliyun: accessKeyId and accessKeySecret are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:            provider.Base{Caps: Capabilities()},
		http:            restclient.New(opts.HTTPClient, string(dnsmodel.KindAliyun), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:        endpoint,
		accessKeyID:     id,
		accessKeySecret: secret,
		clock:           opts.ClockOrDefault(),
		nonce:           opts.NonceOrDefault(),
	}, nil
}

type apiError struct {
	Code    string `json:"Code"`
	Message string `json:"Message"`
}

func (e *apiError) vendorError() (string, string) { return e.Code, e.Message }

type apiDomain struct {
	DomainID    string `json:"DomainId"`
	DomainName  string `json:"DomainName"`
	RecordCount int    `json:"RecordCount"`
}

type domainsResponse struct {
	apiError
	TotalCount int `json:"TotalCount"`
	Domains    struct {
		Domain []apiDomain `json:"Domain"`
	} `json:"Domains"`
}

type domainInfoResponse struct {
	apiError
	DomainID   string `json:"DomainId"`
	DomainName string `json:"DomainName"`
	MinTTL     int    `json:"MinTtl"`
}

type apiRecord struct {
	RecordID string `json:"RecordId"`
	RR       string `json:"RR"`
	Type     string `json:"Type"`
	Value    string `json:"Value"`
	TTL      int    `json:"TTL"`
	Priority int    `json:"Priority"`
	Line     string `json:"Line"`
	Status   string `json:"Status"`
	Remark   string `json:"Remark"`
}

type recordsResponse struct {
	apiError
	TotalCount    int `json:"TotalCount"`
	DomainRecords struct {
		Record []apiRecord `json:"Record"`
	} `json:"DomainRecords"`
}

type recordInfoResponse struct {
	apiError
	apiRecord
	DomainName string `json:"DomainName"`
}

type addRecordResponse struct {
	apiError
	RecordID string `json:"RecordId"`
}

type addDomainResponse struct {
	apiError
	DomainID   string `json:"DomainId"`
	DomainName string `json:"DomainName"`
}

type emptyResponse struct {
	apiError
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"InvalidAccessKeyId.NotFound": dnsmodel.ErrAuthFailed,
	"SignatureDoesNotMatch":       dnsmodel.ErrAuthFailed,
	"InvalidTimeStamp.Expired":    dnsmodel.ErrAuthFailed,
	"Forbidden.RAM":               dnsmodel.ErrAuthFailed,
	"InvalidDomainName.NoExist":   dnsmodel.ErrZoneNotFound,
	"DomainNotBelongToUser":       dnsmodel.ErrZoneNotFound,
	"InvalidRR.NoExist":           dnsmodel.ErrRecordNotFound,
	"DomainRecordNotBelongToUser": dnsmodel.ErrRecordNotFound,
	"InvalidRR.Malformed":         dnsmodel.ErrInvalidValue,
	"InvalidValue.Malformed":      dnsmodel.ErrInvalidValue,
	"InvalidType.Malformed":       dnsmodel.ErrInvalidType,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	} else if strings.HasPrefix(code, "Throttling") {
		kind = dnsmodel.ErrThrottled
	}
	return p.NewError(kind, code, message, status)
}

// call signs and executes one RPC action, decoding into a fresh T per
// attempt so retries never see stale fields.
func call[T any](ctx context.Context, p *Provider, action string, params url.Values) (*T, error) {
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		q := url.Values{}
		for k, vs := range params {
			q[k] = vs
		}
		q.Set("Action", action)
		q.Set("Version", apiVersion)
		signed := sign.AliyunRPC(http.MethodGet, q, p.accessKeyID, p.accessKeySecret, p.clock, p.nonce)

		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: http.MethodGet,
			URL:    p.endpoint + "/?" + signed.Encode(),
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

// CheckAuth lists one zone to prove the keys work.
func (p *Provider) CheckAuth(ctx context.Context) error {
	params := url.Values{}
	params.Set("PageNumber", "1")
	params.Set("PageSize", "1")
	_, err := call[domainsResponse](ctx, p, "DescribeDomains", params)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	params := url.Values{}
	params.Set("PageNumber", strconv.Itoa(q.Page))
	params.Set("PageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.Keyword != "" {
		params.Set("KeyWord", q.Keyword)
		params.Set("SearchMode", "LIKE")
	}
	out, err := call[domainsResponse](ctx, p, "DescribeDomains", params)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: out.TotalCount}
	for _, d := range out.Domains.Domain {
		list.Zones = append(list.Zones, p.zoneFrom(d))
	}
	return list, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	params := url.Values{}
	params.Set("DomainName", provider.NormalizeName(idOrName))
	out, err := call[domainInfoResponse](ctx, p, "DescribeDomainInfo", params)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.NormalizeZone(dnsmodel.Zone{
		ID:   provider.NormalizeName(out.DomainName),
		Name: out.DomainName,
		Meta: map[string]string{"domainId": out.DomainID},
	}), nil
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	params := url.Values{}
	params.Set("DomainName", zoneID)
	params.Set("PageNumber", strconv.Itoa(q.Page))
	params.Set("PageSize", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.Keyword != "" {
		params.Set("KeyWord", q.Keyword)
		params.Set("SearchMode", "LIKE")
	}
	if q.SubDomain != "" {
		params.Set("RRKeyWord", provider.RelName(q.SubDomain, zoneID))
	}
	if q.Type != "" {
		params.Set("TypeKeyWord", q.Type)
	}
	if q.Value != "" {
		params.Set("ValueKeyWord", q.Value)
	}
	if q.Line != "" {
		params.Set("Line", q.Line)
	}
	if q.Status != "" {
		params.Set("Status", vendorStatus(q.Status == dnsmodel.StatusEnabled))
	}

	out, err := call[recordsResponse](ctx, p, "DescribeDomainRecords", params)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	list := dnsmodel.RecordList{Total: out.TotalCount}
	for _, rec := range out.DomainRecords.Record {
		list.Records = append(list.Records, p.recordFrom(rec, zoneID))
	}
	return list, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	params := url.Values{}
	params.Set("RecordId", recordID)
	out, err := call[recordInfoResponse](ctx, p, "DescribeDomainRecordInfo", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	zone := zoneID
	if out.DomainName != "" {
		zone = out.DomainName
	}
	return p.recordFrom(out.apiRecord, zone), nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	params := url.Values{}
	params.Set("DomainName", zoneID)
	params.Set("RR", provider.RelName(in.Name, zoneID))
	params.Set("Type", in.Type)
	params.Set("Value", in.Value)
	if in.TTL > 0 {
		params.Set("TTL", strconv.Itoa(in.TTL))
	}
	if in.Line != "" {
		params.Set("Line", in.Line)
	}
	if in.Priority != nil {
		params.Set("Priority", strconv.Itoa(*in.Priority))
	}

	out, err := call[addRecordResponse](ctx, p, "AddDomainRecord", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(out.RecordID, zoneID, in)

	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, rec.ID, false); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	if in.Remark != nil {
		if err := p.setRemark(ctx, rec.ID, *in.Remark); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Remark = *in.Remark
	}
	return rec, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	// UpdateDomainRecord requires the full RR/Type/Value triple, so fill
	// gaps from the current record.
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
	}

	params := url.Values{}
	params.Set("RecordId", recordID)
	params.Set("RR", provider.RelName(in.Name, zoneID))
	params.Set("Type", in.Type)
	params.Set("Value", in.Value)
	if in.TTL > 0 {
		params.Set("TTL", strconv.Itoa(in.TTL))
	}
	if in.Line != "" {
		params.Set("Line", in.Line)
	}
	if in.Priority != nil {
		params.Set("Priority", strconv.Itoa(*in.Priority))
	}
	if _, err := call[emptyResponse](ctx, p, "UpdateDomainRecord", params); err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(recordID, zoneID, in)

	if in.Status != "" {
		if err := p.SetRecordStatus(ctx, zoneID, recordID, in.Status == dnsmodel.StatusEnabled); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Status = in.Status
	}
	if in.Remark != nil {
		if err := p.setRemark(ctx, recordID, *in.Remark); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Remark = *in.Remark
	}
	return rec, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	params := url.Values{}
	params.Set("RecordId", recordID)
	_, err := call[emptyResponse](ctx, p, "DeleteDomainRecord", params)
	return err
}

func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	params := url.Values{}
	params.Set("RecordId", recordID)
	params.Set("Status", vendorStatus(enabled))
	_, err := call[emptyResponse](ctx, p, "SetDomainRecordStatus", params)
	return err
}

func (p *Provider) setRemark(ctx context.Context, recordID, remark string) error {
	params := url.Values{}
	params.Set("RecordId", recordID)
	params.Set("Remark", remark)
	_, err := call[emptyResponse](ctx, p, "UpdateDomainRecordRemark", params)
	return err
}

// Lines returns the alidns line tree root level. The identifiers are
// already the canonical codes.
func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return []dnsmodel.Line{
		{Code: dnsmodel.LineDefault, Name: "Default"},
		{Code: dnsmodel.LineTelecom, Name: "China Telecom"},
		{Code: dnsmodel.LineUnicom, Name: "China Unicom"},
		{Code: dnsmodel.LineMobile, Name: "China Mobile"},
		{Code: dnsmodel.LineEdu, Name: "China Education"},
		{Code: dnsmodel.LineOversea, Name: "Outside Mainland"},
		{Code: dnsmodel.LineSearch, Name: "Search Engine"},
		{Code: dnsmodel.LineInternal, Name: "Intranet"},
	}, nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	params := url.Values{}
	params.Set("DomainName", zoneID)
	out, err := call[domainInfoResponse](ctx, p, "DescribeDomainInfo", params)
	if err != nil {
		return 0, err
	}
	if out.MinTTL > 0 {
		return out.MinTTL, nil
	}
	return defaultMinTTL, nil
}

// CreateZone registers a new domain under the account.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	params := url.Values{}
	params.Set("DomainName", provider.NormalizeName(name))
	out, err := call[addDomainResponse](ctx, p, "AddDomain", params)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.NormalizeZone(dnsmodel.Zone{
		ID:   provider.NormalizeName(out.DomainName),
		Name: out.DomainName,
		Meta: map[string]string{"domainId": out.DomainID},
	}), nil
}

func (p *Provider) zoneFrom(d apiDomain) dnsmodel.Zone {
	count := d.RecordCount
	return p.NormalizeZone(dnsmodel.Zone{
		ID:          provider.NormalizeName(d.DomainName),
		Name:        d.DomainName,
		RecordCount: &count,
		Meta:        map[string]string{"domainId": d.DomainID},
	})
}

func (p *Provider) recordFrom(rec apiRecord, zoneName string) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       rec.RecordID,
		ZoneID:   zoneName,
		ZoneName: zoneName,
		Name:     provider.AbsName(rec.RR, zoneName),
		Type:     rec.Type,
		Value:    rec.Value,
		TTL:      rec.TTL,
		Line:     rec.Line,
		Remark:   rec.Remark,
	}
	if rec.Type == dnsmodel.TypeMX {
		prio := rec.Priority
		r.Priority = &prio
	}
	switch rec.Status {
	case "ENABLE":
		r.Status = dnsmodel.StatusEnabled
	case "DISABLE":
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneName string, in dnsmodel.RecordInput) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneName,
		ZoneName: zoneName,
		Name:     provider.AbsName(in.Name, zoneName),
		Type:     in.Type,
		Value:    in.Value,
		TTL:      in.TTL,
		Line:     in.Line,
		Priority: in.Priority,
		Status:   dnsmodel.StatusEnabled,
	}
	return p.NormalizeRecord(r)
}

func vendorStatus(enabled bool) string {
	if enabled {
		return "Enable"
	}
	return "Disable"
}
