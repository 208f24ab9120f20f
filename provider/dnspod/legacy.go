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

package dnspod

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

const legacyEndpoint = "https://dnsapi.cn"

// Record.List answers code 10 instead of an empty list when nothing
// matches.
const legacyEmptyList = "10"

// LegacyCapabilities describes the dnsapi.cn token dialect. Same feature
// set as the API 3.0 adapter, different auth material.
func LegacyCapabilities() dnsmodel.Capabilities {
	caps := Capabilities()
	caps.Kind = dnsmodel.KindDNSPodToken
	caps.Label = "DNSPod (API Token)"
	caps.MaxPageSize = 100
	caps.AuthFields = []dnsmodel.AuthField{
		{Name: "tokenId", Label: "Token ID", Kind: dnsmodel.AuthFieldText, Required: true},
		{Name: "token", Label: "Token", Kind: dnsmodel.AuthFieldPassword, Required: true},
	}
	caps.RetryableErrors = []string{"-2"}
	return caps
}

// LegacyProvider implements the dnsapi.cn form adapter.
type LegacyProvider struct {
	provider.Base

	http     *restclient.Client
	endpoint string
	tokenID  string
	token    string
}

// NewLegacy builds the token adapter from the account secrets.
func NewLegacy(secrets map[string]string, opts provider.Options) (*LegacyProvider, error) {
	id, token := secrets["tokenId"], secrets["token"]
	if id == "" {
		id = secrets["id"]
	}
	if id == "" || token == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"dnspod: tokenId and token are required")
	}
	endpoint := legacyEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &LegacyProvider{
		Base:     provider.Base{Caps: LegacyCapabilities()},
		http:     restclient.New(opts.HTTPClient, string(dnsmodel.KindDNSPodToken), restclient.WithRateLimit(opts.RateLimit)),
		endpoint: endpoint,
		tokenID:  id,
		token:    token,
	}, nil
}

// flexInt tolerates the legacy habit of quoting numbers ("ttl":"600").
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexID reads an ID that arrives quoted on some calls and bare on others.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

type legacyStatus struct {
	Status struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

func (e *legacyStatus) statusCode() (string, string) {
	return e.Status.Code, e.Status.Message
}

type legacyDomain struct {
	ID      flexID  `json:"id"`
	Name    string  `json:"name"`
	Status  string  `json:"status"`
	Grade   string  `json:"grade"`
	Records flexInt `json:"records"`
}

type legacyDomainsResponse struct {
	legacyStatus
	Info struct {
		DomainTotal flexInt `json:"domain_total"`
	} `json:"info"`
	Domains []legacyDomain `json:"domains"`
}

type legacyDomainInfoResponse struct {
	legacyStatus
	Domain struct {
		ID     flexID  `json:"id"`
		Name   string  `json:"name"`
		Status string  `json:"status"`
		Grade  string  `json:"grade"`
		MinTTL flexInt `json:"min_ttl"`
	} `json:"domain"`
}

type legacyDomainCreateResponse struct {
	legacyStatus
	Domain struct {
		ID     flexID `json:"id"`
		Domain string `json:"domain"`
	} `json:"domain"`
}

type legacyRecord struct {
	ID      flexID   `json:"id"`
	Name    string   `json:"name"`
	Line    string   `json:"line"`
	LineID  string   `json:"line_id"`
	Type    string   `json:"type"`
	TTL     flexInt  `json:"ttl"`
	Value   string   `json:"value"`
	Weight  *flexInt `json:"weight"`
	MX      flexInt  `json:"mx"`
	Enabled string   `json:"enabled"`
	Remark  string   `json:"remark"`
	Updated string   `json:"updated_on"`
}

type legacyRecordsResponse struct {
	legacyStatus
	Info struct {
		RecordTotal flexInt `json:"record_total"`
	} `json:"info"`
	Records []legacyRecord `json:"records"`
}

// Record.Info names its fields differently from Record.List.
type legacyRecordInfoResponse struct {
	legacyStatus
	Record struct {
		ID        flexID   `json:"id"`
		SubDomain string   `json:"sub_domain"`
		Type      string   `json:"record_type"`
		Line      string   `json:"record_line"`
		LineID    string   `json:"record_line_id"`
		Value     string   `json:"value"`
		MX        flexInt  `json:"mx"`
		TTL       flexInt  `json:"ttl"`
		Weight    *flexInt `json:"weight"`
		Enabled   string   `json:"enabled"`
		Remark    string   `json:"remark"`
	} `json:"record"`
}

type legacyRecordWriteResponse struct {
	legacyStatus
	Record struct {
		ID flexID `json:"id"`
	} `json:"record"`
}

type legacyLinesResponse struct {
	legacyStatus
	Lines []string `json:"lines"`
}

type legacyEmptyResponse struct {
	legacyStatus
}

var legacyErrorKinds = map[string]dnsmodel.ErrorKind{
	"-1": dnsmodel.ErrAuthFailed,
	"-7": dnsmodel.ErrAuthFailed,
	"-8": dnsmodel.ErrAuthFailed,
	"-2": dnsmodel.ErrRateLimited,
	"6":  dnsmodel.ErrZoneNotFound,
	"7":  dnsmodel.ErrZoneNotFound,
	"8":  dnsmodel.ErrRecordNotFound,
}

func (p *LegacyProvider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := legacyErrorKinds[code]; ok {
		kind = k
	}
	return p.NewError(kind, code, message, status)
}

// callLegacy POSTs one form action. Codes other than "1" are vendor
// errors, except the listed emptyCodes which mean a successful empty
// result.
func callLegacy[T any](ctx context.Context, p *LegacyProvider, action string, params url.Values, emptyCodes ...string) (*T, error) {
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		form := sign.DNSPodToken(p.tokenID, p.token)
		for k, vs := range params {
			form[k] = vs
		}
		header := http.Header{}
		header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: http.MethodPost,
			URL:    p.endpoint + "/" + action,
			Header: header,
			Body:   []byte(form.Encode()),
			Action: action,
		}, out)
		if err != nil {
			return err
		}
		if se, ok := any(out).(interface{ statusCode() (string, string) }); ok {
			code, msg := se.statusCode()
			if code == "1" || code == "" {
				return nil
			}
			for _, empty := range emptyCodes {
				if code == empty {
					return nil
				}
			}
			return p.mapError(code, msg, resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckAuth lists one zone to prove the token works.
func (p *LegacyProvider) CheckAuth(ctx context.Context) error {
	params := url.Values{}
	params.Set("length", "1")
	_, err := callLegacy[legacyDomainsResponse](ctx, p, "Domain.List", params, legacyEmptyList)
	return err
}

func (p *LegacyProvider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	size := p.ClampPageSize(q.PageSize)
	params := url.Values{}
	params.Set("offset", strconv.Itoa((q.Page-1)*size))
	params.Set("length", strconv.Itoa(size))
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	out, err := callLegacy[legacyDomainsResponse](ctx, p, "Domain.List", params, legacyEmptyList)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: int(out.Info.DomainTotal)}
	for _, d := range out.Domains {
		list.Zones = append(list.Zones, p.zoneFrom(d))
	}
	return list, nil
}

func (p *LegacyProvider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	out, err := callLegacy[legacyDomainInfoResponse](ctx, p, "Domain.Info", legacyDomainParam(idOrName, nil))
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	d := out.Domain
	return p.zoneFrom(legacyDomain{ID: d.ID, Name: d.Name, Status: d.Status, Grade: d.Grade}), nil
}

func (p *LegacyProvider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()

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
	params := legacyDomainParam(zoneID, nil)
	params.Set("offset", strconv.Itoa((q.Page-1)*size))
	params.Set("length", strconv.Itoa(size))
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if q.SubDomain != "" {
		params.Set("sub_domain", provider.RelName(q.SubDomain, zoneID))
	}
	if q.Type != "" {
		params.Set("record_type", vendorType(q.Type))
	}
	if q.Line != "" {
		params.Set("record_line_id", lineIDFromCanonical(q.Line))
	}
	out, err := callLegacy[legacyRecordsResponse](ctx, p, "Record.List", params, legacyEmptyList)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	list := dnsmodel.RecordList{Total: int(out.Info.RecordTotal)}
	for _, rec := range out.Records {
		list.Records = append(list.Records, p.recordFrom(rec, zoneID))
	}
	return list, nil
}

func (p *LegacyProvider) allRecords(ctx context.Context, zoneID string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for offset := 0; ; offset += fetchAllSize {
		params := legacyDomainParam(zoneID, nil)
		params.Set("offset", strconv.Itoa(offset))
		params.Set("length", strconv.Itoa(fetchAllSize))
		out, err := callLegacy[legacyRecordsResponse](ctx, p, "Record.List", params, legacyEmptyList)
		if err != nil {
			return nil, err
		}
		for _, rec := range out.Records {
			all = append(all, p.recordFrom(rec, zoneID))
		}
		if len(out.Records) < fetchAllSize || len(all) >= int(out.Info.RecordTotal) {
			return all, nil
		}
	}
}

func (p *LegacyProvider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	params := legacyDomainParam(zoneID, nil)
	params.Set("record_id", recordID)
	out, err := callLegacy[legacyRecordInfoResponse](ctx, p, "Record.Info", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	info := out.Record
	return p.recordFrom(legacyRecord{
		ID:      info.ID,
		Name:    info.SubDomain,
		Line:    info.Line,
		LineID:  info.LineID,
		Type:    info.Type,
		TTL:     info.TTL,
		Value:   info.Value,
		Weight:  info.Weight,
		MX:      info.MX,
		Enabled: info.Enabled,
		Remark:  info.Remark,
	}, zoneID), nil
}

func (p *LegacyProvider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	params := p.recordParams(zoneID, in)
	if in.Status != "" {
		params.Set("status", legacyVendorStatus(in.Status == dnsmodel.StatusEnabled))
	}
	out, err := callLegacy[legacyRecordWriteResponse](ctx, p, "Record.Create", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rec := p.recordFromInput(string(out.Record.ID), zoneID, in)

	if in.Remark != nil {
		if err := p.setRemark(ctx, zoneID, rec.ID, *in.Remark); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Remark = *in.Remark
	}
	return rec, nil
}

func (p *LegacyProvider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
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
	params := p.recordParams(zoneID, in)
	params.Set("record_id", recordID)
	if in.Status != "" {
		params.Set("status", legacyVendorStatus(in.Status == dnsmodel.StatusEnabled))
	}
	if _, err := callLegacy[legacyRecordWriteResponse](ctx, p, "Record.Modify", params); err != nil {
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

func (p *LegacyProvider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	params := legacyDomainParam(zoneID, nil)
	params.Set("record_id", recordID)
	_, err := callLegacy[legacyEmptyResponse](ctx, p, "Record.Remove", params)
	return err
}

func (p *LegacyProvider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	params := legacyDomainParam(zoneID, nil)
	params.Set("record_id", recordID)
	params.Set("status", legacyVendorStatus(enabled))
	_, err := callLegacy[legacyEmptyResponse](ctx, p, "Record.Status", params)
	return err
}

func (p *LegacyProvider) setRemark(ctx context.Context, zoneID, recordID, remark string) error {
	params := legacyDomainParam(zoneID, nil)
	params.Set("record_id", recordID)
	params.Set("remark", remark)
	_, err := callLegacy[legacyEmptyResponse](ctx, p, "Record.Remark", params)
	return err
}

func (p *LegacyProvider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	zone, err := callLegacy[legacyDomainInfoResponse](ctx, p, "Domain.Info", legacyDomainParam(zoneID, nil))
	if err != nil {
		return nil, err
	}
	params := legacyDomainParam(zoneID, nil)
	params.Set("domain_grade", zone.Domain.Grade)
	out, err := callLegacy[legacyLinesResponse](ctx, p, "Record.Line", params)
	if err != nil {
		return nil, err
	}
	lines := make([]dnsmodel.Line, 0, len(out.Lines))
	for _, name := range out.Lines {
		lines = append(lines, dnsmodel.Line{
			Code: canonicalFromLineName(name),
			Name: name,
		})
	}
	return lines, nil
}

func (p *LegacyProvider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	out, err := callLegacy[legacyDomainInfoResponse](ctx, p, "Domain.Info", legacyDomainParam(zoneID, nil))
	if err != nil {
		return 0, err
	}
	if out.Domain.MinTTL > 0 {
		return int(out.Domain.MinTTL), nil
	}
	return defaultMinTTL, nil
}

// CreateZone registers a new domain under the account.
func (p *LegacyProvider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	params := url.Values{}
	params.Set("domain", provider.NormalizeName(name))
	out, err := callLegacy[legacyDomainCreateResponse](ctx, p, "Domain.Create", params)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.NormalizeZone(dnsmodel.Zone{
		ID:   provider.NormalizeName(out.Domain.Domain),
		Name: out.Domain.Domain,
		Meta: map[string]string{"domainId": string(out.Domain.ID)},
	}), nil
}

func legacyDomainParam(idOrName string, params url.Values) url.Values {
	if params == nil {
		params = url.Values{}
	}
	if _, err := strconv.ParseInt(idOrName, 10, 64); err == nil && idOrName != "" {
		params.Set("domain_id", idOrName)
	} else {
		params.Set("domain", provider.NormalizeName(idOrName))
	}
	return params
}

func (p *LegacyProvider) recordParams(zoneID string, in dnsmodel.RecordInput) url.Values {
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	params := legacyDomainParam(zoneID, nil)
	params.Set("sub_domain", provider.RelName(in.Name, zoneID))
	params.Set("record_type", vendorType(in.Type))
	params.Set("record_line_id", lineIDFromCanonical(line))
	params.Set("value", in.Value)
	if in.TTL > 0 {
		params.Set("ttl", strconv.Itoa(in.TTL))
	}
	if in.Priority != nil {
		params.Set("mx", strconv.Itoa(*in.Priority))
	}
	if in.Weight != nil {
		params.Set("weight", strconv.Itoa(*in.Weight))
	}
	return params
}

func (p *LegacyProvider) zoneFrom(d legacyDomain) dnsmodel.Zone {
	count := int(d.Records)
	z := dnsmodel.Zone{
		ID:          provider.NormalizeName(d.Name),
		Name:        d.Name,
		RecordCount: &count,
		Status:      dnsmodel.StatusEnabled,
		Meta: map[string]string{
			"domainId": string(d.ID),
			"grade":    d.Grade,
		},
	}
	if strings.EqualFold(d.Status, "pause") {
		z.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeZone(z)
}

func (p *LegacyProvider) recordFrom(rec legacyRecord, zoneID string) dnsmodel.Record {
	recordType := canonicalType(rec.Type)
	r := dnsmodel.Record{
		ID:        string(rec.ID),
		ZoneID:    zoneID,
		ZoneName:  zoneID,
		Name:      provider.AbsName(rec.Name, zoneID),
		Type:      recordType,
		Value:     trimHostValue(recordType, rec.Value),
		TTL:       int(rec.TTL),
		Line:      lineFrom(rec.LineID, rec.Line),
		Remark:    rec.Remark,
		UpdatedAt: rec.Updated,
	}
	if rec.Weight != nil {
		w := int(*rec.Weight)
		r.Weight = &w
	}
	if r.Type == dnsmodel.TypeMX {
		mx := int(rec.MX)
		r.Priority = &mx
	}
	switch rec.Enabled {
	case "1":
		r.Status = dnsmodel.StatusEnabled
	case "0":
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *LegacyProvider) recordFromInput(id, zoneID string, in dnsmodel.RecordInput) dnsmodel.Record {
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

func legacyVendorStatus(enabled bool) string {
	if enabled {
		return "enable"
	}
	return "disable"
}
