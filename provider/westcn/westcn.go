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

// Package westcn adapts the West.cn domain API. Every call is a form POST
// carrying an md5 token; responses arrive GBK-encoded and are transcoded
// before decoding. Records page server-side, zones do not.
package westcn

import (
	"context"
	"encoding/json"
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
	defaultEndpoint = "https://api.west.cn/API/v2"
	defaultMinTTL   = 600

	// Client-mode fallbacks drain the record list at the vendor page
	// ceiling.
	fetchPageSize = 100
	maxFetchPages = 200
)

// Capabilities describes the West.cn dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:           dnsmodel.KindWestCN,
		Label:          "West.cn",
		SupportsLine:   true,
		SupportsStatus: true,
		RemarkMode:     dnsmodel.RemarkUnsupported,
		Paging:         dnsmodel.PagingServer,
		MaxPageSize:    100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeNS,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "username", Label: "Account Username", Kind: dnsmodel.AuthFieldText, Required: true},
			{Name: "apiPassword", Label: "API Password", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the West.cn adapter.
type Provider struct {
	provider.Base

	http        *restclient.Client
	endpoint    string
	username    string
	apiPassword string
	clock       sign.Clock
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	username, password := secrets["username"], secrets["apiPassword"]
	if username == "" || password == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"westcn: username and apiPassword are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:        provider.Base{Caps: Capabilities()},
		http:        restclient.New(opts.HTTPClient, string(dnsmodel.KindWestCN), restclient.WithRateLimit(opts.RateLimit)),
		endpoint:    endpoint,
		username:    username,
		apiPassword: password,
		clock:       opts.ClockOrDefault(),
	}, nil
}

// envelope is the fixed West.cn response frame; result 200 means success
// and data holds the act-specific body.
type envelope struct {
	Result   int             `json:"result"`
	ClientID string          `json:"clientid"`
	Message  string          `json:"msg"`
	Data     json.RawMessage `json:"data"`
}

type apiDomain struct {
	Domain string `json:"domain"`
}

type domainsData struct {
	Items []apiDomain `json:"items"`
	Total int         `json:"total"`
}

type apiRecord struct {
	ID    int64  `json:"id"`
	Host  string `json:"item"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Level int    `json:"level"`
	TTL   int    `json:"ttl"`
	Pause int    `json:"pause"`
	Line  string `json:"line"`
}

type recordsData struct {
	Items []apiRecord `json:"items"`
	Total int         `json:"total"`
}

type recordWriteData struct {
	ID int64 `json:"id"`
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"310": dnsmodel.ErrAuthFailed,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	}
	return p.NewError(kind, code, message, status)
}

// call POSTs one act to the domain endpoint and decodes data into out
// when given.
func (p *Provider) call(ctx context.Context, act string, params url.Values, out any) error {
	return p.Retry(ctx, func() error {
		form := sign.WestToken(p.username, p.apiPassword, p.clock)
		form.Set("act", act)
		for k, vs := range params {
			form[k] = vs
		}
		header := http.Header{}
		header.Set("Content-Type", "application/x-www-form-urlencoded")

		var env envelope
		resp, err := p.http.DoJSON(ctx, restclient.Request{
			Method: http.MethodPost,
			URL:    p.endpoint + "/domain/",
			Header: header,
			Body:   []byte(form.Encode()),
			Action: act,
			GBK:    true,
		}, &env)
		if err != nil {
			return err
		}
		if env.Result != 200 {
			return p.mapError(strconv.Itoa(env.Result), env.Message, resp.StatusCode)
		}
		if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "westcn: decode %s data: %v", act, err)
			}
		}
		return nil
	})
}

// CheckAuth lists one domain to prove the token works.
func (p *Provider) CheckAuth(ctx context.Context) error {
	params := url.Values{}
	params.Set("pageno", "1")
	params.Set("limit", "1")
	return p.call(ctx, "getdomains", params, nil)
}

// Zones fetches the account's domains; the vendor cannot filter or page
// them usefully, so both happen client-side.
func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	all, err := p.allZones(ctx)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	var matched []dnsmodel.Zone
	for _, zone := range all {
		if q.Keyword != "" && !strings.Contains(zone.Name, q.Keyword) {
			continue
		}
		matched = append(matched, zone)
	}
	page, total := provider.Paginate(matched, q.Page, p.ClampPageSize(q.PageSize))
	return dnsmodel.ZoneList{Zones: page, Total: total}, nil
}

func (p *Provider) allZones(ctx context.Context) ([]dnsmodel.Zone, error) {
	var all []dnsmodel.Zone
	for page := 1; page <= maxFetchPages; page++ {
		params := url.Values{}
		params.Set("pageno", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(fetchPageSize))
		var data domainsData
		if err := p.call(ctx, "getdomains", params, &data); err != nil {
			return nil, err
		}
		for _, d := range data.Items {
			all = append(all, p.NormalizeZone(dnsmodel.Zone{
				ID:     provider.NormalizeName(d.Domain),
				Name:   d.Domain,
				Status: dnsmodel.StatusEnabled,
			}))
		}
		if len(data.Items) < fetchPageSize {
			break
		}
	}
	return all, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
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
	return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "westcn: zone %q not found", idOrName)
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()

	// Keyword, value, line and status cannot be pushed upstream; fetch
	// everything and filter here.
	if q.Keyword != "" || q.Value != "" || q.Line != "" || q.Status != "" {
		all, err := p.allRecords(ctx, zoneID, q.SubDomain, q.Type)
		if err != nil {
			return dnsmodel.RecordList{}, err
		}
		matched := provider.FilterRecords(all, q)
		page, total := provider.Paginate(matched, q.Page, q.PageSize)
		return dnsmodel.RecordList{Records: page, Total: total}, nil
	}

	params := url.Values{}
	params.Set("domain", zoneID)
	params.Set("pageno", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(p.ClampPageSize(q.PageSize)))
	if q.SubDomain != "" {
		params.Set("hostname", provider.RelName(q.SubDomain, zoneID))
	}
	if q.Type != "" {
		params.Set("record_type", strings.ToUpper(q.Type))
	}
	var data recordsData
	if err := p.call(ctx, "dnsrec.list", params, &data); err != nil {
		return dnsmodel.RecordList{}, err
	}
	records := make([]dnsmodel.Record, 0, len(data.Items))
	for _, rec := range data.Items {
		records = append(records, p.recordFrom(rec, zoneID))
	}
	return dnsmodel.RecordList{Records: records, Total: data.Total}, nil
}

func (p *Provider) allRecords(ctx context.Context, zoneID, subDomain, recordType string) ([]dnsmodel.Record, error) {
	var all []dnsmodel.Record
	for page := 1; page <= maxFetchPages; page++ {
		params := url.Values{}
		params.Set("domain", zoneID)
		params.Set("pageno", strconv.Itoa(page))
		params.Set("limit", strconv.Itoa(fetchPageSize))
		if subDomain != "" {
			params.Set("hostname", provider.RelName(subDomain, zoneID))
		}
		if recordType != "" {
			params.Set("record_type", strings.ToUpper(recordType))
		}
		var data recordsData
		if err := p.call(ctx, "dnsrec.list", params, &data); err != nil {
			return nil, err
		}
		for _, rec := range data.Items {
			all = append(all, p.recordFrom(rec, zoneID))
		}
		if len(data.Items) < fetchPageSize {
			break
		}
	}
	return all, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	all, err := p.allRecords(ctx, zoneID, "", "")
	if err != nil {
		return dnsmodel.Record{}, err
	}
	for _, rec := range all {
		if rec.ID == recordID {
			return rec, nil
		}
	}
	return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "westcn: record %q not found", recordID)
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	params := p.writeParams(zoneID, in)
	var data recordWriteData
	if err := p.call(ctx, "dnsrec.add", params, &data); err != nil {
		return dnsmodel.Record{}, err
	}
	id := strconv.FormatInt(data.ID, 10)
	rec := p.recordFromInput(id, zoneID, in)

	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, id, false); err != nil {
			return rec, provider.MarkPartial(err, id)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	return rec, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	// dnsrec.modify wants the full record, so fill gaps from the current
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
	}
	params := p.writeParams(zoneID, in)
	params.Set("id", recordID)
	if err := p.call(ctx, "dnsrec.modify", params, nil); err != nil {
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
	params := url.Values{}
	params.Set("domain", zoneID)
	params.Set("id", recordID)
	return p.call(ctx, "dnsrec.remove", params, nil)
}

// SetRecordStatus drives dnsrec.pause; val 1 resumes resolution and 0
// pauses it.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	params := url.Values{}
	params.Set("domain", zoneID)
	params.Set("id", recordID)
	params.Set("val", val)
	return p.call(ctx, "dnsrec.pause", params, nil)
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

func (p *Provider) recordFrom(rec apiRecord, zoneID string) dnsmodel.Record {
	r := dnsmodel.Record{
		ID:       strconv.FormatInt(rec.ID, 10),
		ZoneID:   zoneID,
		ZoneName: zoneID,
		Name:     provider.AbsName(rec.Host, zoneID),
		Type:     rec.Type,
		Value:    rec.Value,
		TTL:      rec.TTL,
		Line:     canonicalLine(rec.Line),
		Status:   dnsmodel.StatusEnabled,
	}
	if rec.Pause == 1 {
		r.Status = dnsmodel.StatusDisabled
	}
	if rec.Type == dnsmodel.TypeMX {
		prio := rec.Level
		r.Priority = &prio
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneID string, in dnsmodel.RecordInput) dnsmodel.Record {
	line := in.Line
	if line == "" {
		line = dnsmodel.LineDefault
	}
	r := dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneID,
		ZoneName: zoneID,
		Name:     provider.AbsName(in.Name, zoneID),
		Type:     in.Type,
		Value:    in.Value,
		TTL:      in.TTL,
		Line:     line,
		Priority: in.Priority,
		Status:   dnsmodel.StatusEnabled,
	}
	if in.Status == dnsmodel.StatusDisabled {
		r.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) writeParams(zoneID string, in dnsmodel.RecordInput) url.Values {
	params := url.Values{}
	params.Set("domain", zoneID)
	params.Set("host", provider.RelName(in.Name, zoneID))
	params.Set("type", strings.ToUpper(in.Type))
	params.Set("value", in.Value)
	if in.TTL > 0 {
		params.Set("ttl", strconv.Itoa(in.TTL))
	}
	params.Set("line", vendorLine(in.Line))
	if strings.EqualFold(in.Type, dnsmodel.TypeMX) {
		level := 10
		if in.Priority != nil {
			level = *in.Priority
		}
		params.Set("level", strconv.Itoa(level))
	}
	return params
}

// West.cn line identifiers; the default line is the empty string.
var lineByCanonical = map[string]string{
	dnsmodel.LineDefault: "",
	dnsmodel.LineTelecom: "LTEL",
	dnsmodel.LineUnicom:  "LCNC",
	dnsmodel.LineMobile:  "LMOB",
	dnsmodel.LineEdu:     "LEDU",
	dnsmodel.LineOversea: "LFRN",
	dnsmodel.LineSearch:  "LSEO",
}

var canonicalByLine = func() map[string]string {
	m := make(map[string]string, len(lineByCanonical))
	for canonical, vendor := range lineByCanonical {
		m[vendor] = canonical
	}
	return m
}()

func vendorLine(canonical string) string {
	if canonical == "" {
		return ""
	}
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
