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

// Package namesilo adapts the NameSilo XML API. Every operation is a GET
// with the key in the query string, the reply code 300 means success, and
// updates hand back a fresh record ID.
package namesilo

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zonegate/zonegate/dnsmodel"
	"github.com/zonegate/zonegate/pkg/restclient"
	"github.com/zonegate/zonegate/provider"
)

const (
	defaultEndpoint = "https://www.namesilo.com/api"
	defaultMinTTL   = 600

	// Reply code for a successful operation.
	replyOK = 300
)

// Capabilities describes the NameSilo dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:        dnsmodel.KindNameSilo,
		Label:       "NameSilo",
		RemarkMode:  dnsmodel.RemarkUnsupported,
		Paging:      dnsmodel.PagingClient,
		MaxPageSize: 100,
		RecordTypes: []string{
			dnsmodel.TypeA, dnsmodel.TypeAAAA, dnsmodel.TypeCNAME,
			dnsmodel.TypeMX, dnsmodel.TypeTXT, dnsmodel.TypeSRV,
			dnsmodel.TypeCAA, dnsmodel.TypeNS,
		},
		AuthFields: []dnsmodel.AuthField{
			{Name: "apiKey", Label: "API Key", Kind: dnsmodel.AuthFieldPassword, Required: true},
		},
		ZoneCacheTTL:   3600,
		RecordCacheTTL: 600,
		MaxRetries:     2,
	}
}

// Provider implements the NameSilo adapter.
type Provider struct {
	provider.Base

	http     *restclient.Client
	endpoint string
	key      string
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	key := secrets["apiKey"]
	if key == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"namesilo: apiKey is required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	return &Provider{
		Base:     provider.Base{Caps: Capabilities()},
		http:     restclient.New(opts.HTTPClient, string(dnsmodel.KindNameSilo), restclient.WithRateLimit(opts.RateLimit)),
		endpoint: endpoint,
		key:      key,
	}, nil
}

// apiReply carries the code/detail pair every operation answers with.
type apiReply struct {
	Code   int    `xml:"code"`
	Detail string `xml:"detail"`
}

func (r apiReply) vendorError() (string, string) {
	if r.Code == replyOK {
		return "", ""
	}
	return strconv.Itoa(r.Code), r.Detail
}

type domainsResponse struct {
	XMLName xml.Name `xml:"namesilo"`
	Reply   struct {
		apiReply
		Domains []string `xml:"domains>domain"`
	} `xml:"reply"`
}

func (r *domainsResponse) vendorError() (string, string) { return r.Reply.vendorError() }

type domainInfoResponse struct {
	XMLName xml.Name `xml:"namesilo"`
	Reply   struct {
		apiReply
		Created string `xml:"created"`
		Expires string `xml:"expires"`
		Status  string `xml:"status"`
	} `xml:"reply"`
}

func (r *domainInfoResponse) vendorError() (string, string) { return r.Reply.vendorError() }

type apiRecord struct {
	ID       string `xml:"record_id"`
	Type     string `xml:"type"`
	Host     string `xml:"host"`
	Value    string `xml:"value"`
	TTL      int    `xml:"ttl"`
	Distance int    `xml:"distance"`
}

type recordsResponse struct {
	XMLName xml.Name `xml:"namesilo"`
	Reply   struct {
		apiReply
		Records []apiRecord `xml:"resource_record"`
	} `xml:"reply"`
}

func (r *recordsResponse) vendorError() (string, string) { return r.Reply.vendorError() }

type writeResponse struct {
	XMLName xml.Name `xml:"namesilo"`
	Reply   struct {
		apiReply
		RecordID string `xml:"record_id"`
	} `xml:"reply"`
}

func (r *writeResponse) vendorError() (string, string) { return r.Reply.vendorError() }

var errorKinds = map[string]dnsmodel.ErrorKind{
	"110": dnsmodel.ErrAuthFailed, // invalid API key
	"112": dnsmodel.ErrAuthFailed, // API not available to sub-accounts
	"113": dnsmodel.ErrAuthFailed, // API restricted by IP
	"200": dnsmodel.ErrZoneNotFound,
	"210": dnsmodel.ErrZoneNotFound,
}

func (p *Provider) mapError(code, message string, status int) error {
	kind := dnsmodel.ErrVendor
	if k, ok := errorKinds[code]; ok {
		kind = k
	}
	if kind == dnsmodel.ErrZoneNotFound && strings.Contains(strings.ToLower(message), "record") {
		kind = dnsmodel.ErrRecordNotFound
	}
	return p.NewError(kind, code, message, status)
}

func call[T any](ctx context.Context, p *Provider, operation string, params url.Values) (*T, error) {
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		query := url.Values{}
		query.Set("version", "1")
		query.Set("type", "xml")
		query.Set("key", p.key)
		for k, vs := range params {
			for _, v := range vs {
				query.Add(k, v)
			}
		}

		resp, err := p.http.Do(ctx, restclient.Request{
			Method: http.MethodGet,
			URL:    p.endpoint + "/" + operation + "?" + query.Encode(),
			Action: operation,
		})
		if err != nil {
			return err
		}
		if err := xml.Unmarshal(resp.Body, out); err != nil {
			if resp.StatusCode >= http.StatusBadRequest {
				return p.VendorError("", http.StatusText(resp.StatusCode), resp.StatusCode)
			}
			return dnsmodel.NewErrorf(dnsmodel.ErrInvalidResponse, "decoding reply: %v", err)
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

// CheckAuth lists the account domains to prove the key works.
func (p *Provider) CheckAuth(ctx context.Context) error {
	_, err := call[domainsResponse](ctx, p, "listDomains", nil)
	return err
}

// Zones lists the account domains; the vendor returns bare names with no
// paging, so keyword and page run here.
func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	out, err := call[domainsResponse](ctx, p, "listDomains", nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	zones := make([]dnsmodel.Zone, 0, len(out.Reply.Domains))
	for _, name := range out.Reply.Domains {
		zone := p.zoneFrom(name)
		if q.Keyword != "" && !strings.Contains(zone.Name, q.Keyword) {
			continue
		}
		zones = append(zones, zone)
	}
	page, total := provider.Paginate(zones, q.Page, q.PageSize)
	return dnsmodel.ZoneList{Zones: page, Total: total}, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	name := provider.NormalizeName(idOrName)
	out, err := call[domainInfoResponse](ctx, p, "getDomainInfo",
		url.Values{"domain": []string{name}})
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	zone := p.zoneFrom(name)
	if !strings.EqualFold(out.Reply.Status, "Active") && out.Reply.Status != "" {
		zone.Status = dnsmodel.StatusDisabled
	}
	if out.Reply.Created != "" || out.Reply.Expires != "" {
		zone.Meta = map[string]string{}
		if out.Reply.Created != "" {
			zone.Meta["created"] = out.Reply.Created
		}
		if out.Reply.Expires != "" {
			zone.Meta["expires"] = out.Reply.Expires
		}
	}
	return zone, nil
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
	zoneName := provider.NormalizeName(zoneID)
	out, err := call[recordsResponse](ctx, p, "dnsListRecords",
		url.Values{"domain": []string{zoneName}})
	if err != nil {
		return nil, err
	}
	records := make([]dnsmodel.Record, 0, len(out.Reply.Records))
	for _, rec := range out.Reply.Records {
		records = append(records, p.recordFrom(rec, zoneName))
	}
	return records, nil
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	all, err := p.allRecords(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	for _, rec := range all {
		if rec.ID == recordID {
			return rec, nil
		}
	}
	return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound, "namesilo: record %q not found", recordID)
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName := provider.NormalizeName(zoneID)
	params := url.Values{}
	params.Set("domain", zoneName)
	params.Set("rrtype", strings.ToUpper(in.Type))
	params.Set("rrhost", relHost(in.Name, zoneName))
	params.Set("rrvalue", in.Value)
	if in.TTL > 0 {
		params.Set("rrttl", strconv.Itoa(in.TTL))
	}
	if distance, ok := distanceFor(in); ok {
		params.Set("rrdistance", strconv.Itoa(distance))
	}
	out, err := call[writeResponse](ctx, p, "dnsAddRecord", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if out.Reply.RecordID == "" {
		return dnsmodel.Record{}, dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
			"namesilo: add response carried no record ID")
	}
	return p.recordFromInput(out.Reply.RecordID, zoneName, in), nil
}

// UpdateRecord rewrites the record in place. The vendor retires the old ID
// and assigns a new one, which the returned record carries.
func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName := provider.NormalizeName(zoneID)
	// The update call wants the full record; the type cannot change.
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

	params := url.Values{}
	params.Set("domain", zoneName)
	params.Set("rrid", recordID)
	params.Set("rrhost", relHost(in.Name, zoneName))
	params.Set("rrvalue", in.Value)
	if in.TTL > 0 {
		params.Set("rrttl", strconv.Itoa(in.TTL))
	}
	if distance, ok := distanceFor(in); ok {
		params.Set("rrdistance", strconv.Itoa(distance))
	}
	out, err := call[writeResponse](ctx, p, "dnsUpdateRecord", params)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	newID := out.Reply.RecordID
	if newID == "" {
		newID = recordID
	}
	return p.recordFromInput(newID, zoneName, in), nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	zoneName := provider.NormalizeName(zoneID)
	_, err := call[writeResponse](ctx, p, "dnsDeleteRecord", url.Values{
		"domain": []string{zoneName},
		"rrid":   []string{recordID},
	})
	return err
}

// SetRecordStatus is not a NameSilo concept; records are always live.
func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	return p.NewError(dnsmodel.ErrUnsupported, "",
		"namesilo does not support disabling records", 0)
}

func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return dnsmodel.DefaultLines(), nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

func (p *Provider) zoneFrom(name string) dnsmodel.Zone {
	name = provider.NormalizeName(name)
	return p.NormalizeZone(dnsmodel.Zone{
		ID:     name,
		Name:   name,
		Status: dnsmodel.StatusEnabled,
	})
}

// recordFrom maps a listing entry; its host field is already the FQDN.
func (p *Provider) recordFrom(rec apiRecord, zoneName string) dnsmodel.Record {
	recordType := strings.ToUpper(rec.Type)
	r := dnsmodel.Record{
		ID:       rec.ID,
		ZoneID:   zoneName,
		ZoneName: zoneName,
		Name:     provider.AbsName(rec.Host, zoneName),
		Type:     recordType,
		Value:    rec.Value,
		TTL:      rec.TTL,
	}
	switch recordType {
	case dnsmodel.TypeMX, dnsmodel.TypeSRV:
		distance := rec.Distance
		r.Priority = &distance
	}
	return p.NormalizeRecord(r)
}

func (p *Provider) recordFromInput(id, zoneName string, in dnsmodel.RecordInput) dnsmodel.Record {
	return p.NormalizeRecord(dnsmodel.Record{
		ID:       id,
		ZoneID:   zoneName,
		ZoneName: zoneName,
		Name:     provider.AbsName(in.Name, zoneName),
		Type:     strings.ToUpper(in.Type),
		Value:    in.Value,
		TTL:      in.TTL,
		Priority: in.Priority,
	})
}

// relHost converts to the vendor's host form: bare subdomain, empty for
// the apex.
func relHost(name, zone string) string {
	rel := provider.RelName(name, zone)
	if rel == "@" {
		return ""
	}
	return rel
}

func distanceFor(in dnsmodel.RecordInput) (int, bool) {
	switch strings.ToUpper(in.Type) {
	case dnsmodel.TypeMX, dnsmodel.TypeSRV:
		if in.Priority != nil {
			return *in.Priority, true
		}
		return 10, true
	}
	return 0, false
}
