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

// Package huawei adapts Huawei Cloud DNS. The vendor groups values into
// record sets keyed by name, type and line; members are addressed here by
// the synthetic id "<rrset id>|<index>" and edits rewrite the whole set.
// Status is a record-set property, so toggling one member toggles its
// siblings too.
package huawei

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
	defaultEndpoint = "https://dns.myhuaweicloud.com"
	defaultMinTTL   = 600

	// Record sets are fetched in full before paging; 500 is the vendor's
	// limit ceiling per list call.
	fetchSize = 500
)

// Capabilities describes the Huawei Cloud DNS dialect.
func Capabilities() dnsmodel.Capabilities {
	return dnsmodel.Capabilities{
		Kind:            dnsmodel.KindHuawei,
		Label:           "Huawei Cloud DNS",
		SupportsLine:    true,
		SupportsStatus:  true,
		SupportsRemark:  true,
		RemarkMode:      dnsmodel.RemarkInline,
		RequiresZoneID:  true,
		SupportsZoneAdd: true,
		Paging:          dnsmodel.PagingClient,
		MaxPageSize:     fetchSize,
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

// Provider implements the Huawei Cloud adapter.
type Provider struct {
	provider.Base

	http      *restclient.Client
	endpoint  string
	host      string
	accessKey string
	secretKey string
	clock     sign.Clock

	// zone id -> zone name, learned from reads to avoid a lookup per
	// write.
	names sync.Map
}

// New builds the adapter from the account secrets.
func New(secrets map[string]string, opts provider.Options) (*Provider, error) {
	ak, sk := secrets["accessKeyId"], secrets["secretAccessKey"]
	if ak == "" || sk == "" {
		return nil, dnsmodel.NewError(dnsmodel.ErrMissingCredentials,
			"huawei: accessKeyId and secretAccessKey are required")
	}
	endpoint := defaultEndpoint
	if opts.BaseURL != "" {
		endpoint = strings.TrimSuffix(opts.BaseURL, "/")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "huawei: parse endpoint")
	}
	return &Provider{
		Base:      provider.Base{Caps: Capabilities()},
		http:      restclient.New(opts.HTTPClient, string(dnsmodel.KindHuawei), restclient.WithRateLimit(opts.RateLimit)),
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
	// The API gateway wraps some failures in a different envelope.
	ErrCode string `json:"error_code"`
	ErrMsg  string `json:"error_msg"`
}

func (e *apiError) vendorError() (string, string) {
	if e.Code != "" {
		return e.Code, e.Message
	}
	return e.ErrCode, e.ErrMsg
}

type apiZone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	RecordNum int    `json:"record_num"`
	UpdatedAt string `json:"updated_at"`
}

type zonesResponse struct {
	apiError
	Zones    []apiZone `json:"zones"`
	Metadata struct {
		TotalCount int `json:"total_count"`
	} `json:"metadata"`
}

type zoneResponse struct {
	apiError
	apiZone
}

type apiRecordSet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	TTL         int      `json:"ttl"`
	Records     []string `json:"records"`
	Status      string   `json:"status"`
	Line        string   `json:"line"`
	Weight      *int     `json:"weight"`
	Description string   `json:"description"`
	ZoneID      string   `json:"zone_id"`
	ZoneName    string   `json:"zone_name"`
	UpdatedAt   string   `json:"updated_at"`
}

type recordSetsResponse struct {
	apiError
	RecordSets []apiRecordSet `json:"recordsets"`
	Metadata   struct {
		TotalCount int `json:"total_count"`
	} `json:"metadata"`
}

type recordSetResponse struct {
	apiError
	apiRecordSet
}

type emptyResponse struct {
	apiError
}

type recordSetPayload struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	TTL         int      `json:"ttl,omitempty"`
	Records     []string `json:"records"`
	Line        string   `json:"line,omitempty"`
	Weight      *int     `json:"weight,omitempty"`
	Description *string  `json:"description,omitempty"`
}

var errorKinds = map[string]dnsmodel.ErrorKind{
	"APIGW.0301": dnsmodel.ErrAuthFailed,
	"APIGW.0303": dnsmodel.ErrAuthFailed,
	"APIGW.0308": dnsmodel.ErrRateLimited,
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
			return nil, errors.Wrap(err, "huawei: encode payload")
		}
	}
	var out *T
	err := p.Retry(ctx, func() error {
		out = new(T)
		contentType := ""
		if body != nil {
			contentType = "application/json"
		}
		header := sign.Huawei(sign.HuaweiRequest{
			Method:      method,
			Host:        p.host,
			Path:        path,
			Query:       query,
			ContentType: contentType,
			Payload:     body,
		}, p.accessKey, p.secretKey, p.clock)

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

// CheckAuth lists one zone to prove the keys work.
func (p *Provider) CheckAuth(ctx context.Context) error {
	q := url.Values{}
	q.Set("limit", "1")
	_, err := call[zonesResponse](ctx, p, "ListZones", http.MethodGet, "/v2/zones", q, nil)
	return err
}

func (p *Provider) Zones(ctx context.Context, q dnsmodel.ZoneQuery) (dnsmodel.ZoneList, error) {
	q = q.Normalized()
	size := p.ClampPageSize(q.PageSize)
	query := url.Values{}
	query.Set("type", "public")
	query.Set("limit", strconv.Itoa(size))
	query.Set("offset", strconv.Itoa((q.Page-1)*size))
	if q.Keyword != "" {
		query.Set("name", q.Keyword)
	}
	out, err := call[zonesResponse](ctx, p, "ListZones", http.MethodGet, "/v2/zones", query, nil)
	if err != nil {
		return dnsmodel.ZoneList{}, err
	}
	list := dnsmodel.ZoneList{Total: out.Metadata.TotalCount}
	for _, z := range out.Zones {
		list.Zones = append(list.Zones, p.zoneFrom(z))
	}
	return list, nil
}

func (p *Provider) Zone(ctx context.Context, idOrName string) (dnsmodel.Zone, error) {
	// Zone ids carry no dots; anything else is a zone name to look up.
	if strings.Contains(idOrName, ".") {
		name := provider.NormalizeName(idOrName)
		query := url.Values{}
		query.Set("type", "public")
		query.Set("name", name)
		out, err := call[zonesResponse](ctx, p, "ListZones", http.MethodGet, "/v2/zones", query, nil)
		if err != nil {
			return dnsmodel.Zone{}, err
		}
		for _, z := range out.Zones {
			if provider.NormalizeName(z.Name) == name {
				return p.zoneFrom(z), nil
			}
		}
		return dnsmodel.Zone{}, dnsmodel.NewErrorf(dnsmodel.ErrZoneNotFound, "huawei: zone %q not found", idOrName)
	}
	out, err := call[zoneResponse](ctx, p, "ShowZone", http.MethodGet, "/v2/zones/"+idOrName, nil, nil)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(out.apiZone), nil
}

func (p *Provider) Records(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) (dnsmodel.RecordList, error) {
	q = q.Normalized()
	sets, err := p.allRecordSets(ctx, zoneID, q)
	if err != nil {
		return dnsmodel.RecordList{}, err
	}
	var all []dnsmodel.Record
	for _, rs := range sets {
		all = append(all, p.explode(rs, zoneID)...)
	}
	matched := provider.FilterRecords(all, q)
	page, total := provider.Paginate(matched, q.Page, q.PageSize)
	return dnsmodel.RecordList{Records: page, Total: total}, nil
}

// allRecordSets fetches every record set of the zone. Type and host
// filters are pushed upstream to trim the transfer; the canonical filter
// still runs on the exploded members.
func (p *Provider) allRecordSets(ctx context.Context, zoneID string, q dnsmodel.RecordQuery) ([]apiRecordSet, error) {
	var sets []apiRecordSet
	for offset := 0; ; offset += fetchSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(fetchSize))
		query.Set("offset", strconv.Itoa(offset))
		if q.Type != "" {
			query.Set("type", q.Type)
		}
		if q.SubDomain != "" {
			query.Set("name", q.SubDomain)
		}
		out, err := call[recordSetsResponse](ctx, p, "ListRecordSets", http.MethodGet,
			"/v2.1/zones/"+zoneID+"/recordsets", query, nil)
		if err != nil {
			return nil, err
		}
		sets = append(sets, out.RecordSets...)
		if len(out.RecordSets) < fetchSize || len(sets) >= out.Metadata.TotalCount {
			return sets, nil
		}
	}
}

func (p *Provider) Record(ctx context.Context, zoneID, recordID string) (dnsmodel.Record, error) {
	rrsetID, idx, err := splitRecordID(recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rs, err := p.recordSet(ctx, zoneID, rrsetID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	records := p.explode(rs, zoneID)
	if idx >= len(records) {
		return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"huawei: record set %s has no member %d", rrsetID, idx)
	}
	return records[idx], nil
}

func (p *Provider) recordSet(ctx context.Context, zoneID, rrsetID string) (apiRecordSet, error) {
	out, err := call[recordSetResponse](ctx, p, "ShowRecordSet", http.MethodGet,
		"/v2.1/zones/"+zoneID+"/recordsets/"+rrsetID, nil, nil)
	if err != nil {
		return apiRecordSet{}, err
	}
	return out.apiRecordSet, nil
}

func (p *Provider) CreateRecord(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	rec, err := p.createMember(ctx, zoneID, in)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if in.Status == dnsmodel.StatusDisabled {
		if err := p.SetRecordStatus(ctx, zoneID, rec.ID, false); err != nil {
			return rec, provider.MarkPartial(err, rec.ID)
		}
		rec.Status = dnsmodel.StatusDisabled
	}
	return rec, nil
}

// createMember appends the value to the record set matching the name,
// type and line, creating the set when none exists.
func (p *Provider) createMember(ctx context.Context, zoneID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	fqdn := absFQDN(in.Name, zoneName)
	line := lineIDFromCanonical(lineOrDefault(in.Line))
	member := memberValue(in.Type, in.Value, in.Priority)

	existing, err := p.findRecordSet(ctx, zoneID, fqdn, in.Type, line)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if existing != nil {
		payload := recordSetPayload{
			Name:    existing.Name,
			Type:    existing.Type,
			TTL:     existing.TTL,
			Records: append(append([]string{}, existing.Records...), member),
		}
		if in.TTL > 0 {
			payload.TTL = in.TTL
		}
		if in.Remark != nil {
			payload.Description = in.Remark
		}
		out, err := call[recordSetResponse](ctx, p, "UpdateRecordSet", http.MethodPut,
			"/v2.1/zones/"+zoneID+"/recordsets/"+existing.ID, nil, payload)
		if err != nil {
			return dnsmodel.Record{}, err
		}
		records := p.explode(out.apiRecordSet, zoneID)
		return records[len(records)-1], nil
	}

	payload := recordSetPayload{
		Name:        fqdn,
		Type:        in.Type,
		TTL:         in.TTL,
		Records:     []string{member},
		Line:        line,
		Weight:      in.Weight,
		Description: in.Remark,
	}
	out, err := call[recordSetResponse](ctx, p, "CreateRecordSet", http.MethodPost,
		"/v2.1/zones/"+zoneID+"/recordsets", nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	records := p.explode(out.apiRecordSet, zoneID)
	if len(records) == 0 {
		return dnsmodel.Record{}, dnsmodel.NewError(dnsmodel.ErrInvalidResponse,
			"huawei: created record set came back empty")
	}
	return records[len(records)-1], nil
}

func (p *Provider) findRecordSet(ctx context.Context, zoneID, fqdn, recordType, line string) (*apiRecordSet, error) {
	query := url.Values{}
	query.Set("name", fqdn)
	query.Set("type", recordType)
	query.Set("limit", strconv.Itoa(fetchSize))
	out, err := call[recordSetsResponse](ctx, p, "ListRecordSets", http.MethodGet,
		"/v2.1/zones/"+zoneID+"/recordsets", query, nil)
	if err != nil {
		return nil, err
	}
	for i := range out.RecordSets {
		rs := &out.RecordSets[i]
		if rs.Name == fqdn && rs.Type == recordType && rs.Line == line {
			return rs, nil
		}
	}
	return nil, nil
}

func (p *Provider) UpdateRecord(ctx context.Context, zoneID, recordID string, in dnsmodel.RecordInput) (dnsmodel.Record, error) {
	rrsetID, idx, err := splitRecordID(recordID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	rs, err := p.recordSet(ctx, zoneID, rrsetID)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	if idx >= len(rs.Records) {
		return dnsmodel.Record{}, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"huawei: record set %s has no member %d", rrsetID, idx)
	}
	zoneName, err := p.zoneName(ctx, zoneID)
	if err != nil {
		return dnsmodel.Record{}, err
	}

	cur := p.explode(rs, zoneID)[idx]
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

	newFqdn := absFQDN(in.Name, zoneName)
	newLine := lineIDFromCanonical(lineOrDefault(in.Line))

	// A changed name, type or line moves the member to a different record
	// set: remove it here, then create it under the new identity.
	if newFqdn != rs.Name || in.Type != rs.Type || newLine != rs.Line {
		if err := p.removeMember(ctx, zoneID, rs, idx); err != nil {
			return dnsmodel.Record{}, err
		}
		return p.createMember(ctx, zoneID, in)
	}

	records := append([]string{}, rs.Records...)
	records[idx] = memberValue(in.Type, in.Value, in.Priority)
	payload := recordSetPayload{
		Name:    rs.Name,
		Type:    rs.Type,
		TTL:     in.TTL,
		Records: records,
		Weight:  in.Weight,
	}
	if in.Remark != nil {
		payload.Description = in.Remark
	}
	out, err := call[recordSetResponse](ctx, p, "UpdateRecordSet", http.MethodPut,
		"/v2.1/zones/"+zoneID+"/recordsets/"+rrsetID, nil, payload)
	if err != nil {
		return dnsmodel.Record{}, err
	}
	updated := p.explode(out.apiRecordSet, zoneID)
	var rec dnsmodel.Record
	if idx < len(updated) {
		rec = updated[idx]
	} else {
		rec = cur
		rec.Value = in.Value
		rec.TTL = in.TTL
	}

	if in.Status != "" && in.Status != rec.Status {
		if err := p.SetRecordStatus(ctx, zoneID, recordID, in.Status == dnsmodel.StatusEnabled); err != nil {
			return rec, provider.MarkPartial(err, recordID)
		}
		rec.Status = in.Status
	}
	return rec, nil
}

func (p *Provider) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	rrsetID, idx, err := splitRecordID(recordID)
	if err != nil {
		return err
	}
	rs, err := p.recordSet(ctx, zoneID, rrsetID)
	if err != nil {
		return err
	}
	if idx >= len(rs.Records) {
		return dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"huawei: record set %s has no member %d", rrsetID, idx)
	}
	return p.removeMember(ctx, zoneID, rs, idx)
}

// removeMember drops one value from the set, deleting the whole set when
// it was the last one.
func (p *Provider) removeMember(ctx context.Context, zoneID string, rs apiRecordSet, idx int) error {
	if len(rs.Records) == 1 {
		_, err := call[emptyResponse](ctx, p, "DeleteRecordSet", http.MethodDelete,
			"/v2.1/zones/"+zoneID+"/recordsets/"+rs.ID, nil, nil)
		return err
	}
	records := append([]string{}, rs.Records[:idx]...)
	records = append(records, rs.Records[idx+1:]...)
	payload := recordSetPayload{
		Name:    rs.Name,
		Type:    rs.Type,
		TTL:     rs.TTL,
		Records: records,
	}
	_, err := call[recordSetResponse](ctx, p, "UpdateRecordSet", http.MethodPut,
		"/v2.1/zones/"+zoneID+"/recordsets/"+rs.ID, nil, payload)
	return err
}

func (p *Provider) SetRecordStatus(ctx context.Context, zoneID, recordID string, enabled bool) error {
	rrsetID, _, err := splitRecordID(recordID)
	if err != nil {
		return err
	}
	status := "DISABLE"
	if enabled {
		status = "ENABLE"
	}
	_, err = call[emptyResponse](ctx, p, "SetRecordSetsStatus", http.MethodPut,
		"/v2.1/recordsets/"+rrsetID+"/statuses/set", nil, map[string]string{"status": status})
	return err
}

// Lines returns the embedded public line table.
func (p *Provider) Lines(ctx context.Context, zoneID string) ([]dnsmodel.Line, error) {
	return knownLines(), nil
}

func (p *Provider) MinTTL(ctx context.Context, zoneID string) (int, error) {
	return defaultMinTTL, nil
}

// CreateZone registers a new public zone.
func (p *Provider) CreateZone(ctx context.Context, name string) (dnsmodel.Zone, error) {
	payload := map[string]string{
		"name":      provider.NormalizeName(name) + ".",
		"zone_type": "public",
	}
	out, err := call[zoneResponse](ctx, p, "CreateZone", http.MethodPost, "/v2/zones", nil, payload)
	if err != nil {
		return dnsmodel.Zone{}, err
	}
	return p.zoneFrom(out.apiZone), nil
}

func (p *Provider) zoneName(ctx context.Context, zoneID string) (string, error) {
	if v, ok := p.names.Load(zoneID); ok {
		return v.(string), nil
	}
	z, err := p.Zone(ctx, zoneID)
	if err != nil {
		return "", err
	}
	return z.Name, nil
}

func (p *Provider) zoneFrom(z apiZone) dnsmodel.Zone {
	count := z.RecordNum
	name := provider.NormalizeName(z.Name)
	p.names.Store(z.ID, name)
	zone := dnsmodel.Zone{
		ID:          z.ID,
		Name:        name,
		RecordCount: &count,
		Status:      dnsmodel.StatusEnabled,
		UpdatedAt:   z.UpdatedAt,
	}
	switch strings.ToUpper(z.Status) {
	case "FREEZE", "DISABLE":
		zone.Status = dnsmodel.StatusDisabled
	}
	return p.NormalizeZone(zone)
}

// explode flattens a record set into canonical per-value records. System
// SOA and PTR sets are skipped.
func (p *Provider) explode(rs apiRecordSet, zoneID string) []dnsmodel.Record {
	if rs.Type == "SOA" || rs.Type == dnsmodel.TypePTR {
		return nil
	}
	zoneName := rs.ZoneName
	if zoneName == "" {
		if v, ok := p.names.Load(zoneID); ok {
			zoneName = v.(string)
		}
	}
	status := dnsmodel.StatusEnabled
	switch strings.ToUpper(rs.Status) {
	case "DISABLE", "FREEZE":
		status = dnsmodel.StatusDisabled
	}
	records := make([]dnsmodel.Record, 0, len(rs.Records))
	for idx, raw := range rs.Records {
		value, priority := readMember(rs.Type, raw)
		records = append(records, p.NormalizeRecord(dnsmodel.Record{
			ID:        composeRecordID(rs.ID, idx),
			ZoneID:    zoneID,
			ZoneName:  provider.NormalizeName(zoneName),
			Name:      provider.NormalizeName(rs.Name),
			Type:      rs.Type,
			Value:     value,
			TTL:       rs.TTL,
			Line:      canonicalFromLineID(rs.Line),
			Priority:  priority,
			Weight:    rs.Weight,
			Remark:    rs.Description,
			Status:    status,
			UpdatedAt: rs.UpdatedAt,
		}))
	}
	return records
}

func composeRecordID(rrsetID string, idx int) string {
	return rrsetID + "|" + strconv.Itoa(idx)
}

func splitRecordID(recordID string) (string, int, error) {
	i := strings.LastIndexByte(recordID, '|')
	if i <= 0 {
		return "", 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"huawei: malformed record id %q", recordID)
	}
	idx, err := strconv.Atoi(recordID[i+1:])
	if err != nil || idx < 0 {
		return "", 0, dnsmodel.NewErrorf(dnsmodel.ErrRecordNotFound,
			"huawei: malformed record id %q", recordID)
	}
	return recordID[:i], idx, nil
}

// memberValue renders a canonical value the way the vendor stores it: TXT
// quoted, MX with its priority prefix, host-valued types fully qualified.
func memberValue(recordType, value string, priority *int) string {
	switch recordType {
	case dnsmodel.TypeTXT:
		return provider.QuoteTXT(value)
	case dnsmodel.TypeMX:
		prio := 10
		if priority != nil {
			prio = *priority
		}
		return provider.JoinValuePriority(prio, provider.AbsDNSValue(value))
	case dnsmodel.TypeCNAME, dnsmodel.TypeNS, dnsmodel.TypeSRV:
		return provider.AbsDNSValue(value)
	}
	return value
}

func readMember(recordType, raw string) (string, *int) {
	switch recordType {
	case dnsmodel.TypeTXT:
		return provider.UnquoteTXT(raw), nil
	case dnsmodel.TypeMX:
		if prio, value, ok := provider.SplitValuePriority(raw); ok {
			return provider.TrimDNSValue(value), &prio
		}
		return provider.TrimDNSValue(raw), nil
	case dnsmodel.TypeCNAME, dnsmodel.TypeNS, dnsmodel.TypeSRV:
		return provider.TrimDNSValue(raw), nil
	}
	return raw, nil
}

func absFQDN(name, zoneName string) string {
	return provider.AbsName(name, zoneName) + "."
}

func lineOrDefault(line string) string {
	if line == "" {
		return dnsmodel.LineDefault
	}
	return line
}
