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

package huawei

import (
	_ "embed"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/zonegate/zonegate/dnsmodel"
)

//go:embed lines.yaml
var linesYAML []byte

type lineEntry struct {
	ID   string `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type lineTable struct {
	entries     []lineEntry
	byID        map[string]string
	byCanonical map[string]string
}

var (
	linesOnce   sync.Once
	linesLoaded lineTable
)

// loadLines parses the embedded table once. A parse failure falls back to
// the default view only, so resolution still works with vanilla records.
func loadLines() lineTable {
	linesOnce.Do(func() {
		var doc struct {
			Lines []lineEntry `yaml:"lines"`
		}
		if err := yaml.Unmarshal(linesYAML, &doc); err != nil || len(doc.Lines) == 0 {
			log.WithError(err).Warn("huawei: embedded line table unreadable, using default view only")
			doc.Lines = []lineEntry{{ID: "default_view", Code: dnsmodel.LineDefault, Name: "Global default"}}
		}
		t := lineTable{
			entries:     doc.Lines,
			byID:        make(map[string]string, len(doc.Lines)),
			byCanonical: make(map[string]string, len(doc.Lines)),
		}
		for _, e := range doc.Lines {
			t.byID[e.ID] = e.Code
			t.byCanonical[e.Code] = e.ID
		}
		linesLoaded = t
	})
	return linesLoaded
}

func lineIDFromCanonical(code string) string {
	if id, ok := loadLines().byCanonical[code]; ok {
		return id
	}
	return code
}

func canonicalFromLineID(id string) string {
	if code, ok := loadLines().byID[id]; ok {
		return code
	}
	return id
}

func knownLines() []dnsmodel.Line {
	t := loadLines()
	lines := make([]dnsmodel.Line, 0, len(t.entries))
	for _, e := range t.entries {
		lines = append(lines, dnsmodel.Line{Code: e.Code, Name: e.Name})
	}
	return lines
}
