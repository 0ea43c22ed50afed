package adsource

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ad-intel/internal/model"
)

// exportRecord is one ad as scrapers export it. Older exports name the id
// creative_id and split the copy into ad_text and html_content.
type exportRecord struct {
	ID             string `json:"id"`
	CreativeID     string `json:"creative_id"`
	UniqueID       string `json:"unique_id"`
	AdvertiserID   string `json:"advertiser_id"`
	ExpectedRegion string `json:"expected_region"`
	Region         string `json:"region"`
	ExpectedEntity string `json:"expected_entity"`
	Text           string `json:"text"`
	AdText         string `json:"ad_text"`
	HTMLContent    string `json:"html_content"`
}

func (e exportRecord) input() model.AdInput {
	in := model.AdInput{
		ID:             firstNonEmpty(e.ID, e.UniqueID, e.CreativeID),
		AdvertiserID:   strings.TrimSpace(e.AdvertiserID),
		ExpectedRegion: strings.ToUpper(strings.TrimSpace(firstNonEmpty(e.ExpectedRegion, e.Region))),
		ExpectedEntity: strings.TrimSpace(e.ExpectedEntity),
		Text:           e.Text,
	}
	if in.Text == "" {
		in.Text = strings.TrimSpace(e.AdText + "\n" + e.HTMLContent)
	}
	return in
}

func decodeRecords(recs []exportRecord, err error) ([]model.AdInput, error) {
	if err != nil {
		return nil, err
	}
	out := make([]model.AdInput, len(recs))
	for i, r := range recs {
		out[i] = r.input()
	}
	return out, nil
}

// columns maps header names to exportRecord fields.
var columns = map[string]func(*exportRecord, string){
	"id":              func(r *exportRecord, v string) { r.ID = v },
	"creative_id":     func(r *exportRecord, v string) { r.CreativeID = v },
	"unique_id":       func(r *exportRecord, v string) { r.UniqueID = v },
	"advertiser_id":   func(r *exportRecord, v string) { r.AdvertiserID = v },
	"expected_region": func(r *exportRecord, v string) { r.ExpectedRegion = v },
	"region":          func(r *exportRecord, v string) { r.Region = v },
	"expected_entity": func(r *exportRecord, v string) { r.ExpectedEntity = v },
	"text":            func(r *exportRecord, v string) { r.Text = v },
	"ad_text":         func(r *exportRecord, v string) { r.AdText = v },
	"html_content":    func(r *exportRecord, v string) { r.HTMLContent = v },
}

// fromRows reads a header row followed by data rows. Unknown columns are
// ignored and fully blank rows skipped.
func fromRows(rows [][]string) ([]model.AdInput, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	setters := make([]func(*exportRecord, string), len(rows[0]))
	known := 0
	for i, name := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		if set, ok := columns[key]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return nil, eris.New("adsource: header row has no known columns")
	}

	var out []model.AdInput
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var rec exportRecord
		for i, v := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&rec, v)
			}
		}
		out = append(out, rec.input())
	}
	return out, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
