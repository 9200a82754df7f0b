package server

import (
	"kontent-migrator/internal/element"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/match"
)

// Request payloads

type MappingRequest struct {
	Source   string `json:"source" minLength:"1" doc:"Source content type codename"`
	Target   string `json:"target" minLength:"1" doc:"Target content type codename"`
	Language string `json:"language,omitempty" doc:"Language codename, defaults to the server language"`
}

type ConstraintsRequest struct {
	MaxLength           *int     `json:"max_length,omitempty"`
	AllowedBlocks       []string `json:"allowed_blocks,omitempty"`
	Options             []string `json:"options,omitempty" doc:"Option codenames of a multiple choice element"`
	TaxonomyGroup       string   `json:"taxonomy_group,omitempty"`
	AllowedFileTypes    string   `json:"allowed_file_types,omitempty"`
	CountLimit          *int     `json:"count_limit,omitempty"`
	AllowedContentTypes []string `json:"allowed_content_types,omitempty"`
}

type ElementRequest struct {
	Name        string              `json:"name,omitempty"`
	Codename    string              `json:"codename" minLength:"1"`
	Type        string              `json:"type" enum:"text,rich_text,number,date_time,multiple_choice,asset,modular_content,taxonomy,url_slug,custom"`
	IsRequired  bool                `json:"is_required,omitempty"`
	Constraints *ConstraintsRequest `json:"constraints,omitempty"`
}

type ResolveRequest struct {
	Source ElementRequest `json:"source"`
	Target ElementRequest `json:"target"`
}

type SuggestRequest struct {
	Source  ElementRequest `json:"source"`
	Target  string         `json:"target" minLength:"1" doc:"Target content type codename"`
	Minimum *float64       `json:"minimum,omitempty" minimum:"0" maximum:"1"`
	Limit   int            `json:"limit,omitempty" minimum:"0"`
}

type TransformRequest struct {
	Value      any    `json:"value"`
	SourceType string `json:"source_type" enum:"text,rich_text,number,date_time,multiple_choice,asset,modular_content,taxonomy,url_slug,custom"`
	TargetType string `json:"target_type" enum:"text,rich_text,number,date_time,multiple_choice,asset,modular_content,taxonomy,url_slug,custom"`
}

// Response payloads

type TypeSummary struct {
	Codename string `json:"codename"`
	Name     string `json:"name"`
	Elements int    `json:"elements"`
}

type ElementResponse struct {
	Name       string `json:"name"`
	Codename   string `json:"codename"`
	Type       string `json:"type"`
	IsRequired bool   `json:"is_required"`
}

type MappingEntry struct {
	Source         ElementResponse  `json:"source"`
	Target         *ElementResponse `json:"target,omitempty"`
	Compatible     bool             `json:"compatible"`
	CanTransform   bool             `json:"can_transform"`
	Transformation string           `json:"transformation"`
	Hint           string           `json:"hint"`
	Warnings       []string         `json:"warnings"`
}

type MappingResponse struct {
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Language string         `json:"language"`
	Valid    int            `json:"valid"`
	Mappings []MappingEntry `json:"mappings"`
}

type VerdictResponse struct {
	IsCompatible bool     `json:"is_compatible"`
	CanTransform bool     `json:"can_transform"`
	Warnings     []string `json:"warnings"`
}

type CandidateResponse struct {
	Codename       string  `json:"codename"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	NameScore      float64 `json:"name_score"`
	TypeCompatible bool    `json:"type_compatible"`
	Score          float64 `json:"score"`
}

type TransformResponse struct {
	Supported bool `json:"supported"`
	Value     any  `json:"value"`
}

func (r ElementRequest) descriptor() element.Descriptor {
	d := element.Descriptor{
		ID:         r.Codename,
		Name:       r.Name,
		Codename:   r.Codename,
		Type:       element.ParseType(r.Type),
		IsRequired: r.IsRequired,
	}
	if d.Name == "" {
		d.Name = r.Codename
	}

	if r.Constraints != nil {
		d.Constraints = r.Constraints.forType(d.Type)
	}

	return d
}

func (c ConstraintsRequest) forType(t element.Type) element.Constraints {
	switch t {
	case element.TypeText:
		return element.TextConstraints{MaxLength: c.MaxLength}
	case element.TypeRichText:
		return element.RichTextConstraints{AllowedBlocks: c.AllowedBlocks, MaxLength: c.MaxLength}
	case element.TypeMultipleChoice:
		options := make([]element.Option, 0, len(c.Options))
		for _, o := range c.Options {
			options = append(options, element.Option{Name: o, Codename: o})
		}

		return element.ChoiceConstraints{Options: options}
	case element.TypeTaxonomy:
		return element.TaxonomyConstraints{GroupID: c.TaxonomyGroup}
	case element.TypeAsset:
		return element.AssetConstraints{AllowedFileTypes: c.AllowedFileTypes, CountLimit: c.CountLimit}
	case element.TypeLinkedItems:
		refs := make([]element.Reference, 0, len(c.AllowedContentTypes))
		for _, codename := range c.AllowedContentTypes {
			refs = append(refs, element.Reference{Codename: codename})
		}

		return element.LinkedItemsConstraints{AllowedContentTypes: refs, CountLimit: c.CountLimit}
	default:
		return nil
	}
}

func elementResponse(d element.Descriptor) ElementResponse {
	return ElementResponse{Name: d.Name, Codename: d.Codename, Type: d.Type.String(), IsRequired: d.IsRequired}
}

func mappingResponse(cfg *mapping.MigrationConfig) MappingResponse {
	resp := MappingResponse{
		Source:   cfg.SourceContentType.Codename,
		Target:   cfg.TargetContentType.Codename,
		Language: cfg.Language,
		Valid:    len(cfg.ValidMappings()),
		Mappings: make([]MappingEntry, 0, len(cfg.FieldMappings)),
	}

	for _, m := range cfg.FieldMappings {
		entry := MappingEntry{
			Source:         elementResponse(m.SourceField),
			Compatible:     m.IsCompatible,
			CanTransform:   m.CanTransform,
			Transformation: m.TransformationType(),
			Hint:           mapping.Hint(m),
			Warnings:       m.Warnings,
		}

		if m.TargetField != nil {
			target := elementResponse(*m.TargetField)
			entry.Target = &target
		}

		resp.Mappings = append(resp.Mappings, entry)
	}

	return resp
}

func verdictResponse(v match.Verdict) VerdictResponse {
	warnings := v.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return VerdictResponse{IsCompatible: v.IsCompatible, CanTransform: v.CanTransform, Warnings: warnings}
}

func candidateResponses(list match.CandidateList) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(list))
	for _, c := range list {
		out = append(out, CandidateResponse{
			Codename:       c.Target.Codename,
			Name:           c.Target.Name,
			Type:           c.Target.Type.String(),
			NameScore:      c.NameScore,
			TypeCompatible: c.TypeCompatible,
			Score:          c.CombinedScore,
		})
	}

	return out
}
