package kontent

import (
	"context"
	"fmt"
	"net/http"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/logger"
)

// ListContentTypes returns every content type of the environment, following
// x-continuation tokens until the last page.
func (c *Client) ListContentTypes(ctx context.Context) ([]element.ContentType, error) {
	var (
		all          []element.ContentType
		continuation string
	)

	for {
		var page typesPage

		header, err := c.do(ctx, request{
			method:       http.MethodGet,
			url:          c.managementPath("types"),
			apiKey:       c.managementKey,
			continuation: continuation,
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list content types: %w", err)
		}

		for _, t := range page.Types {
			all = append(all, t.contentType())
		}

		continuation = header.Get(continuationHeader)
		if continuation == "" {
			break
		}
	}

	c.log.WithFields(logger.Fields{"environment": c.environmentID, "count": len(all)}).
		Debug("fetched content types")

	return all, nil
}

// GetContentType returns the content type with the given codename.
// A missing type yields an error matching ErrNotFound.
func (c *Client) GetContentType(ctx context.Context, codename string) (element.ContentType, error) {
	var t contentTypeJSON

	_, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.managementPath("types", "codename", codename),
		apiKey: c.managementKey,
	}, &t)
	if err != nil {
		return element.ContentType{}, fmt.Errorf("failed to fetch content type %s: %w", codename, err)
	}

	return t.contentType(), nil
}

// ListLanguages returns the languages of the environment.
func (c *Client) ListLanguages(ctx context.Context) ([]Language, error) {
	var (
		all          []Language
		continuation string
	)

	for {
		var page languagesPage

		header, err := c.do(ctx, request{
			method:       http.MethodGet,
			url:          c.managementPath("languages"),
			apiKey:       c.managementKey,
			continuation: continuation,
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list languages: %w", err)
		}

		all = append(all, page.Languages...)

		continuation = header.Get(continuationHeader)
		if continuation == "" {
			break
		}
	}

	return all, nil
}

// GetItemData reads an item and its variant in the given language.
func (c *Client) GetItemData(ctx context.Context, itemID, language string) (*ItemData, error) {
	var data ItemData

	_, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.managementPath("items", itemID),
		apiKey: c.managementKey,
	}, &data.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", itemID, err)
	}

	_, err = c.do(ctx, request{
		method: http.MethodGet,
		url:    c.managementPath("items", itemID, "variants", "codename", language),
		apiKey: c.managementKey,
	}, &data.Variant)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s variant of item %s: %w", language, itemID, err)
	}

	return &data, nil
}

type createItemBody struct {
	Name       string            `json:"name"`
	Type       element.Reference `json:"type"`
	ExternalID string            `json:"external_id,omitempty"`
}

// CreateItem creates an empty content item of the given content type.
// externalID is optional and makes retries detectable as conflicts.
func (c *Client) CreateItem(ctx context.Context, name, typeCodename, externalID string) (*Item, error) {
	var item Item

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		url:    c.managementPath("items"),
		apiKey: c.managementKey,
		body: createItemBody{
			Name:       name,
			Type:       element.Reference{Codename: typeCodename},
			ExternalID: externalID,
		},
	}, &item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item %q: %w", name, err)
	}

	return &item, nil
}

type upsertVariantBody struct {
	Elements []ElementValue `json:"elements"`
}

// UpsertLanguageVariant writes element values of an item in the language
// with the given ID.
func (c *Client) UpsertLanguageVariant(
	ctx context.Context,
	itemID, languageID string,
	elements []ElementValue,
) (*Variant, error) {
	if elements == nil {
		elements = []ElementValue{}
	}

	var variant Variant

	_, err := c.do(ctx, request{
		method: http.MethodPut,
		url:    c.managementPath("items", itemID, "variants", languageID),
		apiKey: c.managementKey,
		body:   upsertVariantBody{Elements: elements},
	}, &variant)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert variant of item %s: %w", itemID, err)
	}

	return &variant, nil
}

// AddContentType creates a copy of ct in this environment.
// Elements of unsupported types are not sent; their codenames are returned.
func (c *Client) AddContentType(ctx context.Context, ct element.ContentType) (element.ContentType, []string, error) {
	body, skipped := contentTypeToWire(ct)

	var created contentTypeJSON

	_, err := c.do(ctx, request{
		method: http.MethodPost,
		url:    c.managementPath("types"),
		apiKey: c.managementKey,
		body:   body,
	}, &created)
	if err != nil {
		return element.ContentType{}, skipped, fmt.Errorf("failed to create content type %s: %w", ct.Codename, err)
	}

	return created.contentType(), skipped, nil
}

// ModifyContentType applies JSON patch operations to a content type.
func (c *Client) ModifyContentType(
	ctx context.Context,
	codename string,
	ops []PatchOperation,
) (element.ContentType, error) {
	var modified contentTypeJSON

	_, err := c.do(ctx, request{
		method: http.MethodPatch,
		url:    c.managementPath("types", "codename", codename),
		apiKey: c.managementKey,
		body:   ops,
	}, &modified)
	if err != nil {
		return element.ContentType{}, fmt.Errorf("failed to modify content type %s: %w", codename, err)
	}

	return modified.contentType(), nil
}

// TestConnection checks that the environment and management key are usable.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.managementPath("types"),
		apiKey: c.managementKey,
	}, nil)
	if err != nil {
		return fmt.Errorf("cannot connect to environment %s: %w", c.environmentID, err)
	}

	return nil
}
