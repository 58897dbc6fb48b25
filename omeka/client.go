// Package omeka is a minimal Omeka S REST client covering what the sync
// phase needs: identifier-keyed item lookup, item create/update, and media
// upload. Authentication uses the key_identity/key_credential query pair on
// every request.
package omeka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client talks to one Omeka S installation.
type Client struct {
	baseURL       string
	keyIdentity   string
	keyCredential string
	httpc         *http.Client
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the API root at baseURL (the /api path).
func NewClient(baseURL, keyIdentity, keyCredential string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		keyIdentity:   keyIdentity,
		keyCredential: keyCredential,
		httpc:         &http.Client{Timeout: 60 * time.Second},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key_identity", c.keyIdentity)
	query.Set("key_credential", c.keyCredential)
	return c.baseURL + path + "?" + query.Encode()
}

// itemEnvelope is the subset of an Omeka item representation the sync phase
// reads back.
type itemEnvelope struct {
	ID    int               `json:"o:id"`
	Media []json.RawMessage `json:"o:media"`
}

// FindItemByIdentifier searches items whose dcterms:identifier equals the
// given value. Returns the first match's ID, or found=false when no item
// carries the identifier.
func (c *Client) FindItemByIdentifier(ctx context.Context, identifier string) (id int, found bool, err error) {
	q := url.Values{}
	q.Set("property[0][property]", fmt.Sprint(IdentifierPropertyID))
	q.Set("property[0][type]", "eq")
	q.Set("property[0][text]", identifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/items", q), nil)
	if err != nil {
		return 0, false, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("search items: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return 0, false, fmt.Errorf("search items: status %d", resp.StatusCode)
	}

	var items []itemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return 0, false, fmt.Errorf("decode item search: %w", err)
	}
	if len(items) == 0 {
		return 0, false, nil
	}
	return items[0].ID, true, nil
}

// ItemDraft holds everything needed to create or update one item. Values
// maps a dcterms term (e.g. "dcterms:title") to its literal values; terms
// without a known property ID are skipped with a warning.
type ItemDraft struct {
	Values          map[string][]string
	ResourceClassID int
	ItemSetID       int
}

func (c *Client) buildPayload(d ItemDraft) map[string]any {
	payload := map[string]any{
		"@type":       []string{"o:Item", "dctype:PhysicalObject"},
		"o:is_public": true,
	}
	if d.ResourceClassID > 0 {
		payload["o:resource_class"] = map[string]any{"o:id": d.ResourceClassID}
	}
	if d.ItemSetID > 0 {
		payload["o:item_set"] = []map[string]any{{"o:id": d.ItemSetID}}
	}

	for term, values := range d.Values {
		id, ok := PropertyID(term)
		if !ok {
			c.logger.Warn("Skipping unmapped property term", "term", term)
			continue
		}
		var bindings []map[string]any
		for _, v := range values {
			bindings = append(bindings, map[string]any{
				"type":           "literal",
				"property_id":    id,
				"property_label": strings.TrimPrefix(term, "dcterms:"),
				"is_public":      true,
				"@value":         v,
			})
		}
		if len(bindings) > 0 {
			payload[term] = bindings
		}
	}
	return payload
}

func (c *Client) writeItem(ctx context.Context, method, path string, d ItemDraft) (int, error) {
	body, err := json.Marshal(c.buildPayload(d))
	if err != nil {
		return 0, fmt.Errorf("encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return 0, &UpstreamWriteError{
			Op:     fmt.Sprintf("%s %s", method, path),
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(detail)),
		}
	}

	var created itemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("decode item response: %w", err)
	}
	return created.ID, nil
}

// CreateItem creates a new item and returns its ID.
func (c *Client) CreateItem(ctx context.Context, d ItemDraft) (int, error) {
	return c.writeItem(ctx, http.MethodPost, "/items", d)
}

// UpdateItem merges the draft's values into the item. PATCH leaves
// properties absent from the payload untouched, so values added outside
// this tool survive a re-sync.
func (c *Client) UpdateItem(ctx context.Context, id int, d ItemDraft) error {
	_, err := c.writeItem(ctx, http.MethodPatch, fmt.Sprintf("/items/%d", id), d)
	return err
}

// UpsertStatus classifies the outcome of an Upsert.
type UpsertStatus string

const (
	StatusCreated UpsertStatus = "created"
	StatusUpdated UpsertStatus = "updated"
	StatusNone    UpsertStatus = "none"
)

// Upsert looks the identifier up and updates the matching item, or creates
// a new one when no item carries it.
func (c *Client) Upsert(ctx context.Context, identifier string, d ItemDraft) (int, UpsertStatus, error) {
	id, found, err := c.FindItemByIdentifier(ctx, identifier)
	if err != nil {
		return 0, StatusNone, err
	}

	if found {
		if err := c.UpdateItem(ctx, id, d); err != nil {
			return 0, StatusNone, err
		}
		return id, StatusUpdated, nil
	}

	id, err = c.CreateItem(ctx, d)
	if err != nil {
		return 0, StatusNone, err
	}
	return id, StatusCreated, nil
}

// HasMedia reports whether the item already carries at least one media.
func (c *Client) HasMedia(ctx context.Context, itemID int) (bool, error) {
	path := fmt.Sprintf("/items/%d", itemID)
	q := url.Values{}
	q.Set("embed", "media")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("get item %d: %w", itemID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("get item %d: status %d", itemID, resp.StatusCode)
	}

	var item itemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return false, fmt.Errorf("decode item %d: %w", itemID, err)
	}
	return len(item.Media) > 0, nil
}

// AttachMedia uploads one JPEG to the item via the multipart upload
// ingester: a "data" part carrying the media JSON and a "file[0]" part
// carrying the image bytes.
func (c *Client) AttachMedia(ctx context.Context, itemID int, filename string, jpeg []byte) error {
	data := map[string]any{
		"o:ingester": "upload",
		"file_index": 0,
		"o:item":     map[string]any{"o:id": itemID},
		"dcterms:title": []map[string]any{{
			"type":        "literal",
			"property_id": propertyIDs["dcterms:title"],
			"@value":      filename,
		}},
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode media data: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("data", string(dataJSON)); err != nil {
		return fmt.Errorf("write data part: %w", err)
	}

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file[0]"; filename=%q`, filename))
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(jpeg); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/media", nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UpstreamWriteError{
			Op:     "POST /media",
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(detail)),
		}
	}
	return nil
}
