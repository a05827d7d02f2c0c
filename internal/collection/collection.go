// Package collection checks and fixes recorded response examples in a
// Postman (v2.1) collection against the envelope contract.
//
// The document is kept as raw bytes and walked with gjson; edits go through
// sjson so that everything the tool does not touch stays byte-for-byte.
package collection

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	ErrInvalidJSON   = errors.New("collection is not valid JSON")
	ErrNotCollection = errors.New("document is not a collection: object with an item array expected")
)

const defaultStatus = 200

// Document is a parsed collection file.
type Document struct {
	raw []byte
}

// Example is one recorded response of a request.
type Example struct {
	Where   string // "Folder > Request > Response"
	Path    string // sjson path of the response object
	Name    string
	Status  int
	Body    string
	HasBody bool
}

// Parse validates that b looks like a collection and wraps it.
func Parse(b []byte) (*Document, error) {
	if !gjson.ValidBytes(b) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() || !root.Get("item").IsArray() {
		return nil, ErrNotCollection
	}
	return &Document{raw: append([]byte(nil), b...)}, nil
}

// Load reads and parses a collection file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	doc, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Bytes returns the current document content.
func (d *Document) Bytes() []byte { return d.raw }

// Name returns info.name, or "" when absent.
func (d *Document) Name() string {
	return gjson.GetBytes(d.raw, "info.name").String()
}

// Examples walks the item tree depth-first and returns every recorded response.
func (d *Document) Examples() []Example {
	var out []Example
	root := gjson.ParseBytes(d.raw)
	walkItems(root.Get("item"), "item", "", &out)
	return out
}

func walkItems(items gjson.Result, path, parent string, out *[]Example) {
	for i, item := range items.Array() {
		itemPath := path + "." + strconv.Itoa(i)
		name := item.Get("name").String()
		if name == "" {
			name = "Unnamed"
		}
		where := name
		if parent != "" {
			where = parent + " > " + name
		}

		for j, resp := range item.Get("response").Array() {
			ex := Example{
				Path:   itemPath + ".response." + strconv.Itoa(j),
				Name:   resp.Get("name").String(),
				Status: defaultStatus,
			}
			if code := resp.Get("code"); code.Exists() {
				ex.Status = int(code.Int())
			}
			if body := resp.Get("body"); body.Exists() {
				ex.HasBody = true
				ex.Body = body.String()
			}
			respName := ex.Name
			if respName == "" {
				respName = "Unnamed response"
			}
			ex.Where = where + " > " + respName
			*out = append(*out, ex)
		}

		if sub := item.Get("item"); sub.IsArray() {
			walkItems(sub, itemPath+".item", where, out)
		}
	}
}

func (d *Document) setBody(ex Example, body string) error {
	raw, err := sjson.SetBytes(d.raw, ex.Path+".body", body)
	if err != nil {
		return fmt.Errorf("%s: set body: %w", ex.Where, err)
	}
	d.raw = raw
	return nil
}

// Save writes the document through a temp file and rename.
func (d *Document) Save(path string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, d.raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	defer os.Remove(tmp)

	if runtime.GOOS == "windows" {
		_ = os.Remove(path)
	}
	return os.Rename(tmp, path)
}

func trimBody(s string) string { return strings.TrimSpace(s) }
