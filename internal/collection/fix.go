package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/myposcore/backend/internal/response"
)

const (
	ActionPagination  = "converted legacy pagination body"
	ActionLegacyError = "wrapped legacy error body"
	ActionLegacyBody  = "wrapped legacy body"
	ActionPatched     = "patched envelope fields"

	fallbackSuccessMessage = "Operation successful"
	legacyPageSize         = 10
)

// Change records what happened to one example.
type Change struct {
	Where  string `json:"where"`
	Action string `json:"action"`
}

// FixReport summarizes a Fix run.
type FixReport struct {
	Examined int      `json:"examined"`
	Fixed    []Change `json:"fixed"`
	Skipped  []Change `json:"skipped"`
}

// Fix rewrites example bodies that violate the envelope contract. Valid bodies
// are left untouched; bodies that are not JSON objects are skipped.
func Fix(d *Document) (FixReport, error) {
	rep := FixReport{Fixed: []Change{}, Skipped: []Change{}}
	for _, ex := range d.Examples() {
		if !ex.HasBody {
			continue
		}
		rep.Examined++

		body := trimBody(ex.Body)
		if response.Validate(ex.Status, []byte(body)) == nil {
			continue
		}
		if !gjson.Valid(body) || !gjson.Parse(body).IsObject() {
			rep.Skipped = append(rep.Skipped, Change{Where: ex.Where, Action: response.ErrNotObject.Error()})
			continue
		}

		fixed, action, err := fixBody(ex, gjson.Parse(body))
		if err != nil {
			rep.Skipped = append(rep.Skipped, Change{Where: ex.Where, Action: err.Error()})
			continue
		}
		if err := response.Validate(ex.Status, []byte(fixed)); err != nil {
			rep.Skipped = append(rep.Skipped, Change{
				Where:  ex.Where,
				Action: "cannot repair: " + strings.Join(response.Problems(err), "; "),
			})
			continue
		}
		if err := d.setBody(ex, fixed); err != nil {
			return rep, err
		}
		rep.Fixed = append(rep.Fixed, Change{Where: ex.Where, Action: action})
	}
	return rep, nil
}

func fixBody(ex Example, obj gjson.Result) (string, string, error) {
	code := response.CodeForStatus(ex.Status)
	if obj.Get("code").Exists() {
		body, err := patchEnvelope(ex, obj.Raw, code)
		return body, ActionPatched, err
	}

	switch {
	case code.IsSuccess() && obj.Get("page").Exists() && obj.Get("data").Exists():
		body, err := legacyPagination(ex, obj)
		return body, ActionPagination, err
	case obj.Get("error").Exists():
		msg := nonEmpty(stringValue(obj.Get("error")), code.DefaultMessage())
		body, err := encode(code, msg, nil)
		return body, ActionLegacyError, err
	}

	msg := stringValue(obj.Get("message"))
	if !code.IsSuccess() {
		body, err := encode(code, nonEmpty(msg, code.DefaultMessage()), nil)
		return body, ActionLegacyBody, err
	}

	var data any
	extra := extraKeys(obj)
	switch d := obj.Get("data"); {
	case d.Exists() && d.Type != gjson.Null && len(extra) > 0:
		return "", "", fmt.Errorf("cannot repair: data next to %s", strings.Join(extra, ", "))
	case d.Exists() && d.Type != gjson.Null:
		data = json.RawMessage(d.Raw)
	case len(extra) > 0:
		// {"message": "...", "users": [...]} keeps its payload as data
		raw, err := withoutKeys(obj.Raw, "message", "data")
		if err != nil {
			return "", "", err
		}
		data = json.RawMessage(raw)
	}
	body, err := encode(code, nonEmpty(msg, exampleMessage(ex)), data)
	return body, ActionLegacyBody, err
}

// legacyPagination converts {page, page_size|limit, total_items|total,
// total_pages, data} keeping data as the items value.
func legacyPagination(ex Example, obj gjson.Result) (string, error) {
	items := obj.Get("data")
	count := int64(0)
	if items.IsArray() {
		count = int64(len(items.Array()))
	}
	page := response.Pagination{
		Page:       int(intField(obj, response.DefaultPage, "page")),
		Limit:      int(intField(obj, legacyPageSize, "page_size", "limit")),
		Total:      intField(obj, count, "total_items", "total"),
		TotalPages: int(intField(obj, 1, "total_pages")),
	}
	return encode(response.CodeSuccess, exampleMessage(ex), response.PageData{
		Items:      json.RawMessage(items.Raw),
		Pagination: page,
	})
}

// extraKeys lists the top-level keys that are not envelope fields.
func extraKeys(obj gjson.Result) []string {
	var keys []string
	obj.ForEach(func(k, _ gjson.Result) bool {
		switch k.String() {
		case "code", "message", "data":
		default:
			keys = append(keys, k.String())
		}
		return true
	})
	return keys
}

func withoutKeys(raw string, keys ...string) (string, error) {
	var err error
	for _, k := range keys {
		if raw, err = sjson.Delete(raw, k); err != nil {
			return "", err
		}
	}
	return raw, nil
}

// patchEnvelope edits an envelope-shaped body in place, keeping its formatting.
func patchEnvelope(ex Example, body string, code response.Code) (string, error) {
	var err error
	if cur := gjson.Get(body, "code"); cur.Raw != strconv.Itoa(int(code)) {
		if body, err = sjson.Set(body, "code", int(code)); err != nil {
			return "", err
		}
	}

	if msg := gjson.Get(body, "message"); msg.Type != gjson.String || strings.TrimSpace(msg.String()) == "" {
		text := exampleMessage(ex)
		if !code.IsSuccess() {
			text = code.DefaultMessage()
		}
		if legacy := stringValue(gjson.Get(body, "error")); legacy != "" {
			text = legacy
			if body, err = sjson.Delete(body, "error"); err != nil {
				return "", err
			}
		}
		if body, err = sjson.Set(body, "message", text); err != nil {
			return "", err
		}
	}

	if data := gjson.Get(body, "data"); data.Exists() && (!code.IsSuccess() || data.Type == gjson.Null) {
		if body, err = sjson.Delete(body, "data"); err != nil {
			return "", err
		}
	}
	return body, nil
}

// encode renders a fresh envelope indented with two spaces, without HTML escaping.
func encode(code response.Code, message string, data any) (string, error) {
	env, err := response.NewEnvelope(code, message, data)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func intField(obj gjson.Result, def int64, keys ...string) int64 {
	for _, k := range keys {
		if v := obj.Get(k); v.Type == gjson.Number {
			return v.Int()
		}
	}
	return def
}

func stringValue(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return strings.TrimSpace(r.String())
	case gjson.Null:
		return ""
	}
	if r.Exists() {
		return r.Raw
	}
	return ""
}

func exampleMessage(ex Example) string {
	return nonEmpty(strings.TrimSpace(ex.Name), fallbackSuccessMessage)
}

func nonEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
