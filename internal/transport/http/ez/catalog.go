package ez

import (
	"mime/multipart"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Route 已注册接口的描述
type Route struct {
	Method  string
	Path    string // gin 风格，如 /posts/:id
	Summary string
	Tag     string
	Status  int
	Binder  Binder
	In      reflect.Type
}

// Catalog 记录注册过的路由，用于生成 OpenAPI 文档
type Catalog struct {
	mu     sync.RWMutex
	routes []Route
}

func NewCatalog() *Catalog { return &Catalog{} }

func (c *Catalog) add(r Route) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, r)
}

func (c *Catalog) Routes() []Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Route(nil), c.routes...)
}

var paramRe = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// OpenAPI 生成 OpenAPI 3.0 文档
func (c *Catalog) OpenAPI(title, version string) map[string]any {
	paths := map[string]any{}
	for _, r := range c.Routes() {
		p := paramRe.ReplaceAllString(r.Path, "{$1}")
		item, _ := paths[p].(map[string]any)
		if item == nil {
			item = map[string]any{}
			paths[p] = item
		}
		item[strings.ToLower(r.Method)] = operation(r)
	}
	return map[string]any{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": title, "version": version},
		"paths":   paths,
	}
}

func operation(r Route) map[string]any {
	op := map[string]any{
		"summary":   r.Summary,
		"responses": responses(r),
	}
	if r.Tag != "" {
		op["tags"] = []string{r.Tag}
	}

	var params []map[string]any
	for _, m := range paramRe.FindAllStringSubmatch(r.Path, -1) {
		params = append(params, map[string]any{
			"name": m[1], "in": "path", "required": true,
			"schema": map[string]any{"type": "string", "pattern": "^[0-9a-fA-F]{24}$"},
		})
	}
	if r.Binder == BindQuery {
		for name, prop := range properties(r.In, "form") {
			params = append(params, map[string]any{"name": name, "in": "query", "schema": prop})
		}
	}
	if len(params) > 0 {
		op["parameters"] = params
	}

	switch r.Binder {
	case BindJSON:
		op["requestBody"] = map[string]any{"content": map[string]any{
			"application/json": map[string]any{"schema": schemaOf(r.In, "json")},
		}}
	case BindAuto:
		op["requestBody"] = map[string]any{"content": map[string]any{
			"application/json":    map[string]any{"schema": schemaOf(r.In, "json")},
			"multipart/form-data": map[string]any{"schema": schemaOf(r.In, "form")},
		}}
	}
	return op
}

func responses(r Route) map[string]any {
	out := map[string]any{
		strconv.Itoa(r.Status): map[string]any{"description": http.StatusText(r.Status)},
		"500":                  map[string]any{"description": "Store error"},
	}
	if r.Binder != BindNone || strings.Contains(r.Path, ":") {
		out["400"] = map[string]any{"description": "Validation failed or malformed id"}
	}
	if strings.Contains(r.Path, ":id") {
		out["404"] = map[string]any{"description": "Not found"}
	}
	return out
}

func schemaOf(t reflect.Type, key string) map[string]any {
	if t == nil {
		return map[string]any{"type": "object"}
	}
	if t.Kind() == reflect.Slice {
		return map[string]any{"type": "array", "items": schemaOf(t.Elem(), key)}
	}
	s := map[string]any{"type": "object", "properties": properties(t, key)}
	if req := required(t, key); len(req) > 0 {
		s["required"] = req
	}
	return s
}

func properties(t reflect.Type, key string) map[string]any {
	props := map[string]any{}
	if t == nil || t.Kind() != reflect.Struct {
		return props
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := fieldName(f, key)
		if name == "" {
			continue
		}
		props[name] = typeSchema(f.Type)
	}
	return props
}

func required(t reflect.Type, key string) []string {
	var out []string
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := fieldName(f, key)
		if name == "" {
			continue
		}
		for _, rule := range strings.Split(f.Tag.Get("binding"), ",") {
			if rule == "required" {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func fieldName(f reflect.StructField, key string) string {
	if f.PkgPath != "" {
		return ""
	}
	name, _, _ := strings.Cut(f.Tag.Get(key), ",")
	if name == "-" {
		return ""
	}
	return name
}

func typeSchema(t reflect.Type) map[string]any {
	if t == fileHeaderType {
		return map[string]any{"type": "string", "format": "binary"}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Slice:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	}
	return map[string]any{"type": "string"}
}
