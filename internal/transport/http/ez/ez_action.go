package ez

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	resp "go-gin-mongo-blog/internal/transport/http/response"
)

// EZ 路由分组的轻封装；cat 不为空时记录路由用于生成文档
type EZ struct {
	g   *gin.RouterGroup
	tag string
	cat *Catalog
}

func New(g *gin.RouterGroup, tag string, cat *Catalog) EZ {
	setupValidator()
	return EZ{g: g, tag: tag, cat: cat}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindAuto  Binder = "auto"  // 按 Content-Type 选择（JSON / multipart）
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PATCH" | "DELETE"
	Path    string // 相对分组路径，"" 表示分组根
	Summary string
	Binder  Binder
	Status  int    // 成功状态码，默认 200；204 时不写 body
	Message string // 成功文案
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	method := strings.ToUpper(a.Method)
	if method == "" {
		method = http.MethodPost
	}

	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			Fail(c, bindError(err))
			return
		}

		// 2) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}

		// 3) 输出
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, resp.OK(out, a.Message))
	}
	e.g.Handle(method, a.Path, h)

	if e.cat != nil {
		e.cat.add(Route{
			Method:  method,
			Path:    joinPath(e.g.BasePath(), a.Path),
			Summary: a.Summary,
			Tag:     e.tag,
			Status:  status,
			Binder:  a.Binder,
			In:      reflect.TypeOf((*I)(nil)).Elem(),
		})
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	case BindAuto:
		return c.ShouldBind(in)
	default: // BindNone: 不绑定
		return nil
	}
}

// ParamID 读取路径上的 ObjectID；格式不对直接 400
func ParamID(c *gin.Context, name, entity string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, BadRequest("Invalid " + entity + " ID format")
	}
	return id, nil
}

func joinPath(base, rel string) string {
	p := strings.TrimRight(base, "/") + rel
	if p == "" {
		return "/"
	}
	return p
}
