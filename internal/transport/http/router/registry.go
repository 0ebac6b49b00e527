package router

import (
	"sync"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-blog/internal/transport/http/ez"
)

// APIModule 模块可选择实现其中一个或两个接口
type APIModule interface {
	MountAPI(root *gin.RouterGroup, cat *ez.Catalog)
}
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Registry 收集要挂载的模块；API / Admin 两个 engine 各取所需。
// 挂载顺序即注册顺序，文档里的路由也按此顺序列出
type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register 统一注册入口：根据类型断言分发到 API/Admin 列表
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.apiMods = append(r.apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.adminMods = append(r.adminMods, m)
	}
}

// MountAllAPI 挂载所有已注册的 API 模块，并把路由记录到 cat
func (r *Registry) MountAllAPI(root *gin.RouterGroup, cat *ez.Catalog) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()
	for _, m := range mods {
		m.MountAPI(root, cat)
	}
}

// MountAllAdmin 在 /admin/v1 上挂载所有已注册的 Admin 模块
func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}
