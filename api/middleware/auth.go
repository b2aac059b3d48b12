/*
 * @module api/middleware/auth
 * @description 认证中间件，调用外部认证服务验证Token并注入用户信息
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference docs/api_design.md
 * @stateFlow Token提取 -> Token验证 -> 上下文注入 -> 下一个处理器
 * @rules 统一鉴权、安全验证、错误处理；未配置AUTH_SERVICE_URL时鉴权关闭
 * @dependencies net/http, encoding/json, strings, context
 * @refs api/routes.go
 */

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
)

// ContextKey 上下文键类型
type ContextKey string

// UserInfoKey 用户信息在上下文中的键
const UserInfoKey ContextKey = "user_info"

// AdminRole 允许修改实体模式的角色
const AdminRole = "admin"

// UserInfo 用户信息结构
type UserInfo struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// AuthMiddleware 认证中间件，通过认证服务的 /me 接口验证Token
type AuthMiddleware struct {
	authServiceURL string
	httpClient     *http.Client
	// Token验证结果缓存
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
	cacheTTL   time.Duration
	// 白名单路径（不需要鉴权）
	whitelistPaths []string
}

// cacheEntry 缓存条目
type cacheEntry struct {
	userInfo  *UserInfo
	expiresAt time.Time
}

// NewAuthMiddleware 创建认证中间件实例，AUTH_SERVICE_URL未配置时鉴权关闭
// 鉴权启用时后台定期清理过期的Token缓存
func NewAuthMiddleware() *AuthMiddleware {
	m := &AuthMiddleware{
		authServiceURL: os.Getenv("AUTH_SERVICE_URL"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    make(map[string]*cacheEntry),
		cacheTTL: 5 * time.Minute,
		whitelistPaths: []string{
			"/health",  // 健康检查
			"/ready",   // 就绪检查
			"/swagger", // Swagger文档
			"/metrics", // Prometheus指标
		},
	}
	if m.Enabled() {
		go m.sweepCache()
	}
	return m
}

// sweepCache 按缓存TTL的节奏定期清理过期的Token缓存条目
func (m *AuthMiddleware) sweepCache() {
	ticker := time.NewTicker(m.cacheTTL)
	defer ticker.Stop()

	for range ticker.C {
		if cleared := m.ClearExpiredCache(); cleared > 0 {
			slog.Debug("已清理过期Token缓存", "cleared", cleared)
		}
	}
}

// Enabled 鉴权是否启用
func (m *AuthMiddleware) Enabled() bool {
	return m.authServiceURL != ""
}

// IsWhitelistPath 检查路径是否在白名单中
func (m *AuthMiddleware) IsWhitelistPath(path string) bool {
	for _, whitelistPath := range m.whitelistPaths {
		// 支持前缀匹配
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// Middleware 认证中间件处理函数
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 鉴权未配置时直接放行
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		// 检查是否在白名单中
		if m.IsWhitelistPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// 从Authorization头中提取Token
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondUnauthorized(w, r, "缺少Authorization头")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.respondUnauthorized(w, r, "无效的Authorization格式，需要Bearer Token")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			m.respondUnauthorized(w, r, "Token为空")
			return
		}

		// 先检查缓存
		if userInfo := m.getFromCache(token); userInfo != nil {
			ctx := context.WithValue(r.Context(), UserInfoKey, userInfo)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// 调用认证服务验证Token
		userInfo, err := m.verifyToken(token)
		if err != nil {
			m.respondUnauthorized(w, r, fmt.Sprintf("Token验证失败: %v", err))
			return
		}

		m.saveToCache(token, userInfo)

		ctx := context.WithValue(r.Context(), UserInfoKey, userInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyToken 调用认证服务的 /me 接口验证Token
func (m *AuthMiddleware) verifyToken(token string) (*UserInfo, error) {
	req, err := http.NewRequest("GET", m.authServiceURL+"/api/v1/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("创建验证请求失败: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("验证请求失败: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取验证响应失败: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("验证请求失败，状态码: %d, 响应: %s", resp.StatusCode, string(respBody))
	}

	var userInfo UserInfo
	if err := json.Unmarshal(respBody, &userInfo); err != nil {
		return nil, fmt.Errorf("解析验证响应失败: %v, 响应: %s", err, string(respBody))
	}

	if !userInfo.IsActive {
		return nil, fmt.Errorf("用户 '%s' 已被禁用", userInfo.Email)
	}

	return &userInfo, nil
}

// getFromCache 从缓存中获取用户信息
func (m *AuthMiddleware) getFromCache(token string) *UserInfo {
	m.cacheMutex.RLock()
	defer m.cacheMutex.RUnlock()

	entry, exists := m.cache[token]
	if !exists {
		return nil
	}

	// 检查是否过期
	if time.Now().After(entry.expiresAt) {
		// 异步删除过期缓存
		go m.removeFromCache(token)
		return nil
	}

	return entry.userInfo
}

// saveToCache 保存用户信息到缓存
func (m *AuthMiddleware) saveToCache(token string, userInfo *UserInfo) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	m.cache[token] = &cacheEntry{
		userInfo:  userInfo,
		expiresAt: time.Now().Add(m.cacheTTL),
	}
}

// removeFromCache 从缓存中删除Token
func (m *AuthMiddleware) removeFromCache(token string) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	delete(m.cache, token)
}

// ClearExpiredCache 清理过期缓存，返回清理的条目数
func (m *AuthMiddleware) ClearExpiredCache() int {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	now := time.Now()
	clearedCount := 0

	for token, entry := range m.cache {
		if now.After(entry.expiresAt) {
			delete(m.cache, token)
			clearedCount++
		}
	}

	return clearedCount
}

// respondUnauthorized 返回401未授权响应
func (m *AuthMiddleware) respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"error":   "Unauthorized",
	})
}

// GetUserInfoFromContext 从上下文中获取用户信息
func GetUserInfoFromContext(ctx context.Context) (*UserInfo, bool) {
	userInfo, ok := ctx.Value(UserInfoKey).(*UserInfo)
	return userInfo, ok
}

// RequireRole 创建一个需要特定角色的中间件，鉴权关闭时直接放行
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			userInfo, ok := GetUserInfoFromContext(r.Context())
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, map[string]interface{}{
					"status":  http.StatusUnauthorized,
					"message": "未找到用户信息",
					"error":   "Unauthorized",
				})
				return
			}

			if userInfo.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, map[string]interface{}{
					"status":  http.StatusForbidden,
					"message": fmt.Sprintf("缺少所需角色: %s", role),
					"error":   "Forbidden",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
