package utils

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadName 上传文件落盘名：<unix毫秒>-<原文件名>
func UploadName(now time.Time, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = "upload"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + base
}

// WithSuffix 在扩展名前插入后缀：1700-cat.png -> 1700-cat-ab12cd34.png
func WithSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + suffix + ext
}

// ShortID 8 位随机十六进制串
func ShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
