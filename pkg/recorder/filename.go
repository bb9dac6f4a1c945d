package recorder

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)
)

// SafeFileName 空白替换为下划线，只保留字母数字、下划线与连字符
func SafeFileName(text string) string {
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), "_")
	return unsafeChars.ReplaceAllString(text, "")
}

// ProofFileName 凭证文件名：<单元或租户>_<YYYY-MM-DD_HHMMSS><扩展名>
func ProofFileName(unit, tenant string, ts time.Time, original string) string {
	prefix := SafeFileName(unit)
	if prefix == "" {
		prefix = SafeFileName(tenant)
	}
	if prefix == "" {
		prefix = "UNKNOWN_UNIT"
	}
	return prefix + "_" + ts.Format("2006-01-02_150405") + strings.ToLower(filepath.Ext(original))
}
