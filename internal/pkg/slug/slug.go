// Package slug 生成项目的 URL 标识
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make 将任意文本转换为 slug: 小写, 西里尔字母转写, 非字母数字折叠为单个 "-"
func Make(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if t, ok := cyrillic[r]; ok {
			b.WriteString(t)
			continue
		}
		b.WriteRune(r)
	}
	return strings.Trim(nonAlnum.ReplaceAllString(b.String(), "-"), "-")
}

// TakenFunc 判断候选 slug 是否已被占用
type TakenFunc func(candidate string) (bool, error)

// Unique 基于标题生成未被占用的 slug: base, base-1, base-2 ...
// 标题无法生成 slug 时退化为 project-<毫秒时间戳>
func Unique(title string, taken TakenFunc) (string, error) {
	base := Make(title)
	if base == "" {
		return fmt.Sprintf("project-%d", time.Now().UnixMilli()), nil
	}

	candidate := base
	for i := 1; ; i++ {
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
