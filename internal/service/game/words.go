package game

import (
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// LoadWordList 按类别读取词库文件（<dir>/<类别小写>.json，内容为字符串数组）。
// 读取或解析失败时返回空词库，开局会因此拿不到候选词，重新开局即可重试
func LoadWordList(dir, category string) []string {
	path := filepath.Join(dir, strings.ToLower(category)+".json")

	zap.S().Debugf("加载词库文件 %s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn(
			"读取词库文件失败",
			zap.String("path", path),
			zap.Error(err),
		)
		return []string{}
	}

	var words []string

	if err := json.Unmarshal(raw, &words); err != nil {
		zap.L().Warn(
			"解析词库文件失败",
			zap.String("path", path),
			zap.Error(err),
		)
		return []string{}
	}

	return words
}

// GetNbRandomWords 从词库中抽取 nb 个互不相同的词；
// 去重后的词数不足 nb 时拒绝抽取，返回空切片
func GetNbRandomWords(words []string, nb int) []string {
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}

	if len(distinct) < nb {
		return []string{}
	}

	generated := make([]string, 0, nb)
	picked := make(map[string]struct{}, nb)

	for len(generated) < nb {
		word := GetRandomWordFromArray(words)
		if _, ok := picked[word]; ok {
			continue
		}

		picked[word] = struct{}{}
		generated = append(generated, word)
	}

	return generated
}

func GetRandomWordFromArray(words []string) string {
	if len(words) == 0 {
		return "Default"
	}

	return words[rand.IntN(len(words))]
}

// RevealOneLetter 生成掩码词：空格原样保留，其余字符替换为下划线，
// 另外随机揭示恰好一个非空格字符
func RevealOneLetter(word string) string {
	runes := []rune(word)
	masked := make([]rune, len(runes))

	hasLetter := false

	for i, r := range runes {
		if r == ' ' {
			masked[i] = ' '
		} else {
			masked[i] = '_'
			hasLetter = true
		}
	}

	if !hasLetter {
		return string(masked)
	}

	for {
		idx := rand.IntN(len(runes))
		if runes[idx] != ' ' {
			masked[idx] = runes[idx]
			break
		}
	}

	return string(masked)
}
