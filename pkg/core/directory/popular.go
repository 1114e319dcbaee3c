package directory

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// DefaultCuratedNames is the built-in popular-company list, in display order.
// A resources/popular_companies.hjson file with the same shape overrides it.
var DefaultCuratedNames = []string{
	"삼성전자", "SK하이닉스", "NAVER", "카카오", "LG에너지솔루션",
	"LG화학", "현대자동차", "기아", "POSCO홀딩스", "KB금융",
	"셀트리온", "삼성바이오로직스", "한국전력", "삼성물산", "LG전자",
	"현대모비스", "SK텔레콤", "KT&G", "아모레퍼시픽", "하나금융지주",
}

// curatedFile is the resource file shape. Hjson so the curated data can carry
// comments next to each entry.
type curatedFile struct {
	Names []string `json:"names"`
}

// LoadCuratedNames reads the curated popular-company list from an hjson
// resource file.
func LoadCuratedNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curated list: %w", err)
	}
	var f curatedFile
	if err := hjson.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse curated list: %w", err)
	}
	if len(f.Names) == 0 {
		return nil, fmt.Errorf("curated list %s is empty", path)
	}
	return f.Names, nil
}
