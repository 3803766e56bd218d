package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringList はYAMLのリストまたはカンマ区切り文字列のどちらでも
// 受け付けられる文字列リストです
//
//	owners: [alice, bob]
//	owners: "alice, bob"
type StringList []string

// UnmarshalYAML はリスト形式と文字列形式の両方を解釈します
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = SplitList(s, ",")
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if t := strings.TrimSpace(item); t != "" {
				out = append(out, t)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("文字列またはリストを指定してください (line %d)", value.Line)
	}
}

// SplitList は区切り文字で文字列を分割し、空要素を除いてトリムします
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
