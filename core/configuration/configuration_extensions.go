package configuration

import (
	"strconv"
)

func GetString(config IConfiguration, key string, defaultValue string) string {
	if value, ok := config.TryGet(key); ok {
		return value
	}
	return defaultValue
}

func GetBool(config IConfiguration, key string, defaultValue bool) bool {
	if value, ok := config.TryGet(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func GetInt(config IConfiguration, key string, defaultValue int) int {
	if value, ok := config.TryGet(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// ToTree 将配置节展开为嵌套的 map，叶子节点为字符串
func ToTree(config IConfiguration) map[string]any {
	tree := make(map[string]any)
	config.GetChildren().Scan(func(section IConfigurationSection) {
		children := section.GetChildren()
		if children.IsEmpty() {
			value, _ := section.GetValue()
			tree[section.GetKey()] = value
			return
		}
		tree[section.GetKey()] = toArrayIfIndexed(ToTree(section))
	})
	return tree
}

func toArrayIfIndexed(tree map[string]any) any {
	arr := make([]any, len(tree))
	for key, value := range tree {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(tree) {
			return tree
		}
		arr[idx] = value
	}
	return arr
}
